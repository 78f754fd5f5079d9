package reader

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/glint/asset"
	"github.com/achilleasa/glint/asset/compiler"
	"github.com/achilleasa/glint/asset/compiler/input"
	"github.com/achilleasa/glint/asset/scene"
	"github.com/achilleasa/glint/log"
	"github.com/achilleasa/glint/types"
)

// XML document layout. Numeric values are whitespace separated lists.
type xmlScene struct {
	XMLName           xml.Name        `xml:"Scene"`
	BackgroundColor   string          `xml:"BackgroundColor"`
	ShadowRayEpsilon  *string         `xml:"ShadowRayEpsilon"`
	MaxRecursionDepth *string         `xml:"MaxRecursionDepth"`
	Cameras           []xmlCamera     `xml:"Cameras>Camera"`
	AmbientLight      string          `xml:"Lights>AmbientLight"`
	PointLights       []xmlPointLight `xml:"Lights>PointLight"`
	Materials         []xmlMaterial   `xml:"Materials>Material"`
	VertexData        string          `xml:"VertexData"`
	Meshes            []xmlMesh       `xml:"Objects>Mesh"`
	Triangles         []xmlTriangle   `xml:"Objects>Triangle"`
	Spheres           []xmlSphere     `xml:"Objects>Sphere"`
}

type xmlCamera struct {
	Id              int    `xml:"id,attr"`
	Position        string `xml:"Position"`
	Gaze            string `xml:"Gaze"`
	Up              string `xml:"Up"`
	NearPlane       string `xml:"NearPlane"`
	NearDistance    string `xml:"NearDistance"`
	ImageResolution string `xml:"ImageResolution"`
	ImageName       string `xml:"ImageName"`
}

type xmlPointLight struct {
	Id        int    `xml:"id,attr"`
	Position  string `xml:"Position"`
	Intensity string `xml:"Intensity"`
}

type xmlMaterial struct {
	Id                  int    `xml:"id,attr"`
	Type                string `xml:"type,attr"`
	AmbientReflectance  string `xml:"AmbientReflectance"`
	DiffuseReflectance  string `xml:"DiffuseReflectance"`
	SpecularReflectance string `xml:"SpecularReflectance"`
	MirrorReflectance   string `xml:"MirrorReflectance"`
	PhongExponent       string `xml:"PhongExponent"`
}

type xmlMesh struct {
	Id       int    `xml:"id,attr"`
	Material string `xml:"Material"`
	Faces    string `xml:"Faces"`
}

type xmlTriangle struct {
	Id       int    `xml:"id,attr"`
	Material string `xml:"Material"`
	Indices  string `xml:"Indices"`
}

type xmlSphere struct {
	Id       int    `xml:"id,attr"`
	Material string `xml:"Material"`
	Center   string `xml:"Center"`
	Radius   string `xml:"Radius"`
}

type xmlSceneReader struct {
	logger log.Logger

	// The resource being parsed; used for error messages.
	res *asset.Resource
}

// Create a new xml scene reader.
func newXmlSceneReader() *xmlSceneReader {
	return &xmlSceneReader{
		logger: log.New("xml reader"),
	}
}

// Read scene definition from an xml resource and compile it.
func (r *xmlSceneReader) Read(sceneRes *asset.Resource) (*scene.Scene, error) {
	r.logger.Noticef(`parsing scene from "%s"`, sceneRes.Path())
	start := time.Now()
	r.res = sceneRes

	var doc xmlScene
	if err := xml.NewDecoder(sceneRes).Decode(&doc); err != nil {
		return nil, r.emitError("", "could not decode xml: %s", err.Error())
	}

	parsedScene, err := r.convert(&doc)
	if err != nil {
		return nil, err
	}

	r.logger.Noticef("parsed scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return compiler.Compile(parsedScene)
}

// Convert the decoded document into the raw scene representation consumed
// by the scene compiler.
func (r *xmlSceneReader) convert(doc *xmlScene) (*input.Scene, error) {
	sc := input.NewScene()

	var err error
	if sc.BackgroundColor, err = r.parseVec3("BackgroundColor", doc.BackgroundColor, true); err != nil {
		return nil, err
	}
	if doc.ShadowRayEpsilon != nil {
		if sc.ShadowRayEpsilon, err = r.parseFloat("ShadowRayEpsilon", *doc.ShadowRayEpsilon); err != nil {
			return nil, err
		}
	}
	if doc.MaxRecursionDepth != nil {
		if sc.MaxRecursionDepth, err = r.parseInt("MaxRecursionDepth", *doc.MaxRecursionDepth); err != nil {
			return nil, err
		}
	}
	if sc.AmbientLight, err = r.parseVec3("AmbientLight", doc.AmbientLight, true); err != nil {
		return nil, err
	}

	for _, xc := range doc.Cameras {
		cam, err := r.convertCamera(&xc)
		if err != nil {
			return nil, err
		}
		sc.Cameras = append(sc.Cameras, cam)
	}

	for _, xl := range doc.PointLights {
		pl := &input.PointLight{Id: xl.Id}
		section := fmt.Sprintf("PointLight %d", xl.Id)
		if pl.Position, err = r.parseVec3(section+" Position", xl.Position, false); err != nil {
			return nil, err
		}
		if pl.Intensity, err = r.parseVec3(section+" Intensity", xl.Intensity, false); err != nil {
			return nil, err
		}
		sc.PointLights = append(sc.PointLights, pl)
	}

	for _, xm := range doc.Materials {
		mat, err := r.convertMaterial(&xm)
		if err != nil {
			return nil, err
		}
		sc.Materials = append(sc.Materials, mat)
	}

	coords, err := r.parseFloats("VertexData", doc.VertexData)
	if err != nil {
		return nil, err
	}
	if len(coords)%3 != 0 {
		return nil, r.emitError("VertexData", "expected a multiple of 3 coordinates; got %d", len(coords))
	}
	for i := 0; i < len(coords); i += 3 {
		sc.Vertices = append(sc.Vertices, types.XYZ(coords[i], coords[i+1], coords[i+2]))
	}

	for _, xm := range doc.Meshes {
		section := fmt.Sprintf("Mesh %d", xm.Id)
		mesh := &input.Mesh{Id: xm.Id}
		if mesh.MaterialId, err = r.parseInt(section+" Material", xm.Material); err != nil {
			return nil, err
		}
		ids, err := r.parseInts(section+" Faces", xm.Faces)
		if err != nil {
			return nil, err
		}
		if len(ids)%3 != 0 {
			return nil, r.emitError(section+" Faces", "expected a multiple of 3 vertex ids; got %d", len(ids))
		}
		for i := 0; i < len(ids); i += 3 {
			mesh.Faces = append(mesh.Faces, input.Face{ids[i], ids[i+1], ids[i+2]})
		}
		sc.Meshes = append(sc.Meshes, mesh)
	}

	for _, xt := range doc.Triangles {
		section := fmt.Sprintf("Triangle %d", xt.Id)
		tri := &input.Triangle{Id: xt.Id}
		if tri.MaterialId, err = r.parseInt(section+" Material", xt.Material); err != nil {
			return nil, err
		}
		ids, err := r.parseInts(section+" Indices", xt.Indices)
		if err != nil {
			return nil, err
		}
		if len(ids) != 3 {
			return nil, r.emitError(section+" Indices", "expected 3 vertex ids; got %d", len(ids))
		}
		tri.Indices = input.Face{ids[0], ids[1], ids[2]}
		sc.Triangles = append(sc.Triangles, tri)
	}

	for _, xs := range doc.Spheres {
		section := fmt.Sprintf("Sphere %d", xs.Id)
		sphere := &input.Sphere{Id: xs.Id}
		if sphere.MaterialId, err = r.parseInt(section+" Material", xs.Material); err != nil {
			return nil, err
		}
		if sphere.CenterVertex, err = r.parseInt(section+" Center", xs.Center); err != nil {
			return nil, err
		}
		if sphere.Radius, err = r.parseFloat(section+" Radius", xs.Radius); err != nil {
			return nil, err
		}
		sc.Spheres = append(sc.Spheres, sphere)
	}

	return sc, nil
}

func (r *xmlSceneReader) convertCamera(xc *xmlCamera) (*input.Camera, error) {
	section := fmt.Sprintf("Camera %d", xc.Id)
	cam := &input.Camera{Id: xc.Id, ImageName: strings.TrimSpace(xc.ImageName)}

	var err error
	if cam.Position, err = r.parseVec3(section+" Position", xc.Position, false); err != nil {
		return nil, err
	}
	if cam.Gaze, err = r.parseVec3(section+" Gaze", xc.Gaze, false); err != nil {
		return nil, err
	}
	if cam.Up, err = r.parseVec3(section+" Up", xc.Up, false); err != nil {
		return nil, err
	}

	plane, err := r.parseFloats(section+" NearPlane", xc.NearPlane)
	if err != nil {
		return nil, err
	}
	if len(plane) != 4 {
		return nil, r.emitError(section+" NearPlane", "expected 4 values; got %d", len(plane))
	}
	copy(cam.NearPlane[:], plane)

	if cam.NearDistance, err = r.parseFloat(section+" NearDistance", xc.NearDistance); err != nil {
		return nil, err
	}

	res, err := r.parseInts(section+" ImageResolution", xc.ImageResolution)
	if err != nil {
		return nil, err
	}
	if len(res) != 2 || res[0] <= 0 || res[1] <= 0 {
		return nil, r.emitError(section+" ImageResolution", "expected 2 positive values; got %v", res)
	}
	cam.Width, cam.Height = uint32(res[0]), uint32(res[1])

	return cam, nil
}

func (r *xmlSceneReader) convertMaterial(xm *xmlMaterial) (*input.Material, error) {
	section := fmt.Sprintf("Material %d", xm.Id)
	mat := &input.Material{
		Id:       xm.Id,
		IsMirror: strings.EqualFold(strings.TrimSpace(xm.Type), "mirror"),
	}

	var err error
	if mat.Ambient, err = r.parseVec3(section+" AmbientReflectance", xm.AmbientReflectance, true); err != nil {
		return nil, err
	}
	if mat.Diffuse, err = r.parseVec3(section+" DiffuseReflectance", xm.DiffuseReflectance, true); err != nil {
		return nil, err
	}
	if mat.Specular, err = r.parseVec3(section+" SpecularReflectance", xm.SpecularReflectance, true); err != nil {
		return nil, err
	}
	if mat.Mirror, err = r.parseVec3(section+" MirrorReflectance", xm.MirrorReflectance, true); err != nil {
		return nil, err
	}
	if strings.TrimSpace(xm.PhongExponent) != "" {
		if mat.PhongExponent, err = r.parseFloat(section+" PhongExponent", xm.PhongExponent); err != nil {
			return nil, err
		}
	}

	// Older scene files mark mirrors only through a non-zero reflectance
	if xm.Type == "" && !mat.Mirror.IsZero() {
		mat.IsMirror = true
	}

	return mat, nil
}

func (r *xmlSceneReader) parseFloats(section, value string) ([]float32, error) {
	fields := strings.Fields(value)
	out := make([]float32, len(fields))
	for index, field := range fields {
		v, err := strconv.ParseFloat(field, 32)
		if err != nil {
			return nil, r.emitError(section, "invalid number %q", field)
		}
		out[index] = float32(v)
	}
	return out, nil
}

func (r *xmlSceneReader) parseInts(section, value string) ([]int, error) {
	fields := strings.Fields(value)
	out := make([]int, len(fields))
	for index, field := range fields {
		v, err := strconv.Atoi(field)
		if err != nil {
			return nil, r.emitError(section, "invalid integer %q", field)
		}
		out[index] = v
	}
	return out, nil
}

func (r *xmlSceneReader) parseFloat(section, value string) (float32, error) {
	values, err := r.parseFloats(section, value)
	if err != nil {
		return 0, err
	}
	if len(values) != 1 {
		return 0, r.emitError(section, "expected 1 value; got %d", len(values))
	}
	return values[0], nil
}

func (r *xmlSceneReader) parseInt(section, value string) (int, error) {
	values, err := r.parseInts(section, value)
	if err != nil {
		return 0, err
	}
	if len(values) != 1 {
		return 0, r.emitError(section, "expected 1 value; got %d", len(values))
	}
	return values[0], nil
}

// Parse a 3-component vector. If optional is true an empty value yields the
// zero vector.
func (r *xmlSceneReader) parseVec3(section, value string, optional bool) (types.Vec3, error) {
	if optional && strings.TrimSpace(value) == "" {
		return types.Vec3{}, nil
	}

	values, err := r.parseFloats(section, value)
	if err != nil {
		return types.Vec3{}, err
	}
	if len(values) != 3 {
		return types.Vec3{}, r.emitError(section, "expected 3 values; got %d", len(values))
	}
	return types.XYZ(values[0], values[1], values[2]), nil
}

// Generate an error message that includes the resource path and the
// document section being parsed.
func (r *xmlSceneReader) emitError(section, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)
	if section == "" {
		return fmt.Errorf("%s: %s", r.res.Path(), msg)
	}
	return fmt.Errorf("%s [%s]: %s", r.res.Path(), section, msg)
}
