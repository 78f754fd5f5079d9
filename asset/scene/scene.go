package scene

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/achilleasa/glint/types"
	"github.com/olekukonko/tablewriter"
)

// A point light source.
type PointLight struct {
	Position  types.Vec3
	Intensity types.Vec3
}

// A Blinn-Phong material with an optional perfect mirror component.
type Material struct {
	// True if the surface spawns mirror reflection rays.
	IsMirror bool

	// Reflectance coefficients.
	Ambient  types.Vec3
	Diffuse  types.Vec3
	Specular types.Vec3
	Mirror   types.Vec3

	// Specular highlight exponent.
	PhongExponent float32
}

// The Scene contains all data consumed by the tracer. Once a scene has been
// compiled its primitive lists must be treated as read-only; BVH trees store
// indices into them and expect them to outlive the tree.
type Scene struct {
	BackgroundColor   types.Vec3
	AmbientLight      types.Vec3
	ShadowRayEpsilon  float32
	MaxRecursionDepth int

	Cameras     []*Camera
	PointLights []PointLight
	Materials   []Material

	// Primitives are stored by value; everything else refers to them by index.
	Triangles []Triangle
	Spheres   []Sphere
}

// The name of the gob-encoded scene entry inside compiled scene archives.
const CompiledDataFile = "scene.bin"

// The current compiled scene format version. It must be bumped whenever the
// layout of Scene or any type it embeds changes.
const CompiledFormatVersion uint32 = 1

// The header written in front of a compiled scene.
type CompiledHeader struct {
	Version uint32
}

// Lookup material by its index. Material indices are validated when the
// scene is compiled so an out of range index is a programming error.
func (sc *Scene) Material(index int) *Material {
	return &sc.Materials[index]
}

// Check that all material references are in range and that all cameras are
// valid. Scenes produced by the scene compiler always pass this check.
func (sc *Scene) Validate() error {
	if sc.MaxRecursionDepth < 0 {
		return fmt.Errorf("scene: invalid max recursion depth %d", sc.MaxRecursionDepth)
	}
	if len(sc.Cameras) == 0 {
		return fmt.Errorf("scene: no cameras defined")
	}
	for index, cam := range sc.Cameras {
		if cam == nil {
			return fmt.Errorf("scene: camera %d is not defined", index)
		}
		if err := cam.Validate(); err != nil {
			return fmt.Errorf("scene: camera %d: %s", index, err.Error())
		}
	}
	for index := range sc.Triangles {
		if mat := sc.Triangles[index].Material; mat < 0 || mat >= len(sc.Materials) {
			return fmt.Errorf("scene: triangle %d references material %d; scene defines %d materials", index, mat, len(sc.Materials))
		}
	}
	for index := range sc.Spheres {
		if mat := sc.Spheres[index].Material; mat < 0 || mat >= len(sc.Materials) {
			return fmt.Errorf("scene: sphere %d references material %d; scene defines %d materials", index, mat, len(sc.Materials))
		}
	}
	return nil
}

// Build a tabular representation of scene statistics.
func (sc *Scene) Stats() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Asset Type", "Asset", "Count", "Size"})
	table.Append([]string{"Geometry", "---", fmt.Sprint(len(sc.Triangles) + len(sc.Spheres)), fmtSize(sc.Triangles, sc.Spheres)})
	table.Append([]string{"", "Triangles", fmt.Sprint(len(sc.Triangles)), fmtSize(sc.Triangles)})
	table.Append([]string{"", "Spheres", fmt.Sprint(len(sc.Spheres)), fmtSize(sc.Spheres)})
	table.Append([]string{" ", " ", " ", " "})
	table.Append([]string{"Shading", "---", fmt.Sprint(len(sc.Materials) + len(sc.PointLights)), fmtSize(sc.Materials, sc.PointLights)})
	table.Append([]string{"", "Materials", fmt.Sprint(len(sc.Materials)), fmtSize(sc.Materials)})
	table.Append([]string{"", "Point lights", fmt.Sprint(len(sc.PointLights)), fmtSize(sc.PointLights)})
	table.Append([]string{" ", " ", " ", " "})
	table.Append([]string{"Cameras", "---", fmt.Sprint(len(sc.Cameras)), fmtSize(sc.Cameras)})
	for _, cam := range sc.Cameras {
		table.Append([]string{"", cam.ImageName, fmt.Sprintf("%dx%d", cam.Width, cam.Height), ""})
	}
	table.SetFooter([]string{"Total", " ", " ", strings.TrimLeft(fmtSize(sc.Triangles, sc.Spheres, sc.Materials, sc.PointLights, sc.Cameras), " ")})

	table.Render()
	return buf.String()
}

// Sum the total space used by a set of slices and return back a formatted
// value with the appropriate byte/kb/mb unit.
func fmtSize(items ...interface{}) string {
	var totalBytes float32 = 0.0
	for _, item := range items {
		t := reflect.TypeOf(item)
		v := reflect.ValueOf(item)
		if v.Len() == 0 {
			continue
		}

		totalBytes += float32(int(t.Elem().Size()) * v.Len())
	}

	if totalBytes < 1e3 {
		return fmt.Sprintf("%3d bytes", int(totalBytes))
	} else if totalBytes < 1e6 {
		return fmt.Sprintf("%3.1f kb", totalBytes/1e3)
	}
	return fmt.Sprintf("%5.1f mb", totalBytes/1e6)
}
