package input

import (
	"github.com/achilleasa/glint/types"
)

// Default shadow ray epsilon for scenes that do not define one.
const DefaultShadowRayEpsilon float32 = 1e-3

// A material as defined in the scene file.
type Material struct {
	// The 1-based id from the scene file.
	Id int

	IsMirror bool

	Ambient  types.Vec3
	Diffuse  types.Vec3
	Specular types.Vec3
	Mirror   types.Vec3

	PhongExponent float32

	// True if material is referenced by scene geometry.
	Used bool
}

// A face referencing three 1-based vertex ids.
type Face [3]int

// A mesh is constructed by a list of faces sharing a material.
type Mesh struct {
	Id         int
	MaterialId int
	Faces      []Face
}

// A standalone triangle.
type Triangle struct {
	Id         int
	MaterialId int
	Indices    Face
}

// A sphere whose center is given by a 1-based vertex id.
type Sphere struct {
	Id           int
	MaterialId   int
	CenterVertex int
	Radius       float32
}

// Camera settings.
type Camera struct {
	Id int

	Position types.Vec3
	Gaze     types.Vec3
	Up       types.Vec3

	// Near plane extents: left, right, bottom, top.
	NearPlane    [4]float32
	NearDistance float32

	Width     uint32
	Height    uint32
	ImageName string
}

// A point light.
type PointLight struct {
	Id        int
	Position  types.Vec3
	Intensity types.Vec3
}

// The scene contains all elements parsed by a scene reader before they are
// validated and flattened by the scene compiler. All ids are 1-based.
type Scene struct {
	BackgroundColor   types.Vec3
	ShadowRayEpsilon  float32
	MaxRecursionDepth int

	AmbientLight types.Vec3
	PointLights  []*PointLight

	Cameras   []*Camera
	Materials []*Material

	Vertices  []types.Vec3
	Meshes    []*Mesh
	Triangles []*Triangle
	Spheres   []*Sphere
}

// Create a new scene.
func NewScene() *Scene {
	return &Scene{
		ShadowRayEpsilon: DefaultShadowRayEpsilon,
		PointLights:      make([]*PointLight, 0),
		Cameras:          make([]*Camera, 0),
		Materials:        make([]*Material, 0),
		Vertices:         make([]types.Vec3, 0),
		Meshes:           make([]*Mesh, 0),
		Triangles:        make([]*Triangle, 0),
		Spheres:          make([]*Sphere, 0),
	}
}

// Count the triangles defined by meshes and standalone triangles.
func (sc *Scene) TriangleCount() int {
	count := len(sc.Triangles)
	for _, mesh := range sc.Meshes {
		count += len(mesh.Faces)
	}
	return count
}
