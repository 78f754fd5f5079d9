package compiler

import (
	"strings"
	"testing"

	"github.com/achilleasa/glint/asset/compiler/input"
	"github.com/achilleasa/glint/types"
)

func rawScene() *input.Scene {
	sc := input.NewScene()
	sc.BackgroundColor = types.XYZ(0, 0, 0)
	sc.AmbientLight = types.XYZ(25, 25, 25)
	sc.MaxRecursionDepth = 2
	sc.Cameras = append(sc.Cameras, &input.Camera{
		Id:           1,
		Gaze:         types.XYZ(0, 0, -1),
		Up:           types.XYZ(0, 1, 0),
		NearPlane:    [4]float32{-1, 1, -1, 1},
		NearDistance: 1,
		Width:        4,
		Height:       4,
		ImageName:    "out.ppm",
	})
	sc.PointLights = append(sc.PointLights, &input.PointLight{Id: 1, Position: types.XYZ(0, 4, 0), Intensity: types.XYZ(100, 100, 100)})
	// Material ids are declared out of order
	sc.Materials = append(sc.Materials,
		&input.Material{Id: 2, Ambient: types.XYZ(0.2, 0.2, 0.2)},
		&input.Material{Id: 1, IsMirror: true, Mirror: types.XYZ(0.5, 0.5, 0.5)},
	)
	sc.Vertices = append(sc.Vertices,
		types.XYZ(-1, -1, -5),
		types.XYZ(1, -1, -5),
		types.XYZ(1, 1, -5),
		types.XYZ(-1, 1, -5),
		types.XYZ(0, 0, -8),
	)
	sc.Meshes = append(sc.Meshes, &input.Mesh{
		Id:         1,
		MaterialId: 2,
		Faces:      []input.Face{{1, 2, 3}, {1, 3, 4}},
	})
	sc.Triangles = append(sc.Triangles, &input.Triangle{Id: 1, MaterialId: 1, Indices: input.Face{4, 3, 5}})
	sc.Spheres = append(sc.Spheres, &input.Sphere{Id: 1, MaterialId: 1, CenterVertex: 5, Radius: 0.5})
	return sc
}

func TestCompile(t *testing.T) {
	raw := rawScene()
	sc, err := Compile(raw)
	if err != nil {
		t.Fatal(err)
	}

	if len(sc.Triangles) != 3 {
		t.Fatalf("expected 3 triangles; got %d", len(sc.Triangles))
	}
	if len(sc.Spheres) != 1 {
		t.Fatalf("expected 1 sphere; got %d", len(sc.Spheres))
	}
	if sc.MaxRecursionDepth != 2 || sc.ShadowRayEpsilon != input.DefaultShadowRayEpsilon {
		t.Fatalf("expected global settings to be copied; got depth %d, epsilon %f", sc.MaxRecursionDepth, sc.ShadowRayEpsilon)
	}

	type spec struct {
		triIndex    int
		expMaterial int
		expA        types.Vec3
		expC        types.Vec3
	}
	specs := []spec{
		{0, 0, raw.Vertices[0], raw.Vertices[2]},
		{1, 0, raw.Vertices[0], raw.Vertices[3]},
		{2, 1, raw.Vertices[3], raw.Vertices[4]},
	}
	for index, s := range specs {
		tri := sc.Triangles[s.triIndex]
		if tri.Material != s.expMaterial {
			t.Fatalf("[spec %d] expected material index %d; got %d", index, s.expMaterial, tri.Material)
		}
		if tri.A != s.expA || tri.C != s.expC {
			t.Fatalf("[spec %d] expected vertices A=%v C=%v; got A=%v C=%v", index, s.expA, s.expC, tri.A, tri.C)
		}
		if tri.Normal.IsZero() {
			t.Fatalf("[spec %d] expected triangle normal to be precomputed", index)
		}
	}

	if sc.Spheres[0].Origin != raw.Vertices[4] || sc.Spheres[0].Material != 1 {
		t.Fatalf("unexpected sphere %+v", sc.Spheres[0])
	}
	if !sc.Material(1).IsMirror {
		t.Fatal("expected material with id 1 to be compiled as a mirror")
	}
	if len(sc.Cameras) != 1 || sc.Cameras[0].NearPlane.Right != 1 || sc.Cameras[0].ImageName != "out.ppm" {
		t.Fatalf("unexpected camera %v", sc.Cameras[0])
	}
	if len(sc.PointLights) != 1 || sc.PointLights[0].Position != types.XYZ(0, 4, 0) {
		t.Fatalf("unexpected point lights %v", sc.PointLights)
	}

	for _, mat := range raw.Materials {
		if !mat.Used {
			t.Fatalf("expected material %d to be flagged as used", mat.Id)
		}
	}
}

func TestCompileErrors(t *testing.T) {
	type spec struct {
		mutate func(*input.Scene)
		expErr string
	}
	specs := []spec{
		{func(sc *input.Scene) { sc.Meshes[0].MaterialId = 9 }, "compiler: mesh 1 references undefined material 9"},
		{func(sc *input.Scene) { sc.Triangles[0].Indices[2] = 6 }, "compiler: triangle 1 references vertex 6; scene defines 5 vertices"},
		{func(sc *input.Scene) { sc.Meshes[0].Faces[1][0] = 0 }, "compiler: mesh 1 face 1 references vertex 0; scene defines 5 vertices"},
		{func(sc *input.Scene) { sc.Spheres[0].CenterVertex = 42 }, "compiler: sphere 1 references vertex 42"},
		{func(sc *input.Scene) { sc.Spheres[0].Radius = 0 }, "compiler: sphere 1 has invalid radius"},
		{func(sc *input.Scene) { sc.Materials[1].Id = 2 }, "compiler: duplicate material id 2"},
		{func(sc *input.Scene) { sc.Cameras = nil }, "compiler: scene does not define any cameras"},
		{func(sc *input.Scene) { sc.Cameras[0].Width = 0 }, "compiler: camera 1: camera: invalid image resolution"},
		{func(sc *input.Scene) { sc.MaxRecursionDepth = -1 }, "compiler: invalid max recursion depth -1"},
	}

	for index, s := range specs {
		raw := rawScene()
		s.mutate(raw)
		_, err := Compile(raw)
		if err == nil || !strings.HasPrefix(err.Error(), s.expErr) {
			t.Fatalf("[spec %d] expected error with prefix %q; got %v", index, s.expErr, err)
		}
	}
}
