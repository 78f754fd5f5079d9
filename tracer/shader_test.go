package tracer

import (
	"testing"

	"github.com/achilleasa/glint/asset/scene"
	"github.com/achilleasa/glint/bvh"
	"github.com/achilleasa/glint/types"
	"github.com/chewxy/math32"
)

func approxEqualColor(a, b types.Vec3) bool {
	for i := 0; i < 3; i++ {
		if math32.Abs(a[i]-b[i]) > 1e-3 {
			return false
		}
	}
	return true
}

func mustBuildShader(sc *scene.Scene) *Shader {
	return NewShader(sc, bvh.Build(sc, bvh.DefaultOptions()))
}

func TestAmbientOnlySphere(t *testing.T) {
	sc := &scene.Scene{
		BackgroundColor:  types.XYZ(5, 6, 7),
		AmbientLight:     types.XYZ(100, 50, 20),
		ShadowRayEpsilon: 1e-3,
		Materials: []scene.Material{
			{Ambient: types.XYZ(0.1, 0.2, 0.3), Diffuse: types.XYZ(1, 1, 1), Specular: types.XYZ(1, 1, 1), PhongExponent: 1},
		},
		Spheres: []scene.Sphere{scene.NewSphere(types.XYZ(0, 0, -5), 1, 0)},
		Cameras: []*scene.Camera{
			{
				Gaze:         types.XYZ(0, 0, -1),
				Up:           types.XYZ(0, 1, 0),
				NearPlane:    scene.NearPlane{Left: -1, Right: 1, Bottom: -1, Top: 1},
				NearDistance: 1,
				Width:        3,
				Height:       3,
			},
		},
	}
	tree := bvh.Build(sc, bvh.DefaultOptions())
	shader := NewShader(sc, tree)

	centerRay := sc.Cameras[0].PrimaryRay(1, 1)
	hit := tree.Intersect(centerRay, true)
	if !hit.Hit || math32.Abs(hit.T-4) > 1e-3 {
		t.Fatalf("expected center pixel ray to hit the sphere at t = 4; got %+v", hit)
	}

	expColor := types.XYZ(10, 10, 6)
	if got := shader.ColorOf(centerRay, 0); !approxEqualColor(got, expColor) {
		t.Fatalf("expected center pixel color %v; got %v", expColor, got)
	}
	if got := ColorOf(centerRay, tree, sc, 0); !approxEqualColor(got, expColor) {
		t.Fatalf("expected ColorOf to return %v; got %v", expColor, got)
	}

	// Corner pixels miss the sphere and see the background
	cornerRay := sc.Cameras[0].PrimaryRay(0, 0)
	if got := shader.ColorOf(cornerRay, 0); got != sc.BackgroundColor {
		t.Fatalf("expected corner pixel to be the background color %v; got %v", sc.BackgroundColor, got)
	}
}

func TestNegativeDepthIsBlack(t *testing.T) {
	sc := &scene.Scene{
		BackgroundColor: types.XYZ(5, 6, 7),
		AmbientLight:    types.XYZ(1, 1, 1),
		Materials:       []scene.Material{{Ambient: types.XYZ(1, 1, 1)}},
		Spheres:         []scene.Sphere{scene.NewSphere(types.XYZ(0, 0, -5), 1, 0)},
	}
	shader := mustBuildShader(sc)

	for _, dir := range []types.Vec3{types.XYZ(0, 0, -1), types.XYZ(0, 0, 1)} {
		if got := shader.ColorOf(types.NewRay(types.Vec3{}, dir), -1); got != (types.Vec3{}) {
			t.Fatalf("expected black for negative depth; got %v", got)
		}
	}
}

func TestPointLightShading(t *testing.T) {
	newScene := func(lightPos types.Vec3, occluder bool) *scene.Scene {
		sc := &scene.Scene{
			AmbientLight:     types.XYZ(1, 1, 1),
			ShadowRayEpsilon: 1e-3,
			Materials: []scene.Material{
				{Diffuse: types.XYZ(1, 0.5, 0), Specular: types.XYZ(1, 1, 1), PhongExponent: 10},
			},
			PointLights: []scene.PointLight{
				{Position: lightPos, Intensity: types.XYZ(1000, 1000, 1000)},
			},
			Spheres: []scene.Sphere{scene.NewSphere(types.XYZ(0, 0, -5), 1, 0)},
		}
		if occluder {
			sc.Spheres = append(sc.Spheres, scene.NewSphere(types.XYZ(0, 0, 3), 1, 0))
		}
		return sc
	}

	// Hit point is (0, 0, -4) with normal (0, 0, 1); the light sits 14 units
	// away along the normal so cos = 1 and the half vector equals the normal.
	unoccluded := types.XYZ(1000.0/196+1000.0/196, 500.0/196+1000.0/196, 1000.0/196)

	type spec struct {
		lightPos types.Vec3
		occluder bool
		expColor types.Vec3
	}
	specs := []spec{
		{types.XYZ(0, 0, 10), false, unoccluded},
		{types.XYZ(0, 0, 10), true, types.Vec3{}},
		// Light behind the surface
		{types.XYZ(0, 0, -20), false, types.Vec3{}},
	}

	r := types.NewRay(types.Vec3{}, types.XYZ(0, 0, -1))
	for index, s := range specs {
		shader := mustBuildShader(newScene(s.lightPos, s.occluder))
		if got := shader.ColorOf(r, 0); !approxEqualColor(got, s.expColor) {
			t.Fatalf("[spec %d] expected color %v; got %v", index, s.expColor, got)
		}
	}
}

func TestOccluderBeyondLightDoesNotShadow(t *testing.T) {
	sc := &scene.Scene{
		ShadowRayEpsilon: 1e-3,
		Materials:        []scene.Material{{Diffuse: types.XYZ(1, 1, 1)}},
		PointLights: []scene.PointLight{
			{Position: types.XYZ(0, 0, 0), Intensity: types.XYZ(16, 16, 16)},
		},
		Spheres: []scene.Sphere{
			scene.NewSphere(types.XYZ(0, 0, -5), 1, 0),
			// Lies on the shadow ray's supporting line but past the light
			scene.NewSphere(types.XYZ(0, 0, 5), 1, 0),
		},
	}
	shader := mustBuildShader(sc)

	got := shader.ColorOf(types.NewRay(types.XYZ(0, 0, 0), types.XYZ(0, 0, -1)), 0)
	if !approxEqualColor(got, types.XYZ(1, 1, 1)) {
		t.Fatalf("expected unshadowed diffuse color (1, 1, 1); got %v", got)
	}
}

func TestMirrorRecursion(t *testing.T) {
	sc := &scene.Scene{
		BackgroundColor:  types.XYZ(50, 50, 50),
		AmbientLight:     types.XYZ(1, 1, 1),
		ShadowRayEpsilon: 1e-3,
		Materials: []scene.Material{
			{IsMirror: true, Ambient: types.XYZ(1, 2, 3), Mirror: types.XYZ(0.5, 0.5, 0.5)},
			{Ambient: types.XYZ(10, 10, 10)},
		},
		Spheres: []scene.Sphere{
			scene.NewSphere(types.XYZ(0, 0, -5), 1, 0),
			// Placed behind the camera; only reachable by the reflected ray
			scene.NewSphere(types.XYZ(0, 0, 5), 1, 1),
		},
	}
	shader := mustBuildShader(sc)
	r := types.NewRay(types.Vec3{}, types.XYZ(0, 0, -1))

	type spec struct {
		depth    int
		expColor types.Vec3
	}
	specs := []spec{
		{0, types.XYZ(1, 2, 3)},
		{1, types.XYZ(6, 7, 8)},
		{4, types.XYZ(6, 7, 8)},
	}

	for index, s := range specs {
		if got := shader.ColorOf(r, s.depth); !approxEqualColor(got, s.expColor) {
			t.Fatalf("[spec %d] expected color %v; got %v", index, s.expColor, got)
		}
	}
}

func TestReflectedMissIsBlack(t *testing.T) {
	sc := &scene.Scene{
		BackgroundColor:  types.XYZ(50, 50, 50),
		ShadowRayEpsilon: 1e-3,
		Materials: []scene.Material{
			{IsMirror: true, Mirror: types.XYZ(1, 1, 1)},
		},
		Spheres: []scene.Sphere{scene.NewSphere(types.XYZ(0, 0, -5), 1, 0)},
	}
	shader := mustBuildShader(sc)

	// The reflected ray escapes the scene and must not pick up the background
	got := shader.ColorOf(types.NewRay(types.Vec3{}, types.XYZ(0, 0, -1)), 3)
	if got != (types.Vec3{}) {
		t.Fatalf("expected black for a reflected ray that misses; got %v", got)
	}

	got = shader.ColorOf(types.NewRay(types.Vec3{}, types.XYZ(0, 0, 1)), 3)
	if got != sc.BackgroundColor {
		t.Fatalf("expected primary ray miss to return the background color; got %v", got)
	}
}
