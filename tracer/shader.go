package tracer

import (
	"github.com/achilleasa/glint/asset/scene"
	"github.com/achilleasa/glint/bvh"
	"github.com/achilleasa/glint/types"
	"github.com/chewxy/math32"
)

// The Shader evaluates ray colors using Blinn-Phong shading with hard shadows
// and perfect mirror reflections. All visibility queries go through the
// scene's BVH tree.
//
// A Shader holds no mutable state and can be shared between goroutines.
type Shader struct {
	scene *scene.Scene
	tree  *bvh.Tree
}

// Create a new shader for a scene and the tree built from its primitives.
func NewShader(sc *scene.Scene, tree *bvh.Tree) *Shader {
	return &Shader{
		scene: sc,
		tree:  tree,
	}
}

// Evaluate the color of a primary ray. The depth argument limits the number
// of mirror bounces; a negative depth yields black.
//
// The returned color is not clamped. Callers must clamp it to the displayable
// range before writing it to a frame.
func (s *Shader) ColorOf(r types.Ray, depth int) types.Vec3 {
	return s.colorOf(r, depth, true)
}

// Evaluate the color of a primary ray against the given tree and scene.
func ColorOf(r types.Ray, tree *bvh.Tree, sc *scene.Scene, depth int) types.Vec3 {
	return NewShader(sc, tree).ColorOf(r, depth)
}

func (s *Shader) colorOf(r types.Ray, depth int, primary bool) types.Vec3 {
	if depth < 0 {
		return types.Vec3{}
	}

	hit := s.tree.Intersect(r, true)
	if !hit.Hit {
		// Only rays leaving the camera see the background
		if primary {
			return s.scene.BackgroundColor
		}
		return types.Vec3{}
	}

	mat := s.scene.Material(hit.Material)
	color := mat.Ambient.MulVec(s.scene.AmbientLight)

	for index := range s.scene.PointLights {
		color = color.Add(s.shadeLight(r, &hit, mat, &s.scene.PointLights[index]))
	}

	if mat.IsMirror {
		reflected := s.colorOf(s.reflectedRay(r, &hit), depth-1, false)
		color = color.Add(reflected.MulVec(mat.Mirror))
	}

	return color
}

// Calculate the diffuse and specular contribution of a point light. Returns
// black if the light is behind the surface or occluded.
func (s *Shader) shadeLight(r types.Ray, hit *bvh.Intersection, mat *scene.Material, light *scene.PointLight) types.Vec3 {
	toLight := light.Position.Sub(hit.Point)
	cosTheta := toLight.Cos(hit.Normal)
	if cosTheta <= 0 {
		return types.Vec3{}
	}

	if s.occluded(hit, light) {
		return types.Vec3{}
	}

	invSqrDist := 1.0 / light.Position.SqrDistance(hit.Point)

	diffuse := mat.Diffuse.MulVec(light.Intensity).Mul(cosTheta * invSqrDist)

	half := toLight.Normalize().Add(r.Dir.Neg().Normalize()).Normalize()
	cosAlpha := half.Cos(hit.Normal)
	if cosAlpha < 0 {
		cosAlpha = 0
	}
	specular := mat.Specular.MulVec(light.Intensity).Mul(math32.Pow(cosAlpha, mat.PhongExponent) * invSqrDist)

	return diffuse.Add(specular)
}

// Cast a shadow ray towards the light. The ray direction spans the distance
// to the light so any hit with t < 1 lies between the surface and the light.
// Backface culling is disabled for shadow rays.
func (s *Shader) occluded(hit *bvh.Intersection, light *scene.PointLight) bool {
	origin := s.offsetOrigin(hit)
	shadowRay := types.NewRay(origin, light.Position.Sub(origin))
	occluder := s.tree.Intersect(shadowRay, false)
	return occluder.Hit && occluder.T < 1
}

// Build the perfect mirror reflection of r about the hit normal.
func (s *Shader) reflectedRay(r types.Ray, hit *bvh.Intersection) types.Ray {
	cosTheta := r.Dir.Neg().Cos(hit.Normal)
	dir := r.Dir.Normalize().Add(hit.Normal.Mul(2 * cosTheta))
	return types.NewRay(s.offsetOrigin(hit), dir)
}

// Offset the hit point along the surface normal to avoid self-intersections.
func (s *Shader) offsetOrigin(hit *bvh.Intersection) types.Vec3 {
	return hit.Point.Add(hit.Normal.Mul(s.scene.ShadowRayEpsilon))
}
