package scene

import (
	"github.com/achilleasa/glint/types"
	"github.com/chewxy/math32"
)

// Tolerance applied to the barycentric coordinate checks so that rays hitting
// a shared edge are not lost due to floating point rounding.
const barycentricEpsilon float32 = 1e-5

// A triangle primitive. Use NewTriangle to create triangles so that the
// normal and centroid are populated.
type Triangle struct {
	A, B, C types.Vec3

	// Unnormalized face normal: (C-B) x (A-B).
	Normal types.Vec3

	Centroid types.Vec3

	Material int
}

// Create a new triangle and precalculate its normal and centroid.
func NewTriangle(a, b, c types.Vec3, material int) Triangle {
	return Triangle{
		A:        a,
		B:        b,
		C:        c,
		Normal:   c.Sub(b).Cross(a.Sub(b)),
		Centroid: a.Add(b).Add(c).Mul(1.0 / 3.0),
		Material: material,
	}
}

// Get the triangle AABB.
func (tri *Triangle) BBox() [2]types.Vec3 {
	return [2]types.Vec3{
		types.MinVec3(tri.A, types.MinVec3(tri.B, tri.C)),
		types.MaxVec3(tri.A, types.MaxVec3(tri.B, tri.C)),
	}
}

// Get the triangle centroid.
func (tri *Triangle) Center() types.Vec3 {
	return tri.Centroid
}

// Get the unit face normal.
func (tri *Triangle) UnitNormal() types.Vec3 {
	return tri.Normal.Normalize()
}

// Returns true if the ray direction points to the same side as the face
// normal, i.e. the ray would hit the back of the triangle.
func (tri *Triangle) IsBackFacing(r types.Ray) bool {
	return r.Dir.Dot(tri.Normal) >= 0
}

// Intersect ray with triangle by solving the linear system
//
//	A + beta(B-A) + gamma(C-A) = o + t*d
//
// with Cramer's rule. The returned t is not range checked; callers must
// reject t <= 0.
func (tri *Triangle) Intersect(r types.Ray) (float32, bool) {
	a := tri.A.Sub(tri.B)
	b := tri.A.Sub(tri.C)
	rhs := tri.A.Sub(r.Origin)

	bxd := b.Cross(r.Dir)
	det := a.Dot(bxd)
	if det == 0 {
		return 0, false
	}

	invDet := 1.0 / det
	beta := rhs.Dot(bxd) * invDet
	gamma := a.Dot(rhs.Cross(r.Dir)) * invDet
	if beta < -barycentricEpsilon || gamma < -barycentricEpsilon || beta+gamma > 1+barycentricEpsilon {
		return 0, false
	}

	return a.Dot(b.Cross(rhs)) * invDet, true
}

// A sphere primitive.
type Sphere struct {
	Origin types.Vec3
	Radius float32

	Material int
}

// Create a new sphere primitive.
func NewSphere(origin types.Vec3, radius float32, material int) Sphere {
	return Sphere{
		Origin:   origin,
		Radius:   radius,
		Material: material,
	}
}

// Get the sphere AABB.
func (s *Sphere) BBox() [2]types.Vec3 {
	ext := types.XYZ(s.Radius, s.Radius, s.Radius)
	return [2]types.Vec3{s.Origin.Sub(ext), s.Origin.Add(ext)}
}

// Get the sphere center.
func (s *Sphere) Center() types.Vec3 {
	return s.Origin
}

// Get the unit surface normal at point p.
func (s *Sphere) NormalAt(p types.Vec3) types.Vec3 {
	return p.Sub(s.Origin).Normalize()
}

// Intersect ray with sphere by solving the quadratic
//
//	(d.d)t^2 + 2(d.(o-c))t + (o-c).(o-c) - r^2 = 0
//
// and returning the nearest root. The ray direction is not assumed to be
// normalized. The returned t is not range checked; callers must reject t <= 0.
func (s *Sphere) Intersect(r types.Ray) (float32, bool) {
	a := r.Dir.Dot(r.Dir)
	if a == 0 {
		return 0, false
	}

	oc := r.Origin.Sub(s.Origin)
	b := r.Dir.Dot(oc)
	disc := b*b - a*(oc.Dot(oc)-s.Radius*s.Radius)
	if disc < 0 {
		return 0, false
	}

	return (-b - math32.Sqrt(disc)) / a, true
}
