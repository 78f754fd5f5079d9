package bvh

import (
	"github.com/achilleasa/glint/types"
	"github.com/chewxy/math32"
)

// An axis-aligned bounding box.
type Box struct {
	Min types.Vec3
	Max types.Vec3
}

// Create an empty box. Its min corner is larger than its max corner so that
// the union of an empty box and any other box B is B.
func EmptyBox() Box {
	return Box{
		Min: types.Vec3{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32},
		Max: types.Vec3{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32},
	}
}

// Create a box from a [min, max] pair.
func BoxFromBounds(bounds [2]types.Vec3) Box {
	return Box{Min: bounds[0], Max: bounds[1]}
}

// Returns true if the box does not enclose any point.
func (b Box) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Get the smallest box enclosing both boxes.
func (b Box) Union(other Box) Box {
	return Box{
		Min: types.MinVec3(b.Min, other.Min),
		Max: types.MaxVec3(b.Max, other.Max),
	}
}

// Get the smallest box enclosing b and point p.
func (b Box) Extend(p types.Vec3) Box {
	return Box{
		Min: types.MinVec3(b.Min, p),
		Max: types.MaxVec3(b.Max, p),
	}
}

// Returns true if other lies entirely inside b. An empty box is contained
// by any box.
func (b Box) Contains(other Box) bool {
	if other.IsEmpty() {
		return true
	}
	for axis := 0; axis < 3; axis++ {
		if other.Min[axis] < b.Min[axis] || other.Max[axis] > b.Max[axis] {
			return false
		}
	}
	return true
}

// Get box center.
func (b Box) Center() types.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Test whether the ray's supporting line overlaps the box using the slab
// method. For each axis the entry and exit parameters are ordered according
// to the sign of the direction component; an axis with a zero direction
// component never constrains the interval. The interval is not clipped to
// the ray's valid segment so this is a coarse test only.
//
// Rays with a zero direction vector never intersect.
func (b Box) IntersectRay(r types.Ray) bool {
	if r.IsDegenerate() {
		return false
	}

	tEnter := math32.Inf(-1)
	tExit := math32.Inf(1)
	for axis := 0; axis < 3; axis++ {
		dir := r.Dir[axis]
		if dir == 0 {
			continue
		}

		t0 := (b.Min[axis] - r.Origin[axis]) / dir
		t1 := (b.Max[axis] - r.Origin[axis]) / dir
		if dir < 0 {
			t0, t1 = t1, t0
		}

		if t0 > tEnter {
			tEnter = t0
		}
		if t1 < tExit {
			tExit = t1
		}
	}

	return tEnter <= tExit
}
