package bvh

import (
	"fmt"

	"github.com/achilleasa/glint/types"
)

// Child index value used for absent children.
const absentChild int32 = -1

// A split axis.
type Axis uint8

const (
	XAxis Axis = iota
	YAxis
	ZAxis
)

// Select the split axis for a tree level. Axes rotate x, y, z with depth.
func AxisForLevel(level int) Axis {
	return Axis(level % 3)
}

func (a Axis) String() string {
	switch a {
	case XAxis:
		return "x"
	case YAxis:
		return "y"
	case ZAxis:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", uint8(a))
}

// The type of primitive referenced by a BVH leaf.
type PrimitiveKind uint8

const (
	TrianglePrimitive PrimitiveKind = iota
	SpherePrimitive
)

// A reference to a scene primitive. Index points into the scene's triangle or
// sphere list depending on Kind.
type PrimitiveRef struct {
	Kind  PrimitiveKind
	Index uint32
}

// The BoundedVolume interface is implemented by all primitives that can be
// partitioned by the bvh builder.
type BoundedVolume interface {
	BBox() [2]types.Vec3
	Center() types.Vec3
}

// A BVH node. Nodes live in a contiguous list owned by the Tree and refer to
// each other by index.
//
// Internal nodes have Count == 0 and at least one of Left/Right set. Leafs
// reference the primitive range [First, First+Count) of the tree's
// primitive reference list.
type Node struct {
	Box   Box
	Level int

	// Child node indices; -1 if absent.
	Left  int32
	Right int32

	First uint32
	Count uint32
}

// Returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.Count > 0
}

// Returns true if the node has a left child.
func (n *Node) HasLeft() bool {
	return n.Left != absentChild
}

// Returns true if the node has a right child.
func (n *Node) HasRight() bool {
	return n.Right != absentChild
}

// The result of a ray query. A miss is represented by NoIntersection whose T
// is -1; always check Hit before comparing T values.
type Intersection struct {
	Hit      bool
	Material int

	// Unit surface normal at the hit point.
	Normal types.Vec3

	// World-space hit point.
	Point types.Vec3

	// Ray parameter at the hit point.
	T float32
}

// The miss sentinel.
var NoIntersection = Intersection{T: -1}

// Return the nearer of two query results. A hit always wins over a miss; if
// both are hits the one with the smaller T wins and ties go to a.
func Nearest(a, b Intersection) Intersection {
	if !b.Hit {
		return a
	}
	if !a.Hit || b.T < a.T {
		return b
	}
	return a
}
