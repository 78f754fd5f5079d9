package bvh

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/glint/asset/scene"
	"github.com/achilleasa/glint/types"
	"github.com/chewxy/math32"
	"github.com/olekukonko/tablewriter"
)

// A bounding volume hierarchy over the triangles and spheres of a scene.
//
// Trees are immutable once built; Intersect never modifies tree state so a
// single tree can be queried concurrently by any number of goroutines.
type Tree struct {
	scene *scene.Scene
	nodes []Node
	refs  []PrimitiveRef
	root  int32
	stats Stats
}

// Find the nearest intersection (smallest t > 0) of the ray with the scene
// geometry. If backfaceCulling is true, triangles facing away from the ray
// are skipped. Returns NoIntersection if the ray hits nothing.
func (t *Tree) Intersect(r types.Ray, backfaceCulling bool) Intersection {
	if t.root == absentChild || r.IsDegenerate() {
		return NoIntersection
	}
	return t.intersectNode(t.root, r, backfaceCulling)
}

func (t *Tree) intersectNode(nodeIndex int32, r types.Ray, backfaceCulling bool) Intersection {
	node := &t.nodes[nodeIndex]
	if !node.Box.IntersectRay(r) {
		return NoIntersection
	}

	if node.IsLeaf() {
		return t.intersectLeaf(node, r, backfaceCulling)
	}

	left, right := NoIntersection, NoIntersection
	if node.HasLeft() {
		left = t.intersectNode(node.Left, r, backfaceCulling)
	}
	if node.HasRight() {
		right = t.intersectNode(node.Right, r, backfaceCulling)
	}
	return Nearest(left, right)
}

func (t *Tree) intersectLeaf(node *Node, r types.Ray, backfaceCulling bool) Intersection {
	var (
		minT    float32 = math32.MaxFloat32
		closest *PrimitiveRef
	)

	for _, ref := range t.refs[node.First : node.First+node.Count] {
		var (
			tVal float32
			ok   bool
		)

		switch ref.Kind {
		case TrianglePrimitive:
			tri := &t.scene.Triangles[ref.Index]
			if backfaceCulling && tri.IsBackFacing(r) {
				continue
			}
			tVal, ok = tri.Intersect(r)
		case SpherePrimitive:
			tVal, ok = t.scene.Spheres[ref.Index].Intersect(r)
		}

		if ok && tVal > 0 && tVal < minT {
			minT = tVal
			ref := ref
			closest = &ref
		}
	}

	if closest == nil {
		return NoIntersection
	}

	point := r.At(minT)
	out := Intersection{Hit: true, Point: point, T: minT}
	switch closest.Kind {
	case TrianglePrimitive:
		tri := &t.scene.Triangles[closest.Index]
		out.Material = tri.Material
		out.Normal = tri.UnitNormal()
	case SpherePrimitive:
		sphere := &t.scene.Spheres[closest.Index]
		out.Material = sphere.Material
		out.Normal = sphere.NormalAt(point)
	}
	return out
}

// Get tree statistics.
func (t *Tree) Stats() Stats {
	return t.stats
}

// Get the index of the root node or -1 if the tree is empty.
func (t *Tree) Root() int32 {
	return t.root
}

// Get the node list. The returned slice must be treated as read-only.
func (t *Tree) Nodes() []Node {
	return t.nodes
}

// Get the primitive references of a leaf node. Returns nil for internal nodes.
func (t *Tree) LeafPrimitives(node *Node) []PrimitiveRef {
	if !node.IsLeaf() {
		return nil
	}
	return t.refs[node.First : node.First+node.Count]
}

// Build a tabular representation of tree statistics.
func (t *Tree) StatsTable() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"BVH", "Value"})
	table.Append([]string{"Triangles", fmt.Sprint(t.stats.Triangles)})
	table.Append([]string{"Spheres", fmt.Sprint(t.stats.Spheres)})
	table.Append([]string{"Nodes", fmt.Sprint(t.stats.Nodes)})
	table.Append([]string{"Leafs", fmt.Sprint(t.stats.Leafs)})
	table.Append([]string{"Max depth", fmt.Sprint(t.stats.MaxDepth)})
	table.SetFooter([]string{"Build time", t.stats.BuildTime.String()})
	table.Render()
	return buf.String()
}
