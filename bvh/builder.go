package bvh

import (
	"sort"
	"time"

	"github.com/achilleasa/glint/asset/scene"
	"github.com/achilleasa/glint/log"
)

// Build options.
type Options struct {
	// The max number of primitives that a leaf may hold. The builder stops
	// subdividing once a node holds this many primitives or fewer. Values
	// below 1 are treated as 1.
	LeafItems int
}

// Get the default build options (one primitive per leaf).
func DefaultOptions() Options {
	return Options{LeafItems: 1}
}

// Tree build statistics.
type Stats struct {
	Nodes     int
	Leafs     int
	MaxDepth  int
	Triangles int
	Spheres   int
	BuildTime time.Duration
}

type builder struct {
	logger log.Logger
	scene  *scene.Scene

	// Bvh nodes stored as a contiguous list
	nodes []Node

	// Leaf primitive references; each leaf owns a contiguous range.
	refs []PrimitiveRef

	leafItems int

	stats Stats
}

// Construct a BVH for all triangles and spheres in the scene.
//
// The builder computes each node's bounding box from its primitives and, if
// the node holds more than opts.LeafItems primitives, sorts them along an
// axis that rotates with tree depth (x, y, z, x, ...) and splits them at the
// median. Triangles are split at n/2 and spheres at (n+1)/2.
//
// The returned tree borrows the scene's primitive lists. They must not be
// modified while the tree is in use.
func Build(sc *scene.Scene, opts Options) *Tree {
	if opts.LeafItems < 1 {
		opts.LeafItems = 1
	}

	b := &builder{
		logger:    log.New("bvh builder"),
		scene:     sc,
		nodes:     make([]Node, 0),
		refs:      make([]PrimitiveRef, 0, len(sc.Triangles)+len(sc.Spheres)),
		leafItems: opts.LeafItems,
		stats: Stats{
			Triangles: len(sc.Triangles),
			Spheres:   len(sc.Spheres),
		},
	}

	tris := make([]uint32, len(sc.Triangles))
	for index := range tris {
		tris[index] = uint32(index)
	}
	spheres := make([]uint32, len(sc.Spheres))
	for index := range spheres {
		spheres[index] = uint32(index)
	}

	start := time.Now()
	root := b.partitionOrSkip(tris, spheres, 0)
	b.stats.Nodes = len(b.nodes)
	b.stats.BuildTime = time.Since(start)
	b.logger.Debugf(
		"BVH tree build time: %d ms, maxDepth: %d, nodes: %d, leafs: %d",
		b.stats.BuildTime.Nanoseconds()/1e6,
		b.stats.MaxDepth, b.stats.Nodes, b.stats.Leafs,
	)

	return &Tree{
		scene: sc,
		nodes: b.nodes,
		refs:  b.refs,
		root:  root,
		stats: b.stats,
	}
}

func (b *builder) triangle(index uint32) BoundedVolume {
	return &b.scene.Triangles[index]
}

func (b *builder) sphere(index uint32) BoundedVolume {
	return &b.scene.Spheres[index]
}

// Partition the work lists unless both are empty in which case no node is
// created and absentChild is returned.
func (b *builder) partitionOrSkip(tris, spheres []uint32, level int) int32 {
	if len(tris)+len(spheres) == 0 {
		return absentChild
	}
	return b.partition(tris, spheres, level)
}

// Partition work lists and return node index.
func (b *builder) partition(tris, spheres []uint32, level int) int32 {
	if level > b.stats.MaxDepth {
		b.stats.MaxDepth = level
	}

	node := Node{
		Box:   EmptyBox(),
		Level: level,
		Left:  absentChild,
		Right: absentChild,
	}

	// Calculate bounding box for node
	for _, index := range tris {
		node.Box = node.Box.Union(BoxFromBounds(b.triangle(index).BBox()))
	}
	for _, index := range spheres {
		node.Box = node.Box.Union(BoxFromBounds(b.sphere(index).BBox()))
	}

	nodeIndex := int32(len(b.nodes))
	b.nodes = append(b.nodes, node)

	itemCount := len(tris) + len(spheres)
	if itemCount <= b.leafItems {
		b.createLeaf(nodeIndex, tris, spheres)
		return nodeIndex
	}

	axis := AxisForLevel(level)
	sortByCenter(tris, axis, b.triangle)
	sortByCenter(spheres, axis, b.sphere)

	triSplit := len(tris) / 2
	sphereSplit := (len(spheres) + 1) / 2

	// A split that leaves one side empty would recurse forever.
	if leftCount := triSplit + sphereSplit; leftCount == 0 || leftCount == itemCount {
		b.createLeaf(nodeIndex, tris, spheres)
		return nodeIndex
	}

	left := b.partitionOrSkip(tris[:triSplit], spheres[:sphereSplit], level+1)
	right := b.partitionOrSkip(tris[triSplit:], spheres[sphereSplit:], level+1)
	b.nodes[nodeIndex].Left = left
	b.nodes[nodeIndex].Right = right

	return nodeIndex
}

// Setup the node at nodeIndex as a leaf containing all items in the work lists.
func (b *builder) createLeaf(nodeIndex int32, tris, spheres []uint32) {
	node := &b.nodes[nodeIndex]
	node.First = uint32(len(b.refs))
	node.Count = uint32(len(tris) + len(spheres))

	for _, index := range tris {
		b.refs = append(b.refs, PrimitiveRef{Kind: TrianglePrimitive, Index: index})
	}
	for _, index := range spheres {
		b.refs = append(b.refs, PrimitiveRef{Kind: SpherePrimitive, Index: index})
	}

	b.stats.Leafs++
}

// Sort primitive indices by the axis coordinate of their center. The sort is
// stable so identical inputs always produce identical trees.
func sortByCenter(indices []uint32, axis Axis, volume func(uint32) BoundedVolume) {
	sort.SliceStable(indices, func(i, j int) bool {
		return volume(indices[i]).Center()[axis] < volume(indices[j]).Center()[axis]
	})
}
