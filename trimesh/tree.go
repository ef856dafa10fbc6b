package trimesh

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/volumetric/spatialmath"
	"go.viam.com/volumetric/utils"
)

const (
	// nodes holding fewer triangles than this become leaves.
	leafSize = 5

	nearTolerance = 0.001
	farTolerance  = 0.001
	farPadding    = 0.01
)

// ErrBadTree is returned when a tree's node or triangle arrays are inconsistent.
var ErrBadTree = errors.New("malformed triangle tree")

// Node is one entry of a Tree's node array. Leaves have a positive TriangleCount and reference a
// run of the tree's triangle array; internal nodes have a zero count and two children. Index 0 is
// the root, so a zero child index means no child.
type Node struct {
	Bound         spatialmath.AABB
	Positive      int32
	Negative      int32
	TriangleStart int32
	TriangleCount int32
}

// IsLeaf reports whether the node holds triangles.
func (n *Node) IsLeaf() bool {
	return n.TriangleCount > 0
}

// Tree is a bounding volume hierarchy over triangles, stored as flat node and triangle arrays.
// It is rebuilt wholesale by Update or Build. Queries do not mutate the tree and may run
// concurrently with each other, but not with a rebuild.
type Tree struct {
	Nodes     []Node
	Triangles []*spatialmath.Triangle
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{}
}

// Update discards the current tree and builds a new one from the triangles of src. On error the
// tree is left empty.
func (t *Tree) Update(src Source) error {
	tris, err := Triangles(src)
	if err != nil {
		t.Clear()
		return err
	}
	t.Build(tris)
	return nil
}

// Build discards the current tree and partitions tris into a new one. The tree takes ownership
// of the triangles.
func (t *Tree) Build(tris []*spatialmath.Triangle) {
	t.Clear()
	if len(tris) == 0 {
		return
	}
	t.Nodes = append(t.Nodes, Node{})
	t.pack(0, tris)
}

// Clear empties the tree.
func (t *Tree) Clear() {
	t.Nodes = nil
	t.Triangles = nil
}

// IsBaked reports whether the tree has been built from at least one triangle.
func (t *Tree) IsBaked() bool {
	return len(t.Nodes) > 0
}

// HasTriangles reports whether the tree holds any triangle.
func (t *Tree) HasTriangles() bool {
	return len(t.Triangles) > 0
}

// Len returns the number of triangles.
func (t *Tree) Len() int {
	return len(t.Triangles)
}

// Bounds returns the root bound, and false when the tree is empty.
func (t *Tree) Bounds() (spatialmath.AABB, bool) {
	if len(t.Nodes) == 0 {
		return spatialmath.AABB{}, false
	}
	return t.Nodes[0].Bound, true
}

func (t *Tree) pack(idx int, tris []*spatialmath.Triangle) {
	t.Nodes[idx].Bound = trianglesBound(tris)

	if len(tris) < leafSize {
		t.Nodes[idx].TriangleStart = int32(len(t.Triangles))
		t.Nodes[idx].TriangleCount = int32(len(tris))
		t.Triangles = append(t.Triangles, tris...)
		return
	}

	axis, pivot := splitAxisAndPivot(t.Nodes[idx].Bound, tris)
	positive := make([]*spatialmath.Triangle, 0, len(tris))
	negative := make([]*spatialmath.Triangle, 0, len(tris))
	for _, tri := range tris {
		if tri.Mid(axis) >= pivot {
			positive = append(positive, tri)
		} else {
			negative = append(negative, tri)
		}
	}

	// Every midpoint landed on one side, so fall back to splitting by position.
	if len(positive) == 0 || len(negative) == 0 {
		split := len(tris) / 2
		positive = tris[:split]
		negative = tris[split:]
	}

	posIdx := len(t.Nodes)
	t.Nodes = append(t.Nodes, Node{})
	t.Nodes[idx].Positive = int32(posIdx)
	t.pack(posIdx, positive)

	negIdx := len(t.Nodes)
	t.Nodes = append(t.Nodes, Node{})
	t.Nodes[idx].Negative = int32(negIdx)
	t.pack(negIdx, negative)
}

// splitAxisAndPivot picks the longest axis of bound and the mean triangle midpoint along it.
func splitAxisAndPivot(bound spatialmath.AABB, tris []*spatialmath.Triangle) (spatialmath.Axis, float64) {
	axis := bound.LongestAxis()
	sum := 0.
	for _, tri := range tris {
		sum += spatialmath.Component(tri.A, axis) + spatialmath.Component(tri.B, axis) + spatialmath.Component(tri.C, axis)
	}
	return axis, utils.Divide(sum, float64(3*len(tris)))
}

// searchContext carries the state of one closest point query down the tree.
type searchContext struct {
	point      r3.Vector
	radius     float64
	candidates []*spatialmath.Triangle
}

// FindClosestPoint returns the closest point on the tree's triangles to pt, or pt itself if the
// tree is empty.
func (t *Tree) FindClosestPoint(pt r3.Vector) r3.Vector {
	closest, _ := t.ClosestPoint(pt)
	return closest
}

// ClosestPoint is FindClosestPoint that also reports whether the tree had anything to search.
func (t *Tree) ClosestPoint(pt r3.Vector) (r3.Vector, bool) {
	if len(t.Nodes) == 0 {
		return pt, false
	}
	ctx := &searchContext{point: pt, radius: math.Inf(1)}
	t.search(ctx, 0)
	return closestOf(ctx.candidates, pt), true
}

// search collects candidate triangles. The radius only ever shrinks to the farthest corner of a
// visited node, which bounds the distance to some triangle, so pruning never drops the answer.
func (t *Tree) search(ctx *searchContext, idx int32) {
	node := &t.Nodes[idx]
	if node.IsLeaf() {
		ctx.candidates = append(ctx.candidates, t.Triangles[node.TriangleStart:node.TriangleStart+node.TriangleCount]...)
		return
	}

	if near := node.Bound.SqrDistance(ctx.point); near-nearTolerance > ctx.radius {
		return
	}
	if far := node.Bound.MaxSqrDistance(ctx.point); far+farTolerance < ctx.radius {
		ctx.radius = far + farPadding
	}

	if node.Positive != 0 {
		t.search(ctx, node.Positive)
	}
	if node.Negative != 0 {
		t.search(ctx, node.Negative)
	}
}

// Raycast returns the distance to the nearest triangle the ray crosses within maxDist. Subtrees
// whose bound the ray misses are skipped.
func (t *Tree) Raycast(ray spatialmath.Ray, maxDist float64) (float64, bool) {
	if len(t.Nodes) == 0 {
		return maxDist, false
	}
	best, hit := maxDist, false
	stack := []int32{0}
	for len(stack) > 0 {
		node := &t.Nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		if !node.Bound.IntersectRay(ray, best) {
			continue
		}
		if node.IsLeaf() {
			for _, tri := range t.Triangles[node.TriangleStart : node.TriangleStart+node.TriangleCount] {
				if d, ok := tri.IntersectRay(ray); ok && d <= best {
					best, hit = d, true
				}
			}
			continue
		}
		if node.Positive != 0 {
			stack = append(stack, node.Positive)
		}
		if node.Negative != 0 {
			stack = append(stack, node.Negative)
		}
	}
	return best, hit
}

// Validate checks the structural invariants of the tree: every node is reachable from the root
// exactly once, internal nodes have two in-range children, and the leaves cover every triangle
// exactly once.
func (t *Tree) Validate() error {
	if len(t.Nodes) == 0 {
		if len(t.Triangles) != 0 {
			return errors.Wrap(ErrBadTree, "triangles without nodes")
		}
		return nil
	}
	visited := make([]bool, len(t.Nodes))
	covered := make([]bool, len(t.Triangles))
	stack := []int32{0}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[idx] {
			return errors.Wrapf(ErrBadTree, "node %d reached twice", idx)
		}
		visited[idx] = true
		node := t.Nodes[idx]

		if node.IsLeaf() {
			start, end := int(node.TriangleStart), int(node.TriangleStart)+int(node.TriangleCount)
			if start < 0 || end > len(t.Triangles) {
				return errors.Wrapf(ErrBadTree, "leaf %d references triangles [%d,%d) of %d", idx, start, end, len(t.Triangles))
			}
			for i := start; i < end; i++ {
				if covered[i] {
					return errors.Wrapf(ErrBadTree, "triangle %d is in more than one leaf", i)
				}
				if t.Triangles[i] == nil {
					return errors.Wrapf(ErrBadTree, "triangle %d is missing", i)
				}
				covered[i] = true
			}
			continue
		}

		for _, child := range [2]int32{node.Positive, node.Negative} {
			if child <= 0 || int(child) >= len(t.Nodes) {
				return errors.Wrapf(ErrBadTree, "internal node %d has child index %d of %d", idx, child, len(t.Nodes))
			}
			stack = append(stack, child)
		}
	}
	for i, ok := range visited {
		if !ok {
			return errors.Wrapf(ErrBadTree, "node %d is unreachable", i)
		}
	}
	for i, ok := range covered {
		if !ok {
			return errors.Wrapf(ErrBadTree, "triangle %d is in no leaf", i)
		}
	}
	return nil
}
