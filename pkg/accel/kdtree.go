// Package accel implements the scene-wide spatial acceleration structure: a
// kd-tree over geometry.Primitive used for all ray-primitive intersection
// queries, replacing the teacher's per-object BVH with the single
// scene-wide structure the surface integrator expects.
package accel

import (
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/yafaray/yafaray-go/pkg/core"
	"github.com/yafaray/yafaray-go/pkg/geometry"
)

// leafThreshold mirrors the teacher's BVH leaf cutoff: nodes with this many
// or fewer primitives stop splitting and store a linear list.
const leafThreshold = 4

// maxDepth bounds recursion for degenerate inputs (many coincident bounds).
const maxDepth = 48

// node is one entry of the tree's flat node array. Interior nodes carry a
// split axis and position plus the index of their right child (the left
// child is always node index+1, following the packed-array convention);
// leaf nodes carry a slice into the tree's primitive index list.
type node struct {
	bounds     core.AABB
	axis       int8 // 0,1,2 = split axis; -1 = leaf
	split      float64
	rightChild int32 // index into tree.nodes, interior only
	primStart  int32 // index into tree.prims, leaf only
	primCount  int32
}

// KdTree is a kd-tree over geometry.Primitive, built once per scene and
// queried by every ray the surface integrator casts.
type KdTree struct {
	nodes  []node
	prims  []geometry.Primitive
	Center core.Vec3 // scene bounding-sphere center, for infinite-light sampling
	Radius float64   // scene bounding-sphere radius, for infinite-light sampling
}

// parallelBuildDepth returns the number of top recursion levels a build
// should fan out across goroutines: ceil(log2(numThreads)), so the split at
// the root spawns enough independent branches to occupy every worker, and
// recursion below that depth runs sequentially within each branch.
func parallelBuildDepth(numThreads int) int {
	if numThreads <= 1 {
		return 0
	}
	return int(math.Ceil(math.Log2(float64(numThreads))))
}

// Build constructs a KdTree over the given primitives. Construction is not
// safe to call concurrently with itself on the same slice; callers that
// build multiple trees in parallel (e.g. per-frame for moving geometry)
// should pass independent slices.
func Build(prims []geometry.Primitive) *KdTree {
	t := &KdTree{}
	if len(prims) == 0 {
		t.Center, t.Radius = core.Vec3{}, 100.0
		return t
	}

	indices := make([]int32, len(prims))
	bounds := make([]core.AABB, len(prims))
	for i, p := range prims {
		indices[i] = int32(i)
		bounds[i] = p.BoundingBox()
	}

	root := bounds[0]
	for _, b := range bounds[1:] {
		root = root.Union(b)
	}

	parallelDepth := parallelBuildDepth(runtime.GOMAXPROCS(0))
	t.nodes, t.prims = buildNode(prims, bounds, indices, root, 0, parallelDepth)

	t.Center = root.Center()
	t.Radius = root.Max.Subtract(t.Center).Length()
	return t
}

// buildNode recursively splits indices into a self-contained node/primitive
// array pair, with every internal index (rightChild, primStart) relative to
// the start of its own returned slices. A caller splicing the result into a
// larger array only has to add a constant offset to every entry
// (offsetNodes), which is what lets the two branches below parallelDepth be
// built concurrently by independent goroutines before being stitched
// together — each branch never touches the other's memory.
func buildNode(prims []geometry.Primitive, bounds []core.AABB, indices []int32, box core.AABB, depth, parallelDepth int) ([]node, []geometry.Primitive) {
	if len(indices) <= leafThreshold || depth >= maxDepth {
		return leafNode(prims, indices, box)
	}

	axis := box.LongestAxis()
	lo, hi := box.Axis(axis)
	if hi <= lo {
		return leafNode(prims, indices, box)
	}

	sorted := append([]int32(nil), indices...)
	sort.Slice(sorted, func(a, b int) bool {
		return centerOf(bounds[sorted[a]], axis) < centerOf(bounds[sorted[b]], axis)
	})
	mid := len(sorted) / 2
	split := centerOf(bounds[sorted[mid]], axis)

	var left, right []int32
	for _, i := range sorted {
		if centerOf(bounds[i], axis) < split {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		mid = len(sorted) / 2
		left = append([]int32(nil), sorted[:mid]...)
		right = append([]int32(nil), sorted[mid:]...)
	}

	// Each child is bounded by the union of its own primitives' bounds: a
	// primitive straddling the split plane is stored on one side only, so the
	// parent box clipped at the plane would hide it from rays on the other side.
	leftBox, rightBox := bounds[left[0]], bounds[right[0]]
	for _, i := range left[1:] {
		leftBox = leftBox.Union(bounds[i])
	}
	for _, i := range right[1:] {
		rightBox = rightBox.Union(bounds[i])
	}

	var leftNodes, rightNodes []node
	var leftPrims, rightPrims []geometry.Primitive

	if depth < parallelDepth {
		var g errgroup.Group
		g.Go(func() error {
			leftNodes, leftPrims = buildNode(prims, bounds, left, leftBox, depth+1, parallelDepth)
			return nil
		})
		g.Go(func() error {
			rightNodes, rightPrims = buildNode(prims, bounds, right, rightBox, depth+1, parallelDepth)
			return nil
		})
		_ = g.Wait()
	} else {
		leftNodes, leftPrims = buildNode(prims, bounds, left, leftBox, depth+1, parallelDepth)
		rightNodes, rightPrims = buildNode(prims, bounds, right, rightBox, depth+1, parallelDepth)
	}

	nodes := make([]node, 0, 1+len(leftNodes)+len(rightNodes))
	nodes = append(nodes, node{bounds: box, axis: int8(axis), split: split})

	leftOffset := int32(len(nodes))
	offsetNodes(leftNodes, leftOffset, 0)
	nodes = append(nodes, leftNodes...)

	rightOffset := int32(len(nodes))
	offsetNodes(rightNodes, rightOffset, int32(len(leftPrims)))
	nodes = append(nodes, rightNodes...)

	nodes[0].rightChild = rightOffset

	outPrims := make([]geometry.Primitive, 0, len(leftPrims)+len(rightPrims))
	outPrims = append(outPrims, leftPrims...)
	outPrims = append(outPrims, rightPrims...)

	return nodes, outPrims
}

// offsetNodes shifts every internal reference in nodes by a constant amount
// so the slice can be spliced into a larger array starting at nodeOffset,
// with its leaves' primitive ranges starting at primOffset within the
// merged primitive list.
func offsetNodes(nodes []node, nodeOffset, primOffset int32) {
	for i := range nodes {
		if nodes[i].axis < 0 {
			nodes[i].primStart += primOffset
		} else {
			nodes[i].rightChild += nodeOffset
		}
	}
}

func leafNode(prims []geometry.Primitive, indices []int32, box core.AABB) ([]node, []geometry.Primitive) {
	leafPrims := make([]geometry.Primitive, len(indices))
	for i, idx := range indices {
		leafPrims[i] = prims[idx]
	}
	return []node{{bounds: box, axis: -1, primCount: int32(len(indices))}}, leafPrims
}

func centerOf(b core.AABB, axis int) float64 {
	lo, hi := b.Axis(axis)
	return (lo + hi) * 0.5
}

// stackEntry is one pending node during iterative traversal.
type stackEntry struct {
	node       int32
	tMin, tMax float64
}

// Hit finds the closest primitive intersection along ray within [tMin, tMax].
func (t *KdTree) Hit(ray core.Ray, tMin, tMax float64) (*geometry.SurfacePoint, bool) {
	if len(t.nodes) == 0 {
		return nil, false
	}

	rootMin, rootMax, ok := t.nodes[0].bounds.HitRange(ray, tMin, tMax)
	if !ok {
		return nil, false
	}

	var best *geometry.SurfacePoint
	closest := tMax

	stack := make([]stackEntry, 0, 64)
	stack = append(stack, stackEntry{0, rootMin, rootMax})

	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if e.tMin > closest {
			continue
		}
		n := &t.nodes[e.node]

		if n.axis < 0 {
			for i := n.primStart; i < n.primStart+n.primCount; i++ {
				if sp, hit := t.prims[i].Hit(ray, tMin, closest); hit {
					best = sp
					closest = sp.T
				}
			}
			continue
		}

		left := e.node + 1
		right := n.rightChild

		lMin, lMax, lOK := t.nodes[left].bounds.HitRange(ray, e.tMin, e.tMax)
		rMin, rMax, rOK := t.nodes[right].bounds.HitRange(ray, e.tMin, e.tMax)

		if lOK {
			stack = append(stack, stackEntry{left, lMin, lMax})
		}
		if rOK {
			stack = append(stack, stackEntry{right, rMin, rMax})
		}
	}

	return best, best != nil
}

// BoundingBox returns the tree's overall bound.
func (t *KdTree) BoundingBox() core.AABB {
	if len(t.nodes) == 0 {
		return core.AABB{}
	}
	return t.nodes[0].bounds
}
