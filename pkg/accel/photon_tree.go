package accel

import (
	"math/bits"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/yafaray/yafaray-go/pkg/core"
)

// Photon is a single stored point in the photon map: the hit position, the
// incoming direction, and the accumulated flux carried by the photon path
// that deposited it.
type Photon struct {
	Position core.Vec3
	Incoming core.Vec3
	Flux     core.Vec3
}

// PhotonTree is a balanced point-kd-tree over Photon, built once after photon
// tracing completes and queried many times during the density-estimate pass.
type PhotonTree struct {
	photons []Photon
	axis    []int8 // axis[i] is the split axis stored at photons[i], -1 for leaves with no children encoded this way
}

// BuildPhotonTree constructs a balanced point-kd-tree from the given photons.
// The tree is stored as an implicit binary heap over a reordered copy of
// photons (index i's children are 2i+1 and 2i+2), avoiding per-node pointers.
func BuildPhotonTree(photons []Photon) *PhotonTree {
	t := &PhotonTree{
		photons: make([]Photon, len(photons)),
		axis:    make([]int8, len(photons)),
	}
	if len(photons) == 0 {
		return t
	}

	src := append([]Photon(nil), photons...)
	parallelDepth := parallelBuildDepth(runtime.GOMAXPROCS(0))
	t.buildBalanced(src, 0, len(src), 0, parallelDepth)
	return t
}

// buildBalanced recursively sorts [lo,hi) along its widest axis, selects the
// left-balanced median (the split that keeps the implicit heap complete) and
// places it at heap index dst, recursing into the implicit
// left/right children. dst indices below a single recursive call are always
// disjoint (the implicit heap layout never lets two branches address the
// same slot), so down to parallelDepth levels the two child calls run in
// their own goroutines with no shared mutable state between them.
func (t *PhotonTree) buildBalanced(src []Photon, lo, hi, dst, depth int) {
	if lo >= hi {
		return
	}
	n := hi - lo
	if n == 1 {
		t.photons[dst] = src[lo]
		t.axis[dst] = -1
		return
	}

	axis := widestAxis(src[lo:hi])
	sub := src[lo:hi]
	sort.Slice(sub, func(a, b int) bool {
		return axisValue(sub[a].Position, axis) < axisValue(sub[b].Position, axis)
	})
	// The left subtree takes as many photons as the left half of a complete
	// binary tree of n nodes holds, so every heap index stays below n.
	full := 1 << (bits.Len(uint(n)) - 1)
	half := full / 2
	mid := lo + (half - 1) + min(n-(full-1), half)

	t.photons[dst] = src[mid]
	t.axis[dst] = int8(axis)

	if depth > 0 {
		var g errgroup.Group
		g.Go(func() error {
			t.buildBalanced(src, lo, mid, 2*dst+1, depth-1)
			return nil
		})
		g.Go(func() error {
			t.buildBalanced(src, mid+1, hi, 2*dst+2, depth-1)
			return nil
		})
		_ = g.Wait()
		return
	}

	t.buildBalanced(src, lo, mid, 2*dst+1, 0)
	t.buildBalanced(src, mid+1, hi, 2*dst+2, 0)
}

func widestAxis(photons []Photon) int {
	min := photons[0].Position
	max := photons[0].Position
	for _, p := range photons[1:] {
		min = core.NewVec3(minF(min.X, p.Position.X), minF(min.Y, p.Position.Y), minF(min.Z, p.Position.Z))
		max = core.NewVec3(maxF(max.X, p.Position.X), maxF(max.Y, p.Position.Y), maxF(max.Z, p.Position.Z))
	}
	ext := max.Subtract(min)
	if ext.X > ext.Y && ext.X > ext.Z {
		return 0
	}
	if ext.Y > ext.Z {
		return 1
	}
	return 2
}

func axisValue(v core.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// neighbor is one entry of a k-nearest heap: a pointer to a stored photon and
// its squared distance from the query point.
type neighbor struct {
	distSq float64
	photon *Photon
}

// KNearest returns up to k photons nearest to point, within maxDistSq,
// ordered nearest-first. Used by the caustic density estimate, which needs
// the photon count and per-photon distance to apply a filtering kernel.
func (t *PhotonTree) KNearest(point core.Vec3, k int, maxDistSq float64) []Photon {
	if len(t.photons) == 0 || k <= 0 {
		return nil
	}

	heap := make([]neighbor, 0, k)
	t.search(0, point, k, &maxDistSq, &heap)

	sort.Slice(heap, func(a, b int) bool { return heap[a].distSq < heap[b].distSq })

	out := make([]Photon, len(heap))
	for i, n := range heap {
		out[i] = *n.photon
	}
	return out
}

func (t *PhotonTree) search(idx int, point core.Vec3, k int, maxDistSq *float64, heap *[]neighbor) {
	if idx >= len(t.photons) {
		return
	}
	p := &t.photons[idx]
	diff := point.Subtract(p.Position)
	distSq := diff.Dot(diff)

	if distSq <= *maxDistSq {
		insertNeighbor(heap, k, neighbor{distSq, p}, maxDistSq)
	}

	axis := t.axis[idx]
	if axis < 0 {
		return
	}
	delta := axisValue(point, int(axis)) - axisValue(p.Position, int(axis))

	left, right := 2*idx+1, 2*idx+2
	firstChild, secondChild := left, right
	if delta > 0 {
		firstChild, secondChild = right, left
	}

	t.search(firstChild, point, k, maxDistSq, heap)
	if delta*delta <= *maxDistSq {
		t.search(secondChild, point, k, maxDistSq, heap)
	}
}

// insertNeighbor keeps heap as the k closest neighbors seen so far, tightening
// maxDistSq once the heap is full so deeper subtrees can be pruned early.
func insertNeighbor(heap *[]neighbor, k int, n neighbor, maxDistSq *float64) {
	if len(*heap) < k {
		*heap = append(*heap, n)
		if len(*heap) == k {
			*maxDistSq = maxOf(*heap)
		}
		return
	}

	worstIdx, worstDist := 0, (*heap)[0].distSq
	for i, e := range *heap {
		if e.distSq > worstDist {
			worstIdx, worstDist = i, e.distSq
		}
	}
	if n.distSq < worstDist {
		(*heap)[worstIdx] = n
		*maxDistSq = maxOf(*heap)
	}
}

func maxOf(heap []neighbor) float64 {
	m := heap[0].distSq
	for _, e := range heap[1:] {
		if e.distSq > m {
			m = e.distSq
		}
	}
	return m
}
