package accel

import (
	"math"
	"testing"

	"github.com/yafaray/yafaray-go/pkg/core"
	"github.com/yafaray/yafaray-go/pkg/geometry"
	"github.com/yafaray/yafaray-go/pkg/material"
)

func spheresAlongX(n int) []geometry.Primitive {
	mat := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	prims := make([]geometry.Primitive, n)
	for i := 0; i < n; i++ {
		prims[i] = geometry.NewSphere(core.NewVec3(float64(i)*3, 0, 0), 1.0, mat)
	}
	return prims
}

func TestBuild_Empty(t *testing.T) {
	tree := Build(nil)
	ray := core.NewRay(core.NewVec3(0, 0, -10), core.NewVec3(0, 0, 1))
	if _, hit := tree.Hit(ray, 0.001, 1000.0); hit {
		t.Error("expected no hit on empty tree")
	}
}

func TestBuild_SingleLeaf(t *testing.T) {
	prims := spheresAlongX(4) // at or below leafThreshold
	tree := Build(prims)

	if len(tree.nodes) != 1 {
		t.Errorf("expected single leaf node for %d prims, got %d nodes", len(prims), len(tree.nodes))
	}
}

func TestBuild_Splits(t *testing.T) {
	prims := spheresAlongX(20)
	tree := Build(prims)

	if len(tree.nodes) <= 1 {
		t.Errorf("expected a split for %d prims, got %d nodes", len(prims), len(tree.nodes))
	}
	if len(tree.prims) != len(prims) {
		t.Errorf("expected all %d prims retained across leaves, got %d", len(prims), len(tree.prims))
	}
}

func TestHit_FindsClosest(t *testing.T) {
	prims := spheresAlongX(10)
	tree := Build(prims)

	// Ray along X should hit the first sphere (centered at x=0, radius 1)
	// first, at x=-1.
	ray := core.NewRay(core.NewVec3(-10, 0, 0), core.NewVec3(1, 0, 0))
	sp, hit := tree.Hit(ray, 0.001, 1000.0)
	if !hit {
		t.Fatal("expected a hit")
	}
	if math.Abs(sp.P.X-(-1)) > 1e-6 {
		t.Errorf("expected the closest (leftmost) sphere to be hit, got hit point x=%v", sp.P.X)
	}
}

func TestHit_RespectsTMax(t *testing.T) {
	prims := spheresAlongX(5)
	tree := Build(prims)

	ray := core.NewRay(core.NewVec3(-10, 0, 0), core.NewVec3(1, 0, 0))
	if _, hit := tree.Hit(ray, 0.001, 5.0); hit {
		t.Error("expected no hit within a tMax that excludes every sphere")
	}
}

func TestHit_Miss(t *testing.T) {
	prims := spheresAlongX(10)
	tree := Build(prims)

	ray := core.NewRay(core.NewVec3(0, 100, 0), core.NewVec3(1, 0, 0))
	if _, hit := tree.Hit(ray, 0.001, 1000.0); hit {
		t.Error("expected a parallel ray far above the spheres to miss")
	}
}

// TestBuild_ParallelOffsetsStayConsistent stresses the recursion depth past
// parallelBuildDepth for a typical multi-core GOMAXPROCS, where branches are
// built by independent goroutines and spliced back together: every leaf
// must still resolve to the right primitive and every interior rightChild
// must still point at a valid node after the offset math.
func TestBuild_ParallelOffsetsStayConsistent(t *testing.T) {
	prims := spheresAlongX(500)
	tree := Build(prims)

	if len(tree.prims) != len(prims) {
		t.Fatalf("expected all %d prims retained, got %d", len(prims), len(tree.prims))
	}
	for i := range tree.nodes {
		n := tree.nodes[i]
		if n.axis < 0 {
			if n.primStart+n.primCount > int32(len(tree.prims)) {
				t.Fatalf("leaf node %d primitive range [%d,%d) exceeds prims length %d", i, n.primStart, n.primStart+n.primCount, len(tree.prims))
			}
			continue
		}
		if int(n.rightChild) <= i || int(n.rightChild) >= len(tree.nodes) {
			t.Fatalf("interior node %d rightChild %d out of range (tree has %d nodes)", i, n.rightChild, len(tree.nodes))
		}
	}

	for i := 0; i < len(prims); i += 37 {
		center := prims[i].BoundingBox().Center()
		ray := core.NewRay(center.Add(core.NewVec3(0, 0, -10)), core.NewVec3(0, 0, 1))
		if _, hit := tree.Hit(ray, 0.001, 1000.0); !hit {
			t.Errorf("expected a hit on sphere %d at %v", i, center)
		}
	}
}

func TestBoundingBox_CoversAllPrimitives(t *testing.T) {
	prims := spheresAlongX(10)
	tree := Build(prims)
	box := tree.BoundingBox()

	for _, p := range prims {
		pb := p.BoundingBox()
		if pb.Min.X < box.Min.X || pb.Max.X > box.Max.X {
			t.Errorf("tree bounds %v do not cover primitive bounds %v", box, pb)
		}
	}
}
