package accel

import (
	"testing"

	"github.com/yafaray/yafaray-go/pkg/core"
)

func gridPhotons() []Photon {
	var photons []Photon
	for x := -2; x <= 2; x++ {
		for z := -2; z <= 2; z++ {
			photons = append(photons, Photon{
				Position: core.NewVec3(float64(x), 0, float64(z)),
				Incoming: core.NewVec3(0, -1, 0),
				Flux:     core.NewVec3(1, 1, 1),
			})
		}
	}
	return photons
}

func TestBuildPhotonTree_Empty(t *testing.T) {
	tree := BuildPhotonTree(nil)
	if got := tree.KNearest(core.Vec3{}, 5, 100); got != nil {
		t.Errorf("expected nil result from empty tree, got %v", got)
	}
}

func TestKNearest_FindsClosestAtOrigin(t *testing.T) {
	tree := BuildPhotonTree(gridPhotons())

	got := tree.KNearest(core.NewVec3(0, 0, 0), 1, 1000)
	if len(got) != 1 {
		t.Fatalf("expected 1 neighbor, got %d", len(got))
	}
	if got[0].Position.X != 0 || got[0].Position.Z != 0 {
		t.Errorf("expected the photon at the origin itself, got %v", got[0].Position)
	}
}

func TestKNearest_RespectsK(t *testing.T) {
	tree := BuildPhotonTree(gridPhotons())

	got := tree.KNearest(core.NewVec3(0, 0, 0), 9, 1000)
	if len(got) != 9 {
		t.Fatalf("expected 9 neighbors, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		d0 := got[i-1].Position.Subtract(core.Vec3{}).Length()
		d1 := got[i].Position.Subtract(core.Vec3{}).Length()
		if d1 < d0-1e-9 {
			t.Errorf("expected neighbors sorted nearest-first, got distances %v then %v", d0, d1)
		}
	}
}

func TestKNearest_RespectsMaxDist(t *testing.T) {
	tree := BuildPhotonTree(gridPhotons())

	got := tree.KNearest(core.NewVec3(0, 0, 0), 25, 0.25) // radius 0.5, only the origin photon qualifies
	if len(got) != 1 {
		t.Fatalf("expected 1 neighbor within maxDistSq=0.25, got %d", len(got))
	}
}

func TestKNearest_EmptyWhenNoneWithinRange(t *testing.T) {
	tree := BuildPhotonTree(gridPhotons())

	got := tree.KNearest(core.NewVec3(1000, 1000, 1000), 5, 1.0)
	if len(got) != 0 {
		t.Errorf("expected no neighbors far from any photon, got %d", len(got))
	}
}
