package lights

import (
	"testing"

	"github.com/yafaray/yafaray-go/pkg/core"
)

func TestBackgroundPortalLightSampleLooksUpBackground(t *testing.T) {
	mesh := singleQuadMesh(core.Vec3{})
	skyColor := core.NewVec3(2, 2, 2)
	bp := NewBackgroundPortalLight(mesh, func(direction core.Vec3) core.Vec3 { return skyColor })

	sample := bp.Sample(core.NewVec3(0, 5, 0), core.NewVec3(0, 1, 0), core.NewVec2(0.3, 0.4))
	if !sample.Emission.Equals(skyColor) {
		t.Errorf("expected the portal to return the background's radiance unmodified, got %v", sample.Emission)
	}
	if sample.PDF <= 0 {
		t.Errorf("expected a positive area-based solid-angle PDF, got %v", sample.PDF)
	}
}

func TestBackgroundPortalLightRejectsBehindSurface(t *testing.T) {
	mesh := singleQuadMesh(core.Vec3{})
	bp := NewBackgroundPortalLight(mesh, func(direction core.Vec3) core.Vec3 { return core.NewVec3(1, 1, 1) })

	sample := bp.Sample(core.NewVec3(0, -5, 0), core.NewVec3(0, -1, 0), core.NewVec2(0.3, 0.4))
	if sample.Emission.Luminance() != 0 {
		t.Errorf("expected no contribution from behind the portal's single-sided mesh, got %v", sample.Emission)
	}
}

func TestBackgroundPortalLightIsNotDelta(t *testing.T) {
	mesh := singleQuadMesh(core.Vec3{})
	bp := NewBackgroundPortalLight(mesh, func(direction core.Vec3) core.Vec3 { return core.Vec3{} })
	if bp.IsDelta() {
		t.Errorf("expected an area-sampled portal light to report IsDelta()=false")
	}
}
