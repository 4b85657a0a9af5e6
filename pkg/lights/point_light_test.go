package lights

import (
	"math"
	"testing"

	"github.com/yafaray/yafaray-go/pkg/core"
)

func TestPointLightIsDelta(t *testing.T) {
	pl := NewPointLight(core.NewVec3(0, 5, 0), core.NewVec3(1, 1, 1))
	if !pl.IsDelta() {
		t.Errorf("expected point light to report IsDelta()=true")
	}
	if pl.Type() != LightTypeDelta {
		t.Errorf("expected Type()=%v, got %v", LightTypeDelta, pl.Type())
	}
}

func TestPointLightSampleInverseSquare(t *testing.T) {
	pl := NewPointLight(core.NewVec3(0, 1, 0), core.NewVec3(4, 4, 4))

	near := pl.Sample(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), core.Vec2{})
	far := pl.Sample(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0), core.Vec2{})

	if near.PDF != 1.0 || far.PDF != 1.0 {
		t.Errorf("expected PDF=1.0 for both samples, got near=%v far=%v", near.PDF, far.PDF)
	}

	expectedNear := 4.0 / (1.0 * 1.0)
	expectedFar := 4.0 / (2.0 * 2.0)
	if math.Abs(near.Emission.X-expectedNear) > 1e-9 {
		t.Errorf("expected near emission %v, got %v", expectedNear, near.Emission.X)
	}
	if math.Abs(far.Emission.X-expectedFar) > 1e-9 {
		t.Errorf("expected far emission %v, got %v", expectedFar, far.Emission.X)
	}
}

func TestPointLightPDFAlwaysZero(t *testing.T) {
	pl := NewPointLight(core.NewVec3(0, 1, 0), core.NewVec3(1, 1, 1))
	if pdf := pl.PDF(core.Vec3{}, core.Vec3{}, core.NewVec3(0, 1, 0)); pdf != 0.0 {
		t.Errorf("expected PDF()=0 for a delta light, got %v", pdf)
	}
}

func TestPointLightEmitIsZero(t *testing.T) {
	pl := NewPointLight(core.NewVec3(0, 1, 0), core.NewVec3(1, 1, 1))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))
	if emit := pl.Emit(ray); emit.Luminance() != 0 {
		t.Errorf("expected zero direct-view emission, got %v", emit)
	}
}
