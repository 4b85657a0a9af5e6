package lights

import (
	"math"
	"testing"

	"github.com/yafaray/yafaray-go/pkg/core"
)

func TestDirectionalLightInfiniteAlwaysIlluminates(t *testing.T) {
	dl := NewDirectionalLight(core.NewVec3(0, -1, 0), core.NewVec3(2, 2, 2), core.Vec3{}, 1.0, true)
	dl.Preprocess(core.Vec3{}, 100.0)

	sample := dl.Sample(core.NewVec3(50, 0, 50), core.NewVec3(0, 1, 0), core.Vec2{})
	if sample.Emission.Luminance() <= 0 {
		t.Errorf("expected an infinite directional light to illuminate every point, got %v", sample.Emission)
	}
	if !math.IsInf(sample.Distance, 1) {
		t.Errorf("expected infinite distance, got %v", sample.Distance)
	}
}

func TestDirectionalLightFiniteCylinderRejectsOutside(t *testing.T) {
	dl := NewDirectionalLight(core.NewVec3(0, -1, 0), core.NewVec3(1, 1, 1), core.NewVec3(0, 5, 0), 1.0, false)
	dl.Preprocess(core.Vec3{}, 10.0)

	inside := dl.Sample(core.NewVec3(0.5, 0, 0), core.Vec3{}, core.Vec2{})
	outside := dl.Sample(core.NewVec3(5, 0, 0), core.Vec3{}, core.Vec2{})

	if inside.Emission.Luminance() <= 0 {
		t.Errorf("expected illumination inside the cylinder radius")
	}
	if outside.Emission.Luminance() != 0 {
		t.Errorf("expected no illumination outside the cylinder radius, got %v", outside.Emission)
	}
}

func TestDirectionalLightIsDelta(t *testing.T) {
	dl := NewDirectionalLight(core.NewVec3(0, -1, 0), core.NewVec3(1, 1, 1), core.Vec3{}, 1.0, true)
	if !dl.IsDelta() {
		t.Errorf("expected directional light to report IsDelta()=true")
	}
}
