package scene

import (
	"testing"

	"github.com/yafaray/yafaray-go/pkg/core"
	"github.com/yafaray/yafaray-go/pkg/geometry"
	"github.com/yafaray/yafaray-go/pkg/material"
)

func TestScene_PreprocessBuildsAccelAndSampler(t *testing.T) {
	s := &Scene{}
	s.Primitives = append(s.Primitives, geometry.NewSphere(core.NewVec3(0, 0, 0), 1.0, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))))
	s.AddQuadLight(core.NewVec3(-1, 5, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2), core.NewVec3(10, 10, 10))

	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	if s.Accel == nil {
		t.Fatal("expected Preprocess to build an acceleration structure")
	}
	if s.LightSampler == nil {
		t.Fatal("expected Preprocess to install a default light sampler")
	}
	if s.LightSampler.GetLightCount() != 1 {
		t.Errorf("expected 1 light, got %d", s.LightSampler.GetLightCount())
	}
}

func TestScene_HitFindsPrimitive(t *testing.T) {
	s := &Scene{}
	s.Primitives = append(s.Primitives, geometry.NewSphere(core.NewVec3(0, 0, 0), 1.0, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))))
	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	ray := core.NewRay(core.NewVec3(0, 0, -10), core.NewVec3(0, 0, 1))
	sp, hit := s.Hit(ray, 0.001, 1000.0)
	if !hit {
		t.Fatal("expected a hit on the sphere")
	}
	if sp.P.Z > -0.9 {
		t.Errorf("expected the near hit point, got %v", sp.P)
	}
}

func TestScene_GetPrimitiveCount(t *testing.T) {
	s := &Scene{}
	mat := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	s.Primitives = append(s.Primitives,
		geometry.NewSphere(core.NewVec3(0, 0, 0), 1.0, mat),
		geometry.NewSphere(core.NewVec3(3, 0, 0), 1.0, mat),
	)
	if got := s.GetPrimitiveCount(); got != 2 {
		t.Errorf("expected 2 primitives, got %d", got)
	}
}

func TestNewGroundQuad_IsHorizontal(t *testing.T) {
	mat := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	quad := NewGroundQuad(core.NewVec3(0, 0, 0), 10, mat)

	box := quad.BoundingBox()
	if box.Max.Y-box.Min.Y > 1e-6 {
		t.Errorf("expected a flat horizontal quad, got box %v", box)
	}
}

func TestNewCornellScene_Builds(t *testing.T) {
	s := NewCornellScene()
	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	if len(s.Lights) != 1 {
		t.Errorf("expected 1 light in the Cornell box, got %d", len(s.Lights))
	}
	if s.GetPrimitiveCount() != 8 { // 5 walls + 1 light quad + 2 spheres
		t.Errorf("expected 8 primitives, got %d", s.GetPrimitiveCount())
	}
}
