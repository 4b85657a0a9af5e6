package geometry

import (
	"fmt"
	"math"
	"testing"

	"github.com/yafaray/yafaray-go/pkg/core"
)

func TestQuad_Hit_BasicIntersection(t *testing.T) {
	corner := core.NewVec3(0, 0, 0)
	u := core.NewVec3(1, 0, 0)
	v := core.NewVec3(0, 0, 1)
	quad := NewQuad(corner, u, v, mockMaterial{})

	ray := core.NewRay(core.NewVec3(0.5, 1, 0.5), core.NewVec3(0, -1, 0))

	hit, isHit := quad.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}

	expectedT := 1.0
	if math.Abs(hit.T-expectedT) > 1e-9 {
		t.Errorf("Expected t=%f, got t=%f", expectedT, hit.T)
	}

	expectedPoint := core.NewVec3(0.5, 0, 0.5)
	tolerance := 1e-9
	if math.Abs(hit.P.X-expectedPoint.X) > tolerance ||
		math.Abs(hit.P.Y-expectedPoint.Y) > tolerance ||
		math.Abs(hit.P.Z-expectedPoint.Z) > tolerance {
		t.Errorf("Expected hit point %v, got %v", expectedPoint, hit.P)
	}
}

func TestQuad_Hit_OutsideBounds(t *testing.T) {
	corner := core.NewVec3(0, 0, 0)
	u := core.NewVec3(1, 0, 0)
	v := core.NewVec3(0, 0, 1)
	quad := NewQuad(corner, u, v, mockMaterial{})

	tests := []struct {
		name      string
		rayOrigin core.Vec3
		rayDir    core.Vec3
	}{
		{"outside X bounds (negative)", core.NewVec3(-0.5, 1, 0.5), core.NewVec3(0, -1, 0)},
		{"outside X bounds (positive)", core.NewVec3(1.5, 1, 0.5), core.NewVec3(0, -1, 0)},
		{"outside Z bounds (negative)", core.NewVec3(0.5, 1, -0.5), core.NewVec3(0, -1, 0)},
		{"outside Z bounds (positive)", core.NewVec3(0.5, 1, 1.5), core.NewVec3(0, -1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDir)
			hit, isHit := quad.Hit(ray, 0.001, 1000.0)
			if isHit {
				t.Errorf("Expected miss for ray outside bounds, but got hit at t=%f", hit.T)
			}
		})
	}
}

func TestQuad_Hit_CornerHits(t *testing.T) {
	corner := core.NewVec3(0, 0, 0)
	u := core.NewVec3(1, 0, 0)
	v := core.NewVec3(0, 0, 1)
	quad := NewQuad(corner, u, v, mockMaterial{})

	corners := []core.Vec3{
		{0, 0, 0},
		{1, 0, 0},
		{0, 0, 1},
		{1, 0, 1},
	}

	for i, cornerPoint := range corners {
		t.Run(fmt.Sprintf("corner_%d", i), func(t *testing.T) {
			ray := core.NewRay(cornerPoint.Add(core.NewVec3(0, 1, 0)), core.NewVec3(0, -1, 0))
			_, isHit := quad.Hit(ray, 0.001, 1000.0)
			if !isHit {
				t.Errorf("Expected hit at corner %v, but got miss", cornerPoint)
			}
		})
	}
}

func TestQuad_Hit_ParallelRay(t *testing.T) {
	corner := core.NewVec3(0, 0, 0)
	u := core.NewVec3(1, 0, 0)
	v := core.NewVec3(0, 0, 1)
	quad := NewQuad(corner, u, v, mockMaterial{})

	ray := core.NewRay(core.NewVec3(0.5, 1, 0.5), core.NewVec3(1, 0, 0))

	_, isHit := quad.Hit(ray, 0.001, 1000.0)
	if isHit {
		t.Error("Expected miss for parallel ray, but got hit")
	}
}

func TestGetAxisAlignment(t *testing.T) {
	tests := []struct {
		name     string
		normal   core.Vec3
		expected AxisAlignment
	}{
		{"X-axis aligned", core.NewVec3(1, 0, 0), XAxisAligned},
		{"Y-axis aligned", core.NewVec3(0, 1, 0), YAxisAligned},
		{"Z-axis aligned", core.NewVec3(0, 0, 1), ZAxisAligned},
		{"Negative X-axis aligned", core.NewVec3(-1, 0, 0), XAxisAligned},
		{"Not axis aligned", core.NewVec3(0.707, 0.707, 0), NotAxisAligned},
		{"Nearly axis aligned but not quite", core.NewVec3(0.999, 0.001, 0), NotAxisAligned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := getAxisAlignment(tt.normal)
			if result != tt.expected {
				t.Errorf("getAxisAlignment(%v) = %v, want %v", tt.normal, result, tt.expected)
			}
		})
	}
}

func TestAxisAlignedQuadBoundingBox(t *testing.T) {
	quad := NewQuad(
		core.NewVec3(5, 0, 0),
		core.NewVec3(0, 2, 0),
		core.NewVec3(0, 0, 3),
		mockMaterial{},
	)

	bbox := quad.BoundingBox()

	const epsilon = 0.001
	expectedMin := core.NewVec3(5-epsilon, 0, 0)
	expectedMax := core.NewVec3(5+epsilon, 2, 3)

	if math.Abs(bbox.Min.X-(5-epsilon)) > epsilon || math.Abs(bbox.Min.Y-0) > epsilon || math.Abs(bbox.Min.Z-0) > epsilon {
		t.Errorf("X-aligned quad bbox min = %v, want %v", bbox.Min, expectedMin)
	}
	if math.Abs(bbox.Max.X-(5+epsilon)) > epsilon || math.Abs(bbox.Max.Y-2) > epsilon || math.Abs(bbox.Max.Z-3) > epsilon {
		t.Errorf("X-aligned quad bbox max = %v, want %v", bbox.Max, expectedMax)
	}
}

func TestQuad_SurfaceArea(t *testing.T) {
	quad := NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 3), mockMaterial{})
	got := quad.SurfaceArea()
	if math.Abs(got-6.0) > 1e-9 {
		t.Errorf("expected area 6, got %f", got)
	}
}
