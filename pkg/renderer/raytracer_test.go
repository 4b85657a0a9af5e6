package renderer

import (
	"image"
	"math/rand"
	"testing"

	"github.com/yafaray/yafaray-go/pkg/core"
	"github.com/yafaray/yafaray-go/pkg/geometry"
	"github.com/yafaray/yafaray-go/pkg/integrator"
	"github.com/yafaray/yafaray-go/pkg/material"
	"github.com/yafaray/yafaray-go/pkg/scene"
	"github.com/yafaray/yafaray-go/pkg/scheduler"
)

func testSampler(seed int64) core.Sampler {
	return core.NewRandSampler(rand.New(rand.NewSource(seed)))
}

func diffuseSphereScene(t *testing.T) *scene.Scene {
	t.Helper()
	lambertian := material.NewLambertian(core.NewVec3(0.7, 0.7, 0.7))
	sphere := geometry.NewSphere(core.NewVec3(0, 0, -2), 0.5, lambertian)

	cameraConfig := geometry.CameraConfig{
		Center: core.NewVec3(0, 0, 0),
		LookAt: core.NewVec3(0, 0, -1),
		Up:     core.NewVec3(0, 1, 0),
		Width:  64, AspectRatio: 1.0, VFov: 45.0, FocusDistance: 1.0,
	}

	s := &scene.Scene{
		Camera:       geometry.NewCamera(cameraConfig),
		Primitives:   []geometry.Primitive{sphere},
		CameraConfig: cameraConfig,
		SamplingConfig: scene.SamplingConfig{
			Width: 64, Height: 64, SamplesPerPixel: 4, MaxDepth: 5,
			RussianRouletteMinBounces: 3, AdaptiveMinSamples: 1, AdaptiveThreshold: 0,
		},
	}
	s.AddUniformInfiniteLight(core.NewVec3(1, 1, 1))
	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	return s
}

func TestRaytracer_RenderBounds_ProducesFiniteRadiance(t *testing.T) {
	s := diffuseSphereScene(t)
	integ := integrator.NewPathTracingIntegrator(s.SamplingConfig)
	rt := NewRaytracer(s, 64, 64, integ)

	pixelStats := make([][]PixelStats, 64)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, 64)
	}

	bounds := image.Rect(16, 16, 48, 48)
	stats := rt.RenderBounds(bounds, pixelStats, testSampler(7))

	if stats.TotalPixels != 32*32 {
		t.Errorf("expected %d pixels, got %d", 32*32, stats.TotalPixels)
	}
	if stats.TotalSamples == 0 {
		t.Error("expected at least one sample to be taken")
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			color := pixelStats[y][x].GetColor()
			if color.HasNaN() {
				t.Fatalf("pixel (%d,%d) has NaN radiance", x, y)
			}
		}
	}
}

func TestRaytracer_RenderBounds_OnlyTouchesBoundsPixels(t *testing.T) {
	s := diffuseSphereScene(t)
	integ := integrator.NewPathTracingIntegrator(s.SamplingConfig)
	rt := NewRaytracer(s, 64, 64, integ)

	pixelStats := make([][]PixelStats, 64)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, 64)
	}

	rt.RenderBounds(image.Rect(0, 0, 8, 8), pixelStats, testSampler(1))

	if pixelStats[32][32].SampleCount != 0 {
		t.Error("expected pixels outside the rendered bounds to remain untouched")
	}
}

func TestRaytracer_MergeSamplingConfig_OnlyUpdatesNonZeroFields(t *testing.T) {
	s := diffuseSphereScene(t)
	integ := integrator.NewPathTracingIntegrator(s.SamplingConfig)
	rt := NewRaytracer(s, 64, 64, integ)

	original := rt.GetSamplingConfig()
	rt.MergeSamplingConfig(scene.SamplingConfig{SamplesPerPixel: 99})

	got := rt.GetSamplingConfig()
	if got.SamplesPerPixel != 99 {
		t.Errorf("expected SamplesPerPixel to update to 99, got %d", got.SamplesPerPixel)
	}
	if got.MaxDepth != original.MaxDepth {
		t.Errorf("expected MaxDepth to remain %d, got %d", original.MaxDepth, got.MaxDepth)
	}
}

func TestRaytracer_RenderPass_AssemblesFullImage(t *testing.T) {
	s := diffuseSphereScene(t)
	integ := integrator.NewPathTracingIntegrator(s.SamplingConfig)
	rt := NewRaytracer(s, 64, 64, integ)

	img, stats := rt.RenderPass(testSampler(3))
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
		t.Errorf("expected a 64x64 image, got %v", img.Bounds())
	}
	if stats.TotalPixels != 64*64 {
		t.Errorf("expected %d pixels, got %d", 64*64, stats.TotalPixels)
	}
}

func TestProgressiveRaytracer_DispatchOrder_CentreFirstReordersTiles(t *testing.T) {
	s := diffuseSphereScene(t)
	integ := integrator.NewPathTracingIntegrator(s.SamplingConfig)

	config := DefaultProgressiveConfig()
	config.TileSize = 16
	config.DispatchOrder = scheduler.CentreFirst
	config.NumWorkers = 1

	pr, err := NewProgressiveRaytracer(s, config, integ, &testLogger{})
	if err != nil {
		t.Fatalf("failed to create progressive raytracer: %v", err)
	}
	defer pr.workerPool.Stop()

	linear := NewTileGrid(64, 64, 16)
	if pr.tiles[0].Bounds == linear[0].Bounds {
		t.Skip("centre tile happens to coincide with the first linear tile for this grid")
	}

	cx, cy := 32.0, 32.0
	first := pr.tiles[0].Bounds
	fx := float64(first.Min.X+first.Max.X) / 2
	fy := float64(first.Min.Y+first.Max.Y) / 2
	firstDist := (fx-cx)*(fx-cx) + (fy-cy)*(fy-cy)

	for _, tile := range pr.tiles[1:] {
		tx := float64(tile.Bounds.Min.X+tile.Bounds.Max.X) / 2
		ty := float64(tile.Bounds.Min.Y+tile.Bounds.Max.Y) / 2
		dist := (tx-cx)*(tx-cx) + (ty-cy)*(ty-cy)
		if dist < firstDist {
			t.Errorf("expected the first dispatched tile to be nearest the center, but %v is closer than %v", tile.Bounds, first)
		}
	}
}

func TestProgressiveRaytracer_PlanNextPass_SkipsConvergedTiles(t *testing.T) {
	s := diffuseSphereScene(t)
	integ := integrator.NewPathTracingIntegrator(s.SamplingConfig)

	config := DefaultProgressiveConfig()
	config.TileSize = 64
	config.MaxPasses = 1
	config.NumWorkers = 1

	pr, err := NewProgressiveRaytracer(s, config, integ, &testLogger{})
	if err != nil {
		t.Fatalf("failed to create progressive raytracer: %v", err)
	}
	defer pr.workerPool.Stop()

	if _, _, err := pr.RenderPass(1, nil); err != nil {
		t.Fatalf("RenderPass failed: %v", err)
	}

	cfg := scheduler.DefaultConfig()
	cfg.NoiseThreshold = 1e9 // nothing should look noisy enough to resample
	decisions := pr.PlanNextPass(2, cfg)

	if len(decisions) != len(pr.tiles) {
		t.Fatalf("expected one decision per tile, got %d for %d tiles", len(decisions), len(pr.tiles))
	}
	for i, d := range decisions {
		if d.Resample {
			t.Errorf("tile %d: expected no resample with an unreachably high noise threshold, got %+v", i, d)
		}
	}
}
