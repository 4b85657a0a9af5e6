package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/yafaray/yafaray-go/pkg/core"
	"github.com/yafaray/yafaray-go/pkg/integrator"
	"github.com/yafaray/yafaray-go/pkg/scene"
)

// Raytracer drives adaptive per-pixel sampling over a bounded image region,
// handing each camera ray to an Integrator and accumulating the result into
// shared PixelStats.
type Raytracer struct {
	scn        *scene.Scene
	width      int
	height     int
	config     scene.SamplingConfig
	integrator integrator.Integrator
}

// NewRaytracer creates a Raytracer over scn, rendering at width x height
// using integ to estimate each camera ray's radiance.
func NewRaytracer(scn *scene.Scene, width, height int, integ integrator.Integrator) *Raytracer {
	return &Raytracer{
		scn:        scn,
		width:      width,
		height:     height,
		config:     scn.SamplingConfig,
		integrator: integ,
	}
}

// MergeSamplingConfig updates only the non-zero fields from updates, leaving
// the rest of the current configuration untouched.
func (rt *Raytracer) MergeSamplingConfig(updates scene.SamplingConfig) {
	if updates.SamplesPerPixel != 0 {
		rt.config.SamplesPerPixel = updates.SamplesPerPixel
	}
	if updates.MaxDepth != 0 {
		rt.config.MaxDepth = updates.MaxDepth
	}
	if updates.RussianRouletteMinBounces != 0 {
		rt.config.RussianRouletteMinBounces = updates.RussianRouletteMinBounces
	}
	if updates.AdaptiveMinSamples != 0 {
		rt.config.AdaptiveMinSamples = updates.AdaptiveMinSamples
	}
	if updates.AdaptiveThreshold != 0 {
		rt.config.AdaptiveThreshold = updates.AdaptiveThreshold
	}
}

// GetSamplingConfig returns the raytracer's current sampling configuration.
func (rt *Raytracer) GetSamplingConfig() scene.SamplingConfig {
	return rt.config
}

// RenderBounds renders the pixels within bounds, accumulating into the
// shared pixelStats array (indexed in global image coordinates) using
// sampler as the source of randomness, and returns per-bounds statistics.
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, pixelStats [][]PixelStats, sampler core.Sampler) RenderStats {
	stats := rt.initRenderStatsForBounds(bounds)

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			samplesUsed := rt.adaptiveSamplePixel(i, j, &pixelStats[j][i], sampler)
			rt.updateStats(&stats, samplesUsed)
		}
	}

	rt.finalizeStats(&stats)
	return stats
}

// adaptiveSamplePixel samples pixel (i, j) until either the configured
// maximum is reached or the running estimate has converged, returning the
// number of samples taken this call.
func (rt *Raytracer) adaptiveSamplePixel(i, j int, ps *PixelStats, sampler core.Sampler) int {
	initialSampleCount := ps.SampleCount
	maxSamples := rt.config.SamplesPerPixel

	for ps.SampleCount < maxSamples && !rt.shouldStopSampling(ps) {
		ray := rt.scn.Camera.GetRay(i, j, sampler.Get2D(), sampler.Get2D())
		radiance := rt.integrator.RayColor(ray, rt.scn, sampler)
		ps.AddSample(radiance)
	}

	return ps.SampleCount - initialSampleCount
}

// shouldStopSampling decides whether adaptive sampling should stop based on
// the pixel's perceptual relative error (coefficient of variation of its
// accumulated luminance).
func (rt *Raytracer) shouldStopSampling(ps *PixelStats) bool {
	minSamples := int(float64(rt.config.SamplesPerPixel) * rt.config.AdaptiveMinSamples)
	if minSamples < 1 {
		minSamples = 1
	}
	if ps.SampleCount < minSamples {
		return false
	}

	mean := ps.LuminanceAccum / float64(ps.SampleCount)
	meanSq := ps.LuminanceSqAccum / float64(ps.SampleCount)
	variance := math.Max(0, meanSq-mean*mean)

	if mean <= 1e-8 {
		return variance < 1e-6
	}

	relativeError := math.Sqrt(variance) / mean
	return relativeError < rt.config.AdaptiveThreshold
}

func (rt *Raytracer) initRenderStatsForBounds(bounds image.Rectangle) RenderStats {
	pixelCount := bounds.Dx() * bounds.Dy()
	return RenderStats{
		TotalPixels:    pixelCount,
		MaxSamples:     rt.config.SamplesPerPixel,
		MinSamples:     rt.config.SamplesPerPixel,
		MaxSamplesUsed: 0,
	}
}

func (rt *Raytracer) updateStats(stats *RenderStats, samplesUsed int) {
	stats.TotalSamples += samplesUsed
	if samplesUsed < stats.MinSamples {
		stats.MinSamples = samplesUsed
	}
	if samplesUsed > stats.MaxSamplesUsed {
		stats.MaxSamplesUsed = samplesUsed
	}
}

func (rt *Raytracer) finalizeStats(stats *RenderStats) {
	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
}

// vec3ToColor converts a linear-light radiance estimate to a gamma-corrected,
// clamped RGBA pixel.
func (rt *Raytracer) vec3ToColor(radiance core.Vec3) color.RGBA {
	radiance = radiance.GammaCorrect(2.0).Clamp(0.0, 1.0)
	return color.RGBA{
		R: uint8(255 * radiance.X),
		G: uint8(255 * radiance.Y),
		B: uint8(255 * radiance.Z),
		A: 255,
	}
}

// RenderPass renders the full image in one call, returning the assembled
// image and its statistics. Used for single-shot (non-progressive) renders.
func (rt *Raytracer) RenderPass(sampler core.Sampler) (*image.RGBA, RenderStats) {
	pixelStats := make([][]PixelStats, rt.height)
	for j := range pixelStats {
		pixelStats[j] = make([]PixelStats, rt.width)
	}

	bounds := image.Rect(0, 0, rt.width, rt.height)
	stats := rt.RenderBounds(bounds, pixelStats, sampler)

	img := image.NewRGBA(bounds)
	for j := 0; j < rt.height; j++ {
		for i := 0; i < rt.width; i++ {
			img.SetRGBA(i, j, rt.vec3ToColor(pixelStats[j][i].GetColor()))
		}
	}

	return img, stats
}
