// Package scheduler implements tile dispatch ordering and the per-tile
// adaptive-AA resampling decision: which tiles a pass visits in what order,
// how many cumulative samples a pass targets, and whether a tile's noise
// level, darkness, and background status earn it another pass.
package scheduler

import (
	"image"
	"math"
	"math/rand"
	"sort"
)

// DispatchOrder names a tile visitation order for a render pass.
type DispatchOrder int

const (
	// Linear visits tiles in row-major scan order.
	Linear DispatchOrder = iota
	// Random visits tiles in a shuffled order, spreading early visual
	// feedback across the whole frame instead of top-to-bottom.
	Random
	// CentreFirst visits tiles nearest the image center first, since that
	// is usually where a viewer's attention (and the subject) sits.
	CentreFirst
)

func (o DispatchOrder) String() string {
	switch o {
	case Linear:
		return "linear"
	case Random:
		return "random"
	case CentreFirst:
		return "centre-first"
	default:
		return "unknown"
	}
}

// Order returns a permutation of [0,len(tiles)) giving the visitation order
// for the requested dispatch strategy. imageWidth/imageHeight locate the
// frame center for CentreFirst; rng drives Random.
func Order(tiles []image.Rectangle, imageWidth, imageHeight int, order DispatchOrder, rng *rand.Rand) []int {
	idx := make([]int, len(tiles))
	for i := range idx {
		idx[i] = i
	}

	switch order {
	case Random:
		rng.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })
	case CentreFirst:
		cx, cy := float64(imageWidth)/2, float64(imageHeight)/2
		sort.SliceStable(idx, func(a, b int) bool {
			return distToCenter(tiles[idx[a]], cx, cy) < distToCenter(tiles[idx[b]], cx, cy)
		})
	case Linear:
		// identity order
	}

	return idx
}

func distToCenter(bounds image.Rectangle, cx, cy float64) float64 {
	tx := float64(bounds.Min.X+bounds.Max.X) / 2
	ty := float64(bounds.Min.Y+bounds.Max.Y) / 2
	dx, dy := tx-cx, ty-cy
	return dx*dx + dy*dy
}

// SamplesForPass returns the target cumulative sample count for passNumber
// out of maxPasses, ramping linearly from initialSamples on pass 1 to
// maxSamplesPerPixel by the final pass.
func SamplesForPass(passNumber, initialSamples, maxSamplesPerPixel, maxPasses int) int {
	if maxPasses <= 1 {
		return maxSamplesPerPixel
	}
	if passNumber <= 1 {
		return initialSamples
	}

	remainingSamples := maxSamplesPerPixel - initialSamples
	remainingPasses := maxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	target := initialSamples + (passNumber-1)*samplesPerPass
	if passNumber >= maxPasses {
		target = maxSamplesPerPixel
	}
	return target
}

// Config controls the tile scheduler's dispatch order and adaptive-AA
// resampling gates.
type Config struct {
	TileSize             int           // recommended 32px per pass
	Order                DispatchOrder
	VarianceEdgeSize     int     // width, in pixels, of the border ring TileNoise samples
	NoiseThreshold       float64 // minimum noise estimate that still earns a tile another pass
	DarkThresholdFactor  float64 // fraction of the scene's mean luminance below which a tile is "dark"
	ResampledFloor       int     // starting minimum sample budget for a tile's first resample
	BackgroundResampling bool    // whether tiles that hit no geometry at all may still be resampled
}

// DefaultConfig returns the scheduler defaults named in the design: 32px
// tiles, linear dispatch, a 10px noise border, and background tiles
// excluded from resampling once their first pass completes.
func DefaultConfig() Config {
	return Config{
		TileSize:             32,
		Order:                Linear,
		VarianceEdgeSize:     10,
		NoiseThreshold:       0.1,
		DarkThresholdFactor:  0.1,
		ResampledFloor:       4,
		BackgroundResampling: false,
	}
}

// PixelVariance is the minimal per-pixel statistic the scheduler needs to
// estimate tile noise. Callers adapt their own accumulator (e.g.
// renderer.PixelStats) into this shape rather than pkg/scheduler importing
// it directly, keeping this package independent of the renderer's
// accumulator representation.
type PixelVariance struct {
	Mean        float64
	Variance    float64
	SampleCount int
}

// TileNoise estimates a tile's noise level from the coefficient of
// variation (stddev/mean) averaged over a border ring edgeSize pixels wide.
// Sampling the border instead of the full tile is cheap and, since noise
// concentrates at high-frequency edges, a reasonable proxy for whether the
// tile's interior has converged too.
func TileNoise(bounds image.Rectangle, edgeSize int, at func(x, y int) PixelVariance) float64 {
	ring := ringPixels(bounds, edgeSize)
	if len(ring) == 0 {
		return 0
	}

	var total float64
	var counted int
	for _, p := range ring {
		v := at(p.X, p.Y)
		if v.SampleCount == 0 || v.Mean <= 1e-8 {
			continue
		}
		total += math.Sqrt(v.Variance) / v.Mean
		counted++
	}
	if counted == 0 {
		return 0
	}
	return total / float64(counted)
}

// ringPixels returns every pixel within edgeSize of bounds' border,
// clipped to bounds itself (so a tile narrower than 2*edgeSize still
// samples its whole interior rather than panicking or double-counting).
func ringPixels(bounds image.Rectangle, edgeSize int) []image.Point {
	if bounds.Empty() || edgeSize <= 0 {
		return nil
	}

	var pts []image.Point
	inner := bounds.Inset(edgeSize)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if inner.Dx() > 0 && inner.Dy() > 0 && image.Pt(x, y).In(inner) {
				continue
			}
			pts = append(pts, image.Pt(x, y))
		}
	}
	return pts
}

// IsDark reports whether a tile's mean luminance falls below factor times
// the scene's overall mean luminance — dark tiles carry noise that is
// rarely visually significant, so they are excluded from further passes.
func IsDark(tileMeanLuminance, sceneMeanLuminance, factor float64) bool {
	if sceneMeanLuminance <= 0 {
		return false
	}
	return tileMeanLuminance < factor*sceneMeanLuminance
}

// ResampleBudget halves floor on every successive resampling pass (the
// aa_resampled_floor halving rule), down to a minimum of one sample, so a
// tile's guaranteed minimum sample count tapers off across repeated
// resamples instead of staying constant.
func ResampleBudget(floor, passNumber int) int {
	budget := floor
	for i := 1; i < passNumber; i++ {
		budget /= 2
	}
	if budget < 1 {
		budget = 1
	}
	return budget
}

// Decision is the scheduler's verdict for one tile going into its next
// pass.
type Decision struct {
	Resample     bool
	SampleBudget int
}

// Plan composes the background, dark-detection, and noise-threshold gates
// into a single per-tile decision for passNumber.
func Plan(cfg Config, passNumber int, noise, tileMeanLuminance, sceneMeanLuminance float64, hitGeometry bool) Decision {
	if !hitGeometry && !cfg.BackgroundResampling {
		return Decision{Resample: false}
	}
	if IsDark(tileMeanLuminance, sceneMeanLuminance, cfg.DarkThresholdFactor) {
		return Decision{Resample: false}
	}
	if noise < cfg.NoiseThreshold {
		return Decision{Resample: false}
	}
	return Decision{Resample: true, SampleBudget: ResampleBudget(cfg.ResampledFloor, passNumber)}
}
