// Package film implements the image film: the reconstruction-filtered
// accumulation buffer tiles are splatted into, plus the flush/callback
// contract the renderer driver uses to hand finished frames to the caller.
package film

import (
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/draw"

	"github.com/yafaray/yafaray-go/pkg/core"
)

// ColorOutput is the sink a finished (or in-progress) frame is flushed to.
// File encoding (PNG/EXR/...) is left entirely to the caller's
// implementation; Film only ever hands it a resolved image.RGBA.
type ColorOutput interface {
	Flush(img *image.RGBA) error
}

// Film accumulates filtered samples into a per-pixel weighted sum and
// resolves them into a displayable image on demand. Samples may land
// outside a tile's own bounds (the filter's footprint extends past the
// pixel center), so rows are protected individually rather than the whole
// buffer, letting tiles on different rows accumulate concurrently.
type Film struct {
	width, height int
	filter        *Filter

	mu       []sync.Mutex // one per row
	accum    []core.Vec3  // width*height, filter-weighted color sum
	weight   []float64    // width*height, total filter weight deposited

	preview   *image.RGBA // running low-cost composite for tile callbacks
	callbacks []func(image.Rectangle)
	callbackMu sync.Mutex
}

// NewFilm creates a film of the given resolution using filter for sample
// reconstruction.
func NewFilm(width, height int, filter *Filter) *Film {
	f := &Film{
		width:   width,
		height:  height,
		filter:  filter,
		mu:      make([]sync.Mutex, height),
		accum:   make([]core.Vec3, width*height),
		weight:  make([]float64, width*height),
		preview: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
	return f
}

// AddSample splats color at continuous pixel coordinates (px,py) — the
// center of an anti-aliasing sub-sample, not a pixel index — across every
// pixel within the film's filter footprint.
func (f *Film) AddSample(px, py float64, c core.Vec3) {
	w := f.filter.Width
	x0 := clampInt(int(math.Ceil(px-w-0.5)), 0, f.width-1)
	x1 := clampInt(int(math.Floor(px+w-0.5)), 0, f.width-1)
	y0 := clampInt(int(math.Ceil(py-w-0.5)), 0, f.height-1)
	y1 := clampInt(int(math.Floor(py+w-0.5)), 0, f.height-1)

	for y := y0; y <= y1; y++ {
		f.mu[y].Lock()
		rowOffset := y * f.width
		for x := x0; x <= x1; x++ {
			weight := f.filter.At(px-0.5-float64(x), py-0.5-float64(y))
			if weight == 0 {
				continue
			}
			idx := rowOffset + x
			f.accum[idx] = f.accum[idx].Add(c.Multiply(weight))
			f.weight[idx] += weight
		}
		f.mu[y].Unlock()
	}
}

// resolvedColor returns the gamma-corrected (gamma 2), clamped color of the
// pixel at flat index idx.
func (f *Film) resolvedColor(idx int) color.RGBA {
	if f.weight[idx] <= 0 {
		return color.RGBA{A: 255}
	}
	avg := f.accum[idx].Multiply(1.0 / f.weight[idx])
	corrected := avg.GammaCorrect(2.0).Clamp(0, 1)
	return color.RGBA{
		R: uint8(corrected.X*255 + 0.5),
		G: uint8(corrected.Y*255 + 0.5),
		B: uint8(corrected.Z*255 + 0.5),
		A: 255,
	}
}

// Resolve renders the film's current accumulation state into a fresh image.
func (f *Film) Resolve() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	for y := 0; y < f.height; y++ {
		f.mu[y].Lock()
		for x := 0; x < f.width; x++ {
			img.SetRGBA(x, y, f.resolvedColor(y*f.width+x))
		}
		f.mu[y].Unlock()
	}
	return img
}

// UpdateTilePreview resolves bounds from the current accumulation state and
// blits it into the film's running preview composite using
// golang.org/x/image/draw, then notifies every registered tile callback.
func (f *Film) UpdateTilePreview(bounds image.Rectangle) {
	bounds = bounds.Intersect(image.Rect(0, 0, f.width, f.height))
	if bounds.Empty() {
		return
	}

	tile := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		f.mu[y].Lock()
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			tile.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, f.resolvedColor(y*f.width+x))
		}
		f.mu[y].Unlock()
	}

	draw.Draw(f.preview, bounds, tile, image.Point{}, draw.Src)

	f.callbackMu.Lock()
	callbacks := append([]func(image.Rectangle){}, f.callbacks...)
	f.callbackMu.Unlock()
	for _, cb := range callbacks {
		cb(bounds)
	}
}

// Preview returns the film's running composite, the buffer UpdateTilePreview
// keeps current — suitable for a progressive on-screen preview.
func (f *Film) Preview() *image.RGBA {
	return f.preview
}

// OnTileDone registers cb to be invoked every time UpdateTilePreview runs.
func (f *Film) OnTileDone(cb func(image.Rectangle)) {
	f.callbackMu.Lock()
	defer f.callbackMu.Unlock()
	f.callbacks = append(f.callbacks, cb)
}

// Flush resolves the film and hands the finished image to out.
func (f *Film) Flush(out ColorOutput) error {
	return out.Flush(f.Resolve())
}
