package capi

import (
	"context"
	"image"
	"sync"

	"github.com/yafaray/yafaray-go/pkg/core"
	"github.com/yafaray/yafaray-go/pkg/film"
	"github.com/yafaray/yafaray-go/pkg/integrator"
	"github.com/yafaray/yafaray-go/pkg/photon"
	"github.com/yafaray/yafaray-go/pkg/renderconfig"
	"github.com/yafaray/yafaray-go/pkg/renderer"
	"github.com/yafaray/yafaray-go/pkg/scheduler"
)

// PutPixelCallback receives one resolved pixel color for a named output
// layer. x, y are image-space pixel coordinates.
type PutPixelCallback func(layerName string, x, y int, r, g, b, a float64)

// ProgressCallback reports overall render progress, matching the
// C-API's progress-bar FFI boundary: a typed Go func internally, with the
// C-callback-shaped signature kept only at this package's edge.
type ProgressCallback func(stepsDone, stepsTotal int, tag string)

// FlashCallback (sic — matches the renderer's per-pass "flash" preview
// update) reports that a whole pass has resolved, so a viewer can refresh
// its preview between passes rather than only at the end.
type FlashCallback func(passNumber int, img *image.RGBA)

type rendererBuild struct {
	scn          SceneHandle
	progressive  *renderer.ProgressiveRaytracer
	film         *film.Film
	logger       core.Logger
	config       renderer.ProgressiveConfig
	schedulerCfg scheduler.Config
	causticMap   *photon.CausticMap

	mu          sync.Mutex
	putPixel    PutPixelCallback
	progress    ProgressCallback
	flash       FlashCallback
	cancel      context.CancelFunc
	rendering   bool
}

var renderers = newRegistry[*rendererBuild]()

// CreateRenderer allocates a renderer bound to sceneHandle, configured from
// a ParamMap. Recognized keys: tile_size (int), AA_passes (int, maps to
// MaxPasses), AA_minsamples (int, maps to InitialSamples), AA_samples (int,
// maps to MaxSamplesPerPixel, default taken from the scene's AA_samples),
// threads (int, maps to NumWorkers), tile_order (string: "linear",
// "random", "centre"/"center"), caustic_photons (int, 0 disables the
// caustic pre-pass), caustic_radius (float), caustic_mix (int, the k in
// k-nearest-neighbor gathering).
func CreateRenderer(sceneHandle SceneHandle, loggerHandle LoggerHandle, params ParamMapHandle) (RendererHandle, ResultFlags) {
	build, ok := lookupScene(sceneHandle)
	if !ok || !build.preprocessed {
		return RendererHandle{}, ErrorParamsMissing
	}
	p, ok := lookupParamMap(params)
	if !ok {
		return RendererHandle{}, ErrorParamsMissing
	}

	logger, ok := loggers.get(loggerHandle.id)
	if !ok {
		logger = renderer.NewDefaultLogger()
	}

	cfg := renderer.DefaultProgressiveConfig()
	cfg.TileSize = p.GetInt("tile_size", cfg.TileSize)
	cfg.MaxPasses = p.GetInt("AA_passes", cfg.MaxPasses)
	cfg.InitialSamples = p.GetInt("AA_minsamples", cfg.InitialSamples)
	cfg.MaxSamplesPerPixel = p.GetInt("AA_samples", build.scn.SamplingConfig.SamplesPerPixel)
	cfg.NumWorkers = p.GetInt("threads", cfg.NumWorkers)
	switch p.GetString("tile_order", "linear") {
	case "random":
		cfg.DispatchOrder = scheduler.Random
	case "centre", "center":
		cfg.DispatchOrder = scheduler.CentreFirst
	default:
		cfg.DispatchOrder = scheduler.Linear
	}

	schedCfg := scheduler.DefaultConfig()
	schedCfg.TileSize = cfg.TileSize
	schedCfg.Order = cfg.DispatchOrder

	integ := integrator.NewPathTracingIntegrator(build.scn.SamplingConfig)

	var causticMap *photon.CausticMap
	if numPhotons := p.GetInt("caustic_photons", 0); numPhotons > 0 {
		photonCfg := photon.DefaultConfig()
		photonCfg.NumPhotons = numPhotons
		photonCfg.SearchRadius = p.GetFloat("caustic_radius", photonCfg.SearchRadius)
		photonCfg.NumNeighbors = p.GetInt("caustic_mix", photonCfg.NumNeighbors)
		cm, err := photon.Build(context.Background(), build.scn, photonCfg)
		if err != nil {
			return RendererHandle{}, ErrorWhileCreating
		}
		causticMap = cm
		integ = integ.WithCausticMap(causticMap)
	}

	progressive, err := renderer.NewProgressiveRaytracer(build.scn, cfg, integ, logger)
	if err != nil {
		return RendererHandle{}, ErrorWhileCreating
	}

	filterType := film.Box
	switch p.GetString("filter_type", "box") {
	case "gauss", "gaussian":
		filterType = film.Gaussian
	case "mitchell":
		filterType = film.Mitchell
	case "lanczos":
		filterType = film.Lanczos
	}
	f := film.NewFilm(build.scn.SamplingConfig.Width, build.scn.SamplingConfig.Height, film.NewFilter(filterType, p.GetFloat("filter_width", 1.5)))

	rb := &rendererBuild{scn: sceneHandle, progressive: progressive, film: f, logger: logger, config: cfg, schedulerCfg: schedCfg, causticMap: causticMap}
	return RendererHandle{id: renderers.add(rb)}, OK
}

// CreateRendererFromConfig is CreateRenderer's counterpart for a render
// session driven by a pkg/renderconfig.Config (cmd/yafarender's usual
// entry point) instead of a caller-assembled ParamMap: it translates the
// config's fields into the same recognized keys CreateRenderer reads and
// delegates to it, so the two entry points share one implementation.
func CreateRendererFromConfig(sceneHandle SceneHandle, loggerHandle LoggerHandle, cfg renderconfig.Config) (RendererHandle, ResultFlags) {
	params := CreateParamMap()
	defer FreeParamMap(params)
	p, _ := lookupParamMap(params)

	p.SetInt("tile_size", cfg.TileSize)
	p.SetInt("threads", cfg.Threads)
	p.SetInt("AA_passes", cfg.AAPasses)
	p.SetInt("AA_minsamples", cfg.AAMinSamples)
	p.SetInt("AA_samples", cfg.AASamples)
	p.SetString("tile_order", cfg.TileOrder)
	p.SetString("filter_type", cfg.FilterType)
	p.SetFloat("filter_width", cfg.FilterWidth)
	if cfg.CausticPhotons > 0 {
		p.SetInt("caustic_photons", cfg.CausticPhotons)
		p.SetFloat("caustic_radius", cfg.CausticRadius)
		p.SetInt("caustic_mix", cfg.CausticMix)
	}

	return CreateRenderer(sceneHandle, loggerHandle, params)
}

// CreateFilm returns rendererHandle's bound image film. Provided for
// parity with the C API's separate film-handle surface even though this
// implementation creates the film alongside its renderer.
func CreateFilm(rendererHandle RendererHandle) (FilmHandle, ResultFlags) {
	rb, ok := renderers.get(rendererHandle.id)
	if !ok {
		return FilmHandle{}, ErrorWhileCreating
	}
	return FilmHandle{id: films.add(rb.film)}, OK
}

var films = newRegistry[*film.Film]()

// SetPutPixelCallback registers cb to be invoked once per pixel of the final
// resolved image, after Render's last pass completes without error.
func SetPutPixelCallback(rendererHandle RendererHandle, cb PutPixelCallback) ResultFlags {
	rb, ok := renderers.get(rendererHandle.id)
	if !ok {
		return ErrorWhileCreating
	}
	rb.mu.Lock()
	rb.putPixel = cb
	rb.mu.Unlock()
	return OK
}

// SetProgressCallback registers cb to be invoked as passes complete.
func SetProgressCallback(rendererHandle RendererHandle, cb ProgressCallback) ResultFlags {
	rb, ok := renderers.get(rendererHandle.id)
	if !ok {
		return ErrorWhileCreating
	}
	rb.mu.Lock()
	rb.progress = cb
	rb.mu.Unlock()
	return OK
}

// SetFlashCallback registers cb to be invoked with each pass's resolved
// preview image.
func SetFlashCallback(rendererHandle RendererHandle, cb FlashCallback) ResultFlags {
	rb, ok := renderers.get(rendererHandle.id)
	if !ok {
		return ErrorWhileCreating
	}
	rb.mu.Lock()
	rb.flash = cb
	rb.mu.Unlock()
	return OK
}

// SetupRender validates that rendererHandle is ready to render (a camera
// and at least one primitive are present) without starting any work yet.
func SetupRender(rendererHandle RendererHandle) ResultFlags {
	rb, ok := renderers.get(rendererHandle.id)
	if !ok {
		return ErrorWhileCreating
	}
	build, ok := lookupScene(rb.scn)
	if !ok || build.scn.Camera == nil || len(build.scn.Primitives) == 0 {
		return ErrorParamsMissing
	}
	return OK
}

// Render runs every configured pass to completion (or until ctx is
// cancelled / CancelRendering is called), driving the registered
// callbacks as passes and pixels resolve, and returns the final resolved
// frame.
func Render(ctx context.Context, rendererHandle RendererHandle) (*image.RGBA, ResultFlags) {
	rb, ok := renderers.get(rendererHandle.id)
	if !ok {
		return nil, ErrorWhileCreating
	}

	runCtx, cancel := context.WithCancel(ctx)
	rb.mu.Lock()
	rb.cancel = cancel
	rb.rendering = true
	rb.mu.Unlock()
	defer func() {
		rb.mu.Lock()
		rb.rendering = false
		rb.mu.Unlock()
	}()

	passChan, _, errChan := rb.progressive.RenderProgressive(runCtx, renderer.RenderOptions{TileUpdates: false})

	var last *image.RGBA
	for pass := range passChan {
		last = pass.Image
		rb.mu.Lock()
		progress, flash := rb.progress, rb.flash
		rb.mu.Unlock()
		if flash != nil {
			flash(pass.PassNumber, pass.Image)
		}
		if progress != nil {
			progress(pass.PassNumber, rb.config.MaxPasses, "rendering")
		}
	}
	if err := <-errChan; err != nil {
		if err == context.Canceled {
			return last, Warning
		}
		return last, ErrorWhileCreating
	}

	rb.mu.Lock()
	putPixel := rb.putPixel
	rb.mu.Unlock()
	if putPixel != nil && last != nil {
		emitPixels(last, putPixel)
	}
	return last, OK
}

func emitPixels(img *image.RGBA, cb PutPixelCallback) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			cb("combined", x, y, float64(r)/0xffff, float64(g)/0xffff, float64(b)/0xffff, float64(a)/0xffff)
		}
	}
}

// FlushFilm resolves rendererHandle's film and hands the finished image to
// out, the caller-supplied film.ColorOutput sink. File encoding is the
// excluded external collaborator the film package itself never performs;
// Render returning an *image.RGBA directly covers the common case, and
// FlushFilm exists for callers (cmd/yafarender) that want the resolved
// image via the same sink abstraction the film package exposes.
func FlushFilm(rendererHandle RendererHandle, out film.ColorOutput) ResultFlags {
	rb, ok := renderers.get(rendererHandle.id)
	if !ok {
		return ErrorWhileCreating
	}
	if err := rb.film.Flush(out); err != nil {
		return ErrorWhileCreating
	}
	return OK
}

// CancelRendering requests that an in-progress Render call stop at the
// next safe point. A no-op if rendererHandle is not currently rendering.
func CancelRendering(rendererHandle RendererHandle) ResultFlags {
	rb, ok := renderers.get(rendererHandle.id)
	if !ok {
		return ErrorWhileCreating
	}
	rb.mu.Lock()
	defer rb.mu.Unlock()
	if !rb.rendering || rb.cancel == nil {
		return Warning
	}
	rb.cancel()
	return OK
}
