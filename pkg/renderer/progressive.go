package renderer

import (
	"context"
	"fmt"
	"image"
	"math"
	"math/rand"
	"time"

	"github.com/yafaray/yafaray-go/pkg/core"
	"github.com/yafaray/yafaray-go/pkg/integrator"
	"github.com/yafaray/yafaray-go/pkg/scene"
	"github.com/yafaray/yafaray-go/pkg/scheduler"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

func (dl *DefaultLogger) Logf(level core.LogLevel, format string, args ...interface{}) {
	fmt.Printf("[%s] "+format, append([]interface{}{level.String()}, args...)...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize           int // Size of each tile (64x64 recommended)
	InitialSamples     int // Samples for first pass (1 recommended)
	MaxSamplesPerPixel int // Maximum total samples per pixel
	MaxPasses          int // Maximum number of passes
	NumWorkers         int // Number of parallel workers (0 = use CPU count)

	// DispatchOrder controls the order tiles are first submitted in,
	// delegated to pkg/scheduler (Linear/Random/CentreFirst).
	DispatchOrder scheduler.DispatchOrder
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:           64,
		InitialSamples:     1,
		MaxSamplesPerPixel: 50,
		MaxPasses:          7, // linear ramp of per-pass targets: 1, 9, 17, 25, 33, 41, 50
		NumWorkers:         0, // Auto-detect CPU count
		DispatchOrder:      scheduler.Linear,
	}
}

// ProgressiveRaytracer manages progressive rendering with multiple passes,
// splitting the image into tiles and refining them pass over pass with an
// increasing sample budget.
type ProgressiveRaytracer struct {
	scn           *scene.Scene
	width, height int
	config        ProgressiveConfig
	tiles         []*Tile
	currentPass   int
	pixelStats    [][]PixelStats // Shared pixel statistics array (global image coordinates)
	raytracer     *Raytracer
	workerPool    *WorkerPool
	logger        core.Logger
}

// NewProgressiveRaytracer creates a new progressive raytracer rendering scn
// with integ, reporting to logger. Returns an error if scn has no camera.
func NewProgressiveRaytracer(scn *scene.Scene, config ProgressiveConfig, integ integrator.Integrator, logger core.Logger) (*ProgressiveRaytracer, error) {
	if scn.Camera == nil {
		return nil, fmt.Errorf("renderer: scene has no camera")
	}

	width := scn.SamplingConfig.Width
	height := scn.SamplingConfig.Height
	if height == 0 {
		height = scn.Camera.Height()
	}

	raytracer := NewRaytracer(scn, width, height, integ)
	tiles := dispatchOrderedTiles(NewTileGrid(width, height, config.TileSize), width, height, config.DispatchOrder)

	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}

	workerPool := NewWorkerPool(scn, integ, width, height, config.TileSize, config.NumWorkers)

	return &ProgressiveRaytracer{
		scn:         scn,
		width:       width,
		height:      height,
		config:      config,
		tiles:       tiles,
		currentPass: 0,
		pixelStats:  pixelStats,
		raytracer:   raytracer,
		workerPool:  workerPool,
		logger:      logger,
	}, nil
}

// getSamplesForPass calculates the target total samples for a given pass,
// delegating the ramp-up curve to pkg/scheduler.
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	return scheduler.SamplesForPass(passNumber, pr.config.InitialSamples, pr.config.MaxSamplesPerPixel, pr.config.MaxPasses)
}

// dispatchOrderedTiles reorders tiles per order, using each tile's own
// bounds as the scheduling unit (pkg/scheduler stays independent of
// renderer.Tile).
func dispatchOrderedTiles(tiles []*Tile, width, height int, order scheduler.DispatchOrder) []*Tile {
	bounds := make([]image.Rectangle, len(tiles))
	for i, tile := range tiles {
		bounds[i] = tile.Bounds
	}

	rng := rand.New(rand.NewSource(1))
	permutation := scheduler.Order(bounds, width, height, order, rng)

	ordered := make([]*Tile, len(tiles))
	for i, srcIdx := range permutation {
		ordered[i] = tiles[srcIdx]
	}
	return ordered
}

// RenderPass renders a single progressive pass using parallel processing
func (pr *ProgressiveRaytracer) RenderPass(passNumber int, tileCallback func(TileCompletionResult)) (*image.RGBA, RenderStats, error) {
	pr.currentPass = passNumber

	targetSamples := pr.getSamplesForPass(passNumber)

	pr.logger.Printf("Pass %d: Target %d samples per pixel (using %d workers)...\n",
		passNumber, targetSamples, pr.workerPool.GetNumWorkers())

	pr.raytracer.MergeSamplingConfig(scene.SamplingConfig{
		SamplesPerPixel: targetSamples,
	})

	if passNumber == 1 {
		pr.workerPool.Start()
	}

	taskID := 0
	for _, tile := range pr.tiles {
		task := TileTask{
			Tile:          tile,
			PassNumber:    passNumber,
			TargetSamples: targetSamples,
			TaskID:        taskID,
			PixelStats:    pr.pixelStats,
		}
		pr.workerPool.SubmitTask(task)
		taskID++
	}

	for i := 0; i < len(pr.tiles); i++ {
		result, ok := pr.workerPool.GetResult()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			return nil, RenderStats{}, result.Error
		}

		tile := pr.tiles[result.TaskID]
		tile.PassesCompleted++

		if tileCallback != nil {
			tileImage := pr.extractTileImage(tile)
			tileX := tile.Bounds.Min.X / pr.config.TileSize
			tileY := tile.Bounds.Min.Y / pr.config.TileSize

			tileCallback(TileCompletionResult{
				TileX:       tileX,
				TileY:       tileY,
				TileImage:   tileImage,
				PassNumber:  passNumber,
				TileNumber:  i + 1,
				TotalTiles:  len(pr.tiles),
				TotalPasses: pr.config.MaxPasses,
			})
		}
	}

	img, stats := pr.assembleCurrentImage(targetSamples)

	return img, stats, nil
}

// extractTileImage extracts a tile image from the shared pixel stats array
func (pr *ProgressiveRaytracer) extractTileImage(tile *Tile) *image.RGBA {
	bounds := tile.Bounds
	tileImage := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if y >= len(pr.pixelStats) || x >= len(pr.pixelStats[y]) {
				continue
			}

			stats := &pr.pixelStats[y][x]
			if stats.SampleCount > 0 {
				pixelColor := pr.raytracer.vec3ToColor(stats.GetColor())
				tileImage.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, pixelColor)
			}
		}
	}

	return tileImage
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	IsLast     bool
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX      int
	TileY      int
	TileImage  *image.RGBA
	PassNumber int

	TileNumber  int
	TotalTiles  int
	TotalPasses int
}

// RenderOptions configures progressive rendering behavior
type RenderOptions struct {
	TileUpdates bool
}

// RenderProgressive renders with channel-based communication (idiomatic Go).
// The caller should read from these channels in separate goroutines. If
// options.TileUpdates is false, the tile channel closes immediately.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context, options RenderOptions) (<-chan PassResult, <-chan TileCompletionResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	tileChan := make(chan TileCompletionResult, 100)
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	go func() {
		defer close(passChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)
		defer pr.workerPool.Stop()

		pr.logger.Printf("Starting progressive rendering with %d passes...\n", pr.config.MaxPasses)

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			select {
			case <-ctx.Done():
				pr.logger.Printf("Rendering cancelled before pass %d\n", pass)
				errChan <- ctx.Err()
				return
			default:
			}

			startTime := time.Now()

			var tileCallback func(TileCompletionResult)
			if options.TileUpdates {
				tileCallback = func(result TileCompletionResult) {
					select {
					case tileChan <- result:
					case <-ctx.Done():
					default:
					}
				}
			}

			img, stats, err := pr.RenderPass(pass, tileCallback)
			if err != nil {
				errChan <- err
				return
			}

			passTime := time.Since(startTime)
			actualSamples := int(stats.AverageSamples)

			pr.logger.Printf("Pass %d completed in %v (actual: %d samples/pixel)\n",
				pass, passTime, actualSamples)

			isLast := pass == pr.config.MaxPasses || actualSamples >= pr.config.MaxSamplesPerPixel
			result := PassResult{
				PassNumber: pass,
				Image:      img,
				Stats:      stats,
				IsLast:     isLast,
			}

			select {
			case passChan <- result:
			case <-ctx.Done():
				return
			}

			if actualSamples >= pr.config.MaxSamplesPerPixel {
				pr.logger.Printf("Reached maximum samples per pixel (%d), stopping.\n", pr.config.MaxSamplesPerPixel)
				break
			}
		}
	}()

	return passChan, tileChan, errChan
}

// assembleCurrentImage creates an image from the current state of the shared
// pixel stats and calculates render statistics in a single pass.
func (pr *ProgressiveRaytracer) assembleCurrentImage(targetSamples int) (*image.RGBA, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, pr.width, pr.height))

	stats := RenderStats{
		TotalPixels: pr.width * pr.height,
		MaxSamples:  targetSamples,
		MinSamples:  pr.config.MaxSamplesPerPixel,
	}

	for y := 0; y < pr.height; y++ {
		for x := 0; x < pr.width; x++ {
			pixel := &pr.pixelStats[y][x]

			img.SetRGBA(x, y, pr.raytracer.vec3ToColor(pixel.GetColor()))

			stats.TotalSamples += pixel.SampleCount
			if pixel.SampleCount < stats.MinSamples {
				stats.MinSamples = pixel.SampleCount
			}
			if pixel.SampleCount > stats.MaxSamplesUsed {
				stats.MaxSamplesUsed = pixel.SampleCount
			}
		}
	}

	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)

	return img, stats
}

// PlanNextPass reports, for each tile (in pr.tiles order), whether it should
// be resampled on passNumber and with what minimum sample budget, applying
// cfg's noise/dark/background gates against the shared pixel statistics
// accumulated so far.
func (pr *ProgressiveRaytracer) PlanNextPass(passNumber int, cfg scheduler.Config) []scheduler.Decision {
	sceneMean := pr.meanLuminance()

	decisions := make([]scheduler.Decision, len(pr.tiles))
	for i, tile := range pr.tiles {
		noise := scheduler.TileNoise(tile.Bounds, cfg.VarianceEdgeSize, pr.pixelVarianceAt)
		tileMean, hitGeometry := pr.tileMeanLuminanceAndHit(tile.Bounds)
		decisions[i] = scheduler.Plan(cfg, passNumber, noise, tileMean, sceneMean, hitGeometry)
	}
	return decisions
}

func (pr *ProgressiveRaytracer) pixelVarianceAt(x, y int) scheduler.PixelVariance {
	ps := &pr.pixelStats[y][x]
	if ps.SampleCount == 0 {
		return scheduler.PixelVariance{}
	}
	mean := ps.LuminanceAccum / float64(ps.SampleCount)
	meanSq := ps.LuminanceSqAccum / float64(ps.SampleCount)
	return scheduler.PixelVariance{
		Mean:        mean,
		Variance:    math.Max(0, meanSq-mean*mean),
		SampleCount: ps.SampleCount,
	}
}

// meanLuminance averages mean-per-pixel luminance across the whole frame,
// the scene-wide baseline PlanNextPass compares each tile's brightness
// against for dark-tile detection.
func (pr *ProgressiveRaytracer) meanLuminance() float64 {
	var total float64
	var count int
	for y := 0; y < pr.height; y++ {
		for x := 0; x < pr.width; x++ {
			v := pr.pixelVarianceAt(x, y)
			if v.SampleCount == 0 {
				continue
			}
			total += v.Mean
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// tileMeanLuminanceAndHit averages mean luminance over bounds and reports
// whether any pixel in it received a positive-luminance sample (a proxy for
// "this tile hit geometry or a lit background", as opposed to a pure-black
// miss).
func (pr *ProgressiveRaytracer) tileMeanLuminanceAndHit(bounds image.Rectangle) (float64, bool) {
	var total float64
	var count int
	hit := false
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := pr.pixelVarianceAt(x, y)
			if v.SampleCount == 0 {
				continue
			}
			total += v.Mean
			count++
			if v.Mean > 0 {
				hit = true
			}
		}
	}
	if count == 0 {
		return 0, false
	}
	return total / float64(count), hit
}

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID              int
	Bounds          image.Rectangle
	PassesCompleted int
	Sampler         core.Sampler // Tile-specific sampler for deterministic results
}

// NewTile creates a new tile with the specified bounds, seeded deterministically from id.
func NewTile(id int, bounds image.Rectangle) *Tile {
	random := core.NewSampleStreamRand(0, id, 0, 0, 0)

	return &Tile{
		ID:              id,
		Bounds:          bounds,
		PassesCompleted: 0,
		Sampler:         core.NewRandSampler(random),
	}
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []*Tile {
	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width)
			y1 := min(y0+tileSize, height)

			bounds := image.Rect(x0, y0, x1, y1)
			tile := NewTile(tileID, bounds)
			tiles = append(tiles, tile)
			tileID++
		}
	}

	return tiles
}
