// Package renderconfig loads the YAML render-session configuration handed
// to the renderer driver: thread count, tile size and dispatch order,
// adaptive-AA pass budget and resampling thresholds, caustic photon-map
// settings, reconstruction filter choice, and the output layer list.
// Unlike the scene description (an XML document read by pkg/sceneio into
// pkg/capi scene-builder calls), this is session/host configuration — how
// hard to work, not what to render — so it gets its own file and format,
// the way the teacher's corpus reaches for gopkg.in/yaml.v3 for config
// rather than folding it into the same parser as scene geometry.
package renderconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// OutputLayer names one image channel the renderer should produce
// alongside the combined beauty pass (e.g. "combined", "depth", "normal").
type OutputLayer struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Config is the root of a render-session YAML document.
type Config struct {
	Threads   int    `yaml:"threads"`
	TileSize  int    `yaml:"tile_size"`
	TileOrder string `yaml:"tile_order"` // "linear" | "random" | "centre"

	AAPasses     int     `yaml:"aa_passes"`
	AAMinSamples int     `yaml:"aa_min_samples"`
	AASamples    int     `yaml:"aa_samples"`
	AAThreshold  float64 `yaml:"aa_threshold"`

	ResampledFloor       int     `yaml:"aa_resampled_floor"`
	NoiseThreshold       float64 `yaml:"noise_threshold"`
	DarkThresholdFactor  float64 `yaml:"dark_threshold_factor"`
	BackgroundResampling bool    `yaml:"background_resampling"`

	FilterType  string  `yaml:"filter_type"` // "box" | "gaussian" | "mitchell" | "lanczos"
	FilterWidth float64 `yaml:"filter_width"`

	CausticPhotons int     `yaml:"caustic_photons"`
	CausticRadius  float64 `yaml:"caustic_radius"`
	CausticMix     int     `yaml:"caustic_mix"`

	LogLevel string        `yaml:"log_level"`
	Outputs  []OutputLayer `yaml:"outputs"`
}

// Default returns the renderer's out-of-the-box session configuration: tile
// size, passes and sample counts match pkg/renderer.DefaultProgressiveConfig,
// and the resampling gates match pkg/scheduler.DefaultConfig.
func Default() Config {
	return Config{
		Threads:              0,
		TileSize:             64,
		TileOrder:            "linear",
		AAPasses:             7,
		AAMinSamples:         1,
		AASamples:            50,
		AAThreshold:          0.05,
		ResampledFloor:       4,
		NoiseThreshold:       0.1,
		DarkThresholdFactor:  0.1,
		BackgroundResampling: false,
		FilterType:           "box",
		FilterWidth:          1.5,
		LogLevel:             "info",
		Outputs:              []OutputLayer{{Name: "combined"}},
	}
}

// Load reads and parses a YAML render configuration from path, filling in
// Default() for any field the document omits.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("renderconfig: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML render configuration from raw bytes, layering it
// over Default().
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("renderconfig: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations that would make no sense to hand to the
// renderer: non-positive tile sizes, an AA pass count below 1, or a sample
// ramp where the floor exceeds the ceiling.
func (c Config) Validate() error {
	if c.TileSize <= 0 {
		return fmt.Errorf("renderconfig: tile_size must be positive, got %d", c.TileSize)
	}
	if c.AAPasses < 1 {
		return fmt.Errorf("renderconfig: aa_passes must be at least 1, got %d", c.AAPasses)
	}
	if c.AAMinSamples > c.AASamples {
		return fmt.Errorf("renderconfig: aa_min_samples (%d) exceeds aa_samples (%d)", c.AAMinSamples, c.AASamples)
	}
	switch c.TileOrder {
	case "linear", "random", "centre", "center":
	default:
		return fmt.Errorf("renderconfig: unknown tile_order %q", c.TileOrder)
	}
	switch c.FilterType {
	case "box", "gaussian", "gauss", "mitchell", "lanczos":
	default:
		return fmt.Errorf("renderconfig: unknown filter_type %q", c.FilterType)
	}
	return nil
}
