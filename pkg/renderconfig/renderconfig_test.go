package renderconfig

import "testing"

func TestParse_OverridesOnlyGivenFields(t *testing.T) {
	cfg, err := Parse([]byte("threads: 4\ntile_size: 32\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Threads != 4 {
		t.Errorf("threads: got %d", cfg.Threads)
	}
	if cfg.TileSize != 32 {
		t.Errorf("tile_size: got %d", cfg.TileSize)
	}
	if cfg.AAPasses != Default().AAPasses {
		t.Errorf("expected aa_passes to keep its default, got %d", cfg.AAPasses)
	}
}

func TestParse_RejectsMalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("threads: [unterminated")); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}

func TestValidate_RejectsNonPositiveTileSize(t *testing.T) {
	cfg := Default()
	cfg.TileSize = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for a zero tile size")
	}
}

func TestValidate_RejectsMinSamplesAboveMax(t *testing.T) {
	cfg := Default()
	cfg.AAMinSamples = cfg.AASamples + 1
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error when aa_min_samples exceeds aa_samples")
	}
}

func TestValidate_RejectsUnknownTileOrder(t *testing.T) {
	cfg := Default()
	cfg.TileOrder = "diagonal"
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for an unrecognized tile_order")
	}
}

func TestValidate_RejectsUnknownFilterType(t *testing.T) {
	cfg := Default()
	cfg.FilterType = "sinc-only"
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for an unrecognized filter_type")
	}
}

func TestDefault_IsItselfValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default() should validate cleanly: %v", err)
	}
}
