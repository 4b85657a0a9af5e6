package capi

import (
	"context"
	"testing"

	"github.com/yafaray/yafaray-go/pkg/core"
	"github.com/yafaray/yafaray-go/pkg/geometry"
	"github.com/yafaray/yafaray-go/pkg/renderconfig"
)

func TestResultFlags_HasErrorAndWarning(t *testing.T) {
	if OK.HasError() || OK.HasWarning() {
		t.Error("OK should report no error and no warning")
	}
	if !ErrorTypeUnknown.HasError() {
		t.Error("ErrorTypeUnknown should report HasError")
	}
	if !Warning.HasWarning() {
		t.Error("Warning should report HasWarning")
	}
	combined := Warning | ErrorParamsMissing
	if !combined.HasError() || !combined.HasWarning() {
		t.Error("a combined flag should report both bits set")
	}
	if got := combined.String(); got != "Warning|ErrorParamsMissing" {
		t.Errorf("unexpected String() rendering: %q", got)
	}
}

func TestSetParamMap_HandleIndirectedSettersMatchDirect(t *testing.T) {
	h := CreateParamMap()
	defer FreeParamMap(h)

	SetParamMapInt(h, "width", 42)
	SetParamMapFloat(h, "fov", 39.5)
	SetParamMapString(h, "type", "glass")

	p, _ := lookupParamMap(h)
	if p.GetInt("width", -1) != 42 {
		t.Error("SetParamMapInt did not reach the underlying ParamMap")
	}
	if p.GetFloat("fov", -1) != 39.5 {
		t.Error("SetParamMapFloat did not reach the underlying ParamMap")
	}
	if p.GetString("type", "") != "glass" {
		t.Error("SetParamMapString did not reach the underlying ParamMap")
	}

	// A stale/unknown handle is a silent no-op, not a panic.
	SetParamMapInt(ParamMapHandle{}, "width", 1)
}

func TestParamMap_TypedRoundTrip(t *testing.T) {
	h := CreateParamMap()
	defer FreeParamMap(h)
	p, ok := lookupParamMap(h)
	if !ok {
		t.Fatal("expected the handle to resolve")
	}

	p.SetInt("width", 64)
	p.SetFloat("fov", 45.5)
	p.SetVector("from", core.NewVec3(1, 2, 3))
	p.SetColor("color", core.NewVec3(0.1, 0.2, 0.3))
	p.SetString("type", "shinydiffuse")
	p.SetBool("smooth", true)

	if got := p.GetInt("width", -1); got != 64 {
		t.Errorf("width: got %d", got)
	}
	if got := p.GetFloat("fov", -1); got != 45.5 {
		t.Errorf("fov: got %v", got)
	}
	if got := p.GetVector("from", core.Vec3{}); !got.Equals(core.NewVec3(1, 2, 3)) {
		t.Errorf("from: got %v", got)
	}
	if got := p.GetString("type", ""); got != "shinydiffuse" {
		t.Errorf("type: got %q", got)
	}
	if !p.GetBool("smooth", false) {
		t.Error("smooth: expected true")
	}
	if got := p.GetInt("missing", 7); got != 7 {
		t.Errorf("missing key should fall back, got %d", got)
	}
	if !p.Has("width") || p.Has("nonexistent") {
		t.Error("Has should reflect exactly the keys that were set")
	}
}

// buildGroundAndLightScene creates a minimal scene: a diffuse ground quad
// object built through the incremental mesh API, a sphere light, and a
// camera — everything CreateRenderer needs to validate and run one pass.
func buildGroundAndLightScene(t *testing.T) SceneHandle {
	t.Helper()
	scn := CreateScene()

	sceneParams := CreateParamMap()
	defer FreeParamMap(sceneParams)
	p, _ := lookupParamMap(sceneParams)
	p.SetInt("width", 8)
	p.SetInt("height", 8)
	p.SetInt("AA_samples", 2)
	p.SetInt("raydepth", 3)
	if flags := SetSceneParameters(scn, sceneParams); flags.HasError() {
		t.Fatalf("SetSceneParameters: %v", flags)
	}

	camParams := CreateParamMap()
	defer FreeParamMap(camParams)
	cp, _ := lookupParamMap(camParams)
	cp.SetVector("from", core.NewVec3(0, 1, 3))
	cp.SetVector("to", core.NewVec3(0, 0, 0))
	cp.SetVector("up", core.NewVec3(0, 1, 0))
	cp.SetFloat("fov", 50)
	if flags := SetCamera(scn, camParams); flags.HasError() {
		t.Fatalf("SetCamera: %v", flags)
	}

	matParams := CreateParamMap()
	defer FreeParamMap(matParams)
	mp, _ := lookupParamMap(matParams)
	mp.SetString("type", "shinydiffuse")
	mp.SetColor("color", core.NewVec3(0.6, 0.6, 0.6))
	if _, flags := CreateMaterial(scn, "ground_mat", matParams); flags.HasError() {
		t.Fatalf("CreateMaterial: %v", flags)
	}

	obj, flags := InitObject(scn, "ground", "ground_mat")
	if flags.HasError() {
		t.Fatalf("InitObject: %v", flags)
	}
	v0, _ := AddVertex(obj, core.NewVec3(-5, -1, -5))
	v1, _ := AddVertex(obj, core.NewVec3(5, -1, -5))
	v2, _ := AddVertex(obj, core.NewVec3(5, -1, 5))
	v3, _ := AddVertex(obj, core.NewVec3(-5, -1, 5))
	if flags := AddQuad(obj, scn, v0, v1, v2, v3, ""); flags.HasError() {
		t.Fatalf("AddQuad: %v", flags)
	}
	if _, flags := FinalizeObject(scn, obj); flags.HasError() {
		t.Fatalf("FinalizeObject: %v", flags)
	}

	lightParams := CreateParamMap()
	defer FreeParamMap(lightParams)
	lp, _ := lookupParamMap(lightParams)
	lp.SetString("type", "sphere")
	lp.SetVector("from", core.NewVec3(0, 4, 0))
	lp.SetFloat("radius", 0.5)
	lp.SetColor("color", core.NewVec3(10, 10, 10))
	if _, flags := CreateLight(scn, "key_light", lightParams); flags.HasError() {
		t.Fatalf("CreateLight: %v", flags)
	}

	if flags := SetLightSampler(scn, nil); flags.HasError() {
		t.Fatalf("SetLightSampler: %v", flags)
	}
	if flags := PreprocessScene(scn); flags.HasError() {
		t.Fatalf("PreprocessScene: %v", flags)
	}
	return scn
}

func TestCreateMaterial_DuplicateNameReturnsError(t *testing.T) {
	scn := CreateScene()
	params := CreateParamMap()
	defer FreeParamMap(params)
	p, _ := lookupParamMap(params)
	p.SetString("type", "diffuse")

	if _, flags := CreateMaterial(scn, "m", params); flags.HasError() {
		t.Fatalf("first CreateMaterial: %v", flags)
	}
	if _, flags := CreateMaterial(scn, "m", params); flags != ErrorDuplicateName {
		t.Errorf("expected ErrorDuplicateName, got %v", flags)
	}
}

func TestCreateMaterial_UnknownTypeReturnsError(t *testing.T) {
	scn := CreateScene()
	params := CreateParamMap()
	defer FreeParamMap(params)
	p, _ := lookupParamMap(params)
	p.SetString("type", "not-a-real-material")

	if _, flags := CreateMaterial(scn, "m", params); flags != ErrorTypeUnknown {
		t.Errorf("expected ErrorTypeUnknown, got %v", flags)
	}
}

func TestInitObject_MissingMaterialReturnsError(t *testing.T) {
	scn := CreateScene()
	if _, flags := InitObject(scn, "obj", "no_such_material"); flags != ErrorParamsMissing {
		t.Errorf("expected ErrorParamsMissing, got %v", flags)
	}
}

func TestPreprocessScene_RequiresCamera(t *testing.T) {
	scn := CreateScene()
	if flags := PreprocessScene(scn); flags != ErrorParamsMissing {
		t.Errorf("expected ErrorParamsMissing without a camera, got %v", flags)
	}
}

func TestInstance_StaticTransformIsFinalized(t *testing.T) {
	scn := buildGroundAndLightScene(t)

	matParams := CreateParamMap()
	defer FreeParamMap(matParams)
	mp, _ := lookupParamMap(matParams)
	mp.SetString("type", "diffuse")
	CreateMaterial(scn, "box_mat", matParams)

	obj, _ := InitObject(scn, "box_face", "box_mat")
	v0, _ := AddVertex(obj, core.NewVec3(-0.5, -0.5, 0))
	v1, _ := AddVertex(obj, core.NewVec3(0.5, -0.5, 0))
	v2, _ := AddVertex(obj, core.NewVec3(0, 0.5, 0))
	AddTriangle(obj, scn, v0, v1, v2, "")
	FinalizeObject(scn, obj)

	inst := CreateInstance(scn)
	if flags := AddInstanceObject(inst, obj); flags.HasError() {
		t.Fatalf("AddInstanceObject: %v", flags)
	}
	if flags := AddInstanceMatrix(inst, geometry.Translate(core.NewVec3(1, 0, 0)), 0); flags.HasError() {
		t.Fatalf("AddInstanceMatrix: %v", flags)
	}
	if flags := FinalizeInstance(scn, inst); flags.HasError() {
		t.Fatalf("FinalizeInstance: %v", flags)
	}

	build, _ := lookupScene(scn)
	found := false
	for _, prim := range build.scn.Primitives {
		if _, ok := prim.(*geometry.Instance); ok {
			found = true
		}
	}
	if !found {
		t.Error("expected a finalized *geometry.Instance among the scene's primitives")
	}
}

func TestFinalizeInstance_WrongKeyframeCountReturnsError(t *testing.T) {
	scn := buildGroundAndLightScene(t)
	inst := CreateInstance(scn)
	if flags := FinalizeInstance(scn, inst); flags != ErrorParamsMissing {
		t.Errorf("expected ErrorParamsMissing with zero keyframes, got %v", flags)
	}
}

func TestRender_GroundAndLightScene_ProducesImage(t *testing.T) {
	scn := buildGroundAndLightScene(t)

	logger := CreateLogger("mute", nil)
	rendererParams := CreateParamMap()
	defer FreeParamMap(rendererParams)
	rp, _ := lookupParamMap(rendererParams)
	rp.SetInt("tile_size", 8)
	rp.SetInt("AA_passes", 1)
	rp.SetInt("threads", 1)

	rnd, flags := CreateRenderer(scn, logger, rendererParams)
	if flags.HasError() {
		t.Fatalf("CreateRenderer: %v", flags)
	}
	if flags := SetupRender(rnd); flags.HasError() {
		t.Fatalf("SetupRender: %v", flags)
	}

	var pixelsSeen int
	SetPutPixelCallback(rnd, func(layer string, x, y int, r, g, b, a float64) {
		pixelsSeen++
	})

	img, flags := Render(context.Background(), rnd)
	if flags.HasError() {
		t.Fatalf("Render: %v", flags)
	}
	if img == nil {
		t.Fatal("expected a non-nil resolved image")
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 8 {
		t.Errorf("expected an 8x8 image, got %v", img.Bounds())
	}
	if pixelsSeen != 64 {
		t.Errorf("expected the put-pixel callback to fire for all 64 pixels, got %d", pixelsSeen)
	}
}

func TestRender_CancelledContextReturnsWarning(t *testing.T) {
	scn := buildGroundAndLightScene(t)
	logger := CreateLogger("mute", nil)
	rendererParams := CreateParamMap()
	defer FreeParamMap(rendererParams)
	rp, _ := lookupParamMap(rendererParams)
	rp.SetInt("tile_size", 8)
	rp.SetInt("AA_passes", 4)
	rp.SetInt("threads", 1)

	rnd, flags := CreateRenderer(scn, logger, rendererParams)
	if flags.HasError() {
		t.Fatalf("CreateRenderer: %v", flags)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, flags = Render(ctx, rnd)
	if flags != Warning {
		t.Errorf("expected Warning for a pre-cancelled render, got %v", flags)
	}
}

func TestVersion(t *testing.T) {
	if Version() == "" {
		t.Error("expected a non-empty version string")
	}
}

func TestCreateRendererFromConfig_MatchesManualParamMap(t *testing.T) {
	scn := buildGroundAndLightScene(t)
	logger := CreateLogger("mute", nil)

	cfg := renderconfig.Default()
	cfg.TileSize = 8
	cfg.AAPasses = 1
	cfg.Threads = 1

	rnd, flags := CreateRendererFromConfig(scn, logger, cfg)
	if flags.HasError() {
		t.Fatalf("CreateRendererFromConfig: %v", flags)
	}
	if flags := SetupRender(rnd); flags.HasError() {
		t.Fatalf("SetupRender: %v", flags)
	}

	img, flags := Render(context.Background(), rnd)
	if flags.HasError() {
		t.Fatalf("Render: %v", flags)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 8 {
		t.Errorf("expected an 8x8 image, got %v", img.Bounds())
	}
}
