package capi

import (
	"math"

	"github.com/yafaray/yafaray-go/pkg/core"
	"github.com/yafaray/yafaray-go/pkg/geometry"
	"github.com/yafaray/yafaray-go/pkg/lights"
	"github.com/yafaray/yafaray-go/pkg/material"
	"github.com/yafaray/yafaray-go/pkg/scene"
)

// sceneBuild holds everything a scene accumulates before Preprocess, plus
// the name tables the entity-creation calls check for duplicates.
type sceneBuild struct {
	scn *scene.Scene

	materials map[string]geometry.Material
	objects   map[string]*meshBuild

	preprocessed bool
}

var scenes = newRegistry[*sceneBuild]()

// CreateScene allocates a new, empty scene and returns its handle.
func CreateScene() SceneHandle {
	build := &sceneBuild{
		scn:       &scene.Scene{SamplingConfig: scene.SamplingConfig{SamplesPerPixel: 1, MaxDepth: 5}},
		materials: make(map[string]geometry.Material),
		objects:   make(map[string]*meshBuild),
	}
	return SceneHandle{id: scenes.add(build)}
}

func lookupScene(h SceneHandle) (*sceneBuild, bool) {
	return scenes.get(h.id)
}

// SetSceneParameters configures the scene's output resolution and sampling
// budget from a ParamMap. Recognized keys: width, height, AA_samples (int),
// AA_passes (int, informational — the renderer driver reads it via
// RenderConfig), raydepth (int, max bounce depth), russian_roulette_min_bounces
// (int), AA_threshold (float), AA_min_samples (float).
func SetSceneParameters(sceneHandle SceneHandle, params ParamMapHandle) ResultFlags {
	build, ok := lookupScene(sceneHandle)
	if !ok {
		return ErrorWhileCreating
	}
	p, ok := lookupParamMap(params)
	if !ok {
		return ErrorParamsMissing
	}

	sc := &build.scn.SamplingConfig
	sc.Width = p.GetInt("width", sc.Width)
	sc.Height = p.GetInt("height", sc.Height)
	sc.SamplesPerPixel = p.GetInt("AA_samples", sc.SamplesPerPixel)
	sc.MaxDepth = p.GetInt("raydepth", sc.MaxDepth)
	sc.RussianRouletteMinBounces = p.GetInt("russian_roulette_min_bounces", sc.RussianRouletteMinBounces)
	sc.AdaptiveThreshold = p.GetFloat("AA_threshold", sc.AdaptiveThreshold)
	sc.AdaptiveMinSamples = p.GetFloat("AA_min_samples", sc.AdaptiveMinSamples)
	return OK
}

// SetCamera installs a perspective camera from a ParamMap. Recognized keys:
// from, to, up (vectors), fov (float, degrees), aperture (float),
// focal_distance (float).
func SetCamera(sceneHandle SceneHandle, params ParamMapHandle) ResultFlags {
	build, ok := lookupScene(sceneHandle)
	if !ok {
		return ErrorWhileCreating
	}
	p, ok := lookupParamMap(params)
	if !ok {
		return ErrorParamsMissing
	}
	if flags := requireKeys(p, "from", "to", "up"); flags.HasError() {
		return flags
	}

	width := build.scn.SamplingConfig.Width
	height := build.scn.SamplingConfig.Height
	aspect := 1.0
	if height > 0 {
		aspect = float64(width) / float64(height)
	}

	cfg := geometry.CameraConfig{
		Center:        p.GetVector("from", core.Vec3{}),
		LookAt:        p.GetVector("to", core.Vec3{}),
		Up:            p.GetVector("up", core.NewVec3(0, 1, 0)),
		Width:         width,
		AspectRatio:   aspect,
		VFov:          p.GetFloat("fov", 45.0),
		Aperture:      p.GetFloat("aperture", 0.0),
		FocusDistance: p.GetFloat("focal_distance", 1.0),
	}
	build.scn.CameraConfig = cfg
	build.scn.Camera = geometry.NewCamera(cfg)
	return OK
}

// CreateMaterial builds and registers a named material from a ParamMap.
// Recognized "type" values: "shinydiffuse"/"diffuse" (lambertian,
// color), "glossy"/"metal" (color, fuzzness), "glass"/"dielectric"
// (IOR), "light"/"emit" (an emissive material used by mesh-light faces,
// color).
func CreateMaterial(sceneHandle SceneHandle, name string, params ParamMapHandle) (string, ResultFlags) {
	build, ok := lookupScene(sceneHandle)
	if !ok {
		return "", ErrorWhileCreating
	}
	if _, exists := build.materials[name]; exists {
		return name, ErrorDuplicateName
	}
	p, ok := lookupParamMap(params)
	if !ok {
		return "", ErrorParamsMissing
	}

	var mat geometry.Material
	flags := OK
	switch p.GetString("type", "shinydiffuse") {
	case "shinydiffuse", "diffuse", "lambertian":
		mat = material.NewLambertian(p.GetColor("color", core.NewVec3(0.8, 0.8, 0.8)))
	case "glossy", "metal":
		mat = material.NewMetal(p.GetColor("color", core.NewVec3(0.8, 0.8, 0.8)), p.GetFloat("fuzzness", 0.0))
	case "glass", "dielectric":
		mat = material.NewDielectric(p.GetFloat("IOR", 1.5))
	case "light", "emit":
		mat = material.NewEmissive(p.GetColor("color", core.NewVec3(1, 1, 1)))
	default:
		return "", ErrorTypeUnknown
	}

	build.materials[name] = mat
	return name, flags
}

// CreateLight builds and registers a light from a ParamMap. Recognized
// "type" values: "point" (a Dirac-delta point light: from, color),
// "sphere" (a spherical area light: from, radius, color), "area"/"quad"
// (corner, u, v, color), "spot" (a Dirac-delta cone light: from, to,
// color, cone_angle, cone_falloff_angle), "discspot" (the disc-shaped area
// approximation: from, to, color, cone_angle, cone_falloff_angle, radius),
// "directional" (direction, color, from, radius, infinite), "sun" (a
// soft-shadow directional light: direction, color, angle), "object"/
// "meshlight" (object, double_sided: wraps an already-finalized mesh as an
// area light), "bgportal"/"background_portal" (object: wraps a mesh as a
// background-sampling window), "sunsky"/"background" (a tabulated
// importance-sampled gradient sky: upperColor/lowerColor or color),
// "constant" (a uniform infinite light: color), "gradientbackground"
// (color/upperColor, lowerColor). IES lights carry an opaque parsed
// photometric table a ParamMap cannot hold, so they are not reachable here
// — construct them directly via scene.Scene.AddIESLight from Go.
func CreateLight(sceneHandle SceneHandle, name string, params ParamMapHandle) (string, ResultFlags) {
	build, ok := lookupScene(sceneHandle)
	if !ok {
		return "", ErrorWhileCreating
	}
	p, ok := lookupParamMap(params)
	if !ok {
		return "", ErrorParamsMissing
	}

	switch p.GetString("type", "point") {
	case "point":
		if flags := requireKeys(p, "from"); flags.HasError() {
			return "", flags
		}
		build.scn.AddPointLight(p.GetVector("from", core.Vec3{}), p.GetColor("color", core.NewVec3(1, 1, 1)))
	case "sphere":
		if flags := requireKeys(p, "from"); flags.HasError() {
			return "", flags
		}
		build.scn.AddSphereLight(p.GetVector("from", core.Vec3{}), p.GetFloat("radius", 0.01), p.GetColor("color", core.NewVec3(1, 1, 1)))
	case "area", "quad":
		if flags := requireKeys(p, "corner", "u", "v"); flags.HasError() {
			return "", flags
		}
		build.scn.AddQuadLight(p.GetVector("corner", core.Vec3{}), p.GetVector("u", core.Vec3{}), p.GetVector("v", core.Vec3{}), p.GetColor("color", core.NewVec3(1, 1, 1)))
	case "spot":
		if flags := requireKeys(p, "from", "to"); flags.HasError() {
			return "", flags
		}
		build.scn.AddSpotLight(p.GetVector("from", core.Vec3{}), p.GetVector("to", core.Vec3{}), p.GetColor("color", core.NewVec3(1, 1, 1)),
			p.GetFloat("cone_angle", 30.0), p.GetFloat("cone_falloff_angle", 5.0)/math.Max(p.GetFloat("cone_angle", 30.0), 1e-6))
	case "discspot":
		if flags := requireKeys(p, "from", "to"); flags.HasError() {
			return "", flags
		}
		build.scn.AddDiscSpotLight(p.GetVector("from", core.Vec3{}), p.GetVector("to", core.Vec3{}), p.GetColor("color", core.NewVec3(1, 1, 1)),
			p.GetFloat("cone_angle", 30.0), p.GetFloat("cone_falloff_angle", 5.0), p.GetFloat("radius", 0.0))
	case "directional":
		if flags := requireKeys(p, "direction"); flags.HasError() {
			return "", flags
		}
		build.scn.AddDirectionalLight(p.GetVector("direction", core.NewVec3(0, -1, 0)), p.GetColor("color", core.NewVec3(1, 1, 1)),
			p.GetVector("from", core.Vec3{}), p.GetFloat("radius", 1.0), p.GetBool("infinite", true))
	case "sun":
		if flags := requireKeys(p, "direction"); flags.HasError() {
			return "", flags
		}
		build.scn.AddSunLight(p.GetVector("direction", core.NewVec3(0, -1, 0)), p.GetColor("color", core.NewVec3(1, 1, 1)), p.GetFloat("angle", 0.5))
	case "object", "meshlight":
		if flags := requireKeys(p, "object"); flags.HasError() {
			return "", flags
		}
		mb, ok := build.objects[p.GetString("object", "")]
		if !ok || mb.finalized == nil {
			return "", ErrorParamsMissing
		}
		build.scn.AddObjectLight(mb.finalized, p.GetBool("double_sided", false))
	case "bgportal", "background_portal":
		if flags := requireKeys(p, "object"); flags.HasError() {
			return "", flags
		}
		mb, ok := build.objects[p.GetString("object", "")]
		if !ok || mb.finalized == nil {
			return "", ErrorParamsMissing
		}
		build.scn.AddBackgroundPortalLight(mb.finalized, backgroundGradientFunc(p))
	case "sunsky", "background":
		build.scn.AddBackgroundLight(backgroundGradientFunc(p))
	case "constant":
		build.scn.AddUniformInfiniteLight(p.GetColor("color", core.NewVec3(1, 1, 1)))
	case "gradientbackground":
		build.scn.AddGradientInfiniteLight(p.GetColor("upperColor", p.GetColor("color", core.NewVec3(1, 1, 1))), p.GetColor("lowerColor", core.NewVec3(0.5, 0.5, 0.5)))
	default:
		return "", ErrorTypeUnknown
	}

	if p.GetFloat("power", 0) != 0 {
		return name, Warning
	}
	return name, OK
}

// backgroundGradientFunc builds an opaque radiance evaluator for a
// BackgroundLight/BackgroundPortalLight from a ParamMap's upperColor/color
// and lowerColor fields, a linear sky gradient standing in for a real
// texture or procedural-sky evaluator — this package has no texture or
// environment-map system for a background light to sample instead.
func backgroundGradientFunc(p *ParamMap) lights.BackgroundFunc {
	upper := p.GetColor("upperColor", p.GetColor("color", core.NewVec3(1, 1, 1)))
	lower := p.GetColor("lowerColor", core.NewVec3(0.5, 0.5, 0.5))
	return func(direction core.Vec3) core.Vec3 {
		t := 0.5 * (direction.Y + 1.0)
		return lower.Multiply(1 - t).Add(upper.Multiply(t))
	}
}

// SetLightSampler installs a power-weighted light sampler over the scene's
// current lights, weighted by powers (one entry per light, in creation
// order), falling back to a uniform sampler when powers is empty or its
// length differs from the light count. Called once, after every
// CreateLight, as part of finalizing the scene.
func SetLightSampler(sceneHandle SceneHandle, powers []float64) ResultFlags {
	build, ok := lookupScene(sceneHandle)
	if !ok {
		return ErrorWhileCreating
	}
	if len(powers) == 0 || len(powers) != len(build.scn.Lights) {
		build.scn.LightSampler = lights.NewUniformSampler(build.scn.Lights)
		return OK
	}
	build.scn.LightSampler = lights.NewPowerWeightedSampler(build.scn.Lights, powers)
	return OK
}

// PreprocessScene builds the scene's acceleration structure. Must be called
// once after every creation call and before SetupRender.
func PreprocessScene(sceneHandle SceneHandle) ResultFlags {
	build, ok := lookupScene(sceneHandle)
	if !ok {
		return ErrorWhileCreating
	}
	if build.scn.Camera == nil {
		return ErrorParamsMissing
	}
	if err := build.scn.Preprocess(); err != nil {
		return ErrorWhileCreating
	}
	build.preprocessed = true
	return OK
}
