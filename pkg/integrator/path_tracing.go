package integrator

import (
	"fmt"
	"math"

	"github.com/yafaray/yafaray-go/pkg/core"
	"github.com/yafaray/yafaray-go/pkg/geometry"
	"github.com/yafaray/yafaray-go/pkg/lights"
	"github.com/yafaray/yafaray-go/pkg/scene"
)

// PathTracingIntegrator implements unidirectional path tracing with
// next-event estimation (direct-light MIS) and Russian roulette.
type PathTracingIntegrator struct {
	config  scene.SamplingConfig
	Verbose bool

	// CausticMap, if set, is gathered at every diffuse hit to add the
	// caustic contribution the unidirectional path can't otherwise see
	// (a photon map traced separately before rendering starts).
	CausticMap CausticGatherer
}

// NewPathTracingIntegrator creates a new path tracing integrator.
func NewPathTracingIntegrator(config scene.SamplingConfig) *PathTracingIntegrator {
	return &PathTracingIntegrator{config: config}
}

// WithCausticMap attaches a photon map for caustic gathering and returns pt
// for chaining.
func (pt *PathTracingIntegrator) WithCausticMap(causticMap CausticGatherer) *PathTracingIntegrator {
	pt.CausticMap = causticMap
	return pt
}

// RayColor computes the radiance estimate for a single camera ray.
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, scn *scene.Scene, sampler core.Sampler) core.Vec3 {
	return pt.rayColorRecursive(ray, scn, sampler, pt.config.MaxDepth, core.NewVec3(1, 1, 1))
}

func (pt *PathTracingIntegrator) rayColorRecursive(ray core.Ray, scn *scene.Scene, sampler core.Sampler, depth int, throughput core.Vec3) core.Vec3 {
	if depth <= 0 {
		return core.Vec3{}
	}

	shouldTerminate, rrCompensation := pt.ApplyRussianRoulette(depth, throughput, sampler.Get1D())
	if shouldTerminate {
		return core.Vec3{}
	}

	sp, isHit := scn.Hit(ray, 0.001, math.Inf(1))
	if !isHit {
		return pt.BackgroundEmission(ray, scn).Multiply(rrCompensation)
	}

	emitted := sp.Material.Emission(sp, ray.Direction.Negate())

	bsdf, didScatter := sp.Material.SampleBsdf(ray.Direction.Negate(), sp, sampler)
	if !didScatter {
		if emitted.Luminance() > 0 {
			pt.logf("      pt[%d]    light: contribution=%v\n", pt.config.MaxDepth-depth, emitted)
		} else {
			pt.logf("      pt[%d] absorbed: contribution=0\n", pt.config.MaxDepth-depth)
		}
		return emitted.Multiply(rrCompensation)
	}

	var scattered core.Vec3
	if sp.Material.IsSpecular() {
		scattered = pt.calculateSpecularColor(bsdf, sp, ray, scn, depth, throughput, sampler)
	} else {
		scattered = pt.calculateDiffuseColor(bsdf, sp, ray, scn, depth, throughput, sampler)
	}

	return emitted.Add(scattered).Multiply(rrCompensation)
}

func (pt *PathTracingIntegrator) calculateSpecularColor(bsdf geometry.BsdfSample, sp *geometry.SurfacePoint, ray core.Ray, scn *scene.Scene, depth int, throughput core.Vec3, sampler core.Sampler) core.Vec3 {
	newThroughput := throughput.MultiplyVec(bsdf.Attenuation)
	scatteredRay := core.NewRay(sp.P, bsdf.Wi)
	scatteredRay.Time = ray.Time

	incoming := pt.rayColorRecursive(scatteredRay, scn, sampler, depth-1, newThroughput)
	contribution := bsdf.Attenuation.MultiplyVec(incoming)

	pt.logf("      pt[%d] specular: contribution=%v = attenuation=%v * incomingLight=%v\n", pt.config.MaxDepth-depth, contribution, bsdf.Attenuation, incoming)
	return contribution
}

func (pt *PathTracingIntegrator) calculateDiffuseColor(bsdf geometry.BsdfSample, sp *geometry.SurfacePoint, ray core.Ray, scn *scene.Scene, depth int, throughput core.Vec3, sampler core.Sampler) core.Vec3 {
	wo := ray.Direction.Negate()
	direct := pt.CalculateDirectLighting(scn, sp, wo, sampler, depth)
	indirect := pt.CalculateIndirectLighting(scn, sp, ray, bsdf, depth, throughput, sampler)
	caustic := pt.gatherCaustics(sp)
	return direct.Add(indirect).Add(caustic)
}

// gatherCaustics evaluates the caustic photon map at sp, if one is attached,
// weighted by the surface's diffuse albedo so the kernel estimate is
// expressed as outgoing radiance rather than raw incident flux density.
func (pt *PathTracingIntegrator) gatherCaustics(sp *geometry.SurfacePoint) core.Vec3 {
	if pt.CausticMap == nil {
		return core.Vec3{}
	}
	irradiance := pt.CausticMap.Gather(sp.P, sp.Ns)
	if irradiance.Luminance() <= 0 {
		return core.Vec3{}
	}
	brdf := sp.Material.EvalBsdf(sp.Ns, sp.Ns, sp)
	return brdf.MultiplyVec(irradiance)
}

// CalculateDirectLighting samples one light via the scene's light sampler
// and adds its MIS-weighted contribution if unoccluded.
func (pt *PathTracingIntegrator) CalculateDirectLighting(scn *scene.Scene, sp *geometry.SurfacePoint, wo core.Vec3, sampler core.Sampler, depth int) core.Vec3 {
	if scn.LightSampler == nil || scn.LightSampler.GetLightCount() == 0 {
		return core.Vec3{}
	}

	light, selectionProb, lightIndex := scn.LightSampler.SampleLight(sp.P, sp.Ns, sampler.Get1D())
	if light == nil || selectionProb <= 0 {
		return core.Vec3{}
	}

	lightSample := light.Sample(sp.P, sp.Ns, sampler.Get2D())
	if lightSample.Emission.Luminance() <= 0 || lightSample.PDF <= 0 {
		return core.Vec3{}
	}

	cosine := lightSample.Direction.Dot(sp.Ns)
	if cosine <= 0 {
		return core.Vec3{}
	}

	shadowRay := core.NewRay(sp.P, lightSample.Direction)
	shadowRay.Time = sp.Time
	if _, blocked := scn.Hit(shadowRay, 0.001, lightSample.Distance-0.001); blocked {
		return core.Vec3{}
	}

	if sp.Material.IsSpecular() {
		return core.Vec3{}
	}

	lightPDF := lightSample.PDF * selectionProb
	misWeight := 1.0
	if !light.IsDelta() {
		materialPDF := sp.Material.Pdf(wo, lightSample.Direction, sp)
		misWeight = core.PowerHeuristic(1, lightPDF, 1, materialPDF)
	}

	brdf := sp.Material.EvalBsdf(wo, lightSample.Direction, sp)
	contribution := brdf.MultiplyVec(lightSample.Emission).Multiply(cosine * misWeight / lightPDF)

	pt.logf("      pt[%d]   direct: contribution=%v = brdf=%v * emission=%v * (cosine=%f * misWeight=%f / lightPDF=%f)\n", pt.config.MaxDepth-depth, contribution, brdf, lightSample.Emission, cosine, misWeight, lightPDF)
	_ = lightIndex
	return contribution
}

// CalculateIndirectLighting continues the path along the BSDF-sampled
// direction, MIS-weighting against the probability the light sampler would
// have chosen the same direction.
func (pt *PathTracingIntegrator) CalculateIndirectLighting(scn *scene.Scene, sp *geometry.SurfacePoint, ray core.Ray, bsdf geometry.BsdfSample, depth int, throughput core.Vec3, sampler core.Sampler) core.Vec3 {
	if bsdf.Pdf <= 0 {
		return core.Vec3{}
	}

	cosine := bsdf.Wi.Dot(sp.Ns)
	if cosine <= 0 {
		return core.Vec3{}
	}

	misWeight := 1.0
	if !bsdf.Specular {
		lightPDF := pt.combinedLightPDF(scn, sp.P, sp.Ns, bsdf.Wi)
		misWeight = core.PowerHeuristic(1, bsdf.Pdf, 1, lightPDF)
	}

	newThroughput := throughput.MultiplyVec(bsdf.Attenuation).Multiply(cosine / bsdf.Pdf)

	scatteredRay := core.NewRay(sp.P, bsdf.Wi)
	scatteredRay.Time = ray.Time
	incoming := pt.rayColorRecursive(scatteredRay, scn, sampler, depth-1, newThroughput)

	contribution := bsdf.Attenuation.Multiply(cosine * misWeight / bsdf.Pdf).MultiplyVec(incoming)

	pt.logf("      pt[%d] indirect: contribution=%v = attenuation=%v * incomingLight=%v * (cosine=%f * misWeight=%f / scatterPDF=%f)\n", pt.config.MaxDepth-depth, contribution, bsdf.Attenuation, incoming, cosine, misWeight, bsdf.Pdf)
	return contribution
}

// combinedLightPDF sums each light's selection probability times its PDF at
// direction, the one-sample MIS estimator's light-sampling density for a
// direction chosen by BSDF sampling instead.
func (pt *PathTracingIntegrator) combinedLightPDF(scn *scene.Scene, point, normal, direction core.Vec3) float64 {
	if scn.LightSampler == nil {
		return 0
	}
	var total float64
	for i, light := range scn.Lights {
		prob := scn.LightSampler.GetLightProbability(i, point, normal)
		if prob <= 0 {
			continue
		}
		total += prob * light.PDF(point, normal, direction)
	}
	return total
}

// ApplyRussianRoulette decides whether to terminate a path after the
// configured minimum bounce count, returning the throughput compensation
// factor for surviving paths.
func (pt *PathTracingIntegrator) ApplyRussianRoulette(depth int, throughput core.Vec3, sample float64) (bool, float64) {
	currentBounce := pt.config.MaxDepth - depth
	if currentBounce < pt.config.RussianRouletteMinBounces {
		return false, 1.0
	}

	luminance := throughput.Luminance()
	survivalProb := math.Min(0.95, math.Max(0.5, luminance))

	if sample > survivalProb {
		return true, 0.0
	}
	return false, 1.0 / survivalProb
}

// BackgroundEmission sums every infinite light's emission toward ray, the
// contribution a ray that escapes the scene still receives.
func (pt *PathTracingIntegrator) BackgroundEmission(ray core.Ray, scn *scene.Scene) core.Vec3 {
	var total core.Vec3
	for _, light := range scn.Lights {
		if light.Type() == lights.LightTypeInfinite {
			total = total.Add(light.Emit(ray))
		}
	}
	return total
}

func (pt *PathTracingIntegrator) logf(format string, a ...interface{}) {
	if pt.Verbose {
		fmt.Printf(format, a...)
	}
}
