package material

import (
	"github.com/yafaray/yafaray-go/pkg/core"
	"github.com/yafaray/yafaray-go/pkg/geometry"
)

// Metal is a specular-reflective material with optional fuzz (a lobe width
// around the perfect mirror direction). Fuzzness=0 is an exact mirror; fuzz > 0
// randomly perturbs the reflected direction. At any fuzz the material is
// treated as a delta BSDF (Pdf 0, IsSpecular true).
type Metal struct {
	Albedo   core.Vec3
	Fuzzness float64
}

// NewMetal creates a new metal material, clamping fuzzness to [0,1].
func NewMetal(albedo core.Vec3, fuzzness float64) *Metal {
	if fuzzness > 1.0 {
		fuzzness = 1.0
	}
	if fuzzness < 0.0 {
		fuzzness = 0.0
	}
	return &Metal{Albedo: albedo, Fuzzness: fuzzness}
}

// SampleBsdf reflects wo about the shading normal, perturbed by Fuzzness.
func (m *Metal) SampleBsdf(wo core.Vec3, sp *geometry.SurfacePoint, sampler core.Sampler) (geometry.BsdfSample, bool) {
	reflected := wo.Negate().Reflect(sp.Ns)
	if m.Fuzzness > 0 {
		perturbation := core.SampleUniformSphere(sampler.Get2D()).Multiply(m.Fuzzness)
		reflected = reflected.Add(perturbation).Normalize()
	}

	if reflected.Dot(sp.Ns) <= 0 {
		return geometry.BsdfSample{}, false
	}

	return geometry.BsdfSample{
		Wi:          reflected,
		Attenuation: m.Albedo,
		Pdf:         0,
		Specular:    true,
	}, true
}

// EvalBsdf returns zero: a delta-distribution material contributes nothing
// to explicit wi evaluation (direct-light MIS skips specular materials
// entirely, per IsSpecular).
func (m *Metal) EvalBsdf(wo, wi core.Vec3, sp *geometry.SurfacePoint) core.Vec3 {
	return core.Vec3{}
}

// Pdf is always zero for a delta BSDF.
func (m *Metal) Pdf(wo, wi core.Vec3, sp *geometry.SurfacePoint) float64 {
	return 0
}

// IsSpecular is true: metal is always treated as a delta lobe, even with
// fuzz, matching the teacher's PDF=0/isDelta=true contract for specular
// materials.
func (m *Metal) IsSpecular() bool { return true }

// Emission is always black.
func (m *Metal) Emission(sp *geometry.SurfacePoint, wo core.Vec3) core.Vec3 {
	return core.Vec3{}
}
