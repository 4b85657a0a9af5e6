package material

import (
	"math"

	"github.com/yafaray/yafaray-go/pkg/core"
	"github.com/yafaray/yafaray-go/pkg/geometry"
)

// Lambertian is a perfectly diffuse material: BSDF = Albedo / pi, sampled
// cosine-weighted about the shading normal.
type Lambertian struct {
	Albedo core.Vec3
}

// NewLambertian creates a new lambertian material.
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// SampleBsdf draws a cosine-weighted direction about the shading normal.
func (l *Lambertian) SampleBsdf(wo core.Vec3, sp *geometry.SurfacePoint, sampler core.Sampler) (geometry.BsdfSample, bool) {
	wi := core.SampleCosineHemisphere(sp.Ns, sampler.Get2D())
	cosTheta := max(0, wi.Dot(sp.Ns))
	return geometry.BsdfSample{
		Wi:          wi,
		Attenuation: l.Albedo.Multiply(1.0 / math.Pi),
		Pdf:         core.CosineHemispherePDF(cosTheta),
	}, true
}

// EvalBsdf returns the constant Lambertian BRDF value for wi on the correct
// side of the surface.
func (l *Lambertian) EvalBsdf(wo, wi core.Vec3, sp *geometry.SurfacePoint) core.Vec3 {
	if wi.Dot(sp.Ns) <= 0 {
		return core.Vec3{}
	}
	return l.Albedo.Multiply(1.0 / math.Pi)
}

// Pdf returns the cosine-weighted-hemisphere PDF for wi.
func (l *Lambertian) Pdf(wo, wi core.Vec3, sp *geometry.SurfacePoint) float64 {
	return core.CosineHemispherePDF(wi.Dot(sp.Ns))
}

// IsSpecular is always false for a Lambertian surface.
func (l *Lambertian) IsSpecular() bool { return false }

// Emission is always black; use Emissive for light-emitting surfaces.
func (l *Lambertian) Emission(sp *geometry.SurfacePoint, wo core.Vec3) core.Vec3 {
	return core.Vec3{}
}
