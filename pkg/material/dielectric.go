package material

import (
	"math"

	"github.com/yafaray/yafaray-go/pkg/core"
	"github.com/yafaray/yafaray-go/pkg/geometry"
)

// Dielectric is a transparent material (glass, water) that both reflects and
// refracts according to Fresnel's equations (Schlick's approximation).
type Dielectric struct {
	RefractiveIndex float64
}

// NewDielectric creates a new dielectric material.
func NewDielectric(refractiveIndex float64) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex}
}

// SampleBsdf stochastically chooses between reflection and refraction,
// weighted by the Fresnel reflectance at the hit angle.
func (d *Dielectric) SampleBsdf(wo core.Vec3, sp *geometry.SurfacePoint, sampler core.Sampler) (geometry.BsdfSample, bool) {
	attenuation := core.NewVec3(1.0, 1.0, 1.0)

	var refractionRatio float64
	if sp.FrontFace {
		refractionRatio = 1.0 / d.RefractiveIndex
	} else {
		refractionRatio = d.RefractiveIndex
	}

	unitDirection := wo.Negate().Normalize()
	cosTheta := math.Min(-unitDirection.Dot(sp.Ns), 1.0)
	sinTheta := math.Sqrt(max(0, 1.0-cosTheta*cosTheta))

	cannotRefract := refractionRatio*sinTheta > 1.0

	var direction core.Vec3
	if cannotRefract || Reflectance(cosTheta, refractionRatio) > sampler.Get1D() {
		direction = unitDirection.Reflect(sp.Ns)
	} else {
		refracted, ok := unitDirection.Refract(sp.Ns, refractionRatio)
		if !ok {
			direction = unitDirection.Reflect(sp.Ns)
		} else {
			direction = refracted
		}
	}

	return geometry.BsdfSample{
		Wi:          direction,
		Attenuation: attenuation,
		Pdf:         0,
		Specular:    true,
	}, true
}

// EvalBsdf returns zero: glass is a delta-distribution material.
func (d *Dielectric) EvalBsdf(wo, wi core.Vec3, sp *geometry.SurfacePoint) core.Vec3 {
	return core.Vec3{}
}

// Pdf is always zero for a delta BSDF.
func (d *Dielectric) Pdf(wo, wi core.Vec3, sp *geometry.SurfacePoint) float64 {
	return 0
}

// IsSpecular is always true for glass.
func (d *Dielectric) IsSpecular() bool { return true }

// Emission is always black.
func (d *Dielectric) Emission(sp *geometry.SurfacePoint, wo core.Vec3) core.Vec3 {
	return core.Vec3{}
}

// Reflectance computes the Fresnel reflectance via Schlick's approximation.
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
