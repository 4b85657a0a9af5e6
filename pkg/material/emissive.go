package material

import (
	"github.com/yafaray/yafaray-go/pkg/core"
	"github.com/yafaray/yafaray-go/pkg/geometry"
)

// Emissive is a light-emitting material: it absorbs every incoming ray (no
// scattering) and radiates a constant color in all directions from its
// front face. Used to make an ordinary primitive double as an area light's
// geometry.
type Emissive struct {
	EmissionColor core.Vec3
}

// NewEmissive creates a new emissive material.
func NewEmissive(emission core.Vec3) *Emissive {
	return &Emissive{EmissionColor: emission}
}

// SampleBsdf never scatters: emissive surfaces are pure absorbers/emitters.
func (e *Emissive) SampleBsdf(wo core.Vec3, sp *geometry.SurfacePoint, sampler core.Sampler) (geometry.BsdfSample, bool) {
	return geometry.BsdfSample{}, false
}

// EvalBsdf is always zero: lights don't reflect, they only emit.
func (e *Emissive) EvalBsdf(wo, wi core.Vec3, sp *geometry.SurfacePoint) core.Vec3 {
	return core.Vec3{}
}

// Pdf is always zero.
func (e *Emissive) Pdf(wo, wi core.Vec3, sp *geometry.SurfacePoint) float64 {
	return 0
}

// IsSpecular is false; emissive materials simply don't scatter at all.
func (e *Emissive) IsSpecular() bool { return false }

// Emission returns the constant emitted radiance on the front face, zero on
// the back face (one-sided emitter).
func (e *Emissive) Emission(sp *geometry.SurfacePoint, wo core.Vec3) core.Vec3 {
	if !sp.FrontFace {
		return core.Vec3{}
	}
	return e.EmissionColor
}
