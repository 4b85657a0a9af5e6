package geometry

import "github.com/yafaray/yafaray-go/pkg/core"

// SurfacePoint describes a point where a ray hit a primitive: its position,
// the geometric and shading normals, a tangent frame for anisotropic BSDFs
// and bump mapping, UV and object-space (orco) coordinates for texturing, and
// the ray parameter and differentials needed to estimate the surface's
// screen-space footprint.
type SurfacePoint struct {
	P         core.Vec3 // world-space hit position
	Ng        core.Vec3 // geometric normal (from the raw triangle/quad/sphere)
	Ns        core.Vec3 // shading normal (may differ under smooth shading)
	Tangent   core.Vec3
	Bitangent core.Vec3
	UV        core.Vec2
	Orco      core.Vec3 // object-space coordinate, stable under instancing

	T         float64
	FrontFace bool
	Time      float64

	Material  Material
	Primitive Primitive

	// DpDx/DpDy approximate how P shifts for a one-pixel step in screen
	// space, derived from the incoming ray's differentials.
	DpDx, DpDy core.Vec3
}

// SetFaceNormal sets Ng (and Ns, if not already assigned) from an outward
// normal, flipping it to face the incoming ray.
func (sp *SurfacePoint) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	sp.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if sp.FrontFace {
		sp.Ng = outwardNormal
	} else {
		sp.Ng = outwardNormal.Negate()
	}
	if sp.Ns.IsZero() {
		sp.Ns = sp.Ng
	}
}

// BsdfSample is the result of importance-sampling a material's BSDF at a
// surface point: the sampled incoming direction, its throughput
// (attenuation), the PDF of having sampled it, and whether it came from a
// delta (specular) lobe with no finite PDF.
type BsdfSample struct {
	Wi          core.Vec3
	Attenuation core.Vec3
	Pdf         float64
	Specular    bool
}

// Material is the BSDF contract a SurfacePoint resolves to. It is defined
// here (rather than in pkg/material, which implements it) so geometry can
// embed a Material in SurfacePoint without importing pkg/material — texture
// sampling and full BSDF evaluation are opaque to the geometry layer.
type Material interface {
	// SampleBsdf importance-samples an incoming direction wi given outgoing
	// direction wo (pointing away from the surface, toward the viewer/prior
	// vertex).
	SampleBsdf(wo core.Vec3, sp *SurfacePoint, sampler core.Sampler) (BsdfSample, bool)

	// EvalBsdf evaluates the BSDF for explicit wo/wi, used by direct-light
	// MIS where the light direction is already known.
	EvalBsdf(wo, wi core.Vec3, sp *SurfacePoint) core.Vec3

	// Pdf returns the PDF SampleBsdf would have assigned to wi.
	Pdf(wo, wi core.Vec3, sp *SurfacePoint) float64

	// IsSpecular reports whether every lobe of this material is a delta
	// distribution (mirror, smooth dielectric): such materials never
	// contribute to direct-light MIS.
	IsSpecular() bool

	// Emission returns self-emitted radiance leaving sp toward wo.
	Emission(sp *SurfacePoint, wo core.Vec3) core.Vec3
}
