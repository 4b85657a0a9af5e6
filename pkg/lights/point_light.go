package lights

import (
	"math"

	"github.com/yafaray/yafaray-go/pkg/core"
)

// PointLight is a Dirac-delta point light: emission falls off purely by
// inverse-square distance, with no physical extent. Grounded on the
// original library's PointLight::illuminate/illumSample, which return the
// stored color attenuated by 1/distance^2 with no further PDF division —
// this package's Sample/PDF convention represents that by returning the
// attenuated color as Emission and a PDF of 1 (the sample is deterministic
// once the light itself has been selected).
type PointLight struct {
	position core.Vec3
	color    core.Vec3
}

// NewPointLight creates a point light at position emitting color (already
// scaled by any desired power).
func NewPointLight(position, color core.Vec3) *PointLight {
	return &PointLight{position: position, color: color}
}

func (pl *PointLight) Type() LightType { return LightTypeDelta }
func (pl *PointLight) IsDelta() bool   { return true }

// Sample implements Light: the single direction toward the point position,
// attenuated by inverse-square distance.
func (pl *PointLight) Sample(point core.Vec3, normal core.Vec3, sample core.Vec2) LightSample {
	toLight := pl.position.Subtract(point)
	distSq := toLight.LengthSquared()
	if distSq <= 0 {
		return LightSample{}
	}
	distance := math.Sqrt(distSq)
	direction := toLight.Multiply(1.0 / distance)

	return LightSample{
		Point:     pl.position,
		Normal:    direction.Negate(),
		Direction: direction,
		Distance:  distance,
		Emission:  pl.color.Multiply(1.0 / distSq),
		PDF:       1.0,
	}
}

// PDF implements Light: a delta light can never be hit by chance, so a
// BSDF-sampled ray has zero probability of having reached it.
func (pl *PointLight) PDF(point, normal, direction core.Vec3) float64 { return 0.0 }

// SampleEmission implements Light: emits uniformly over the full sphere of
// directions, for light-path (photon) tracing.
func (pl *PointLight) SampleEmission(samplePoint core.Vec2, sampleDirection core.Vec2) EmissionSample {
	direction := core.SampleUniformSphere(sampleDirection)
	return EmissionSample{
		Point:        pl.position,
		Normal:       direction,
		Direction:    direction,
		Emission:     pl.color,
		AreaPDF:      1.0,
		DirectionPDF: 1.0 / (4.0 * math.Pi),
	}
}

func (pl *PointLight) EmissionPDF(point core.Vec3, direction core.Vec3) float64 {
	if point.Subtract(pl.position).LengthSquared() > 1e-9 {
		return 0.0
	}
	return 1.0 / (4.0 * math.Pi)
}

// Emit implements Light: a point light has zero probability of being hit
// directly by a ray, so it never contributes to escaped/background rays.
func (pl *PointLight) Emit(ray core.Ray) core.Vec3 { return core.Vec3{} }
