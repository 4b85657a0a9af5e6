package lights

import (
	"math"

	"github.com/yafaray/yafaray-go/pkg/core"
)

// SpotLight is a Dirac-delta cone light: position, aim direction, and an
// inner/outer cone pair with a smoothstep falloff between them, grounded on
// the original library's SpotLight — distinct from DiscSpotLight, which
// models a spot as a physical disc area emitter. cosStart/cosEnd are
// derived from angleDegrees (the full cone half-angle) and falloff (the
// fraction of that angle, from the outer edge inward, over which the
// smoothstep transition runs).
type SpotLight struct {
	position  core.Vec3
	direction core.Vec3
	color     core.Vec3
	cosStart  float64
	cosEnd    float64
}

// NewSpotLight creates a spot light at from, aimed at to, emitting color
// within a cone of half-angle angleDegrees; falloff in [0,1] is the
// fraction of the cone (from its edge) over which emission smoothsteps
// from 0 to full intensity.
func NewSpotLight(from, to, color core.Vec3, angleDegrees, falloff float64) *SpotLight {
	direction := to.Subtract(from).Normalize()
	angle := angleDegrees * math.Pi / 180.0
	innerAngle := angle * (1.0 - falloff)
	return &SpotLight{
		position:  from,
		direction: direction,
		color:     color,
		cosStart:  math.Cos(innerAngle),
		cosEnd:    math.Cos(angle),
	}
}

func (sl *SpotLight) Type() LightType { return LightTypeDelta }
func (sl *SpotLight) IsDelta() bool   { return true }

func (sl *SpotLight) falloff(cosAngle float64) float64 {
	if cosAngle >= sl.cosStart {
		return 1.0
	}
	if cosAngle <= sl.cosEnd {
		return 0.0
	}
	v := (cosAngle - sl.cosEnd) / (sl.cosStart - sl.cosEnd)
	return v * v * (3.0 - 2.0*v)
}

// Sample implements Light: the single direction toward the spot's position,
// attenuated by inverse-square distance and the cone's smoothstep falloff.
func (sl *SpotLight) Sample(point core.Vec3, normal core.Vec3, sample core.Vec2) LightSample {
	toLight := sl.position.Subtract(point)
	distSq := toLight.LengthSquared()
	if distSq <= 0 {
		return LightSample{}
	}
	distance := math.Sqrt(distSq)
	direction := toLight.Multiply(1.0 / distance)

	cosAngle := sl.direction.Dot(direction.Negate())
	if cosAngle <= sl.cosEnd {
		return LightSample{}
	}

	emission := sl.color.Multiply(sl.falloff(cosAngle) / distSq)
	return LightSample{
		Point:     sl.position,
		Normal:    direction.Negate(),
		Direction: direction,
		Distance:  distance,
		Emission:  emission,
		PDF:       1.0,
	}
}

func (sl *SpotLight) PDF(point, normal, direction core.Vec3) float64 { return 0.0 }

// SampleEmission implements Light: emits within the outer cone, for
// light-path (photon) tracing.
func (sl *SpotLight) SampleEmission(samplePoint core.Vec2, sampleDirection core.Vec2) EmissionSample {
	direction, conePDF := core.SampleUniformCone(sl.direction, sl.cosEnd, sampleDirection)
	cosAngle := sl.direction.Dot(direction)
	emission := sl.color.Multiply(sl.falloff(cosAngle))

	return EmissionSample{
		Point:        sl.position,
		Normal:       direction,
		Direction:    direction,
		Emission:     emission,
		AreaPDF:      1.0,
		DirectionPDF: conePDF,
	}
}

func (sl *SpotLight) EmissionPDF(point core.Vec3, direction core.Vec3) float64 {
	if point.Subtract(sl.position).LengthSquared() > 1e-9 {
		return 0.0
	}
	cosAngle := sl.direction.Dot(direction)
	if cosAngle <= sl.cosEnd {
		return 0.0
	}
	return 1.0 / (2.0 * math.Pi * (1.0 - sl.cosEnd))
}

// Emit implements Light: a spot light has zero probability of being hit
// directly by a ray.
func (sl *SpotLight) Emit(ray core.Ray) core.Vec3 { return core.Vec3{} }
