package lights

import (
	"math"

	"github.com/yafaray/yafaray-go/pkg/core"
)

// IESPhotometricData is a pre-parsed IES photometric table: radiance as a
// function of horizontal/vertical angle (in degrees), as produced by an IES
// file parser. Grounded on the original library's IesData class; parsing
// the IES file format itself is outside this package's scope, so callers
// supply an already-parsed table.
type IESPhotometricData interface {
	// Radiance returns the luminaire's relative intensity at the given
	// horizontal and vertical angles, in degrees.
	Radiance(horizontalAngle, verticalAngle float64) float64
	// MaxVAngle returns the largest vertical angle (in degrees) the table
	// defines light beyond which the luminaire emits nothing.
	MaxVAngle() float64
}

// IESLight is a Dirac-delta point light whose angular falloff is shaped by a
// real luminaire's photometric measurement (IESPhotometricData) rather than
// a simple cone, for reproducing the precise beam pattern of a physical
// light fixture. Grounded on the original library's IesLight, which looks up
// IesData::getRadiance at the angle between the light's axis and the sample
// direction, scaled by inverse-square distance.
//
// This light is intentionally not reachable through this package's
// string-keyed light-type dispatch: a parsed photometric table is an opaque
// object, not a value a parameter map can carry, so it is constructed
// directly from Go by whatever loads the IES file.
type IESLight struct {
	position  core.Vec3
	direction core.Vec3
	du, dv    core.Vec3
	color     core.Vec3
	data      IESPhotometricData
	cosEnd    float64
}

// NewIESLight creates an IES light at from, aimed at to, with color scaled
// by the parsed photometric table data.
func NewIESLight(from, to, color core.Vec3, data IESPhotometricData) *IESLight {
	direction := from.Subtract(to).Normalize()
	du, dv := core.OrthonormalBasis(direction)
	return &IESLight{
		position:  from,
		direction: direction,
		du:        du,
		dv:        dv,
		color:     color,
		data:      data,
		cosEnd:    math.Cos(data.MaxVAngle() * math.Pi / 180.0),
	}
}

func (il *IESLight) Type() LightType { return LightTypeDelta }
func (il *IESLight) IsDelta() bool   { return true }

// angles converts a direction away from the light into the (horizontal,
// vertical) angle pair the photometric table is indexed by, matching the
// original's getAngles: the horizontal angle is measured around the
// direction axis's local u basis vector, the vertical angle from the beam
// axis itself.
func (il *IESLight) angles(dir core.Vec3, cosTheta float64) (h, v float64) {
	duDot := dir.Dot(il.du)
	if duDot >= 1 {
		h = 0
	} else {
		h = math.Acos(math.Max(-1, math.Min(1, duDot))) * 180.0 / math.Pi
	}
	if dir.Dot(il.dv) < 0 {
		h = 360.0 - h
	}
	if cosTheta >= 1 {
		v = 0
	} else {
		v = math.Acos(math.Max(-1, math.Min(1, cosTheta))) * 180.0 / math.Pi
	}
	return h, v
}

// Sample implements Light: the single direction toward the fixture,
// attenuated by inverse-square distance and the photometric table's
// radiance at the corresponding angle.
func (il *IESLight) Sample(point core.Vec3, normal core.Vec3, sample core.Vec2) LightSample {
	toLight := il.position.Subtract(point)
	distSq := toLight.LengthSquared()
	if distSq <= 0 {
		return LightSample{}
	}
	distance := math.Sqrt(distSq)
	direction := toLight.Multiply(1.0 / distance)

	cosAngle := il.direction.Dot(direction)
	if cosAngle < il.cosEnd {
		return LightSample{}
	}
	h, v := il.angles(direction, cosAngle)
	radiance := il.data.Radiance(h, v)
	if radiance <= 0 {
		return LightSample{}
	}

	return LightSample{
		Point:     il.position,
		Normal:    direction.Negate(),
		Direction: direction,
		Distance:  distance,
		Emission:  il.color.Multiply(radiance / distSq),
		PDF:       1.0,
	}
}

func (il *IESLight) PDF(point, normal, direction core.Vec3) float64 { return 0.0 }

// SampleEmission implements Light: emits within the table's maximum cone,
// for light-path (photon) tracing. The photometric shape is applied as
// emitted radiance rather than folded into the sampling distribution, the
// same simplification the delta point/spot lights make.
func (il *IESLight) SampleEmission(samplePoint core.Vec2, sampleDirection core.Vec2) EmissionSample {
	direction, conePDF := core.SampleUniformCone(il.direction.Negate(), il.cosEnd, sampleDirection)
	toLight := direction.Negate()
	h, v := il.angles(toLight, il.direction.Dot(toLight))
	radiance := il.data.Radiance(h, v)

	return EmissionSample{
		Point:        il.position,
		Normal:       direction,
		Direction:    direction,
		Emission:     il.color.Multiply(radiance),
		AreaPDF:      1.0,
		DirectionPDF: conePDF,
	}
}

func (il *IESLight) EmissionPDF(point core.Vec3, direction core.Vec3) float64 {
	if point.Subtract(il.position).LengthSquared() > 1e-9 {
		return 0.0
	}
	cosAngle := il.direction.Dot(direction.Negate())
	if cosAngle < il.cosEnd {
		return 0.0
	}
	return 1.0 / (2.0 * math.Pi * (1.0 - il.cosEnd))
}

// Emit implements Light: a fixture has zero probability of being hit
// directly by a ray.
func (il *IESLight) Emit(ray core.Ray) core.Vec3 { return core.Vec3{} }
