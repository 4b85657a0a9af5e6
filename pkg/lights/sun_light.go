package lights

import (
	"math"

	"github.com/yafaray/yafaray-go/pkg/core"
)

// SunLight is a directional light with soft shadows: it illuminates every
// point from directions drawn within a narrow cone around a fixed axis,
// rather than a single exact direction, producing a soft penumbra like the
// sun's small but nonzero angular size. Grounded on the original library's
// SunLight, which clamps its half-angle to 80 degrees and derives a constant
// cone-sampling pdf once at construction time.
type SunLight struct {
	direction core.Vec3
	color     core.Vec3
	cosAngle  float64

	worldCenter core.Vec3
	worldRadius float64
}

const sunMaxAngleDegrees = 80.0

// NewSunLight creates a sun light shining along direction (from the sun
// toward the scene) with angular radius angleDegrees, clamped to 80 degrees
// as the original implementation does to keep the cone pdf well-conditioned.
func NewSunLight(direction, color core.Vec3, angleDegrees float64) *SunLight {
	if angleDegrees > sunMaxAngleDegrees {
		angleDegrees = sunMaxAngleDegrees
	}
	return &SunLight{
		direction: direction.Normalize(),
		color:     color,
		cosAngle:  math.Cos(angleDegrees * math.Pi / 180.0),
	}
}

func (sl *SunLight) Type() LightType { return LightTypeDelta }
func (sl *SunLight) IsDelta() bool   { return true }

// Sample implements Light: a direction drawn uniformly within the sun's
// angular cone, at effectively infinite distance.
func (sl *SunLight) Sample(point core.Vec3, normal core.Vec3, sample core.Vec2) LightSample {
	direction, pdf := core.SampleUniformCone(sl.direction.Negate(), sl.cosAngle, sample)
	if pdf <= 0 {
		return LightSample{}
	}
	return LightSample{
		Point:     point.Add(direction.Multiply(2 * sl.worldRadius)),
		Normal:    direction.Negate(),
		Direction: direction,
		Distance:  math.Inf(1),
		Emission:  sl.color,
		PDF:       pdf,
	}
}

func (sl *SunLight) PDF(point, normal, direction core.Vec3) float64 { return 0.0 }

// SampleEmission implements Light: a direction drawn from the sun's cone,
// paired with a disc of worldRadius entering the scene's bounding sphere
// from that direction, for light-path (photon) tracing.
func (sl *SunLight) SampleEmission(samplePoint core.Vec2, sampleDirection core.Vec2) EmissionSample {
	direction, directionPDF := core.SampleUniformCone(sl.direction.Negate(), sl.cosAngle, sampleDirection)

	t, b := core.OrthonormalBasis(direction)
	dx, dy := core.SampleConcentricDisk(samplePoint)
	diskPoint := t.Multiply(dx * sl.worldRadius).Add(b.Multiply(dy * sl.worldRadius))

	origin := sl.worldCenter.Add(direction.Multiply(sl.worldRadius)).Add(diskPoint)
	areaPDF := 1.0
	if sl.worldRadius > 0 {
		areaPDF = 1.0 / (math.Pi * sl.worldRadius * sl.worldRadius)
	}

	return EmissionSample{
		Point:        origin,
		Normal:       direction.Negate(),
		Direction:    direction.Negate(),
		Emission:     sl.color,
		AreaPDF:      areaPDF,
		DirectionPDF: directionPDF,
	}
}

func (sl *SunLight) EmissionPDF(point core.Vec3, direction core.Vec3) float64 { return 0.0 }

// Emit implements Light: the sun has no position to be seen at directly
// through a background ray; its disc is not separately visible.
func (sl *SunLight) Emit(ray core.Ray) core.Vec3 { return core.Vec3{} }

// Preprocess implements Preprocessor: records the scene's bounding sphere so
// emission sampling can place rays entering it.
func (sl *SunLight) Preprocess(worldCenter core.Vec3, worldRadius float64) error {
	sl.worldCenter = worldCenter
	sl.worldRadius = worldRadius
	return nil
}
