package lights

import (
	"math"

	"github.com/yafaray/yafaray-go/pkg/core"
)

// DirectionalLight is a Dirac-delta parallel-ray light: every point in the
// scene receives light from the same direction, optionally restricted to a
// finite cylinder of radius around an axis through from rather than
// illuminating unconditionally. Grounded on the original library's
// DirectionalLight, whose illuminate() rejects points outside that cylinder
// when infinite_ is false and otherwise treats the whole scene as lit.
type DirectionalLight struct {
	direction core.Vec3
	color     core.Vec3
	infinite  bool
	radius    float64
	axisPoint core.Vec3

	worldCenter core.Vec3
	worldRadius float64
}

// NewDirectionalLight creates a directional light shining along direction
// (from light toward the scene). When infinite is false, only points within
// radius of the line through axisPoint along direction are illuminated.
func NewDirectionalLight(direction, color, axisPoint core.Vec3, radius float64, infinite bool) *DirectionalLight {
	return &DirectionalLight{
		direction: direction.Normalize(),
		color:     color,
		infinite:  infinite,
		radius:    radius,
		axisPoint: axisPoint,
	}
}

func (dl *DirectionalLight) Type() LightType { return LightTypeDelta }
func (dl *DirectionalLight) IsDelta() bool   { return true }

func (dl *DirectionalLight) illuminated(point core.Vec3) bool {
	if dl.infinite {
		return true
	}
	toPoint := point.Subtract(dl.axisPoint)
	perp := dl.direction.Cross(toPoint).Length()
	if perp > dl.radius {
		return false
	}
	return toPoint.Dot(dl.direction) > 0
}

// Sample implements Light: a single ray travelling opposite direction, with
// infinite distance since the light itself has no position.
func (dl *DirectionalLight) Sample(point core.Vec3, normal core.Vec3, sample core.Vec2) LightSample {
	if !dl.illuminated(point) {
		return LightSample{}
	}
	toLight := dl.direction.Negate()
	return LightSample{
		Point:     point.Add(toLight.Multiply(2 * dl.worldRadius)),
		Normal:    dl.direction,
		Direction: toLight,
		Distance:  math.Inf(1),
		Emission:  dl.color,
		PDF:       1.0,
	}
}

func (dl *DirectionalLight) PDF(point, normal, direction core.Vec3) float64 { return 0.0 }

// SampleEmission implements Light: emits parallel rays along direction from
// a disc of worldRadius on the upstream side of the scene's bounding sphere.
func (dl *DirectionalLight) SampleEmission(samplePoint core.Vec2, sampleDirection core.Vec2) EmissionSample {
	t, b := core.OrthonormalBasis(dl.direction)
	dx, dy := core.SampleConcentricDisk(samplePoint)
	diskPoint := t.Multiply(dx * dl.worldRadius).Add(b.Multiply(dy * dl.worldRadius))

	origin := dl.worldCenter.Subtract(dl.direction.Multiply(dl.worldRadius)).Add(diskPoint)
	areaPDF := 1.0
	if dl.worldRadius > 0 {
		areaPDF = 1.0 / (math.Pi * dl.worldRadius * dl.worldRadius)
	}

	return EmissionSample{
		Point:        origin,
		Normal:       dl.direction,
		Direction:    dl.direction,
		Emission:     dl.color,
		AreaPDF:      areaPDF,
		DirectionPDF: 1.0,
	}
}

func (dl *DirectionalLight) EmissionPDF(point core.Vec3, direction core.Vec3) float64 { return 0.0 }

// Emit implements Light: a directional light has no position to be seen at,
// so it never contributes to escaped/background rays.
func (dl *DirectionalLight) Emit(ray core.Ray) core.Vec3 { return core.Vec3{} }

// Preprocess implements Preprocessor: records the scene's bounding sphere so
// emission sampling can place rays entering it, and so an infinite light's
// Sample can place its virtual origin far enough outside the scene.
func (dl *DirectionalLight) Preprocess(worldCenter core.Vec3, worldRadius float64) error {
	dl.worldCenter = worldCenter
	dl.worldRadius = worldRadius
	return nil
}
