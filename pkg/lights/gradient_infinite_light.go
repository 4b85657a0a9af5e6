package lights

import (
	"math"

	"github.com/yafaray/yafaray-go/pkg/core"
)

// GradientInfiniteLight is an infinite area light whose emission varies
// linearly between a bottom and a top color by the direction's Y component,
// producing a simple sky gradient.
type GradientInfiniteLight struct {
	topColor    core.Vec3
	bottomColor core.Vec3
	worldCenter core.Vec3
	worldRadius float64
}

// NewGradientInfiniteLight creates a new gradient infinite light.
func NewGradientInfiniteLight(topColor, bottomColor core.Vec3) *GradientInfiniteLight {
	return &GradientInfiniteLight{topColor: topColor, bottomColor: bottomColor}
}

func (gil *GradientInfiniteLight) Type() LightType {
	return LightTypeInfinite
}

func (gil *GradientInfiniteLight) IsDelta() bool { return false }

func (gil *GradientInfiniteLight) emissionForDirection(direction core.Vec3) core.Vec3 {
	t := 0.5 * (direction.Y + 1.0)
	return gil.bottomColor.Multiply(1.0 - t).Add(gil.topColor.Multiply(t))
}

// Sample implements Light: samples the visible hemisphere cosine-weighted.
func (gil *GradientInfiniteLight) Sample(point core.Vec3, normal core.Vec3, sample core.Vec2) LightSample {
	direction := core.SampleCosineHemisphere(normal, sample)
	cosTheta := direction.Dot(normal)
	emission := gil.emissionForDirection(direction)

	return LightSample{
		Point:     point.Add(direction.Multiply(1e10)),
		Normal:    direction.Negate(),
		Direction: direction,
		Distance:  math.Inf(1),
		Emission:  emission,
		PDF:       cosTheta / math.Pi,
	}
}

func (gil *GradientInfiniteLight) PDF(point, normal, direction core.Vec3) float64 {
	cosTheta := direction.Dot(normal)
	if cosTheta <= 0 {
		return 0.0
	}
	return cosTheta / math.Pi
}

// SampleEmission implements Light: samples an emission ray entering the
// scene's bounding sphere, for light-path (photon) tracing.
func (gil *GradientInfiniteLight) SampleEmission(samplePoint core.Vec2, sampleDirection core.Vec2) EmissionSample {
	ray, areaPDF, directionPDF := sampleInfiniteLightEmission(gil.worldCenter, gil.worldRadius, samplePoint, sampleDirection)
	emission := gil.emissionForDirection(ray.Direction.Negate())

	return EmissionSample{
		Point:        ray.Origin,
		Normal:       ray.Direction.Negate(),
		Direction:    ray.Direction,
		Emission:     emission,
		AreaPDF:      areaPDF,
		DirectionPDF: directionPDF,
	}
}

func (gil *GradientInfiniteLight) EmissionPDF(point core.Vec3, direction core.Vec3) float64 {
	if gil.worldRadius <= 0 {
		return 0.0
	}
	return 1.0 / (math.Pi * gil.worldRadius * gil.worldRadius)
}

// Emit implements Light: the gradient color for ray's direction.
func (gil *GradientInfiniteLight) Emit(ray core.Ray) core.Vec3 {
	return gil.emissionForDirection(ray.Direction.Normalize())
}

// Preprocess implements Preprocessor: records the scene's bounding sphere so
// emission sampling can place rays entering it.
func (gil *GradientInfiniteLight) Preprocess(worldCenter core.Vec3, worldRadius float64) error {
	gil.worldCenter = worldCenter
	gil.worldRadius = worldRadius
	return nil
}
