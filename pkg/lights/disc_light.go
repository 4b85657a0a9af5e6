package lights

import (
	"math"

	"github.com/yafaray/yafaray-go/pkg/core"
	"github.com/yafaray/yafaray-go/pkg/geometry"
)

// DiscLight is a flat circular area light.
type DiscLight struct {
	*geometry.Disc
}

// NewDiscLight creates a new disc light facing normal.
func NewDiscLight(center, normal core.Vec3, radius float64, mat geometry.Material) *DiscLight {
	return &DiscLight{Disc: geometry.NewDisc(center, normal, radius, mat)}
}

func (dl *DiscLight) Type() LightType {
	return LightTypeArea
}

func (dl *DiscLight) IsDelta() bool { return false }

func (dl *DiscLight) emissionAt(p, wo core.Vec3) core.Vec3 {
	sp := &geometry.SurfacePoint{P: p, Ng: dl.Normal, Ns: dl.Normal, FrontFace: wo.Dot(dl.Normal) > 0}
	return dl.Material.Emission(sp, wo)
}

// Sample implements Light: samples a point uniformly on the disc.
func (dl *DiscLight) Sample(point core.Vec3, normal core.Vec3, sample core.Vec2) LightSample {
	samplePoint, n := dl.Disc.SampleUniform(sample)

	toLight := samplePoint.Subtract(point)
	distance := toLight.Length()
	direction := toLight.Multiply(1.0 / distance)

	cosTheta := math.Abs(n.Dot(direction.Multiply(-1)))
	area := dl.SurfaceArea()
	if cosTheta < 1e-8 || area == 0 {
		return LightSample{Point: samplePoint, Normal: n, Direction: direction, Distance: distance}
	}

	pdf := (1.0 / area) * distance * distance / cosTheta
	emission := dl.emissionAt(samplePoint, direction.Multiply(-1))

	return LightSample{
		Point:     samplePoint,
		Normal:    n,
		Direction: direction,
		Distance:  distance,
		Emission:  emission,
		PDF:       pdf,
	}
}

// PDF implements Light: solid-angle PDF for sampling this disc from point in direction.
func (dl *DiscLight) PDF(point, normal, direction core.Vec3) float64 {
	ray := core.NewRay(point, direction)
	sp, hit := dl.Disc.Hit(ray, 0.001, math.Inf(1))
	if !hit {
		return 0.0
	}
	cosTheta := math.Abs(dl.Normal.Dot(direction.Multiply(-1)))
	if cosTheta < 1e-8 {
		return 0.0
	}
	return (1.0 / dl.SurfaceArea()) * sp.T * sp.T / cosTheta
}

// SampleEmission implements Light: samples emission from the disc surface for light-path tracing.
func (dl *DiscLight) SampleEmission(samplePoint core.Vec2, sampleDirection core.Vec2) EmissionSample {
	point, normal := dl.Disc.SampleUniform(samplePoint)
	areaPDF := 1.0 / dl.SurfaceArea()
	return sampleEmissionDirection(point, normal, areaPDF, dl.Material, sampleDirection)
}

// EmissionPDF implements Light: area-measure PDF for a point assumed to lie on the disc.
func (dl *DiscLight) EmissionPDF(point core.Vec3, direction core.Vec3) float64 {
	if point.Subtract(dl.Center).LengthSquared() > dl.Radius*dl.Radius+1e-6 {
		return 0.0
	}
	if direction.Dot(dl.Normal) <= 0 {
		return 0.0
	}
	return 1.0 / dl.SurfaceArea()
}

// Emit implements Light: the radiance a camera/reflection ray sees when it
// hits the light's surface directly.
func (dl *DiscLight) Emit(ray core.Ray) core.Vec3 {
	sp, hit := dl.Disc.Hit(ray, 0.001, math.Inf(1))
	if !hit {
		return core.Vec3{}
	}
	return dl.Material.Emission(sp, ray.Direction.Negate())
}
