package lights

import (
	"math"

	"github.com/yafaray/yafaray-go/pkg/core"
	"github.com/yafaray/yafaray-go/pkg/geometry"
)

// sampleInfiniteLightEmission implements PBRT's disk-sampling strategy for
// emitting a light-path ray from an infinite (directional-emission) light:
// a direction is drawn uniformly over the sphere, then a point is sampled
// over a disk of worldRadius perpendicular to that direction and offset to
// the far side of the scene's bounding sphere, so the resulting ray enters
// the finite scene travelling along -direction.
func sampleInfiniteLightEmission(worldCenter core.Vec3, worldRadius float64, samplePoint, sampleDirection core.Vec2) (ray core.Ray, areaPDF, directionPDF float64) {
	direction := core.SampleUniformSphere(sampleDirection)

	t, b := core.OrthonormalBasis(direction)
	dx, dy := core.SampleConcentricDisk(samplePoint)
	diskPoint := t.Multiply(dx * worldRadius).Add(b.Multiply(dy * worldRadius))

	origin := worldCenter.Add(direction.Multiply(worldRadius)).Add(diskPoint)
	ray = core.NewRay(origin, direction.Negate())

	if worldRadius <= 0 {
		return ray, 0, 0
	}
	areaPDF = 1.0 / (math.Pi * worldRadius * worldRadius)
	directionPDF = 1.0 / (4.0 * math.Pi)
	return ray, areaPDF, directionPDF
}

// sampleEmissionDirection draws a cosine-weighted emission direction about
// surface normal, evaluates mat's emission there, and packages the result as
// an EmissionSample for light-path (photon) tracing. Shared by every area
// light's SampleEmission implementation.
func sampleEmissionDirection(point, normal core.Vec3, areaPDF float64, mat geometry.Material, sampleDirection core.Vec2) EmissionSample {
	direction := core.SampleCosineHemisphere(normal, sampleDirection)
	cosTheta := direction.Dot(normal)
	directionPDF := cosTheta / math.Pi

	sp := &geometry.SurfacePoint{P: point, Ng: normal, Ns: normal, FrontFace: true}
	emission := mat.Emission(sp, direction)

	return EmissionSample{
		Point:        point,
		Normal:       normal,
		Direction:    direction,
		Emission:     emission,
		AreaPDF:      areaPDF,
		DirectionPDF: directionPDF,
	}
}
