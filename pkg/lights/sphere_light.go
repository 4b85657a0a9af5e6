package lights

import (
	"math"

	"github.com/yafaray/yafaray-go/pkg/core"
	"github.com/yafaray/yafaray-go/pkg/geometry"
)

// SphereLight is a spherical area light: an emissive Sphere primitive.
type SphereLight struct {
	*geometry.Sphere
}

// NewSphereLight creates a new spherical light.
func NewSphereLight(center core.Vec3, radius float64, mat geometry.Material) *SphereLight {
	return &SphereLight{Sphere: geometry.NewSphere(center, radius, mat)}
}

func (sl *SphereLight) Type() LightType {
	return LightTypeArea
}

func (sl *SphereLight) IsDelta() bool { return false }

func (sl *SphereLight) emissionAt(p, n, wo core.Vec3) core.Vec3 {
	sp := &geometry.SurfacePoint{P: p, Ng: n, Ns: n, FrontFace: true}
	return sl.Material.Emission(sp, wo)
}

// Sample implements Light: samples the sphere for direct lighting, using
// uniform-sphere sampling when the shading point is inside the sphere and
// cone sampling over the visible cap otherwise.
func (sl *SphereLight) Sample(point core.Vec3, normal core.Vec3, sample core.Vec2) LightSample {
	toCenter := sl.Center.Subtract(point)
	if toCenter.Length() <= sl.Radius {
		return sl.sampleUniform(point, sample)
	}
	return sl.sampleVisible(point, sample)
}

func (sl *SphereLight) sampleUniform(point core.Vec3, sample core.Vec2) LightSample {
	localDir := core.SampleUniformSphere(sample)
	samplePoint := sl.Center.Add(localDir.Multiply(sl.Radius))

	direction := samplePoint.Subtract(point)
	distance := direction.Length()
	dirNormalized := direction.Multiply(1.0 / distance)

	pdf := 1.0 / (4.0 * math.Pi * sl.Radius * sl.Radius)
	emission := sl.emissionAt(samplePoint, localDir, dirNormalized.Negate())

	return LightSample{
		Point:     samplePoint,
		Normal:    localDir,
		Direction: dirNormalized,
		Distance:  distance,
		Emission:  emission,
		PDF:       pdf,
	}
}

func (sl *SphereLight) sampleVisible(point core.Vec3, sample core.Vec2) LightSample {
	toCenter := sl.Center.Subtract(point)
	distanceToCenter := toCenter.Length()
	w := toCenter.Normalize()

	sinThetaMax := sl.Radius / distanceToCenter
	cosThetaMax := math.Sqrt(math.Max(0, 1.0-sinThetaMax*sinThetaMax))

	direction, pdf := core.SampleUniformCone(w, cosThetaMax, sample)

	ray := core.NewRay(point, direction)
	sp, hit := sl.Sphere.Hit(ray, 0.001, math.Inf(1))
	if !hit {
		return sl.sampleUniform(point, sample)
	}

	emission := sl.emissionAt(sp.P, sp.Ng, direction.Negate())

	return LightSample{
		Point:     sp.P,
		Normal:    sp.Ng,
		Direction: direction,
		Distance:  sp.T,
		Emission:  emission,
		PDF:       pdf,
	}
}

// PDF implements Light: solid-angle PDF for sampling this sphere from point in direction.
func (sl *SphereLight) PDF(point, normal, direction core.Vec3) float64 {
	ray := core.NewRay(point, direction)
	_, hit := sl.Sphere.Hit(ray, 0.001, math.Inf(1))
	if !hit {
		return 0.0
	}

	toCenter := sl.Center.Subtract(point)
	distanceToCenter := toCenter.Length()
	if distanceToCenter <= sl.Radius {
		return 1.0 / (4.0 * math.Pi * sl.Radius * sl.Radius)
	}

	sinThetaMax := sl.Radius / distanceToCenter
	cosThetaMax := math.Sqrt(math.Max(0, 1.0-sinThetaMax*sinThetaMax))
	return 1.0 / (2.0 * math.Pi * (1.0 - cosThetaMax))
}

// SampleEmission implements Light: samples emission from the sphere's entire
// surface for light-path tracing.
func (sl *SphereLight) SampleEmission(samplePoint core.Vec2, sampleDirection core.Vec2) EmissionSample {
	localDir := core.SampleUniformSphere(samplePoint)
	point := sl.Center.Add(localDir.Multiply(sl.Radius))

	areaPDF := 1.0 / (4.0 * math.Pi * sl.Radius * sl.Radius)
	return sampleEmissionDirection(point, localDir, areaPDF, sl.Material, sampleDirection)
}

// EmissionPDF implements Light: area-measure PDF for a point assumed to lie on the sphere.
func (sl *SphereLight) EmissionPDF(point core.Vec3, direction core.Vec3) float64 {
	if !validatePointOnSphere(point, sl.Center, sl.Radius, 0.001) {
		return 0.0
	}
	return 1.0 / (4.0 * math.Pi * sl.Radius * sl.Radius)
}

// PDFLe returns both the positional (area) and directional (cosine-weighted)
// emission PDFs for a point assumed to lie on the sphere.
func (sl *SphereLight) PDFLe(point core.Vec3, direction core.Vec3) (pdfPos, pdfDir float64) {
	if !validatePointOnSphere(point, sl.Center, sl.Radius, 0.001) {
		return 0.0, 0.0
	}

	normal := point.Subtract(sl.Center).Normalize()
	if direction.Dot(normal) <= 0 {
		return 0.0, 0.0
	}

	pdfPos = 1.0 / (4.0 * math.Pi * sl.Radius * sl.Radius)
	pdfDir = direction.Dot(normal) / math.Pi
	return pdfPos, pdfDir
}

// Emit implements Light: the radiance a camera/reflection ray sees when it
// hits the light's surface directly.
func (sl *SphereLight) Emit(ray core.Ray) core.Vec3 {
	sp, hit := sl.Sphere.Hit(ray, 0.001, math.Inf(1))
	if !hit {
		return core.Vec3{}
	}
	return sl.Material.Emission(sp, ray.Direction.Negate())
}

func validatePointOnSphere(point core.Vec3, center core.Vec3, radius float64, tolerance float64) bool {
	distFromCenter := point.Subtract(center).Length()
	return math.Abs(distFromCenter-radius) <= tolerance
}
