package lights

import (
	"math"

	"github.com/yafaray/yafaray-go/pkg/core"
	"github.com/yafaray/yafaray-go/pkg/geometry"
)

// ObjectLight turns an arbitrary mesh's triangles into a single area light,
// sampled by first picking a triangle in proportion to its area and then a
// barycentric point within it. Grounded on the original library's
// object-light mesh-sampling approach of building a piecewise-constant
// distribution over triangle areas before sampling within the chosen one.
type ObjectLight struct {
	triangles   []*geometry.Triangle
	cdf         []float64
	totalArea   float64
	doubleSided bool
}

// NewObjectLight wraps mesh's triangles as a single area light. When
// doubleSided is false, only the triangle's front-facing side emits.
func NewObjectLight(mesh *geometry.TriangleMesh, doubleSided bool) *ObjectLight {
	prims := mesh.Triangles()
	triangles := make([]*geometry.Triangle, 0, len(prims))
	cdf := make([]float64, 0, len(prims))
	var total float64
	for _, p := range prims {
		tri, ok := p.(*geometry.Triangle)
		if !ok {
			continue
		}
		total += tri.SurfaceArea()
		triangles = append(triangles, tri)
		cdf = append(cdf, total)
	}
	return &ObjectLight{triangles: triangles, cdf: cdf, totalArea: total, doubleSided: doubleSided}
}

func (ol *ObjectLight) Type() LightType { return LightTypeArea }
func (ol *ObjectLight) IsDelta() bool   { return false }

// pickTriangle selects a triangle in proportion to its area via inverse-CDF
// search over the running area sum.
func (ol *ObjectLight) pickTriangle(u float64) *geometry.Triangle {
	if len(ol.triangles) == 0 {
		return nil
	}
	target := u * ol.totalArea
	lo, hi := 0, len(ol.cdf)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if ol.cdf[mid] < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return ol.triangles[lo]
}

// barycentricPoint maps a unit-square sample to a uniformly distributed
// barycentric point within tri via Shirley-Chiu's folded-triangle mapping.
func barycentricPoint(tri *geometry.Triangle, sample core.Vec2) (core.Vec3, core.Vec3) {
	su := math.Sqrt(sample.X)
	b0 := 1 - su
	b1 := sample.Y * su
	point := tri.V0.Multiply(b0).Add(tri.V1.Multiply(b1)).Add(tri.V2.Multiply(1 - b0 - b1))
	return point, tri.GetNormal()
}

// Sample implements Light: samples a point on the mesh proportional to
// triangle area, for direct lighting.
func (ol *ObjectLight) Sample(point core.Vec3, normal core.Vec3, sample core.Vec2) LightSample {
	tri := ol.pickTriangle(sample.X)
	if tri == nil || ol.totalArea <= 0 {
		return LightSample{}
	}
	samplePoint, triNormal := barycentricPoint(tri, sample)

	toLight := samplePoint.Subtract(point)
	distSq := toLight.LengthSquared()
	if distSq <= 0 {
		return LightSample{}
	}
	distance := math.Sqrt(distSq)
	direction := toLight.Multiply(1.0 / distance)

	cosLight := triNormal.Dot(direction.Negate())
	if cosLight < 0 {
		if !ol.doubleSided {
			return LightSample{}
		}
		cosLight = -cosLight
		triNormal = triNormal.Negate()
	}
	if cosLight < 1e-8 {
		return LightSample{}
	}

	emission := tri.Material.Emission(&geometry.SurfacePoint{P: samplePoint, Ng: triNormal, Ns: triNormal, FrontFace: true}, direction.Negate())

	areaPDF := 1.0 / ol.totalArea
	solidAnglePDF := areaPDF * distSq / cosLight

	return LightSample{
		Point:     samplePoint,
		Normal:    triNormal,
		Direction: direction,
		Distance:  distance,
		Emission:  emission,
		PDF:       solidAnglePDF,
	}
}

// PDF implements Light: area-proportional triangles make an exact
// closed-form PDF impractical without a full intersection; this repo
// returns 0 for the BSDF-sampled-ray MIS term and relies on explicit light
// sampling to find these lights, matching the mesh-light's coverage as
// implemented for direct lighting above.
func (ol *ObjectLight) PDF(point, normal, direction core.Vec3) float64 { return 0.0 }

// SampleEmission implements Light: samples a point proportional to triangle
// area and a cosine-weighted emission direction about its normal, for
// light-path (photon) tracing.
func (ol *ObjectLight) SampleEmission(samplePoint core.Vec2, sampleDirection core.Vec2) EmissionSample {
	tri := ol.pickTriangle(samplePoint.X)
	if tri == nil || ol.totalArea <= 0 {
		return EmissionSample{}
	}
	point, triNormal := barycentricPoint(tri, samplePoint)
	return sampleEmissionDirection(point, triNormal, 1.0/ol.totalArea, tri.Material, sampleDirection)
}

func (ol *ObjectLight) EmissionPDF(point core.Vec3, direction core.Vec3) float64 {
	if ol.totalArea <= 0 {
		return 0.0
	}
	return 1.0 / ol.totalArea
}

// Emit implements Light: the mesh's own triangles are already in the
// scene's primitive list, so a camera ray hitting one picks up its emission
// through material evaluation directly; this light never double-counts it.
func (ol *ObjectLight) Emit(ray core.Ray) core.Vec3 { return core.Vec3{} }
