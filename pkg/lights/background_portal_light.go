package lights

import (
	"math"

	"github.com/yafaray/yafaray-go/pkg/core"
	"github.com/yafaray/yafaray-go/pkg/geometry"
)

// BackgroundPortalLight treats a mesh as a window onto a BackgroundFunc: it
// samples a point on the mesh proportional to triangle area, then returns
// the background's radiance as seen through that point, concentrating
// samples where the background actually shows through an opening (a window,
// a skylight) rather than wasting samples on the whole hemisphere. Grounded
// on the original library's BackgroundPortalLight, whose sampleSurface/
// illumSample pair does exactly this area-proportional mesh sampling
// followed by a background lookup in the sampled direction.
//
// The original additionally makes the portal mesh invisible to camera rays
// and lets a reflection/refraction ray hitting the mesh resolve through its
// own intersect() for MIS; this package's primitive model has no per-object
// visibility toggle, so a portal's triangles remain visible geometry like
// any other mesh and this light only ever contributes via explicit NEE and
// photon emission.
type BackgroundPortalLight struct {
	triangles []*geometry.Triangle
	cdf       []float64
	area      float64
	eval      BackgroundFunc

	worldCenter core.Vec3
	worldRadius float64
}

// NewBackgroundPortalLight wraps mesh's triangles as a background portal,
// evaluating eval for the radiance seen through each sampled point.
func NewBackgroundPortalLight(mesh *geometry.TriangleMesh, eval BackgroundFunc) *BackgroundPortalLight {
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
	return &BackgroundPortalLight{triangles: triangles, cdf: cdf, area: total, eval: eval}
}

func (bp *BackgroundPortalLight) Type() LightType { return LightTypeArea }
func (bp *BackgroundPortalLight) IsDelta() bool   { return false }

func (bp *BackgroundPortalLight) pickTriangle(u float64) *geometry.Triangle {
	if len(bp.triangles) == 0 {
		return nil
	}
	target := u * bp.area
	lo, hi := 0, len(bp.cdf)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if bp.cdf[mid] < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return bp.triangles[lo]
}

// Sample implements Light: samples a mesh point proportional to triangle
// area, then looks up the background's radiance along the direction from
// point to it (illumSample in the original).
func (bp *BackgroundPortalLight) Sample(point core.Vec3, normal core.Vec3, sample core.Vec2) LightSample {
	tri := bp.pickTriangle(sample.X)
	if tri == nil || bp.area <= 0 {
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

	cosAngle := -direction.Dot(triNormal)
	if cosAngle <= 0 {
		return LightSample{}
	}

	pdf := distSq * math.Pi / (bp.area * cosAngle)

	return LightSample{
		Point:     samplePoint,
		Normal:    triNormal,
		Direction: direction,
		Distance:  distance,
		Emission:  bp.eval(direction),
		PDF:       pdf,
	}
}

// PDF implements Light: left at 0 since this package has no per-object
// visibility toggle to keep a BSDF-sampled ray from separately hitting the
// portal's own triangles and double counting (see the type doc comment).
func (bp *BackgroundPortalLight) PDF(point, normal, direction core.Vec3) float64 { return 0.0 }

// SampleEmission implements Light: samples a mesh point proportional to
// triangle area and a cosine-weighted direction into the scene, carrying
// the background's radiance along it, for light-path (photon) tracing.
func (bp *BackgroundPortalLight) SampleEmission(samplePoint core.Vec2, sampleDirection core.Vec2) EmissionSample {
	tri := bp.pickTriangle(samplePoint.X)
	if tri == nil || bp.area <= 0 {
		return EmissionSample{}
	}
	point, triNormal := barycentricPoint(tri, samplePoint)
	direction := core.SampleCosineHemisphere(triNormal, sampleDirection)
	cosTheta := direction.Dot(triNormal)

	return EmissionSample{
		Point:        point,
		Normal:       triNormal,
		Direction:    direction,
		Emission:     bp.eval(direction.Negate()),
		AreaPDF:      1.0 / bp.area,
		DirectionPDF: cosTheta / math.Pi,
	}
}

func (bp *BackgroundPortalLight) EmissionPDF(point core.Vec3, direction core.Vec3) float64 {
	if bp.area <= 0 {
		return 0.0
	}
	return 1.0 / bp.area
}

// Emit implements Light: the portal's own triangles carry no material
// emission of their own, so a camera ray hitting the mesh directly sees
// nothing from this light (see the type doc comment on the dropped
// invisible-mesh/intersect MIS path).
func (bp *BackgroundPortalLight) Emit(ray core.Ray) core.Vec3 { return core.Vec3{} }

// Preprocess implements Preprocessor: records the scene's bounding sphere,
// kept for parity with the other infinite-adjacent lights even though this
// light's own sampling only ever targets the finite portal mesh.
func (bp *BackgroundPortalLight) Preprocess(worldCenter core.Vec3, worldRadius float64) error {
	bp.worldCenter = worldCenter
	bp.worldRadius = worldRadius
	return nil
}
