package lights

import (
	"math"

	"github.com/yafaray/yafaray-go/pkg/core"
	"github.com/yafaray/yafaray-go/pkg/geometry"
)

// QuadLight is a rectangular area light: any Quad primitive carrying an
// emissive material doubles as one when wrapped here.
type QuadLight struct {
	*geometry.Quad
	Area float64
}

// NewQuadLight creates a new quad light.
func NewQuadLight(corner, u, v core.Vec3, mat geometry.Material) *QuadLight {
	quad := geometry.NewQuad(corner, u, v, mat)
	return &QuadLight{
		Quad: quad,
		Area: u.Cross(v).Length(),
	}
}

func (ql *QuadLight) Type() LightType {
	return LightTypeArea
}

func (ql *QuadLight) IsDelta() bool { return false }

// emissionAt evaluates the light's material emission for a direction leaving
// point p on the quad's plane, toward wo.
func (ql *QuadLight) emissionAt(p, wo core.Vec3) core.Vec3 {
	frontFace := wo.Dot(ql.Normal) > 0
	sp := &geometry.SurfacePoint{P: p, Ng: ql.Normal, Ns: ql.Normal, FrontFace: frontFace}
	return ql.Material.Emission(sp, wo)
}

// Sample implements Light: samples a point uniformly on the quad for direct lighting.
func (ql *QuadLight) Sample(point core.Vec3, normal core.Vec3, sample core.Vec2) LightSample {
	samplePoint := ql.Corner.Add(ql.U.Multiply(sample.X)).Add(ql.V.Multiply(sample.Y))

	toLight := samplePoint.Subtract(point)
	distance := toLight.Length()
	direction := toLight.Multiply(1.0 / distance)

	pdf := 1.0 / ql.Area
	cosTheta := math.Abs(ql.Normal.Dot(direction.Multiply(-1)))
	if cosTheta < 1e-8 {
		return LightSample{Point: samplePoint, Normal: ql.Normal, Direction: direction, Distance: distance}
	}

	solidAnglePDF := pdf * distance * distance / cosTheta
	emission := ql.emissionAt(samplePoint, direction.Multiply(-1))

	return LightSample{
		Point:     samplePoint,
		Normal:    ql.Normal,
		Direction: direction,
		Distance:  distance,
		Emission:  emission,
		PDF:       solidAnglePDF,
	}
}

// PDF implements Light: solid-angle PDF for sampling this quad from point in direction.
func (ql *QuadLight) PDF(point, normal, direction core.Vec3) float64 {
	ray := core.NewRay(point, direction)
	sp, hit := ql.Quad.Hit(ray, 0.001, math.Inf(1))
	if !hit {
		return 0.0
	}

	cosTheta := math.Abs(ql.Normal.Dot(direction.Multiply(-1)))
	if cosTheta < 1e-8 {
		return 0.0
	}

	areaPDF := 1.0 / ql.Area
	return areaPDF * sp.T * sp.T / cosTheta
}

// SampleEmission implements Light: samples emission from the quad surface for
// light-path (photon) tracing.
func (ql *QuadLight) SampleEmission(samplePoint core.Vec2, sampleDirection core.Vec2) EmissionSample {
	point := ql.Corner.Add(ql.U.Multiply(samplePoint.X)).Add(ql.V.Multiply(samplePoint.Y))
	emissionDir := core.SampleCosineHemisphere(ql.Normal, sampleDirection)

	areaPDF := 1.0 / ql.Area
	cosTheta := emissionDir.Dot(ql.Normal)
	directionPDF := cosTheta / math.Pi

	emission := ql.emissionAt(point, emissionDir)

	return EmissionSample{
		Point:        point,
		Normal:       ql.Normal,
		Direction:    emissionDir,
		Emission:     emission,
		AreaPDF:      areaPDF,
		DirectionPDF: directionPDF,
	}
}

// EmissionPDF implements Light: area-measure PDF for a point assumed to lie on the quad.
func (ql *QuadLight) EmissionPDF(point core.Vec3, direction core.Vec3) float64 {
	if !ql.onSurface(point) {
		return 0.0
	}
	return 1.0 / ql.Area
}

// PDFLe returns both the positional (area) and directional (cosine-weighted)
// emission PDFs for a point assumed to lie on the quad.
func (ql *QuadLight) PDFLe(point core.Vec3, direction core.Vec3) (pdfPos, pdfDir float64) {
	if !ql.onSurface(point) {
		return 0.0, 0.0
	}

	pdfPos = 1.0 / ql.Area
	cosTheta := direction.Dot(ql.Normal)
	if cosTheta <= 0 {
		return pdfPos, 0.0
	}
	pdfDir = cosTheta / math.Pi
	return pdfPos, pdfDir
}

func (ql *QuadLight) onSurface(point core.Vec3) bool {
	toPoint := point.Subtract(ql.Corner)
	uDotU := ql.U.Dot(ql.U)
	vDotV := ql.V.Dot(ql.V)
	uDotV := ql.U.Dot(ql.V)
	if uDotU == 0 || vDotV == 0 {
		return false
	}

	det := uDotU*vDotV - uDotV*uDotV
	if math.Abs(det) < 1e-8 {
		return false
	}

	toDotU := toPoint.Dot(ql.U)
	toDotV := toPoint.Dot(ql.V)
	alpha := (vDotV*toDotU - uDotV*toDotV) / det
	beta := (uDotU*toDotV - uDotV*toDotU) / det
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return false
	}

	reconstructed := ql.Corner.Add(ql.U.Multiply(alpha)).Add(ql.V.Multiply(beta))
	return reconstructed.Subtract(point).Length() <= 0.001
}

// Emit implements Light: the radiance a camera/reflection ray sees when it
// hits the light's surface directly.
func (ql *QuadLight) Emit(ray core.Ray) core.Vec3 {
	sp, hit := ql.Quad.Hit(ray, 0.001, math.Inf(1))
	if !hit {
		return core.Vec3{}
	}
	return ql.Material.Emission(sp, ray.Direction.Negate())
}
