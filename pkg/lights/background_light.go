package lights

import (
	"math"

	"github.com/yafaray/yafaray-go/pkg/core"
)

// Background sampling-grid constants, grounded on the original library's
// BackgroundLight (max_vsamples_, max_usamples_, min_samples_, sigma_): a
// latitude-longitude grid used to build a tabulated importance-sampling
// distribution over a background function, denser near the equator (where
// sin(theta) is larger) and floored at backgroundMinSamples near the poles.
const (
	backgroundMaxVSamples = 360
	backgroundMaxUSamples = 720
	backgroundMinSamples  = 16
	backgroundPDFEpsilon  = 1e-6
)

// BackgroundFunc evaluates the environment's emitted radiance along
// direction (a unit vector), the opaque collaborator a texture or procedural
// sky model would otherwise supply.
type BackgroundFunc func(direction core.Vec3) core.Vec3

// BackgroundLight imports a BackgroundFunc as an infinite light with proper
// importance sampling: radiance is tabulated once over a lat-long grid into
// a piecewise-constant distribution2D, so bright regions (a sun disc, a
// horizon glow) are sampled far more often than a uniform hemisphere
// sampling would. Grounded on the original library's BackgroundLight, whose
// init() builds exactly this kind of Pdf1D-per-row/marginal-over-rows
// table from a background evaluator.
type BackgroundLight struct {
	eval BackgroundFunc
	dist *distribution2D

	worldCenter core.Vec3
	worldRadius float64
}

// NewBackgroundLight builds the importance-sampling table for eval. Table
// construction happens immediately since eval is assumed cheap (a gradient
// or analytic sky function, not a texture lookup requiring scene I/O).
func NewBackgroundLight(eval BackgroundFunc) *BackgroundLight {
	rows := make([][]float64, backgroundMaxVSamples)
	invNv := 1.0 / float64(backgroundMaxVSamples)
	for y := 0; y < backgroundMaxVSamples; y++ {
		v := (float64(y) + 0.5) * invNv
		theta := v * math.Pi
		sinTheta := math.Sin(theta)
		nu := backgroundMinSamples + int(sinTheta*float64(backgroundMaxUSamples-backgroundMinSamples))
		if nu < 1 {
			nu = 1
		}
		row := make([]float64, nu)
		invNu := 1.0 / float64(nu)
		for x := 0; x < nu; x++ {
			u := (float64(x) + 0.5) * invNu
			dir := uvToSphereDirection(u, v)
			row[x] = eval(dir).Luminance() * sinTheta
		}
		rows[y] = row
	}
	return &BackgroundLight{eval: eval, dist: newDistribution2D(rows)}
}

func uvToSphereDirection(u, v float64) core.Vec3 {
	theta := v * math.Pi
	phi := u*2*math.Pi - math.Pi
	sinTheta := math.Sin(theta)
	return core.NewVec3(sinTheta*math.Cos(phi), math.Cos(theta), sinTheta*math.Sin(phi))
}

func sphereDirectionToUV(dir core.Vec3) (u, v float64) {
	y := dir.Y
	if y > 1 {
		y = 1
	} else if y < -1 {
		y = -1
	}
	theta := math.Acos(y)
	phi := math.Atan2(dir.Z, dir.X)
	return (phi + math.Pi) / (2 * math.Pi), theta / math.Pi
}

// solidAnglePDF converts a (u,v)-measure pdf into a solid-angle pdf using
// the lat-long Jacobian (2*pi for u, pi for v, sin(theta) for the sphere's
// area element), clamped away from zero as the original's sigma_ does to
// keep the MIS divisor well-conditioned in near-dark background regions.
func solidAnglePDF(uvPDF, v float64) float64 {
	sinTheta := math.Sin(v * math.Pi)
	if sinTheta <= 0 {
		return backgroundPDFEpsilon
	}
	pdf := uvPDF / (2 * math.Pi * math.Pi * sinTheta)
	return math.Max(pdf, backgroundPDFEpsilon)
}

func (bl *BackgroundLight) Type() LightType { return LightTypeInfinite }
func (bl *BackgroundLight) IsDelta() bool   { return false }

// Sample implements Light: draws a direction from the tabulated
// distribution, favoring bright regions of the background.
func (bl *BackgroundLight) Sample(point core.Vec3, normal core.Vec3, sample core.Vec2) LightSample {
	u, v, uvPDF := bl.dist.sampleContinuous([2]float64{sample.X, sample.Y})
	direction := uvToSphereDirection(u, v)
	pdf := solidAnglePDF(uvPDF, v)

	return LightSample{
		Point:     point.Add(direction.Multiply(2 * bl.worldRadius)),
		Normal:    direction.Negate(),
		Direction: direction,
		Distance:  math.Inf(1),
		Emission:  bl.eval(direction),
		PDF:       pdf,
	}
}

func (bl *BackgroundLight) PDF(point, normal, direction core.Vec3) float64 {
	u, v := sphereDirectionToUV(direction)
	uvPDF := bl.dist.pdf(u, v)
	return solidAnglePDF(uvPDF, v)
}

// SampleEmission implements Light: samples a direction from the tabulated
// distribution and a disc entering the scene's bounding sphere from it, for
// light-path (photon) tracing.
func (bl *BackgroundLight) SampleEmission(samplePoint core.Vec2, sampleDirection core.Vec2) EmissionSample {
	u, v, uvPDF := bl.dist.sampleContinuous([2]float64{sampleDirection.X, sampleDirection.Y})
	direction := uvToSphereDirection(u, v)
	directionPDF := solidAnglePDF(uvPDF, v)

	t, b := core.OrthonormalBasis(direction)
	dx, dy := core.SampleConcentricDisk(samplePoint)
	diskPoint := t.Multiply(dx * bl.worldRadius).Add(b.Multiply(dy * bl.worldRadius))

	origin := bl.worldCenter.Add(direction.Multiply(bl.worldRadius)).Add(diskPoint)
	areaPDF := 1.0
	if bl.worldRadius > 0 {
		areaPDF = 1.0 / (math.Pi * bl.worldRadius * bl.worldRadius)
	}

	return EmissionSample{
		Point:        origin,
		Normal:       direction.Negate(),
		Direction:    direction.Negate(),
		Emission:     bl.eval(direction),
		AreaPDF:      areaPDF,
		DirectionPDF: directionPDF,
	}
}

func (bl *BackgroundLight) EmissionPDF(point core.Vec3, direction core.Vec3) float64 {
	u, v := sphereDirectionToUV(direction)
	return solidAnglePDF(bl.dist.pdf(u, v), v)
}

// Emit implements Light: the background's radiance for a ray that escapes
// the scene entirely.
func (bl *BackgroundLight) Emit(ray core.Ray) core.Vec3 {
	return bl.eval(ray.Direction.Normalize())
}

// Preprocess implements Preprocessor: records the scene's bounding sphere so
// emission sampling can place rays entering it.
func (bl *BackgroundLight) Preprocess(worldCenter core.Vec3, worldRadius float64) error {
	bl.worldCenter = worldCenter
	bl.worldRadius = worldRadius
	return nil
}
