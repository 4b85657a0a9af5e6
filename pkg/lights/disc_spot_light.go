package lights

import (
	"math"

	"github.com/yafaray/yafaray-go/pkg/core"
	"github.com/yafaray/yafaray-go/pkg/geometry"
)

// discSpotLightMaterial emits the spot's base color, attenuated by the
// quartic cone falloff, whenever the point is viewed from its emitting face.
type discSpotLightMaterial struct {
	baseEmission    core.Vec3
	spotDirection   core.Vec3
	cosTotalWidth   float64
	cosFalloffStart float64
}

func (dslm *discSpotLightMaterial) SampleBsdf(wo core.Vec3, sp *geometry.SurfacePoint, sampler core.Sampler) (geometry.BsdfSample, bool) {
	return geometry.BsdfSample{}, false
}

func (dslm *discSpotLightMaterial) EvalBsdf(wo, wi core.Vec3, sp *geometry.SurfacePoint) core.Vec3 {
	return core.Vec3{}
}

func (dslm *discSpotLightMaterial) Pdf(wo, wi core.Vec3, sp *geometry.SurfacePoint) float64 {
	return 0
}

func (dslm *discSpotLightMaterial) IsSpecular() bool { return false }

func (dslm *discSpotLightMaterial) falloff(cosAngle float64) float64 {
	if cosAngle < dslm.cosTotalWidth {
		return 0.0
	}
	if cosAngle >= dslm.cosFalloffStart {
		return 1.0
	}
	delta := (cosAngle - dslm.cosTotalWidth) / (dslm.cosFalloffStart - dslm.cosTotalWidth)
	return delta * delta * delta * delta
}

// Emission implements Material: directional spot falloff based on wo relative
// to the spot's aim direction, evaluated only on the emitting front face.
func (dslm *discSpotLightMaterial) Emission(sp *geometry.SurfacePoint, wo core.Vec3) core.Vec3 {
	if !sp.FrontFace {
		return core.Vec3{}
	}
	cosAngle := wo.Dot(dslm.spotDirection)
	return dslm.baseEmission.Multiply(dslm.falloff(cosAngle))
}

// DiscSpotLight is a directional spot light implemented as a disc area light
// with a quartic cone falloff.
type DiscSpotLight struct {
	position        core.Vec3
	direction       core.Vec3
	emission        core.Vec3
	cosTotalWidth   float64
	cosFalloffStart float64
	discLight       *DiscLight
}

// NewDiscSpotLight creates a new disc spot light. from is the light position,
// to is the point it's aimed at, coneAngleDegrees is the total cone half-angle,
// coneDeltaAngleDegrees is the falloff transition width, and radius is the
// disc's physical size.
func NewDiscSpotLight(from, to, emission core.Vec3, coneAngleDegrees, coneDeltaAngleDegrees, radius float64) *DiscSpotLight {
	direction := to.Subtract(from).Normalize()

	totalWidthRadians := coneAngleDegrees * math.Pi / 180.0
	falloffStartRadians := (coneAngleDegrees - coneDeltaAngleDegrees) * math.Pi / 180.0

	mat := &discSpotLightMaterial{
		baseEmission:    emission,
		spotDirection:   direction,
		cosTotalWidth:   math.Cos(totalWidthRadians),
		cosFalloffStart: math.Cos(falloffStartRadians),
	}

	discLight := NewDiscLight(from, direction, radius, mat)

	return &DiscSpotLight{
		position:        from,
		direction:       direction,
		emission:        emission,
		cosTotalWidth:   math.Cos(totalWidthRadians),
		cosFalloffStart: math.Cos(falloffStartRadians),
		discLight:       discLight,
	}
}

func (dsl *DiscSpotLight) Type() LightType {
	return LightTypeArea
}

func (dsl *DiscSpotLight) IsDelta() bool { return false }

// Sample implements Light: samples the underlying disc. The disc's emission
// material already attenuates the emission by the spot's directional falloff
// for the direction from the sampled disc point to the shading point.
func (dsl *DiscSpotLight) Sample(point core.Vec3, normal core.Vec3, sample core.Vec2) LightSample {
	return dsl.discLight.Sample(point, normal, sample)
}

func (dsl *DiscSpotLight) PDF(point, normal, direction core.Vec3) float64 {
	return dsl.discLight.PDF(point, normal, direction)
}

func (dsl *DiscSpotLight) falloff(cosAngle float64) float64 {
	if cosAngle < dsl.cosTotalWidth {
		return 0.0
	}
	if cosAngle >= dsl.cosFalloffStart {
		return 1.0
	}
	delta := (cosAngle - dsl.cosTotalWidth) / (dsl.cosFalloffStart - dsl.cosTotalWidth)
	return delta * delta * delta * delta
}

// GetIntensityAt returns the light's falloff-attenuated, inverse-square
// intensity at point; useful for debug visualization.
func (dsl *DiscSpotLight) GetIntensityAt(point core.Vec3) core.Vec3 {
	toLightVec := dsl.position.Subtract(point)
	distance := toLightVec.Length()
	if distance == 0 {
		return core.Vec3{}
	}

	lightToPoint := toLightVec.Normalize().Multiply(-1)
	cosAngle := dsl.direction.Dot(lightToPoint)
	spotAttenuation := dsl.falloff(cosAngle)

	return dsl.emission.Multiply(spotAttenuation / (distance * distance))
}

// Hit delegates to the underlying disc for caustic ray intersection.
func (dsl *DiscSpotLight) Hit(ray core.Ray, tMin, tMax float64) (*geometry.SurfacePoint, bool) {
	return dsl.discLight.Hit(ray, tMin, tMax)
}

// BoundingBox delegates to the underlying disc.
func (dsl *DiscSpotLight) BoundingBox() geometry.AABB {
	return dsl.discLight.BoundingBox()
}

// GetDisc returns the underlying disc primitive for scene integration.
func (dsl *DiscSpotLight) GetDisc() *geometry.Disc {
	return dsl.discLight.Disc
}

// SampleEmission implements Light: samples emission from the disc within the
// spot's cone, for light-path (photon) tracing.
func (dsl *DiscSpotLight) SampleEmission(samplePoint core.Vec2, sampleDirection core.Vec2) EmissionSample {
	point, _ := dsl.discLight.Disc.SampleUniform(samplePoint)

	emissionDir, conePDF := core.SampleUniformCone(dsl.direction, dsl.cosTotalWidth, sampleDirection)

	cosTheta := emissionDir.Dot(dsl.direction)
	spotAttenuation := dsl.falloff(cosTheta)

	areaPDF := 1.0 / (math.Pi * dsl.discLight.Radius * dsl.discLight.Radius)
	emission := dsl.emission.Multiply(spotAttenuation)

	return EmissionSample{
		Point:        point,
		Normal:       dsl.discLight.Normal,
		Direction:    emissionDir,
		Emission:     emission,
		AreaPDF:      areaPDF,
		DirectionPDF: conePDF,
	}
}

// EmissionPDF implements Light: area PDF for a point within the disc and cone.
func (dsl *DiscSpotLight) EmissionPDF(point core.Vec3, direction core.Vec3) float64 {
	basePDF := dsl.discLight.EmissionPDF(point, direction)
	if basePDF == 0.0 {
		return 0.0
	}

	cosAngleToSpot := direction.Dot(dsl.direction)
	if cosAngleToSpot < dsl.cosTotalWidth {
		return 0.0
	}

	return 1.0 / (math.Pi * dsl.discLight.Radius * dsl.discLight.Radius)
}

// Emit implements Light: the radiance a camera/reflection ray sees when it
// hits the disc directly.
func (dsl *DiscSpotLight) Emit(ray core.Ray) core.Vec3 {
	return dsl.discLight.Emit(ray)
}
