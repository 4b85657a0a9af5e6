package scene

import (
	"github.com/yafaray/yafaray-go/pkg/accel"
	"github.com/yafaray/yafaray-go/pkg/core"
	"github.com/yafaray/yafaray-go/pkg/geometry"
	"github.com/yafaray/yafaray-go/pkg/lights"
	"github.com/yafaray/yafaray-go/pkg/material"
)

// Scene contains all the elements needed for rendering: the camera, every
// primitive and light, and the acceleration structure built over them.
type Scene struct {
	Camera         *geometry.Camera
	Primitives     []geometry.Primitive
	Lights         []lights.Light
	LightSampler   lights.LightSampler
	SamplingConfig SamplingConfig
	CameraConfig   geometry.CameraConfig
	Accel          *accel.KdTree
}

// SamplingConfig contains per-render sampling and adaptive-AA parameters.
type SamplingConfig struct {
	Width                     int
	Height                    int
	SamplesPerPixel           int
	MaxDepth                  int
	RussianRouletteMinBounces int
	AdaptiveMinSamples        float64
	AdaptiveThreshold         float64
}

// NewGroundQuad creates a large quad to stand in for an infinite ground
// plane, centered at center with the given side length and normal (0,1,0).
func NewGroundQuad(center core.Vec3, size float64, mat geometry.Material) *geometry.Quad {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	u := core.NewVec3(size, 0, 0)
	v := core.NewVec3(0, 0, size)
	return geometry.NewQuad(corner, u, v, mat)
}

// Preprocess builds the scene's acceleration structure, preprocesses every
// primitive/light that needs the finished scene bound, and — if none was set
// explicitly — installs a uniform light sampler.
func (s *Scene) Preprocess() error {
	s.Accel = accel.Build(s.Primitives)

	for _, light := range s.Lights {
		if preprocessor, ok := light.(geometry.Preprocessor); ok {
			if err := preprocessor.Preprocess(s.Accel.Center, s.Accel.Radius); err != nil {
				return err
			}
		}
	}

	if s.LightSampler == nil {
		s.LightSampler = lights.NewUniformSampler(s.Lights)
	}

	for _, prim := range s.Primitives {
		if preprocessor, ok := prim.(geometry.Preprocessor); ok {
			if err := preprocessor.Preprocess(s.Accel.Center, s.Accel.Radius); err != nil {
				return err
			}
		}
	}

	return nil
}

// Hit finds the closest primitive intersection along ray within [tMin, tMax].
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64) (*geometry.SurfacePoint, bool) {
	return s.Accel.Hit(ray, tMin, tMax)
}

// GetPrimitiveCount returns the total number of renderable primitives,
// counting each triangle of a mesh individually.
func (s *Scene) GetPrimitiveCount() int {
	count := 0
	for _, prim := range s.Primitives {
		count += s.countPrimitives(prim)
	}
	return count
}

func (s *Scene) countPrimitives(prim geometry.Primitive) int {
	switch obj := prim.(type) {
	case *geometry.TriangleMesh:
		return obj.GetTriangleCount()
	default:
		return 1
	}
}

// AddSphereLight adds a spherical area light to the scene.
func (s *Scene) AddSphereLight(center core.Vec3, radius float64, emission core.Vec3) {
	emissiveMat := material.NewEmissive(emission)
	sphereLight := lights.NewSphereLight(center, radius, emissiveMat)
	s.Lights = append(s.Lights, sphereLight)
	s.Primitives = append(s.Primitives, sphereLight.Sphere)
}

// AddQuadLight adds a rectangular area light to the scene.
func (s *Scene) AddQuadLight(corner, u, v core.Vec3, emission core.Vec3) {
	emissiveMat := material.NewEmissive(emission)
	quadLight := lights.NewQuadLight(corner, u, v, emissiveMat)
	s.Lights = append(s.Lights, quadLight)
	s.Primitives = append(s.Primitives, quadLight.Quad)
}

// AddDiscSpotLight adds a physical disc-shaped spot light with the given
// cone angle and falloff (an area-light approximation of a spot fixture).
func (s *Scene) AddDiscSpotLight(from, to, emission core.Vec3, coneAngleDegrees, coneDeltaAngleDegrees, radius float64) {
	spotLight := lights.NewDiscSpotLight(from, to, emission, coneAngleDegrees, coneDeltaAngleDegrees, radius)
	s.Lights = append(s.Lights, spotLight)
	s.Primitives = append(s.Primitives, spotLight.GetDisc())
}

// AddUniformInfiniteLight adds a constant-emission infinite (sky) light.
func (s *Scene) AddUniformInfiniteLight(emission core.Vec3) {
	s.Lights = append(s.Lights, lights.NewUniformInfiniteLight(emission))
}

// AddGradientInfiniteLight adds a top/bottom gradient infinite (sky) light.
func (s *Scene) AddGradientInfiniteLight(topColor, bottomColor core.Vec3) {
	s.Lights = append(s.Lights, lights.NewGradientInfiniteLight(topColor, bottomColor))
}

// AddPointLight adds a Dirac-delta point light with no physical extent.
func (s *Scene) AddPointLight(position, color core.Vec3) {
	s.Lights = append(s.Lights, lights.NewPointLight(position, color))
}

// AddSpotLight adds a Dirac-delta cone spot light with the given half-angle
// and smoothstep falloff fraction.
func (s *Scene) AddSpotLight(from, to, color core.Vec3, angleDegrees, falloff float64) {
	s.Lights = append(s.Lights, lights.NewSpotLight(from, to, color, angleDegrees, falloff))
}

// AddDirectionalLight adds a Dirac-delta parallel-ray light shining along
// direction, optionally restricted to a finite illuminated cylinder.
func (s *Scene) AddDirectionalLight(direction, color, axisPoint core.Vec3, radius float64, infinite bool) {
	s.Lights = append(s.Lights, lights.NewDirectionalLight(direction, color, axisPoint, radius, infinite))
}

// AddSunLight adds a directional light with soft shadows: a narrow cone of
// incoming directions around a fixed axis rather than one exact direction.
func (s *Scene) AddSunLight(direction, color core.Vec3, angleDegrees float64) {
	s.Lights = append(s.Lights, lights.NewSunLight(direction, color, angleDegrees))
}

// AddObjectLight turns the named object's mesh into a single area light,
// sampled proportional to triangle area.
func (s *Scene) AddObjectLight(mesh *geometry.TriangleMesh, doubleSided bool) {
	s.Lights = append(s.Lights, lights.NewObjectLight(mesh, doubleSided))
}

// AddBackgroundLight adds an importance-sampled infinite light over eval,
// tabulating a piecewise-constant distribution so bright regions of the
// background are sampled far more often than a uniform hemisphere would be.
func (s *Scene) AddBackgroundLight(eval lights.BackgroundFunc) {
	s.Lights = append(s.Lights, lights.NewBackgroundLight(eval))
}

// AddBackgroundPortalLight turns mesh into a window onto eval's background,
// concentrating samples on the opening rather than the whole hemisphere.
func (s *Scene) AddBackgroundPortalLight(mesh *geometry.TriangleMesh, eval lights.BackgroundFunc) {
	s.Lights = append(s.Lights, lights.NewBackgroundPortalLight(mesh, eval))
}

// AddIESLight adds a Dirac-delta point light shaped by a parsed photometric
// table rather than a simple cone.
func (s *Scene) AddIESLight(from, to, color core.Vec3, data lights.IESPhotometricData) {
	s.Lights = append(s.Lights, lights.NewIESLight(from, to, color, data))
}
