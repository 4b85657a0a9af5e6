// Package integrator implements the surface integrator: the Monte Carlo
// estimator that turns a camera ray into a radiance estimate by walking the
// scene's acceleration structure, sampling direct lighting with multiple
// importance sampling, and continuing indirect paths via Russian roulette.
package integrator

import (
	"github.com/yafaray/yafaray-go/pkg/core"
	"github.com/yafaray/yafaray-go/pkg/scene"
)

// Integrator estimates the radiance arriving along ray from scn.
type Integrator interface {
	RayColor(ray core.Ray, scn *scene.Scene, sampler core.Sampler) core.Vec3
}

// CausticGatherer is satisfied by *photon.CausticMap. Declared here rather
// than imported directly so this package doesn't need to depend on
// pkg/photon when no caustic map is in use.
type CausticGatherer interface {
	Gather(point, normal core.Vec3) core.Vec3
}
