// Package photon implements the caustic photon-map preprocess pass: photons
// are traced from the scene's lights, stored at the first diffuse vertex
// following one or more specular bounces (the classic LS+D caustic path),
// and the result is queried by the surface integrator via a k-nearest-neighbor
// density estimate with an Epanechnikov filtering kernel.
package photon

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/yafaray/yafaray-go/pkg/accel"
	"github.com/yafaray/yafaray-go/pkg/core"
	"github.com/yafaray/yafaray-go/pkg/lights"
	"github.com/yafaray/yafaray-go/pkg/scene"
)

// maxBounces caps how many surfaces a single photon path may traverse before
// it is abandoned, preventing runaway paths in highly reflective scenes.
const maxBounces = 10

// Config controls the caustic photon-map preprocess pass.
type Config struct {
	NumPhotons   int     // total photons emitted across all lights
	SearchRadius float64 // gather radius used by the density estimate
	NumNeighbors int     // maximum photons considered per gather query
	NumWorkers   int     // bounded concurrency for photon tracing; 0 = runtime.NumCPU()
}

// DefaultConfig returns sensible defaults for a moderate-size scene.
func DefaultConfig() Config {
	return Config{
		NumPhotons:   100_000,
		SearchRadius: 0.5,
		NumNeighbors: 50,
		NumWorkers:   0,
	}
}

// CausticMap is a point-kd-tree of stored caustic photons, built once before
// rendering starts and queried many times during rendering.
type CausticMap struct {
	tree         *accel.PhotonTree
	numEmitted   int
	numNeighbors int
	searchRadius float64
}

// Build traces config.NumPhotons photon paths from scn's lights and returns
// the resulting caustic map. Tracing is bounded to config.NumWorkers
// concurrent goroutines via a weighted semaphore; ctx cancellation stops
// scheduling further photons and returns the context's error.
func Build(ctx context.Context, scn *scene.Scene, config Config) (*CausticMap, error) {
	empty := &CausticMap{
		tree:         accel.BuildPhotonTree(nil),
		numNeighbors: config.NumNeighbors,
		searchRadius: config.SearchRadius,
	}

	if config.NumPhotons <= 0 || scn.LightSampler == nil || scn.LightSampler.GetLightCount() == 0 {
		return empty, nil
	}

	workers := config.NumWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	sem := semaphore.NewWeighted(int64(workers))
	g, gctx := errgroup.WithContext(ctx)

	perPhoton := make([][]accel.Photon, config.NumPhotons)

	for i := 0; i < config.NumPhotons; i++ {
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		i := i
		g.Go(func() error {
			defer sem.Release(1)
			random := core.NewSampleStreamRand(0, 0, 0, i, 0)
			sampler := core.NewRandSampler(random)
			perPhoton[i] = tracePhoton(scn, sampler)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("photon: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("photon: %w", err)
	}

	var photons []accel.Photon
	for _, stored := range perPhoton {
		photons = append(photons, stored...)
	}

	return &CausticMap{
		tree:         accel.BuildPhotonTree(photons),
		numEmitted:   config.NumPhotons,
		numNeighbors: config.NumNeighbors,
		searchRadius: config.SearchRadius,
	}, nil
}

// tracePhoton emits one photon from a light chosen by the scene's light
// sampler and follows it through the scene, returning the single caustic
// photon it deposits (nil if it escapes, is absorbed, or never crosses a
// specular surface before its first diffuse hit).
func tracePhoton(scn *scene.Scene, sampler core.Sampler) []accel.Photon {
	light, selectionProb, _ := scn.LightSampler.SampleLightEmission(sampler.Get1D())
	if light == nil || selectionProb <= 0 {
		return nil
	}

	emission := light.SampleEmission(sampler.Get2D(), sampler.Get2D())
	if emission.AreaPDF <= 0 || emission.DirectionPDF <= 0 || emission.Emission.Luminance() <= 0 {
		return nil
	}

	flux := photonFlux(light.Type(), emission, selectionProb)
	if flux.Luminance() <= 0 {
		return nil
	}

	ray := core.NewRay(emission.Point, emission.Direction)
	hadSpecular := false

	for bounce := 0; bounce < maxBounces; bounce++ {
		sp, hit := scn.Hit(ray, 1e-4, math.Inf(1))
		if !hit {
			return nil
		}

		if sp.Material.IsSpecular() {
			bsdf, scattered := sp.Material.SampleBsdf(ray.Direction.Negate(), sp, sampler)
			if !scattered {
				return nil
			}
			flux = flux.MultiplyVec(bsdf.Attenuation)
			ray = core.NewRay(sp.P, bsdf.Wi)
			ray.Time = sp.Time
			hadSpecular = true
			continue
		}

		if !hadSpecular {
			return nil
		}

		return []accel.Photon{{
			Position: sp.P,
			Incoming: ray.Direction,
			Flux:     flux,
		}}
	}

	return nil
}

// photonFlux derives the power carried by a single emitted photon from its
// EmissionSample. Area lights fold the emission cosine into directionPDF
// (sampleEmissionDirection draws direction cosine-weighted, so the two
// cancel to pi); infinite lights carry no surface cosine at all, so their
// flux omits it entirely.
func photonFlux(lightType lights.LightType, emission lights.EmissionSample, selectionProb float64) core.Vec3 {
	if lightType == lights.LightTypeInfinite {
		return emission.Emission.Multiply(1.0 / (emission.AreaPDF * emission.DirectionPDF * selectionProb))
	}

	cosTheta := emission.Direction.Dot(emission.Normal)
	if cosTheta <= 0 {
		return core.Vec3{}
	}
	return emission.Emission.Multiply(cosTheta / (emission.AreaPDF * emission.DirectionPDF * selectionProb))
}

// Gather estimates the caustic radiance arriving at point with surface
// normal normal, using a k-nearest-neighbor density estimate with an
// Epanechnikov kernel over the photons found within searchRadius.
func (cm *CausticMap) Gather(point, normal core.Vec3) core.Vec3 {
	if cm == nil || cm.tree == nil || cm.numEmitted == 0 {
		return core.Vec3{}
	}

	found := cm.tree.KNearest(point, cm.numNeighbors, cm.searchRadius*cm.searchRadius)
	if len(found) == 0 {
		return core.Vec3{}
	}

	maxDistSq := 0.0
	for _, p := range found {
		d := point.Subtract(p.Position)
		if distSq := d.Dot(d); distSq > maxDistSq {
			maxDistSq = distSq
		}
	}
	if maxDistSq <= 0 {
		return core.Vec3{}
	}

	var sum core.Vec3
	for _, p := range found {
		if p.Incoming.Dot(normal) >= 0 {
			continue // arrived from behind the surface, discard to avoid light leaks
		}
		d := point.Subtract(p.Position)
		distSq := d.Dot(d)
		weight := 2.0 * (1.0 - distSq/maxDistSq) // Epanechnikov kernel, normalized over a disc
		sum = sum.Add(p.Flux.Multiply(weight))
	}

	area := math.Pi * maxDistSq
	return sum.Multiply(1.0 / (area * float64(cm.numEmitted)))
}

// NumEmitted returns the number of photons traced to build the map (not the
// number actually stored), used to report preprocess statistics.
func (cm *CausticMap) NumEmitted() int {
	if cm == nil {
		return 0
	}
	return cm.numEmitted
}
