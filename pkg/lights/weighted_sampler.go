package lights

import (
	"fmt"

	"github.com/yafaray/yafaray-go/pkg/core"
)

// WeightedSampler implements light sampling with fixed, user- or
// power-derived weights. Weights must be in the same order as the lights
// slice it was built from.
type WeightedSampler struct {
	lights  []Light
	weights []float64
}

// NewWeightedSampler creates a light sampler with the given weights,
// normalizing them to sum to 1.0. Falls back to a uniform distribution if
// every weight is zero.
func NewWeightedSampler(lightsIn []Light, weights []float64) *WeightedSampler {
	if len(lightsIn) != len(weights) {
		panic(fmt.Sprintf("lights length (%d) must match weights length (%d)", len(lightsIn), len(weights)))
	}

	normalized := make([]float64, len(weights))
	var total float64
	for _, w := range weights {
		if w < 0 {
			panic("weights must be non-negative")
		}
		total += w
	}

	if total == 0 {
		uniform := 1.0 / float64(max(1, len(weights)))
		for i := range normalized {
			normalized[i] = uniform
		}
	} else {
		for i, w := range weights {
			normalized[i] = w / total
		}
	}

	return &WeightedSampler{lights: lightsIn, weights: normalized}
}

// NewUniformSampler creates a sampler with equal weight for every light.
func NewUniformSampler(lightsIn []Light) *WeightedSampler {
	if len(lightsIn) == 0 {
		return &WeightedSampler{}
	}
	weights := make([]float64, len(lightsIn))
	uniform := 1.0 / float64(len(lightsIn))
	for i := range weights {
		weights[i] = uniform
	}
	return &WeightedSampler{lights: lightsIn, weights: weights}
}

// NewPowerWeightedSampler weights each light by its total emitted power
// (luminance of emission integrated over area/solid angle, here approximated
// as the caller-supplied per-light power estimate), so bright lights are
// sampled more often than dim ones in scenes with lights of very different
// scale.
func NewPowerWeightedSampler(lightsIn []Light, power []float64) *WeightedSampler {
	return NewWeightedSampler(lightsIn, power)
}

func (s *WeightedSampler) selectByCDF(u float64) (Light, float64, int) {
	if len(s.lights) == 0 {
		return nil, 0, -1
	}
	var cdf float64
	for i, w := range s.weights {
		cdf += w
		if u <= cdf {
			return s.lights[i], w, i
		}
	}
	last := len(s.lights) - 1
	return s.lights[last], s.weights[last], last
}

// SampleLight selects a light using the fixed weights, independent of the
// shading point.
func (s *WeightedSampler) SampleLight(point core.Vec3, normal core.Vec3, u float64) (Light, float64, int) {
	return s.selectByCDF(u)
}

// SampleLightEmission selects a light for emission (photon) sampling using
// the same fixed weights as SampleLight.
func (s *WeightedSampler) SampleLightEmission(u float64) (Light, float64, int) {
	return s.selectByCDF(u)
}

// GetLightProbability returns the fixed selection probability for the light
// at lightIndex.
func (s *WeightedSampler) GetLightProbability(lightIndex int, point core.Vec3, normal core.Vec3) float64 {
	if lightIndex < 0 || lightIndex >= len(s.weights) {
		return 0
	}
	return s.weights[lightIndex]
}

// GetLightCount returns the number of lights known to this sampler.
func (s *WeightedSampler) GetLightCount() int {
	return len(s.lights)
}

func (s *WeightedSampler) String() string {
	if len(s.lights) == 0 {
		return "WeightedSampler{no lights}"
	}
	result := fmt.Sprintf("WeightedSampler{%d lights:\n", len(s.lights))
	for i, light := range s.lights {
		result += fmt.Sprintf("  [%d] %s: %.1f%%\n", i, light.Type(), s.weights[i]*100)
	}
	result += "}"
	return result
}
