package core

import (
	"math/rand"
)

// SampleStreamSeed derives a deterministic seed from (pass, pixel, sampleIndex,
// nodeID) so a render can be split across worker goroutines or distributed
// nodes without any two sample streams colliding, and so a given tuple always
// reproduces the same stream regardless of scheduling order.
//
// Uses SplitMix64's mixing step, applied to an accumulator folding in each
// field in turn.
func SampleStreamSeed(pass, pixelX, pixelY, sampleIndex, nodeID int) uint64 {
	h := uint64(0x9E3779B97F4A7C15)
	mix := func(x uint64) {
		h ^= x
		h *= 0xBF58476D1CE4E5B9
		h ^= h >> 27
		h *= 0x94D049BB133111EB
		h ^= h >> 31
	}
	mix(uint64(uint32(pass)))
	mix(uint64(uint32(pixelX)))
	mix(uint64(uint32(pixelY)))
	mix(uint64(uint32(sampleIndex)))
	mix(uint64(uint32(nodeID)))
	return h
}

// NewSampleStreamRand returns a *rand.Rand seeded deterministically for the
// given (pass, pixel, sampleIndex, nodeID) tuple.
func NewSampleStreamRand(pass, pixelX, pixelY, sampleIndex, nodeID int) *rand.Rand {
	seed := SampleStreamSeed(pass, pixelX, pixelY, sampleIndex, nodeID)
	return rand.New(rand.NewSource(int64(seed)))
}

// randSampler adapts a *rand.Rand to the Sampler interface.
type randSampler struct {
	random *rand.Rand
}

// NewRandSampler wraps random as a Sampler.
func NewRandSampler(random *rand.Rand) Sampler {
	return randSampler{random: random}
}

func (s randSampler) Get1D() float64 {
	return s.random.Float64()
}

func (s randSampler) Get2D() Vec2 {
	return Vec2{X: s.random.Float64(), Y: s.random.Float64()}
}
