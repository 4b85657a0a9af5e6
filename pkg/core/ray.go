package core

import "math"

// Ray represents a ray with an origin, a unit direction, a valid parametric
// range [TMin, TMax], a time for motion blur, and optional auxiliary
// differentials used to estimate the screen-space footprint of a hit surface
// (see SurfacePoint differentials in pkg/geometry).
type Ray struct {
	Origin, Direction Vec3
	TMin, TMax        float64
	Time              float64 // in [0,1]

	HasDifferentials bool
	RxOrigin         Vec3
	RxDirection      Vec3
	RyOrigin         Vec3
	RyDirection      Vec3
}

// NewRay creates a ray with the default [0, +inf) range and Time=0.
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction, TMax: math.Inf(1)}
}

// NewRayTo creates a unit-direction ray from origin toward target.
func NewRayTo(origin, target Vec3) Ray {
	return NewRay(origin, target.Subtract(origin).Normalize())
}

// NewRayAt is NewRay with an explicit time in [0,1], for motion-blurred primitives.
func NewRayAt(origin, direction Vec3, time float64) Ray {
	r := NewRay(origin, direction)
	r.Time = time
	return r
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// WithRange returns a copy of the ray with TMin/TMax narrowed.
func (r Ray) WithRange(tMin, tMax float64) Ray {
	r.TMin, r.TMax = tMin, tMax
	return r
}
