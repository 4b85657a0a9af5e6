package geometry

import "github.com/yafaray/yafaray-go/pkg/core"

// TransformKeyframe pairs a world transform with the shutter time it applies
// at. An instance with one keyframe is static; three keyframes are
// quadratic-Bezier-interpolated across [TimeStart, TimeEnd].
type TransformKeyframe struct {
	Matrix Matrix4
	Time   float64
}

// Instance wraps one or more base primitives with a time-varying
// object-to-world transform, recursively flattening nested instances so the
// accelerator only ever sees concrete, transform-free geometry.
type Instance struct {
	base       []Primitive
	keyframes  []TransformKeyframe
	timeStart  float64
	timeEnd    float64
	bbox       AABB
	bboxCached bool
}

// NewInstance creates an instance of the given base primitives with the
// given keyframes. len(keyframes) must be 1 (static) or 3 (Bezier); any
// other count panics, matching the finalization-time rejection the C-API
// performs when addInstanceMatrix is called the wrong number of times.
func NewInstance(base []Primitive, keyframes []TransformKeyframe) *Instance {
	if len(keyframes) != 1 && len(keyframes) != 3 {
		panic("instance transform keyframes must be length 1 (static) or 3 (bezier)")
	}
	inst := &Instance{base: base, keyframes: keyframes}
	if len(keyframes) == 3 {
		inst.timeStart = keyframes[0].Time
		inst.timeEnd = keyframes[2].Time
	}
	return inst
}

// TransformAt evaluates the instance's object-to-world matrix at the given
// time, Bezier-interpolating between the three keyframes when animated.
func (inst *Instance) TransformAt(time float64) Matrix4 {
	if len(inst.keyframes) == 1 {
		return inst.keyframes[0].Matrix
	}

	tPrime := 0.0
	if inst.timeEnd > inst.timeStart {
		tPrime = (time - inst.timeStart) / (inst.timeEnd - inst.timeStart)
	}
	if tPrime < 0 {
		tPrime = 0
	} else if tPrime > 1 {
		tPrime = 1
	}

	b0 := (1 - tPrime) * (1 - tPrime)
	b1 := 2 * tPrime * (1 - tPrime)
	b2 := tPrime * tPrime

	var out Matrix4
	m0, m1, m2 := inst.keyframes[0].Matrix, inst.keyframes[1].Matrix, inst.keyframes[2].Matrix
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i][j] = b0*m0[i][j] + b1*m1[i][j] + b2*m2[i][j]
		}
	}
	return out
}

// Primitives flattens this instance into a list of InstancePrimitive
// wrappers, one per base primitive, recursing through nested instances.
func (inst *Instance) Primitives() []Primitive {
	var out []Primitive
	for _, p := range inst.base {
		if nested, ok := p.(*Instance); ok {
			for _, np := range nested.Primitives() {
				out = append(out, &InstancePrimitive{inst: inst, base: np})
			}
			continue
		}
		out = append(out, &InstancePrimitive{inst: inst, base: p})
	}
	return out
}

// InstancePrimitive composes a base primitive's local intersect with its
// owning instance's (possibly time-varying) transform: the incoming ray is
// transformed into object space, intersected locally, and the resulting
// SurfacePoint is projected back into world space.
type InstancePrimitive struct {
	inst *Instance
	base Primitive
}

// Hit transforms ray into object space by the instance's inverse transform
// at the ray's time, intersects the base primitive, then maps the resulting
// SurfacePoint's position and normals back to world space.
func (ip *InstancePrimitive) Hit(ray core.Ray, tMin, tMax float64) (*SurfacePoint, bool) {
	world := ip.inst.TransformAt(ray.Time)
	objToWorld := world
	worldToObj, ok := world.Inverse4()
	if !ok {
		return nil, false
	}

	localRay := ray
	localRay.Origin = worldToObj.MulPoint(ray.Origin)
	localRay.Direction = worldToObj.MulVector(ray.Direction)

	sp, hit := ip.base.Hit(localRay, tMin, tMax)
	if !hit {
		return nil, false
	}

	sp.P = objToWorld.MulPoint(sp.P)
	sp.Ng = objToWorld.MulNormal(sp.Ng)
	sp.Ns = objToWorld.MulNormal(sp.Ns)
	if !sp.Tangent.IsZero() {
		sp.Tangent = objToWorld.MulVector(sp.Tangent).Normalize()
	}
	if !sp.Bitangent.IsZero() {
		sp.Bitangent = objToWorld.MulVector(sp.Bitangent).Normalize()
	}
	sp.Primitive = ip
	return sp, true
}

// BoundingBox unions the base primitive's bound across every keyframe
// transform — an over-estimate for Bezier motion, but conservative, matching
// the contract that animated bounds are the union over time steps.
func (ip *InstancePrimitive) BoundingBox() AABB {
	localBBox := ip.base.BoundingBox()
	corners := []core.Vec3{
		localBBox.Min,
		core.NewVec3(localBBox.Max.X, localBBox.Min.Y, localBBox.Min.Z),
		core.NewVec3(localBBox.Min.X, localBBox.Max.Y, localBBox.Min.Z),
		core.NewVec3(localBBox.Min.X, localBBox.Min.Y, localBBox.Max.Z),
		core.NewVec3(localBBox.Max.X, localBBox.Max.Y, localBBox.Min.Z),
		core.NewVec3(localBBox.Max.X, localBBox.Min.Y, localBBox.Max.Z),
		core.NewVec3(localBBox.Min.X, localBBox.Max.Y, localBBox.Max.Z),
		localBBox.Max,
	}

	var bbox AABB
	first := true
	for _, kf := range ip.inst.keyframes {
		for _, c := range corners {
			p := kf.Matrix.MulPoint(c)
			if first {
				bbox = NewAABB(p, p)
				first = false
			} else {
				bbox = bbox.Union(NewAABB(p, p))
			}
		}
	}
	return bbox
}
