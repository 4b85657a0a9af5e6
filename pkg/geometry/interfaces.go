package geometry

import "github.com/yafaray/yafaray-go/pkg/core"

// AABB is the geometry package's bounding-box type, shared with pkg/core so
// the kd-tree builder (pkg/accel) can operate on either a primitive's bound
// or a tree node's bound without conversion.
type AABB = core.AABB

// NewAABB creates an AABB from min/max corners.
func NewAABB(min, max core.Vec3) AABB {
	return core.NewAABB(min, max)
}

// Primitive is anything a ray can hit: triangles, quads, spheres, and
// instanced copies of any of those. InstancePrimitive bounds itself over all
// of its instance's transform keyframes rather than a single instant.
type Primitive interface {
	Hit(ray core.Ray, tMin, tMax float64) (*SurfacePoint, bool)
	BoundingBox() AABB
}

// Preprocessor is implemented by lights that need a pass over
// the finished scene bound (its world center and radius) before rendering —
// infinite lights size their importance sampling from it, for instance.
type Preprocessor interface {
	Preprocess(worldCenter core.Vec3, worldRadius float64) error
}
