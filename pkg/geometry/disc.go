package geometry

import (
	"math"

	"github.com/yafaray/yafaray-go/pkg/core"
)

// Disc is a flat circular primitive, used as the emitting surface of disc
// and disc-spot lights.
type Disc struct {
	Center   core.Vec3
	Normal   core.Vec3
	Radius   float64
	Material Material

	tangent, bitangent core.Vec3
}

// NewDisc creates a new disc primitive centered at center, facing normal.
func NewDisc(center, normal core.Vec3, radius float64, mat Material) *Disc {
	n := normal.Normalize()
	t, b := core.OrthonormalBasis(n)
	return &Disc{Center: center, Normal: n, Radius: radius, Material: mat, tangent: t, bitangent: b}
}

// Hit tests if a ray intersects with the disc.
func (d *Disc) Hit(ray core.Ray, tMin, tMax float64) (*SurfacePoint, bool) {
	denom := ray.Direction.Dot(d.Normal)
	if math.Abs(denom) < 1e-8 {
		return nil, false
	}

	t := d.Center.Subtract(ray.Origin).Dot(d.Normal) / denom
	if t < tMin || t > tMax {
		return nil, false
	}

	point := ray.At(t)
	toPoint := point.Subtract(d.Center)
	if toPoint.LengthSquared() > d.Radius*d.Radius {
		return nil, false
	}

	sp := &SurfacePoint{
		T:         t,
		P:         point,
		Orco:      toPoint,
		Material:  d.Material,
		Tangent:   d.tangent,
		Bitangent: d.bitangent,
		Time:      ray.Time,
	}
	sp.SetFaceNormal(ray, d.Normal)
	sp.Primitive = d
	return sp, true
}

// BoundingBox returns a conservative axis-aligned bounding box for the disc.
func (d *Disc) BoundingBox() AABB {
	r := core.NewVec3(d.Radius, d.Radius, d.Radius)
	return NewAABB(d.Center.Subtract(r), d.Center.Add(r))
}

// SurfaceArea returns pi*r^2.
func (d *Disc) SurfaceArea() float64 {
	return math.Pi * d.Radius * d.Radius
}

// SampleUniform samples a point uniformly on the disc via the concentric disk
// mapping, returning the world-space point and its outward normal.
func (d *Disc) SampleUniform(u core.Vec2) (core.Vec3, core.Vec3) {
	dx, dy := core.SampleConcentricDisk(u)
	point := d.Center.Add(d.tangent.Multiply(dx * d.Radius)).Add(d.bitangent.Multiply(dy * d.Radius))
	return point, d.Normal
}
