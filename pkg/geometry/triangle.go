package geometry

import "github.com/yafaray/yafaray-go/pkg/core"

// Triangle represents a single static triangle defined by three vertices,
// with optional per-vertex UVs and shading normals for smooth shading.
type Triangle struct {
	V0, V1, V2    core.Vec3 // The three vertices
	UV0, UV1, UV2 core.Vec2 // Per-vertex texture coordinates (optional)
	hasUVs        bool
	N0, N1, N2    core.Vec3 // Per-vertex shading normals (optional)
	hasShadingN   bool
	Material      Material
	normal        core.Vec3 // Cached geometric normal
	bbox          AABB      // Cached bounding box
}

// NewTriangle creates a new triangle from three vertices.
func NewTriangle(v0, v1, v2 core.Vec3, material Material) *Triangle {
	t := &Triangle{V0: v0, V1: v1, V2: v2, Material: material}
	t.computeNormal()
	t.computeBoundingBox()
	return t
}

// NewTriangleWithNormal creates a new triangle from three vertices with a custom geometric normal.
func NewTriangleWithNormal(v0, v1, v2 core.Vec3, normal core.Vec3, material Material) *Triangle {
	t := &Triangle{V0: v0, V1: v1, V2: v2, Material: material, normal: normal.Normalize()}
	t.computeBoundingBox()
	return t
}

// NewTriangleWithUVs creates a new triangle with per-vertex UV coordinates.
func NewTriangleWithUVs(v0, v1, v2 core.Vec3, uv0, uv1, uv2 core.Vec2, material Material) *Triangle {
	t := &Triangle{V0: v0, V1: v1, V2: v2, UV0: uv0, UV1: uv1, UV2: uv2, hasUVs: true, Material: material}
	t.computeNormal()
	t.computeBoundingBox()
	return t
}

// NewTriangleWithNormalAndUVs creates a new triangle with custom geometric
// normal and per-vertex UV coordinates.
func NewTriangleWithNormalAndUVs(v0, v1, v2 core.Vec3, uv0, uv1, uv2 core.Vec2, normal core.Vec3, material Material) *Triangle {
	t := &Triangle{
		V0: v0, V1: v1, V2: v2,
		UV0: uv0, UV1: uv1, UV2: uv2, hasUVs: true,
		Material: material, normal: normal.Normalize(),
	}
	t.computeBoundingBox()
	return t
}

// WithShadingNormals attaches per-vertex shading normals for smooth shading,
// interpolated by barycentric weight at Hit time independently of the
// triangle's flat geometric normal.
func (t *Triangle) WithShadingNormals(n0, n1, n2 core.Vec3) *Triangle {
	t.N0, t.N1, t.N2 = n0.Normalize(), n1.Normalize(), n2.Normalize()
	t.hasShadingN = true
	return t
}

func (t *Triangle) computeNormal() {
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)
	t.normal = edge1.Cross(edge2).Normalize()
}

func (t *Triangle) computeBoundingBox() {
	t.bbox = core.NewAABBFromPoints(t.V0, t.V1, t.V2)
}

// Hit tests if a ray intersects with the triangle using the Möller-Trumbore algorithm.
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64) (*SurfacePoint, bool) {
	const epsilon = 1e-8

	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -epsilon && a < epsilon {
		return nil, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return nil, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return nil, false
	}

	tParam := f * edge2.Dot(q)
	if tParam < tMin || tParam > tMax {
		return nil, false
	}

	hitPoint := ray.At(tParam)
	w := 1.0 - u - v

	var uv core.Vec2
	if t.hasUVs {
		uv = t.UV0.Multiply(w).Add(t.UV1.Multiply(u)).Add(t.UV2.Multiply(v))
	} else {
		uv = core.NewVec2(u, v)
	}

	sp := &SurfacePoint{
		T:        tParam,
		P:        hitPoint,
		Material: t.Material,
		UV:       uv,
		Orco:     core.NewVec3(w, u, v),
		Time:     ray.Time,
	}
	sp.SetFaceNormal(ray, t.normal)
	if t.hasShadingN {
		ns := t.N0.Multiply(w).Add(t.N1.Multiply(u)).Add(t.N2.Multiply(v)).Normalize()
		if !sp.FrontFace {
			ns = ns.Negate()
		}
		sp.Ns = ns
	}
	sp.Tangent, sp.Bitangent = core.OrthonormalBasis(sp.Ns)
	sp.Primitive = t

	return sp, true
}

// BoundingBox returns the axis-aligned bounding box for this triangle.
func (t *Triangle) BoundingBox() AABB {
	return t.bbox
}

// GetNormal returns the triangle's geometric normal vector.
func (t *Triangle) GetNormal() core.Vec3 {
	return t.normal
}

// SurfaceArea returns the triangle's area, used for area light sampling.
func (t *Triangle) SurfaceArea() float64 {
	return t.V1.Subtract(t.V0).Cross(t.V2.Subtract(t.V0)).Length() * 0.5
}
