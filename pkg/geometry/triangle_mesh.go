package geometry

import (
	"math"

	"github.com/yafaray/yafaray-go/pkg/core"
)

// TriangleMesh is a convenience container that builds a set of Triangle
// primitives from shared vertex/face/UV/normal arrays. It does not
// accelerate its own intersection tests — at render time its triangles are
// flattened into the scene-wide kd-tree (pkg/accel) alongside every other
// primitive, so a mesh never owns a second acceleration structure nested
// inside the first. Hit here is a linear scan, useful for small meshes and
// for tests that want a mesh in isolation.
type TriangleMesh struct {
	triangles []Primitive
	bbox      AABB
	material  Material
}

// TriangleMeshOptions contains optional parameters for triangle mesh creation.
type TriangleMeshOptions struct {
	Normals   []core.Vec3 // Optional custom normals (one per triangle)
	Materials []Material  // Optional per-triangle materials
	Rotation  *core.Vec3  // Optional rotation to apply to vertices
	Center    *core.Vec3  // Optional center point for rotation
	VertexUVs []core.Vec2 // Optional per-vertex texture coordinates
}

// NewTriangleMesh creates a new triangle mesh from vertices and face indices.
// vertices is an array of 3D points; faces groups indices into triangles
// three at a time; material is the default material for all triangles;
// options may be nil for a basic mesh.
func NewTriangleMesh(vertices []core.Vec3, faces []int, material Material, options *TriangleMeshOptions) *TriangleMesh {
	if len(faces)%3 != 0 {
		panic("Face indices must be a multiple of 3")
	}

	numTriangles := len(faces) / 3

	if options != nil {
		if options.Normals != nil && len(options.Normals) != numTriangles {
			panic("Number of normals must match number of triangles")
		}
		if options.Materials != nil && len(options.Materials) != numTriangles {
			panic("Number of materials must match number of triangles")
		}
		if options.VertexUVs != nil && len(options.VertexUVs) != len(vertices) {
			panic("Number of vertex UVs must match number of vertices")
		}
	}

	workingVertices := vertices
	if options != nil && options.Rotation != nil {
		workingVertices = make([]core.Vec3, len(vertices))
		for i, vertex := range vertices {
			if options.Center != nil {
				vertex = vertex.Subtract(*options.Center)
			}
			vertex = rotateVertex(vertex, *options.Rotation)
			if options.Center != nil {
				vertex = vertex.Add(*options.Center)
			}
			workingVertices[i] = vertex
		}
	}

	triangles := make([]Primitive, numTriangles)

	for i := 0; i < numTriangles; i++ {
		i0 := faces[i*3]
		i1 := faces[i*3+1]
		i2 := faces[i*3+2]

		if i0 >= len(workingVertices) || i1 >= len(workingVertices) || i2 >= len(workingVertices) ||
			i0 < 0 || i1 < 0 || i2 < 0 {
			panic("Face index out of bounds")
		}

		triangleMaterial := material
		if options != nil && options.Materials != nil {
			triangleMaterial = options.Materials[i]
		}

		v0 := workingVertices[i0]
		v1 := workingVertices[i1]
		v2 := workingVertices[i2]

		hasUVs := options != nil && options.VertexUVs != nil
		hasNormals := options != nil && options.Normals != nil

		var triangle Primitive
		switch {
		case hasUVs && hasNormals:
			uv0, uv1, uv2 := options.VertexUVs[i0], options.VertexUVs[i1], options.VertexUVs[i2]
			triangle = NewTriangleWithNormalAndUVs(v0, v1, v2, uv0, uv1, uv2, options.Normals[i], triangleMaterial)
		case hasUVs:
			uv0, uv1, uv2 := options.VertexUVs[i0], options.VertexUVs[i1], options.VertexUVs[i2]
			triangle = NewTriangleWithUVs(v0, v1, v2, uv0, uv1, uv2, triangleMaterial)
		case hasNormals:
			triangle = NewTriangleWithNormal(v0, v1, v2, options.Normals[i], triangleMaterial)
		default:
			triangle = NewTriangle(v0, v1, v2, triangleMaterial)
		}
		triangles[i] = triangle
	}

	var bbox AABB
	if len(triangles) > 0 {
		bbox = triangles[0].BoundingBox()
		for i := 1; i < len(triangles); i++ {
			bbox = bbox.Union(triangles[i].BoundingBox())
		}
	}

	defaultMaterial := material
	if options != nil && options.Materials != nil && len(options.Materials) > 0 {
		defaultMaterial = options.Materials[0]
	}

	return &TriangleMesh{triangles: triangles, bbox: bbox, material: defaultMaterial}
}

// Hit linearly scans the mesh's triangles for the closest intersection.
func (tm *TriangleMesh) Hit(ray core.Ray, tMin, tMax float64) (*SurfacePoint, bool) {
	var closest *SurfacePoint
	closestT := tMax
	for _, tri := range tm.triangles {
		if sp, ok := tri.Hit(ray, tMin, closestT); ok {
			closest = sp
			closestT = sp.T
		}
	}
	return closest, closest != nil
}

// BoundingBox returns the axis-aligned bounding box for the entire mesh.
func (tm *TriangleMesh) BoundingBox() AABB {
	return tm.bbox
}

// GetTriangleCount returns the number of triangles in this mesh.
func (tm *TriangleMesh) GetTriangleCount() int {
	return len(tm.triangles)
}

// Triangles returns the mesh's individual triangle primitives, for
// flattening into a scene-wide accelerator.
func (tm *TriangleMesh) Triangles() []Primitive {
	return tm.triangles
}

func rotateVertex(vertex, rotation core.Vec3) core.Vec3 {
	if rotation.X != 0 {
		cos := math.Cos(rotation.X)
		sin := math.Sin(rotation.X)
		y := vertex.Y*cos - vertex.Z*sin
		z := vertex.Y*sin + vertex.Z*cos
		vertex = core.NewVec3(vertex.X, y, z)
	}
	if rotation.Y != 0 {
		cos := math.Cos(rotation.Y)
		sin := math.Sin(rotation.Y)
		x := vertex.X*cos + vertex.Z*sin
		z := -vertex.X*sin + vertex.Z*cos
		vertex = core.NewVec3(x, vertex.Y, z)
	}
	if rotation.Z != 0 {
		cos := math.Cos(rotation.Z)
		sin := math.Sin(rotation.Z)
		x := vertex.X*cos - vertex.Y*sin
		y := vertex.X*sin + vertex.Y*cos
		vertex = core.NewVec3(x, y, vertex.Z)
	}
	return vertex
}
