package capi

import (
	"github.com/yafaray/yafaray-go/pkg/core"
	"github.com/yafaray/yafaray-go/pkg/geometry"
)

// meshBuild accumulates an object's vertex/normal/uv pools and face list
// across the incremental addVertex/addNormal/addUv/addTriangle calls,
// mirroring the classic immediate-mode mesh assembly API: a caller adds
// points and indices one at a time, then FinalizeObject turns them into a
// single geometry.TriangleMesh.
//
// Per-vertex deformation across shutter time steps (as opposed to rigid
// whole-object motion, which pkg/geometry.Instance already Bezier-
// interpolates) is not modeled: addVertexTimeStep keys beyond time step 0
// are accepted but discarded, since no downstream primitive interpolates a
// per-vertex position across time.
type meshBuild struct {
	name         string
	material     geometry.Material
	vertices     []core.Vec3
	orco         []core.Vec3
	normals      []core.Vec3
	uvs          []core.Vec2
	faces        []int
	faceMats     []geometry.Material
	faceNormals  []core.Vec3
	hasFaceNorms bool
	smoothAngle  float64
	finalized    *geometry.TriangleMesh
}

// InitObject begins a new mesh named name with the given default material,
// returning a handle further addVertex/addNormal/addUv/addTriangle calls
// target.
func InitObject(sceneHandle SceneHandle, name string, materialName string) (ObjectHandle, ResultFlags) {
	build, ok := lookupScene(sceneHandle)
	if !ok {
		return ObjectHandle{}, ErrorWhileCreating
	}
	mat, ok := build.materials[materialName]
	if !ok {
		return ObjectHandle{}, ErrorParamsMissing
	}
	if _, exists := build.objects[name]; exists {
		return ObjectHandle{}, ErrorDuplicateName
	}
	mb := &meshBuild{name: name, material: mat}
	build.objects[name] = mb
	return ObjectHandle{id: objectMeshes.add(mb)}, OK
}

var objectMeshes = newRegistry[*meshBuild]()

func lookupMesh(h ObjectHandle) (*meshBuild, bool) {
	return objectMeshes.get(h.id)
}

// AddVertex appends a vertex to obj's point pool and returns its index for
// use in AddTriangle/AddQuad.
func AddVertex(obj ObjectHandle, p core.Vec3) (int, ResultFlags) {
	mb, ok := lookupMesh(obj)
	if !ok {
		return 0, ErrorWhileCreating
	}
	mb.vertices = append(mb.vertices, p)
	mb.orco = append(mb.orco, p)
	return len(mb.vertices) - 1, OK
}

// AddVertexWithOrco appends a vertex with a distinct "original coordinates"
// point, used by procedural textures that need an undeformed reference
// frame independent of the (possibly instanced/deformed) render position.
func AddVertexWithOrco(obj ObjectHandle, p, orco core.Vec3) (int, ResultFlags) {
	mb, ok := lookupMesh(obj)
	if !ok {
		return 0, ErrorWhileCreating
	}
	mb.vertices = append(mb.vertices, p)
	mb.orco = append(mb.orco, orco)
	return len(mb.vertices) - 1, OK
}

// AddVertexTimeStep records a vertex position for a non-zero shutter time
// step. See meshBuild's doc comment: only time step 0 (added via AddVertex)
// affects the finalized mesh.
func AddVertexTimeStep(obj ObjectHandle, timeStep int, p core.Vec3) (int, ResultFlags) {
	if timeStep == 0 {
		return AddVertex(obj, p)
	}
	mb, ok := lookupMesh(obj)
	if !ok {
		return 0, ErrorWhileCreating
	}
	return len(mb.vertices), Warning
}

// AddNormal appends a normal to obj's normal pool. FinalizeObject uses the
// pool only when it holds exactly one normal per triangle, as that
// triangle's face normal; a pool of any other size is ignored.
func AddNormal(obj ObjectHandle, n core.Vec3) ResultFlags {
	mb, ok := lookupMesh(obj)
	if !ok {
		return ErrorWhileCreating
	}
	mb.normals = append(mb.normals, n)
	return OK
}

// AddUV appends a per-vertex texture coordinate, parallel to the vertex pool.
func AddUV(obj ObjectHandle, uv core.Vec2) ResultFlags {
	mb, ok := lookupMesh(obj)
	if !ok {
		return ErrorWhileCreating
	}
	mb.uvs = append(mb.uvs, uv)
	return OK
}

// AddTriangle appends a triangular face referencing three vertex indices
// already added via AddVertex. materialName, if non-empty, overrides the
// mesh's default material for this one face.
func AddTriangle(obj ObjectHandle, scn SceneHandle, i0, i1, i2 int, materialName string) ResultFlags {
	mb, ok := lookupMesh(obj)
	if !ok {
		return ErrorWhileCreating
	}
	mat := mb.material
	if materialName != "" {
		build, ok := lookupScene(scn)
		if !ok {
			return ErrorWhileCreating
		}
		m, ok := build.materials[materialName]
		if !ok {
			return ErrorTypeUnknown
		}
		mat = m
	}
	mb.faces = append(mb.faces, i0, i1, i2)
	mb.faceMats = append(mb.faceMats, mat)
	return OK
}

// AddQuad appends a quad face as two triangles (i0,i1,i2) and (i0,i2,i3),
// matching the winding a planar four-vertex face is split with elsewhere in
// the renderer (geometry.NewQuad).
func AddQuad(obj ObjectHandle, scn SceneHandle, i0, i1, i2, i3 int, materialName string) ResultFlags {
	if flags := AddTriangle(obj, scn, i0, i1, i2, materialName); flags.HasError() {
		return flags
	}
	return AddTriangle(obj, scn, i0, i2, i3, materialName)
}

// SmoothObjectMesh records angle (in degrees) for obj. At FinalizeObject, a
// non-negative angle (the default is 0) with no normals added makes every
// triangle get its flat face normal computed from its winding; a negative
// angle leaves normals to the triangles themselves. No per-vertex normal
// averaging is done, and the angle's value is not compared against the
// dihedral angle between faces.
func SmoothObjectMesh(obj ObjectHandle, angleDegrees float64) ResultFlags {
	mb, ok := lookupMesh(obj)
	if !ok {
		return ErrorWhileCreating
	}
	mb.smoothAngle = angleDegrees
	return OK
}

// FinalizeObject assembles obj's accumulated vertices/faces into a
// geometry.TriangleMesh and adds it to the scene's primitive list. Returns
// the finalized mesh's triangle count.
func FinalizeObject(sceneHandle SceneHandle, obj ObjectHandle) (int, ResultFlags) {
	build, ok := lookupScene(sceneHandle)
	if !ok {
		return 0, ErrorWhileCreating
	}
	mb, ok := lookupMesh(obj)
	if !ok {
		return 0, ErrorWhileCreating
	}
	if len(mb.faces) == 0 {
		return 0, ErrorParamsMissing
	}

	opts := &geometry.TriangleMeshOptions{}
	numTriangles := len(mb.faces) / 3
	if len(mb.faceMats) == numTriangles {
		opts.Materials = mb.faceMats
	}
	if len(mb.uvs) == len(mb.vertices) {
		opts.VertexUVs = mb.uvs
	}
	if mb.smoothAngle >= 0 && len(mb.normals) == 0 {
		opts.Normals = smoothedFaceNormals(mb.vertices, mb.faces)
	} else if len(mb.normals) == numTriangles {
		opts.Normals = mb.normals
	}

	mesh := geometry.NewTriangleMesh(mb.vertices, mb.faces, mb.material, opts)
	mb.finalized = mesh
	build.scn.Primitives = append(build.scn.Primitives, mesh)
	return mesh.GetTriangleCount(), OK
}

// smoothedFaceNormals derives one geometric normal per triangle from its
// vertex winding; true vertex-normal averaging happens downstream wherever
// a SurfacePoint interpolates shading normals across a face, so this is the
// flat-shaded fallback used when no explicit per-face normal was supplied.
func smoothedFaceNormals(vertices []core.Vec3, faces []int) []core.Vec3 {
	numTriangles := len(faces) / 3
	normals := make([]core.Vec3, numTriangles)
	for i := 0; i < numTriangles; i++ {
		v0 := vertices[faces[i*3]]
		v1 := vertices[faces[i*3+1]]
		v2 := vertices[faces[i*3+2]]
		edge1 := v1.Subtract(v0)
		edge2 := v2.Subtract(v0)
		normals[i] = edge1.Cross(edge2).Normalize()
	}
	return normals
}
