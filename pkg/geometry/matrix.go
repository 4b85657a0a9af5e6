package geometry

import "github.com/yafaray/yafaray-go/pkg/core"

// Matrix4 is a row-major 4x4 transform matrix, matching the C-API's matrix
// convention (translation in the last column: m[0][3], m[1][3], m[2][3]).
type Matrix4 [4][4]float64

// Identity4 returns the identity transform.
func Identity4() Matrix4 {
	var m Matrix4
	for i := 0; i < 4; i++ {
		m[i][i] = 1
	}
	return m
}

// NewMatrix4 builds a Matrix4 from its 16 row-major entries.
func NewMatrix4(m00, m01, m02, m03, m10, m11, m12, m13, m20, m21, m22, m23, m30, m31, m32, m33 float64) Matrix4 {
	return Matrix4{
		{m00, m01, m02, m03},
		{m10, m11, m12, m13},
		{m20, m21, m22, m23},
		{m30, m31, m32, m33},
	}
}

// Translate returns a pure translation matrix.
func Translate(v core.Vec3) Matrix4 {
	m := Identity4()
	m[0][3], m[1][3], m[2][3] = v.X, v.Y, v.Z
	return m
}

// MulPoint transforms a point (implicit w=1), applying translation.
func (m Matrix4) MulPoint(p core.Vec3) core.Vec3 {
	return core.NewVec3(
		m[0][0]*p.X+m[0][1]*p.Y+m[0][2]*p.Z+m[0][3],
		m[1][0]*p.X+m[1][1]*p.Y+m[1][2]*p.Z+m[1][3],
		m[2][0]*p.X+m[2][1]*p.Y+m[2][2]*p.Z+m[2][3],
	)
}

// MulVector transforms a direction (implicit w=0), ignoring translation.
func (m Matrix4) MulVector(v core.Vec3) core.Vec3 {
	return core.NewVec3(
		m[0][0]*v.X+m[0][1]*v.Y+m[0][2]*v.Z,
		m[1][0]*v.X+m[1][1]*v.Y+m[1][2]*v.Z,
		m[2][0]*v.X+m[2][1]*v.Y+m[2][2]*v.Z,
	)
}

// MulNormal transforms a normal by the adjugate-based inverse-transpose of
// the upper-left 3x3 block, so non-uniform scale still keeps the normal
// perpendicular to the surface, and normalizes the result. Only when that
// block is singular does it fall back to the ordinary vector transform.
func (m Matrix4) MulNormal(n core.Vec3) core.Vec3 {
	inv, ok := m.Inverse3x3()
	if !ok {
		return m.MulVector(n).Normalize()
	}
	return core.NewVec3(
		inv[0][0]*n.X+inv[1][0]*n.Y+inv[2][0]*n.Z,
		inv[0][1]*n.X+inv[1][1]*n.Y+inv[2][1]*n.Z,
		inv[0][2]*n.X+inv[1][2]*n.Y+inv[2][2]*n.Z,
	).Normalize()
}

// Mul composes two transforms: (m.Mul(other)).MulPoint(p) == m.MulPoint(other.MulPoint(p)).
func (m Matrix4) Mul(other Matrix4) Matrix4 {
	var out Matrix4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[i][k] * other[k][j]
			}
			out[i][j] = sum
		}
	}
	return out
}

// Inverse3x3 returns the inverse of the upper-left 3x3 block via the
// adjugate/determinant method, and false if the block is singular.
func (m Matrix4) Inverse3x3() (Matrix4, bool) {
	a, b, c := m[0][0], m[0][1], m[0][2]
	d, e, f := m[1][0], m[1][1], m[1][2]
	g, h, i := m[2][0], m[2][1], m[2][2]

	det := a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
	if det == 0 {
		return Matrix4{}, false
	}
	invDet := 1.0 / det

	var out Matrix4
	out[0][0] = (e*i - f*h) * invDet
	out[0][1] = (c*h - b*i) * invDet
	out[0][2] = (b*f - c*e) * invDet
	out[1][0] = (f*g - d*i) * invDet
	out[1][1] = (a*i - c*g) * invDet
	out[1][2] = (c*d - a*f) * invDet
	out[2][0] = (d*h - e*g) * invDet
	out[2][1] = (b*g - a*h) * invDet
	out[2][2] = (a*e - b*d) * invDet
	out[3][3] = 1
	return out, true
}

// Inverse4 inverts the full affine transform (upper-left 3x3 plus
// translation), assuming the bottom row is [0 0 0 1].
func (m Matrix4) Inverse4() (Matrix4, bool) {
	inv3, ok := m.Inverse3x3()
	if !ok {
		return Matrix4{}, false
	}
	t := core.NewVec3(m[0][3], m[1][3], m[2][3])
	negT := inv3.MulVector(t).Negate()
	inv3[0][3], inv3[1][3], inv3[2][3] = negT.X, negT.Y, negT.Z
	inv3[3][3] = 1
	return inv3, true
}
