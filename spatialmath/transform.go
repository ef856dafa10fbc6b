// Package spatialmath defines the geometric primitives and transforms used by volumetric shapes.
package spatialmath

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Transform maps between a shape's local space and world space using a translation, rotation and
// (possibly non-uniform) scale matrix. The inverse is computed once at construction.
type Transform struct {
	matrix  mgl64.Mat4
	inverse mgl64.Mat4
}

// NewTransform composes translation * rotation * scale. A zero quaternion is treated as no rotation.
// A zero scale on any axis makes the transform singular, in which case every world point maps to
// the local origin.
func NewTransform(position r3.Vector, rotation quat.Number, scale r3.Vector) *Transform {
	q := toMGLQuat(rotation)
	m := mgl64.Translate3D(position.X, position.Y, position.Z).
		Mul4(q.Mat4()).
		Mul4(mgl64.Scale3D(scale.X, scale.Y, scale.Z))
	return &Transform{matrix: m, inverse: m.Inv()}
}

// Matrix returns the local to world matrix.
func (t *Transform) Matrix() mgl64.Mat4 {
	return t.matrix
}

// TransformPoint maps a local point to world space.
func (t *Transform) TransformPoint(pt r3.Vector) r3.Vector {
	return mulPoint(t.matrix, pt, 1)
}

// InverseTransformPoint maps a world point to local space.
func (t *Transform) InverseTransformPoint(pt r3.Vector) r3.Vector {
	return mulPoint(t.inverse, pt, 1)
}

// TransformDirection maps a local direction to world space, ignoring translation. The result is
// scaled along with the transform.
func (t *Transform) TransformDirection(dir r3.Vector) r3.Vector {
	return mulPoint(t.matrix, dir, 0)
}

// InverseTransformDirection maps a world direction to local space, ignoring translation.
func (t *Transform) InverseTransformDirection(dir r3.Vector) r3.Vector {
	return mulPoint(t.inverse, dir, 0)
}

func mulPoint(m mgl64.Mat4, pt r3.Vector, w float64) r3.Vector {
	v := m.Mul4x1(mgl64.Vec4{pt.X, pt.Y, pt.Z, w})
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}

func toMGLQuat(q quat.Number) mgl64.Quat {
	if q == (quat.Number{}) {
		return mgl64.QuatIdent()
	}
	return mgl64.Quat{W: q.Real, V: mgl64.Vec3{q.Imag, q.Jmag, q.Kmag}}.Normalize()
}
