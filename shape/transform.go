package shape

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/volumetric/spatialmath"
)

// Transform is the placement of a shape in the world: a position, a rotation and a possibly
// non-uniform scale. The zero Transform is the identity, so a zero Rotation means no rotation and
// a zero Scale means unit scale.
type Transform struct {
	Position r3.Vector
	Rotation quat.Number
	Scale    r3.Vector
}

// NewTransform returns a Transform from its parts.
func NewTransform(position r3.Vector, rotation quat.Number, scale r3.Vector) Transform {
	return Transform{Position: position, Rotation: rotation, Scale: scale}
}

// LossyScale returns the scale, substituting unit scale for the zero vector.
func (t Transform) LossyScale() r3.Vector {
	if t.Scale == (r3.Vector{}) {
		return r3.Vector{X: 1, Y: 1, Z: 1}
	}
	return t.Scale
}

// Orientation returns the rotation, substituting the identity for the zero quaternion.
func (t Transform) Orientation() quat.Number {
	if t.Rotation == (quat.Number{}) {
		return spatialmath.NewZeroOrientation()
	}
	return t.Rotation
}

// Matrix returns the full local to world transform.
func (t Transform) Matrix() *spatialmath.Transform {
	return spatialmath.NewTransform(t.Position, t.Orientation(), t.LossyScale())
}
