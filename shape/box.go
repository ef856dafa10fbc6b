package shape

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/volumetric/spatialmath"
	"go.viam.com/volumetric/utils"
)

// Box is an oriented box. In its local frame the box is the unit cube centered on the origin;
// Center and Size place and stretch that cube within the owning transform.
type Box struct {
	Center r3.Vector
	Size   r3.Vector
}

// NewBox returns a box of the given size centered at center.
func NewBox(center, size r3.Vector) *Box {
	return &Box{Center: center, Size: size}
}

// Kind returns KindBox.
func (b *Box) Kind() Kind { return KindBox }

func (b *Box) frame(t Transform) *spatialmath.Transform {
	position := t.Matrix().TransformPoint(b.Center)
	scale := t.LossyScale()
	scale = r3.Vector{X: scale.X * b.Size.X, Y: scale.Y * b.Size.Y, Z: scale.Z * b.Size.Z}
	return spatialmath.NewTransform(position, t.Orientation(), scale)
}

// contains excludes the faces themselves.
func (b *Box) contains(pt r3.Vector) bool {
	return math.Abs(pt.X) < 0.5 && math.Abs(pt.Y) < 0.5 && math.Abs(pt.Z) < 0.5
}

// snap pushes pt along the ray from the origin onto the face of its dominant axis. Ties fall
// through to Z.
func (b *Box) snap(pt r3.Vector) r3.Vector {
	x, y, z := math.Abs(pt.X), math.Abs(pt.Y), math.Abs(pt.Z)
	switch {
	case x > y && x > z:
		return pt.Mul(utils.Reciprocal(x * 2))
	case y > x && y > z:
		return pt.Mul(utils.Reciprocal(y * 2))
	default:
		return pt.Mul(utils.Reciprocal(z * 2))
	}
}

func (b *Box) clip(pt r3.Vector) r3.Vector {
	return r3.Vector{
		X: utils.Clamp(pt.X, -0.5, 0.5),
		Y: utils.Clamp(pt.Y, -0.5, 0.5),
		Z: utils.Clamp(pt.Z, -0.5, 0.5),
	}
}
