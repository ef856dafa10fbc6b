package shape

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/volumetric/spatialmath"
	"go.viam.com/volumetric/utils"
)

// these turn the local Y axis onto the capsule's direction.
var (
	capsuleRotationX = spatialmath.QuatFromAxisAngle(r3.Vector{Z: 1}, math.Pi/2)
	capsuleRotationY = spatialmath.NewZeroOrientation()
	capsuleRotationZ = spatialmath.QuatFromAxisAngle(r3.Vector{X: 1}, math.Pi/2)
)

// Capsule is a cylinder of Radius capped by two hemispheres, Height long overall, running along
// Direction. In its local frame the axis is always Y.
type Capsule struct {
	Center    r3.Vector
	Radius    float64
	Height    float64
	Direction spatialmath.Axis

	// squash is the ratio of the scale along the axis to the scale across it, as of the last frame.
	squash float64
	framed bool
}

// NewCapsule returns a capsule running along Y.
func NewCapsule(center r3.Vector, radius, height float64) *Capsule {
	return &Capsule{Center: center, Radius: radius, Height: height, Direction: spatialmath.AxisY}
}

// Kind returns KindCapsule.
func (c *Capsule) Kind() Kind { return KindCapsule }

func (c *Capsule) frame(t Transform) *spatialmath.Transform {
	position := t.Matrix().TransformPoint(c.Center)
	rotation := t.Orientation()
	switch c.Direction {
	case spatialmath.AxisX:
		rotation = quat.Mul(rotation, capsuleRotationX)
	case spatialmath.AxisY:
		rotation = quat.Mul(rotation, capsuleRotationY)
	case spatialmath.AxisZ:
		rotation = quat.Mul(rotation, capsuleRotationZ)
	}
	scale := t.LossyScale()
	across := math.Max(scale.X, scale.Z)
	c.squash = utils.Divide(scale.Y, across)
	c.framed = true
	return spatialmath.NewTransform(position, rotation, r3.Vector{X: across, Y: across, Z: across})
}

// HalfHeight returns the distance from the center to either cap center in the local frame, after
// the stretch of the most recent frame. It is never negative.
func (c *Capsule) HalfHeight() float64 {
	squash := 1.
	if c.framed {
		squash = c.squash
	}
	return math.Max(0, c.Height*squash*0.5-c.Radius)
}

func (c *Capsule) contains(pt r3.Vector) bool {
	halfHeight := c.HalfHeight()
	switch {
	case pt.Y > halfHeight:
		pt.Y -= halfHeight
	case pt.Y < -halfHeight:
		pt.Y += halfHeight
	default:
		pt.Y = 0
	}
	return pt.Norm2() < c.Radius*c.Radius
}

func (c *Capsule) snap(pt r3.Vector) r3.Vector {
	halfHeight := c.HalfHeight()
	switch {
	case pt.Y > halfHeight:
		pt.Y -= halfHeight
		pt = pt.Normalize().Mul(c.Radius)
		pt.Y += halfHeight
	case pt.Y < -halfHeight:
		pt.Y += halfHeight
		pt = pt.Normalize().Mul(c.Radius)
		pt.Y -= halfHeight
	default:
		y := pt.Y
		pt.Y = 0
		pt = pt.Normalize().Mul(c.Radius)
		pt.Y = y
	}
	return pt
}
