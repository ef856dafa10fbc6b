package shape

import (
	"github.com/golang/geo/r3"

	"go.viam.com/volumetric/spatialmath"
	"go.viam.com/volumetric/utils"
)

// Sphere is a sphere of Radius around Center. Non-uniform scale is reduced to its largest
// component so the shape stays a true sphere.
type Sphere struct {
	Center r3.Vector
	Radius float64
}

// NewSphere returns a sphere.
func NewSphere(center r3.Vector, radius float64) *Sphere {
	return &Sphere{Center: center, Radius: radius}
}

// Kind returns KindSphere.
func (s *Sphere) Kind() Kind { return KindSphere }

func (s *Sphere) frame(t Transform) *spatialmath.Transform {
	position := t.Matrix().TransformPoint(s.Center)
	scale := t.LossyScale()
	uniform := utils.MaxFloat64(scale.X, scale.Y, scale.Z)
	return spatialmath.NewTransform(position, t.Orientation(), r3.Vector{X: uniform, Y: uniform, Z: uniform})
}

func (s *Sphere) contains(pt r3.Vector) bool {
	return pt.Norm2() < s.Radius*s.Radius
}

// snap maps the center itself to the center.
func (s *Sphere) snap(pt r3.Vector) r3.Vector {
	return pt.Normalize().Mul(s.Radius)
}
