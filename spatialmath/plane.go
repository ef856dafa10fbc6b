package spatialmath

import (
	"github.com/golang/geo/r3"
)

// Plane is an oriented plane in Hessian normal form: every point p on the plane satisfies
// Normal.Dot(p) + Distance == 0.
type Plane struct {
	Normal   r3.Vector
	Distance float64
}

// NewPlane builds the plane passing through a, b and c, with a normal following the right hand rule.
// Collinear points produce a zero normal; such a plane puts every point on its non-positive side.
func NewPlane(a, b, c r3.Vector) Plane {
	normal := b.Sub(a).Cross(c.Sub(a)).Normalize()
	return Plane{
		Normal:   normal,
		Distance: -normal.Dot(a),
	}
}

// SideOf returns true if p lies strictly on the side the normal points to.
func (p Plane) SideOf(pt r3.Vector) bool {
	return p.DistanceTo(pt) > 0
}

// DistanceTo returns the signed distance from the plane to pt.
func (p Plane) DistanceTo(pt r3.Vector) float64 {
	return p.Normal.Dot(pt) + p.Distance
}

// ClosestTo projects pt orthogonally onto the plane.
func (p Plane) ClosestTo(pt r3.Vector) r3.Vector {
	return pt.Sub(p.Normal.Mul(p.DistanceTo(pt)))
}
