package shape

import "github.com/golang/geo/r3"

// Result is what a shape publishes for one tick. The outer point is the nearest point on the
// shape's surface. The inner point is the nearest point of its volume: the listener itself when
// it is inside a solid shape, otherwise the nearest surface point. Distances are measured from
// the listener in world space.
type Result struct {
	OuterPointSet      bool
	OuterPoint         r3.Vector
	OuterPointDistance float64

	InnerPointSet      bool
	InnerPoint         r3.Vector
	InnerPointDistance float64
	InnerPointInside   bool
}

func (r *Result) setOuter(pt, listener r3.Vector) {
	r.OuterPointSet = true
	r.OuterPoint = pt
	r.OuterPointDistance = pt.Distance(listener)
}

func (r *Result) setInner(pt, listener r3.Vector, inside bool) {
	r.InnerPointSet = true
	r.InnerPoint = pt
	r.InnerPointDistance = pt.Distance(listener)
	r.InnerPointInside = inside
}

func (r *Result) setInnerOuter(pt, listener r3.Vector, inside bool) {
	r.setInner(pt, listener, inside)
	r.setOuter(pt, listener)
}

// Final returns the point a consumer should use: the outer point for hollow shapes and the inner
// point for solid ones.
func (r Result) Final(hollow bool) (r3.Vector, float64, bool) {
	if hollow {
		return r.OuterPoint, r.OuterPointDistance, r.OuterPointSet
	}
	return r.InnerPoint, r.InnerPointDistance, r.InnerPointSet
}
