package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// Triangle is three vertices plus the planes derived from them. The planes are only valid after
// CalculatePlanes has been called with the current vertices.
type Triangle struct {
	A r3.Vector
	B r3.Vector
	C r3.Vector

	abc Plane
	ab  Plane
	bc  Plane
	ca  Plane
}

// NewTriangle returns a triangle with its planes already calculated.
func NewTriangle(a, b, c r3.Vector) *Triangle {
	t := &Triangle{A: a, B: b, C: c}
	t.CalculatePlanes()
	return t
}

// CalculatePlanes rebuilds the face plane and the three edge planes. Each edge plane contains its
// edge and the face normal, and faces away from the triangle interior.
func (t *Triangle) CalculatePlanes() {
	t.abc = NewPlane(t.A, t.B, t.C)
	t.ab = NewPlane(t.A, t.B, t.A.Add(t.abc.Normal))
	t.bc = NewPlane(t.B, t.C, t.B.Add(t.abc.Normal))
	t.ca = NewPlane(t.C, t.A, t.C.Add(t.abc.Normal))
}

// Points returns the vertices in order.
func (t *Triangle) Points() []r3.Vector {
	return []r3.Vector{t.A, t.B, t.C}
}

// Normal returns the unit face normal, or the zero vector for a degenerate triangle.
func (t *Triangle) Normal() r3.Vector {
	return t.abc.Normal
}

// Plane returns the face plane.
func (t *Triangle) Plane() Plane {
	return t.abc
}

// ClosestTo returns the closest point on the triangle to p.
//
// Edges are tested in AB, BC, CA order. If p lies outside an edge plane the answer is on that
// edge's segment; when p lies outside two edge planes (near an obtuse corner) the nearer of the
// two segments wins and AB beats BC beats CA on exact ties. Otherwise p projects onto the face.
func (t *Triangle) ClosestTo(p r3.Vector) r3.Vector {
	best := p
	bestDist := math.Inf(1)
	found := false
	edges := [3]struct {
		plane Plane
		a, b  r3.Vector
	}{
		{t.ab, t.A, t.B},
		{t.bc, t.B, t.C},
		{t.ca, t.C, t.A},
	}
	for _, e := range edges {
		if !e.plane.SideOf(p) {
			continue
		}
		candidate := ClosestPointSegmentPoint(e.a, e.b, p)
		if d := candidate.Sub(p).Norm2(); !found || d < bestDist {
			best, bestDist, found = candidate, d, true
		}
	}
	if found {
		return best
	}
	return t.abc.ClosestTo(p)
}

// Min returns the component-wise minimum of the vertices.
func (t *Triangle) Min() r3.Vector {
	return MinVector(t.A, MinVector(t.B, t.C))
}

// Max returns the component-wise maximum of the vertices.
func (t *Triangle) Max() r3.Vector {
	return MaxVector(t.A, MaxVector(t.B, t.C))
}

// Bounds returns the axis-aligned box around the triangle.
func (t *Triangle) Bounds() AABB {
	return AABB{Min: t.Min(), Max: t.Max()}
}

// MidX is the mean of the vertex X coordinates.
func (t *Triangle) MidX() float64 {
	return (t.A.X + t.B.X + t.C.X) / 3
}

// MidY is the mean of the vertex Y coordinates.
func (t *Triangle) MidY() float64 {
	return (t.A.Y + t.B.Y + t.C.Y) / 3
}

// MidZ is the mean of the vertex Z coordinates.
func (t *Triangle) MidZ() float64 {
	return (t.A.Z + t.B.Z + t.C.Z) / 3
}

// Mid returns the vertex mean along the given axis.
func (t *Triangle) Mid(axis Axis) float64 {
	switch axis {
	case AxisX:
		return t.MidX()
	case AxisY:
		return t.MidY()
	default:
		return t.MidZ()
	}
}

// IntersectRay returns the distance along the ray to where it crosses the triangle. Both faces are
// hit. Degenerate triangles and rays parallel to the face never hit.
// Reference: Möller & Trumbore, "Fast, Minimum Storage Ray/Triangle Intersection".
func (t *Triangle) IntersectRay(ray Ray) (float64, bool) {
	e1 := t.B.Sub(t.A)
	e2 := t.C.Sub(t.A)
	pvec := ray.Direction.Cross(e2)
	det := e1.Dot(pvec)
	if math.Abs(det) < floatEpsilon {
		return 0, false
	}
	invDet := 1 / det

	tvec := ray.Origin.Sub(t.A)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}
	qvec := tvec.Cross(e1)
	v := ray.Direction.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}
	dist := e2.Dot(qvec) * invDet
	if dist < 0 {
		return 0, false
	}
	return dist, true
}
