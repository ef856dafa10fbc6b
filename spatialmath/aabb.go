package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// Axis names one of the three coordinate axes.
type Axis int

// The coordinate axes.
const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String returns the lowercase axis letter.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "unknown"
	}
}

// Component returns the coordinate of v along axis.
func Component(v r3.Vector, axis Axis) float64 {
	switch axis {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

// AABB is an axis-aligned bounding box given by its minimum and maximum corners.
type AABB struct {
	Min r3.Vector
	Max r3.Vector
}

// NewAABB returns the smallest box containing all the given points. It returns the zero box if
// no points are given.
func NewAABB(points ...r3.Vector) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	box := AABB{Min: points[0], Max: points[0]}
	for _, pt := range points[1:] {
		box.Min = MinVector(box.Min, pt)
		box.Max = MaxVector(box.Max, pt)
	}
	return box
}

// Encapsulate returns the smallest box containing both b and other.
func (b AABB) Encapsulate(other AABB) AABB {
	return AABB{Min: MinVector(b.Min, other.Min), Max: MaxVector(b.Max, other.Max)}
}

// Size returns the extent of the box along each axis.
func (b AABB) Size() r3.Vector {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b AABB) Center() r3.Vector {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Contains reports whether pt lies in the box, boundary included.
func (b AABB) Contains(pt r3.Vector) bool {
	return pt.X >= b.Min.X && pt.X <= b.Max.X &&
		pt.Y >= b.Min.Y && pt.Y <= b.Max.Y &&
		pt.Z >= b.Min.Z && pt.Z <= b.Max.Z
}

// LongestAxis returns the axis of largest extent. X and Y are only chosen when strictly longest,
// every tie resolves to Z.
func (b AABB) LongestAxis() Axis {
	size := b.Size()
	switch {
	case size.X > size.Y && size.X > size.Z:
		return AxisX
	case size.Y > size.X && size.Y > size.Z:
		return AxisY
	default:
		return AxisZ
	}
}

// SqrDistance returns the squared distance from pt to the nearest point of the box, 0 inside.
func (b AABB) SqrDistance(pt r3.Vector) float64 {
	d := r3.Vector{
		X: axisGap(pt.X, b.Min.X, b.Max.X),
		Y: axisGap(pt.Y, b.Min.Y, b.Max.Y),
		Z: axisGap(pt.Z, b.Min.Z, b.Max.Z),
	}
	return d.Norm2()
}

// MaxSqrDistance returns the squared distance from pt to the farthest corner of the box.
func (b AABB) MaxSqrDistance(pt r3.Vector) float64 {
	far := 0.
	for _, x := range [2]float64{b.Min.X, b.Max.X} {
		for _, y := range [2]float64{b.Min.Y, b.Max.Y} {
			for _, z := range [2]float64{b.Min.Z, b.Max.Z} {
				if d := (r3.Vector{X: x, Y: y, Z: z}).Sub(pt).Norm2(); d > far {
					far = d
				}
			}
		}
	}
	return far
}

// IntersectRay reports whether the ray enters the box within maxDist of its origin.
// Reference: Williams et al., "An Efficient and Robust Ray-Box Intersection Algorithm".
func (b AABB) IntersectRay(ray Ray, maxDist float64) bool {
	tMin, tMax := 0., maxDist
	origin := [3]float64{ray.Origin.X, ray.Origin.Y, ray.Origin.Z}
	dir := [3]float64{ray.Direction.X, ray.Direction.Y, ray.Direction.Z}
	lo := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	hi := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}
	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < floatEpsilon {
			if origin[i] < lo[i] || origin[i] > hi[i] {
				return false
			}
			continue
		}
		inv := 1 / dir[i]
		t0 := (lo[i] - origin[i]) * inv
		t1 := (hi[i] - origin[i]) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tMin = max(tMin, t0)
		tMax = min(tMax, t1)
		if tMin > tMax+floatEpsilon {
			return false
		}
	}
	return true
}

func axisGap(v, lo, hi float64) float64 {
	if v < lo {
		return lo - v
	}
	if v > hi {
		return v - hi
	}
	return 0
}

// Ray is a half-line starting at Origin. Direction is expected to be unit length, so that
// distances along the ray are in the same units as the space.
type Ray struct {
	Origin    r3.Vector
	Direction r3.Vector
}

// At returns the point dist along the ray.
func (r Ray) At(dist float64) r3.Vector {
	return r.Origin.Add(r.Direction.Mul(dist))
}
