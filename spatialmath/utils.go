package spatialmath

import (
	"github.com/golang/geo/r3"

	"go.viam.com/volumetric/utils"
)

// floatEpsilon is the tolerance used to reject near-parallel and near-degenerate configurations.
const floatEpsilon = 1e-9

// ClosestPointSegmentPoint returns the closest point to pt on the segment from a to b.
// A zero length segment returns a.
func ClosestPointSegmentPoint(a, b, pt r3.Vector) r3.Vector {
	ab := b.Sub(a)
	denom := ab.Norm2()
	if denom <= 0 {
		return a
	}
	t := utils.Clamp01(pt.Sub(a).Dot(ab) / denom)
	return a.Add(ab.Mul(t))
}

// ClosestPointPolyline returns the closest point to pt over the consecutive segments of points,
// and false if there are fewer than two points.
func ClosestPointPolyline(points []r3.Vector, pt r3.Vector) (r3.Vector, bool) {
	if len(points) < 2 {
		return pt, false
	}
	var best r3.Vector
	bestDist := -1.
	for i := 1; i < len(points); i++ {
		candidate := ClosestPointSegmentPoint(points[i-1], points[i], pt)
		if d := candidate.Sub(pt).Norm2(); bestDist < 0 || d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best, true
}

// MinVector returns the component-wise minimum of a and b.
func MinVector(a, b r3.Vector) r3.Vector {
	return r3.Vector{X: min(a.X, b.X), Y: min(a.Y, b.Y), Z: min(a.Z, b.Z)}
}

// MaxVector returns the component-wise maximum of a and b.
func MaxVector(a, b r3.Vector) r3.Vector {
	return r3.Vector{X: max(a.X, b.X), Y: max(a.Y, b.Y), Z: max(a.Z, b.Z)}
}

// R3VectorAlmostEqual compares two r3.Vector objects and returns if the all elementwise differences are less than epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return utils.Float64AlmostEqual(a.X, b.X, epsilon) &&
		utils.Float64AlmostEqual(a.Y, b.Y, epsilon) &&
		utils.Float64AlmostEqual(a.Z, b.Z, epsilon)
}
