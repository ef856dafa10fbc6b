package utils

import (
	"math"
)

// zeroEpsilon is the tolerance under which a divisor is treated as zero.
const zeroEpsilon = 1e-12

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// Float64AlmostEqual returns whether a and b are within epsilon of each other.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// IsZero reports whether v is close enough to zero that dividing by it is unsafe.
func IsZero(v float64) bool {
	return Float64AlmostEqual(v, 0, zeroEpsilon)
}

// Divide returns a/b, or 0 when b is (almost) zero.
func Divide(a, b float64) float64 {
	if IsZero(b) {
		return 0
	}
	return a / b
}

// Reciprocal returns 1/v, or 0 when v is (almost) zero.
func Reciprocal(v float64) float64 {
	if IsZero(v) {
		return 0
	}
	return 1 / v
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 restricts v to [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// MaxFloat64 returns the largest of the given values, or -Inf if none are given.
func MaxFloat64(values ...float64) float64 {
	//nolint: revive
	max := math.Inf(-1)
	for _, v := range values {
		if v > max {
			//nolint: revive
			max = v
		}
	}
	return max
}
