package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/volumetric/utils"
)

// NewZeroOrientation returns the quaternion which signifies no rotation.
func NewZeroOrientation() quat.Number {
	return quat.Number{Real: 1}
}

// QuatFromAxisAngle returns the unit quaternion rotating theta radians about axis.
// See: https://www.euclideanspace.com/maths/geometry/rotations/conversions/angleToQuaternion/index.htm
func QuatFromAxisAngle(axis r3.Vector, theta float64) quat.Number {
	axis = axis.Normalize()
	if axis == (r3.Vector{}) {
		return NewZeroOrientation()
	}
	sinA := math.Sin(theta / 2)
	return quat.Number{
		Real: math.Cos(theta / 2),
		Imag: axis.X * sinA,
		Jmag: axis.Y * sinA,
		Kmag: axis.Z * sinA,
	}
}

// QuatFromEulerDegrees converts engine-style Euler angles in degrees into a quaternion. The
// rotation about Z is applied first, then X, then Y.
func QuatFromEulerDegrees(x, y, z float64) quat.Number {
	qx := QuatFromAxisAngle(r3.Vector{X: 1}, utils.DegToRad(x))
	qy := QuatFromAxisAngle(r3.Vector{Y: 1}, utils.DegToRad(y))
	qz := QuatFromAxisAngle(r3.Vector{Z: 1}, utils.DegToRad(z))
	return quat.Mul(qy, quat.Mul(qx, qz))
}
