package spatialmath

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
)

func TestTransform(t *testing.T) {
	t.Run("identity", func(t *testing.T) {
		tf := NewTransform(r3.Vector{}, NewZeroOrientation(), r3.Vector{1, 1, 1})
		pt := r3.Vector{1, 2, 3}
		test.That(t, tf.TransformPoint(pt), test.ShouldResemble, pt)
		test.That(t, tf.InverseTransformPoint(pt), test.ShouldResemble, pt)
	})

	t.Run("zero quaternion is no rotation", func(t *testing.T) {
		tf := NewTransform(r3.Vector{1, 0, 0}, quat.Number{}, r3.Vector{1, 1, 1})
		test.That(t, R3VectorAlmostEqual(tf.TransformPoint(r3.Vector{0, 1, 0}), r3.Vector{1, 1, 0}, 1e-12), test.ShouldBeTrue)
	})

	t.Run("trs order", func(t *testing.T) {
		rot := QuatFromAxisAngle(r3.Vector{Z: 1}, math.Pi/2)
		tf := NewTransform(r3.Vector{10, 0, 0}, rot, r3.Vector{2, 3, 4})
		// scale x by 2, rotate +x onto +y, then translate
		got := tf.TransformPoint(r3.Vector{1, 0, 0})
		test.That(t, R3VectorAlmostEqual(got, r3.Vector{10, 2, 0}, 1e-9), test.ShouldBeTrue)
		back := tf.InverseTransformPoint(got)
		test.That(t, R3VectorAlmostEqual(back, r3.Vector{1, 0, 0}, 1e-9), test.ShouldBeTrue)

		dir := tf.TransformDirection(r3.Vector{0, 1, 0})
		test.That(t, R3VectorAlmostEqual(dir, r3.Vector{-3, 0, 0}, 1e-9), test.ShouldBeTrue)
		test.That(t, R3VectorAlmostEqual(tf.InverseTransformDirection(dir), r3.Vector{0, 1, 0}, 1e-9), test.ShouldBeTrue)
	})

	t.Run("round trip", func(t *testing.T) {
		r := rand.New(rand.NewSource(3))
		for i := 0; i < 50; i++ {
			rot := QuatFromEulerDegrees(r.Float64()*360, r.Float64()*360, r.Float64()*360)
			scale := r3.Vector{0.5 + r.Float64(), 0.5 + r.Float64(), 0.5 + r.Float64()}
			tf := NewTransform(randomVector(r, 5), rot, scale)
			pt := randomVector(r, 5)
			test.That(t, R3VectorAlmostEqual(tf.InverseTransformPoint(tf.TransformPoint(pt)), pt, 1e-9), test.ShouldBeTrue)
		}
	})

	t.Run("singular scale", func(t *testing.T) {
		tf := NewTransform(r3.Vector{1, 1, 1}, NewZeroOrientation(), r3.Vector{0, 1, 1})
		test.That(t, func() { tf.InverseTransformPoint(r3.Vector{4, 5, 6}) }, test.ShouldNotPanic)
	})
}

func TestOrientationHelpers(t *testing.T) {
	q := QuatFromAxisAngle(r3.Vector{X: 1}, math.Pi/2)
	rotate := func(q quat.Number, v r3.Vector) r3.Vector {
		return NewTransform(r3.Vector{}, q, r3.Vector{1, 1, 1}).TransformDirection(v)
	}
	test.That(t, R3VectorAlmostEqual(rotate(q, r3.Vector{0, 1, 0}), r3.Vector{0, 0, 1}, 1e-12), test.ShouldBeTrue)
	test.That(t, QuatFromAxisAngle(r3.Vector{}, 1), test.ShouldResemble, NewZeroOrientation())

	// Z first, then X, then Y
	e := QuatFromEulerDegrees(90, 0, 90)
	got := rotate(e, r3.Vector{1, 0, 0})
	test.That(t, R3VectorAlmostEqual(got, r3.Vector{0, 0, 1}, 1e-9), test.ShouldBeTrue)

	test.That(t, QuatFromEulerDegrees(0, 0, 0), test.ShouldResemble, NewZeroOrientation())
}
