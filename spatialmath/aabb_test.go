package spatialmath

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestAABB(t *testing.T) {
	box := NewAABB(r3.Vector{1, 2, 3}, r3.Vector{-1, 0, 5}, r3.Vector{0, 4, 4})
	test.That(t, box.Min, test.ShouldResemble, r3.Vector{-1, 0, 3})
	test.That(t, box.Max, test.ShouldResemble, r3.Vector{1, 4, 5})
	test.That(t, box.Size(), test.ShouldResemble, r3.Vector{2, 4, 2})
	test.That(t, box.Center(), test.ShouldResemble, r3.Vector{0, 2, 4})
	test.That(t, NewAABB(), test.ShouldResemble, AABB{})

	t.Run("contains", func(t *testing.T) {
		test.That(t, box.Contains(r3.Vector{0, 2, 4}), test.ShouldBeTrue)
		test.That(t, box.Contains(r3.Vector{1, 4, 5}), test.ShouldBeTrue)
		test.That(t, box.Contains(r3.Vector{1.01, 4, 5}), test.ShouldBeFalse)
	})

	t.Run("encapsulate", func(t *testing.T) {
		other := NewAABB(r3.Vector{5, 5, 5})
		merged := box.Encapsulate(other)
		test.That(t, merged.Min, test.ShouldResemble, r3.Vector{-1, 0, 3})
		test.That(t, merged.Max, test.ShouldResemble, r3.Vector{5, 5, 5})
	})

	t.Run("distances", func(t *testing.T) {
		test.That(t, box.SqrDistance(r3.Vector{0, 2, 4}), test.ShouldEqual, 0)
		test.That(t, box.SqrDistance(r3.Vector{3, 2, 4}), test.ShouldEqual, 4)
		test.That(t, box.SqrDistance(r3.Vector{3, -1, 4}), test.ShouldEqual, 5)
		// farthest corner from the center is any corner
		test.That(t, box.MaxSqrDistance(r3.Vector{0, 2, 4}), test.ShouldEqual, 1+4+1)
		test.That(t, box.MaxSqrDistance(r3.Vector{-1, 0, 3}), test.ShouldEqual, 4+16+4)
	})

	t.Run("longest axis", func(t *testing.T) {
		test.That(t, box.LongestAxis(), test.ShouldEqual, AxisY)
		test.That(t, NewAABB(r3.Vector{}, r3.Vector{3, 1, 1}).LongestAxis(), test.ShouldEqual, AxisX)
		// ties fall through to Z
		test.That(t, NewAABB(r3.Vector{}, r3.Vector{2, 2, 1}).LongestAxis(), test.ShouldEqual, AxisZ)
		test.That(t, NewAABB(r3.Vector{}, r3.Vector{}).LongestAxis(), test.ShouldEqual, AxisZ)
		test.That(t, AxisX.String(), test.ShouldEqual, "x")
	})

	t.Run("ray", func(t *testing.T) {
		up := r3.Vector{0, 0, 1}
		test.That(t, box.IntersectRay(Ray{Origin: r3.Vector{0, 2, 0}, Direction: up}, 10), test.ShouldBeTrue)
		test.That(t, box.IntersectRay(Ray{Origin: r3.Vector{0, 2, 0}, Direction: up}, 2), test.ShouldBeFalse)
		test.That(t, box.IntersectRay(Ray{Origin: r3.Vector{0, 2, 4}, Direction: up}, 0.1), test.ShouldBeTrue)
		test.That(t, box.IntersectRay(Ray{Origin: r3.Vector{0, 2, 6}, Direction: up}, 10), test.ShouldBeFalse)
		test.That(t, box.IntersectRay(Ray{Origin: r3.Vector{5, 2, 0}, Direction: up}, 10), test.ShouldBeFalse)
		diagonal := r3.Vector{1, 1, 1}.Normalize()
		test.That(t, box.IntersectRay(Ray{Origin: r3.Vector{-2, 1, 2}, Direction: diagonal}, 10), test.ShouldBeTrue)
	})
}
