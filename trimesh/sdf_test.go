package trimesh

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/volumetric/spatialmath"
)

func TestFromSDF(t *testing.T) {
	t.Run("sphere", func(t *testing.T) {
		mesh, err := SphereMesh(1, 16)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, mesh.TriangleCount(), test.ShouldBeGreaterThan, 100)

		// welded vertices are shared between neighboring triangles
		test.That(t, len(mesh.Positions), test.ShouldBeLessThan, mesh.TriangleCount()*3)
		for _, v := range mesh.Positions {
			test.That(t, v.Norm(), test.ShouldAlmostEqual, 1, 0.1)
		}

		tree := NewTree()
		test.That(t, tree.Update(mesh), test.ShouldBeNil)
		closest := tree.FindClosestPoint(r3.Vector{X: 5})
		test.That(t, closest.X, test.ShouldAlmostEqual, 1, 0.1)
		test.That(t, math.Abs(closest.Y)+math.Abs(closest.Z), test.ShouldBeLessThan, 0.2)
	})

	t.Run("box", func(t *testing.T) {
		mesh, err := BoxMesh(r3.Vector{X: 2, Y: 1, Z: 1}, 20)
		test.That(t, err, test.ShouldBeNil)
		linear := NewLinear()
		test.That(t, linear.Update(mesh), test.ShouldBeNil)
		bound, ok := linear.Bounds()
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, spatialmath.R3VectorAlmostEqual(bound.Size(), r3.Vector{X: 2, Y: 1, Z: 1}, 0.2), test.ShouldBeTrue)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := FromSDF(nil, 10)
		test.That(t, err, test.ShouldNotBeNil)
		_, err = SphereMesh(-1, 10)
		test.That(t, err, test.ShouldNotBeNil)
	})
}
