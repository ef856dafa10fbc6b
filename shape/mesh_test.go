package shape

import (
	"math"
	"testing"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/volumetric/logging"
	"go.viam.com/volumetric/spatialmath"
	"go.viam.com/volumetric/trimesh"
)

// cubeMesh returns a closed axis aligned cube with the given half extent.
func cubeMesh(half float64) *trimesh.IndexedMesh {
	positions := []r3.Vector{
		{X: -half, Y: -half, Z: -half}, {X: half, Y: -half, Z: -half}, {X: half, Y: half, Z: -half}, {X: -half, Y: half, Z: -half},
		{X: -half, Y: -half, Z: half}, {X: half, Y: -half, Z: half}, {X: half, Y: half, Z: half}, {X: -half, Y: half, Z: half},
	}
	return trimesh.NewIndexedMesh(positions, []int{
		0, 2, 1, 0, 3, 2,
		4, 5, 6, 4, 6, 7,
		0, 1, 5, 0, 5, 4,
		3, 7, 6, 3, 6, 2,
		0, 4, 7, 0, 7, 3,
		1, 2, 6, 1, 6, 5,
	})
}

func TestMeshContainment(t *testing.T) {
	for _, baked := range []bool{false, true} {
		m := NewMesh(cubeMesh(1))
		if baked {
			test.That(t, m.Bake(), test.ShouldBeNil)
		}
		test.That(t, m.IsBaked(), test.ShouldEqual, baked)
		m.frame(Transform{})

		test.That(t, Classify(m, r3.Vector{}), test.ShouldBeTrue)
		test.That(t, Classify(m, r3.Vector{X: 0.3, Y: -0.2, Z: 0.1}), test.ShouldBeTrue)
		test.That(t, Classify(m, r3.Vector{X: 0.9, Y: 0.9, Z: 0.9}), test.ShouldBeTrue)
		test.That(t, Classify(m, r3.Vector{X: 1.5}), test.ShouldBeFalse)
		test.That(t, Classify(m, r3.Vector{Y: 3}), test.ShouldBeFalse)

		vecAlmostEqual(t, Snap(m, r3.Vector{X: 3}), r3.Vector{X: 1})
		vecAlmostEqual(t, Snap(m, r3.Vector{X: 0.2, Z: 0.7}), r3.Vector{X: 0.2, Z: 1})
	}
}

func TestMeshContainmentOpenMesh(t *testing.T) {
	// without its top face an upward ray escapes the cube without crossing anything
	src := cubeMesh(1)
	src.SubMeshes[0].Indices = append(src.SubMeshes[0].Indices[:18:18], src.SubMeshes[0].Indices[24:]...)
	m := NewMesh(src)
	m.frame(Transform{})
	test.That(t, Classify(m, r3.Vector{}), test.ShouldBeFalse)
}

func TestMeshRaySeparation(t *testing.T) {
	m := NewMesh(cubeMesh(1))
	m.RaySeparation = 0
	m.frame(Transform{})
	test.That(t, Classify(m, r3.Vector{}), test.ShouldBeFalse)
}

func TestMeshBakeLifecycle(t *testing.T) {
	m := NewMesh(cubeMesh(1))
	test.That(t, m.Tree(), test.ShouldBeNil)
	test.That(t, m.IsBaked(), test.ShouldBeFalse)

	test.That(t, m.Bake(), test.ShouldBeNil)
	test.That(t, m.IsBaked(), test.ShouldBeTrue)
	test.That(t, m.Tree().Len(), test.ShouldEqual, 12)

	m.ClearBake()
	test.That(t, m.IsBaked(), test.ShouldBeFalse)
	vecAlmostEqual(t, Snap(m, r3.Vector{Y: -4}), r3.Vector{Y: -1})

	data, err := func() ([]byte, error) {
		other := NewMesh(cubeMesh(2))
		if err := other.Bake(); err != nil {
			return nil, err
		}
		return other.Tree().MarshalBinary()
	}()
	test.That(t, err, test.ShouldBeNil)
	loaded := &trimesh.Tree{}
	test.That(t, loaded.UnmarshalBinary(data), test.ShouldBeNil)
	m.SetTree(loaded)
	test.That(t, m.IsBaked(), test.ShouldBeTrue)
	vecAlmostEqual(t, Snap(m, r3.Vector{Y: -4}), r3.Vector{Y: -2})

	hidden := cubeMesh(1)
	hidden.NonReadable = true
	m.Source = hidden
	test.That(t, errors.Is(m.Bake(), trimesh.ErrNotReadable), test.ShouldBeTrue)
	test.That(t, m.IsBaked(), test.ShouldBeFalse)
}

func TestMeshInstance(t *testing.T) {
	logger := logging.NewTestLogger(t)

	t.Run("transformed solid", func(t *testing.T) {
		in := NewInstance("rock", NewMesh(cubeMesh(1)), logger)
		in.Transform = NewTransform(
			r3.Vector{},
			spatialmath.QuatFromAxisAngle(r3.Vector{X: 1}, math.Pi/2),
			r3.Vector{X: 2, Y: 2, Z: 2},
		)

		test.That(t, in.Step(ListenerAt(r3.Vector{X: 0.5, Y: 1.5}, 0)), test.ShouldBeNil)
		test.That(t, in.Result.InnerPointInside, test.ShouldBeTrue)
		test.That(t, in.Result.InnerPoint, test.ShouldResemble, r3.Vector{X: 0.5, Y: 1.5})
		vecAlmostEqual(t, in.Result.OuterPoint, r3.Vector{X: 0.5, Y: 2})

		test.That(t, in.Step(ListenerAt(r3.Vector{Y: 5}, 0)), test.ShouldBeNil)
		test.That(t, in.Result.InnerPointInside, test.ShouldBeFalse)
		vecAlmostEqual(t, in.Result.InnerPoint, r3.Vector{Y: 2})
		vecAlmostEqual(t, in.Result.OuterPoint, r3.Vector{Y: 2})
		test.That(t, in.Result.OuterPointDistance, test.ShouldAlmostEqual, 3)
		test.That(t, in.PointInShape(r3.Vector{Z: 1.9}), test.ShouldBeTrue)
		test.That(t, in.PointInShape(r3.Vector{Z: 2.1}), test.ShouldBeFalse)
	})

	t.Run("hollow", func(t *testing.T) {
		in := NewInstance("shell", NewMesh(cubeMesh(1)), logger)
		in.Hollow = true
		test.That(t, in.Step(ListenerAt(r3.Vector{X: 0.5}, 0)), test.ShouldBeNil)
		test.That(t, in.Result.InnerPointSet, test.ShouldBeFalse)
		test.That(t, in.Result.OuterPointSet, test.ShouldBeTrue)
		vecAlmostEqual(t, in.Result.OuterPoint, r3.Vector{X: 1})
		test.That(t, in.Result.OuterPointDistance, test.ShouldAlmostEqual, 0.5)
	})

	t.Run("empty", func(t *testing.T) {
		logger, logs := logging.NewObservedTestLogger(t)
		in := NewInstance("nothing", NewMesh(&trimesh.IndexedMesh{}), logger)
		test.That(t, in.Step(ListenerAt(r3.Vector{X: 3}, 0)), test.ShouldBeNil)
		test.That(t, in.Result.OuterPointSet, test.ShouldBeFalse)
		test.That(t, in.Result.InnerPointSet, test.ShouldBeFalse)
		test.That(t, logs.FilterMessage("mesh has no triangles").Len(), test.ShouldEqual, 1)

		in = NewInstance("none", NewMesh(nil), logger)
		test.That(t, in.Step(ListenerAt(r3.Vector{X: 3}, 0)), test.ShouldBeNil)
		test.That(t, in.Result.OuterPointSet, test.ShouldBeFalse)
	})

	t.Run("unreadable", func(t *testing.T) {
		src := cubeMesh(1)
		src.NonReadable = true
		in := NewInstance("locked", NewMesh(src), logger)
		err := in.Step(ListenerAt(r3.Vector{X: 3}, 0))
		test.That(t, errors.Is(err, trimesh.ErrNotReadable), test.ShouldBeTrue)
		test.That(t, err.Error(), test.ShouldContainSubstring, "locked")
		test.That(t, in.Result.OuterPointSet, test.ShouldBeFalse)
	})
}

func TestMeshUpdateInterval(t *testing.T) {
	logger := logging.NewTestLogger(t)
	listener := r3.Vector{X: 3}

	t.Run("periodic", func(t *testing.T) {
		src := cubeMesh(1)
		m := NewMesh(src)
		m.UpdateInterval = 100 * time.Millisecond
		in := NewInstance("breathing", m, logger)

		test.That(t, in.Step(ListenerAt(listener, 50*time.Millisecond)), test.ShouldBeNil)
		vecAlmostEqual(t, in.Result.OuterPoint, r3.Vector{X: 1})

		src.Positions = cubeMesh(2).Positions
		test.That(t, in.Step(ListenerAt(listener, 50*time.Millisecond)), test.ShouldBeNil)
		vecAlmostEqual(t, in.Result.OuterPoint, r3.Vector{X: 1})

		test.That(t, in.Step(ListenerAt(listener, 60*time.Millisecond)), test.ShouldBeNil)
		vecAlmostEqual(t, in.Result.OuterPoint, r3.Vector{X: 2})
	})

	t.Run("baked", func(t *testing.T) {
		src := cubeMesh(1)
		m := NewMesh(src)
		m.UpdateInterval = 0
		test.That(t, m.Bake(), test.ShouldBeNil)
		in := NewInstance("baked", m, logger)

		test.That(t, in.Step(ListenerAt(listener, time.Millisecond)), test.ShouldBeNil)
		vecAlmostEqual(t, in.Result.OuterPoint, r3.Vector{X: 1})
		src.Positions = cubeMesh(2).Positions
		test.That(t, in.Step(ListenerAt(listener, time.Millisecond)), test.ShouldBeNil)
		test.That(t, m.IsBaked(), test.ShouldBeTrue)
		vecAlmostEqual(t, in.Result.OuterPoint, r3.Vector{X: 2})
	})

	t.Run("never", func(t *testing.T) {
		src := cubeMesh(1)
		in := NewInstance("frozen", NewMesh(src), logger)
		test.That(t, in.Step(ListenerAt(listener, time.Second)), test.ShouldBeNil)
		src.Positions = cubeMesh(2).Positions
		test.That(t, in.Step(ListenerAt(listener, time.Hour)), test.ShouldBeNil)
		vecAlmostEqual(t, in.Result.OuterPoint, r3.Vector{X: 1})
	})
}
