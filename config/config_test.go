package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/geo/r3"
	"go.uber.org/multierr"
	"go.viam.com/test"

	"go.viam.com/volumetric/logging"
	"go.viam.com/volumetric/shape"
	"go.viam.com/volumetric/trimesh"
)

const cubeOBJ = `# unit cube
o cube
v -0.5 -0.5 -0.5
v 0.5 -0.5 -0.5
v 0.5 0.5 -0.5
v -0.5 0.5 -0.5
v -0.5 -0.5 0.5
v 0.5 -0.5 0.5
v 0.5 0.5 0.5
v -0.5 0.5 0.5
f 1 2 3 4
f 5 6 7 8
f 1 2 6 5
f 4 3 7 8
f 1 4 8 5
f 2 3 7 6
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
listener: [1, 2, 3]
shapes:
  - name: crate
    type: box
    position: [10, 0, 0]
    rotation_deg: [0, 90, 0]
    size: [2, 1, 1]
  - type: sphere
    radius: 0.5
    hollow: true
  - name: rock
    type: mesh
    mesh:
      sphere: {radius: 1, cells: 8}
      update_interval: 2s
`))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Shapes, test.ShouldHaveLength, 3)

	listener, ok := cfg.ListenerPoint()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, listener, test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})

	test.That(t, cfg.Shapes[0].Type, test.ShouldEqual, shape.KindBox)
	test.That(t, cfg.Shapes[1].Name, test.ShouldNotBeEmpty)
	test.That(t, cfg.Shapes[1].Hollow, test.ShouldBeTrue)
	test.That(t, *cfg.Shapes[2].Mesh.UpdateInterval, test.ShouldEqual, 2*time.Second)
}

func TestParseNoListener(t *testing.T) {
	cfg, err := Parse([]byte(`shapes: [{type: sphere}]`))
	test.That(t, err, test.ShouldBeNil)
	_, ok := cfg.ListenerPoint()
	test.That(t, ok, test.ShouldBeFalse)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte(`shapes: [{type: box, colour: red}]`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "colour")
}

func TestValidate(t *testing.T) {
	t.Run("collects every error", func(t *testing.T) {
		cfg := &Config{
			Listener: []float64{1, 2},
			Shapes: []Shape{
				{Name: "a", Type: shape.KindBox, Size: []float64{1}},
				{Name: "a", Type: shape.KindSphere},
				{Name: "b"},
				{Name: "c", Type: "cone"},
			},
		}
		err := cfg.Validate()
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, multierr.Errors(err), test.ShouldHaveLength, 5)
		test.That(t, err.Error(), test.ShouldContainSubstring, `error validating "listener"`)
		test.That(t, err.Error(), test.ShouldContainSubstring, `error validating "shapes.0": size`)
		test.That(t, err.Error(), test.ShouldContainSubstring, `shape name "a" is not unique`)
		test.That(t, err.Error(), test.ShouldContainSubstring, `"type" is required`)
		test.That(t, err.Error(), test.ShouldContainSubstring, `unknown shape type "cone"`)
	})

	t.Run("names unnamed shapes", func(t *testing.T) {
		cfg := &Config{Shapes: []Shape{{Type: shape.KindSphere}, {Type: shape.KindSphere}}}
		test.That(t, cfg.Validate(), test.ShouldBeNil)
		test.That(t, cfg.Shapes[0].Name, test.ShouldNotBeEmpty)
		test.That(t, cfg.Shapes[0].Name, test.ShouldNotEqual, cfg.Shapes[1].Name)
	})

	t.Run("capsule", func(t *testing.T) {
		s := Shape{Name: "c", Type: shape.KindCapsule, Direction: "X"}
		test.That(t, s.Validate("shapes.0"), test.ShouldBeNil)
		s.Direction = "w"
		test.That(t, s.Validate("shapes.0").Error(), test.ShouldContainSubstring, `unknown direction "w"`)
		s.Direction = ""
		s.Radius = -1
		test.That(t, s.Validate("shapes.0"), test.ShouldNotBeNil)
	})

	t.Run("path", func(t *testing.T) {
		s := Shape{Name: "p", Type: shape.KindPath, Points: [][]float64{{0, 0, 0}}}
		test.That(t, s.Validate("shapes.0").Error(), test.ShouldContainSubstring, "at least two points")
		s.Points = append(s.Points, []float64{1, 0})
		test.That(t, s.Validate("shapes.0").Error(), test.ShouldContainSubstring, "points.1")
		s.Points[1] = []float64{1, 0, 0}
		test.That(t, s.Validate("shapes.0"), test.ShouldBeNil)
	})

	t.Run("mesh", func(t *testing.T) {
		s := Shape{Name: "m", Type: shape.KindMesh}
		test.That(t, s.Validate("shapes.0").Error(), test.ShouldContainSubstring, `"mesh" is required`)

		s.Mesh = &Mesh{}
		test.That(t, s.Validate("shapes.0").Error(), test.ShouldContainSubstring, "is required")

		s.Mesh = &Mesh{File: "a.obj", Sphere: &SphereSource{Radius: 1}}
		test.That(t, s.Validate("shapes.0").Error(), test.ShouldContainSubstring, "only one of")

		interval := time.Second
		s.Mesh = &Mesh{Baked: "a.tree", UpdateInterval: &interval}
		test.That(t, s.Validate("shapes.0").Error(), test.ShouldContainSubstring, "cannot be updated")

		interval = shape.NeverUpdate
		test.That(t, s.Validate("shapes.0"), test.ShouldBeNil)

		separation := 0.0
		s.Mesh = &Mesh{Sphere: &SphereSource{}, RaySeparation: &separation}
		err := s.Validate("shapes.0")
		test.That(t, multierr.Errors(err), test.ShouldHaveLength, 2)
		test.That(t, err.Error(), test.ShouldContainSubstring, "ray_separation")
		test.That(t, err.Error(), test.ShouldContainSubstring, "sphere radius")
	})
}

func TestBuildPrimitives(t *testing.T) {
	cfg, err := Parse([]byte(`
shapes:
  - name: crate
    type: box
    position: [10, 0, 0]
    center: [1, 0, 0]
    size: [2, 1, 1]
  - name: ball
    type: sphere
    hollow: true
  - name: pill
    type: capsule
    radius: 0.5
    direction: z
  - name: road
    type: path
    points: [[0, 0, 0], [0, 0, 10]]
`))
	test.That(t, err, test.ShouldBeNil)
	scene, err := Build(cfg, logging.NewTestLogger(t), "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, scene.Instances(), test.ShouldHaveLength, 4)

	crate, ok := scene.Lookup("crate")
	test.That(t, ok, test.ShouldBeTrue)
	box := crate.Geometry.(*shape.Box)
	test.That(t, box.Center, test.ShouldResemble, r3.Vector{X: 1})
	test.That(t, crate.Transform.Position, test.ShouldResemble, r3.Vector{X: 10})
	test.That(t, crate.Transform.Scale, test.ShouldResemble, r3.Vector{X: 1, Y: 1, Z: 1})

	ball, _ := scene.Lookup("ball")
	test.That(t, ball.Hollow, test.ShouldBeTrue)
	test.That(t, ball.Geometry.(*shape.Sphere).Radius, test.ShouldEqual, 1)

	pill, _ := scene.Lookup("pill")
	capsule := pill.Geometry.(*shape.Capsule)
	test.That(t, capsule.Radius, test.ShouldEqual, 0.5)
	test.That(t, capsule.Height, test.ShouldEqual, 2)

	test.That(t, scene.Step(shape.ListenerAt(r3.Vector{X: 20}, 0)), test.ShouldBeNil)
	pt, dist, ok := crate.FinalPoint()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pt.X, test.ShouldAlmostEqual, 12)
	test.That(t, dist, test.ShouldAlmostEqual, 8)

	road, _ := scene.Lookup("road")
	pt, _, ok = road.FinalPoint()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pt.X, test.ShouldAlmostEqual, 0)
}

func TestBuildMeshFromOBJ(t *testing.T) {
	dir := t.TempDir()
	test.That(t, os.WriteFile(filepath.Join(dir, "cube.obj"), []byte(cubeOBJ), 0o600), test.ShouldBeNil)

	cfg, err := Parse([]byte(`
shapes:
  - name: cube
    type: mesh
    mesh:
      file: cube.obj
      bake: true
`))
	test.That(t, err, test.ShouldBeNil)
	scene, err := Build(cfg, logging.NewTestLogger(t), dir)
	test.That(t, err, test.ShouldBeNil)

	cube, _ := scene.Lookup("cube")
	mesh := cube.Geometry.(*shape.Mesh)
	test.That(t, mesh.IsBaked(), test.ShouldBeTrue)
	test.That(t, mesh.Tree().Len(), test.ShouldEqual, 12)
	test.That(t, mesh.UpdateInterval, test.ShouldEqual, shape.NeverUpdate)
	test.That(t, mesh.RaySeparation, test.ShouldEqual, shape.DefaultRaySeparation)

	listener := r3.Vector{X: 0.1, Z: -0.2}
	test.That(t, scene.Step(shape.ListenerAt(listener, 0)), test.ShouldBeNil)
	test.That(t, cube.Result.InnerPointInside, test.ShouldBeTrue)
	test.That(t, cube.Result.InnerPoint, test.ShouldResemble, listener)
	test.That(t, cube.Result.OuterPoint.Z, test.ShouldAlmostEqual, -0.5)
	test.That(t, cube.Result.OuterPointDistance, test.ShouldAlmostEqual, 0.3)
}

func TestBuildMissingOBJ(t *testing.T) {
	cfg, err := Parse([]byte(`shapes: [{name: gone, type: mesh, mesh: {file: missing.obj}}]`))
	test.That(t, err, test.ShouldBeNil)
	_, err = Build(cfg, logging.NewTestLogger(t), t.TempDir())
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `shape "gone"`)
	test.That(t, err.Error(), test.ShouldContainSubstring, "missing.obj")
}

func TestBuildBakedTree(t *testing.T) {
	src, err := trimesh.LoadOBJ(bytes.NewReader([]byte(cubeOBJ)))
	test.That(t, err, test.ShouldBeNil)
	tree := trimesh.NewTree()
	test.That(t, tree.Update(src), test.ShouldBeNil)

	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "cube.tree"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tree.Save(f), test.ShouldBeNil)
	test.That(t, f.Close(), test.ShouldBeNil)

	cfg, err := Parse([]byte(`shapes: [{name: cube, type: mesh, scale: [2, 2, 2], mesh: {baked: cube.tree}}]`))
	test.That(t, err, test.ShouldBeNil)
	scene, err := Build(cfg, logging.NewTestLogger(t), dir)
	test.That(t, err, test.ShouldBeNil)

	cube, _ := scene.Lookup("cube")
	mesh := cube.Geometry.(*shape.Mesh)
	test.That(t, mesh.IsBaked(), test.ShouldBeTrue)
	test.That(t, mesh.Source, test.ShouldBeNil)

	test.That(t, scene.Step(shape.ListenerAt(r3.Vector{X: 3}, time.Second)), test.ShouldBeNil)
	pt, dist, ok := cube.FinalPoint()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pt.X, test.ShouldAlmostEqual, 1)
	test.That(t, dist, test.ShouldAlmostEqual, 2)
}

func TestBuildSDFMesh(t *testing.T) {
	cfg, err := Parse([]byte(`
shapes:
  - name: rock
    type: mesh
    hollow: true
    mesh:
      box: {size: [2, 2, 2], cells: 12}
`))
	test.That(t, err, test.ShouldBeNil)
	scene, err := Build(cfg, logging.NewTestLogger(t), "")
	test.That(t, err, test.ShouldBeNil)

	rock, _ := scene.Lookup("rock")
	test.That(t, rock.Geometry.(*shape.Mesh).IsBaked(), test.ShouldBeFalse)
	test.That(t, scene.Step(shape.ListenerAt(r3.Vector{X: 3}, 0)), test.ShouldBeNil)
	_, dist, ok := rock.FinalPoint()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, dist, test.ShouldAlmostEqual, 2, 0.05)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	test.That(t, os.WriteFile(path, []byte("listener: [0, 0, 0]\nshapes: [{name: s, type: sphere}]\n"), 0o600), test.ShouldBeNil)
	cfg, err := Load(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Shapes[0].Name, test.ShouldEqual, "s")

	_, err = Load(filepath.Join(dir, "nope.yaml"))
	test.That(t, err, test.ShouldNotBeNil)
}
