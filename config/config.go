// Package config reads scene descriptions: a listener and a list of shapes placed in the world.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/volumetric/shape"
	"go.viam.com/volumetric/spatialmath"
	"go.viam.com/volumetric/utils"
)

// Config is a scene file.
type Config struct {
	Listener []float64 `yaml:"listener"`
	Shapes   []Shape   `yaml:"shapes"`
}

// Shape describes one shape instance. Which geometry fields apply depends on Type.
type Shape struct {
	Name   string     `yaml:"name"`
	Type   shape.Kind `yaml:"type"`
	Hollow bool       `yaml:"hollow"`

	Position []float64 `yaml:"position"`
	// RotationDeg holds Euler angles in degrees, applied about Z, then X, then Y.
	RotationDeg []float64 `yaml:"rotation_deg"`
	Scale       []float64 `yaml:"scale"`

	Center    []float64 `yaml:"center"`
	Size      []float64 `yaml:"size"`
	Radius    float64   `yaml:"radius"`
	Height    float64   `yaml:"height"`
	Direction string    `yaml:"direction"`

	Mesh   *Mesh       `yaml:"mesh"`
	Points [][]float64 `yaml:"points"`
}

// Mesh describes where a mesh shape gets its triangles. At most one of File, Sphere and Box
// provides the geometry; Baked adds a tree saved by "vashape bake".
type Mesh struct {
	File   string        `yaml:"file"`
	Baked  string        `yaml:"baked"`
	Sphere *SphereSource `yaml:"sphere"`
	Box    *BoxSource    `yaml:"box"`
	// Bake builds a tree when the scene is loaded.
	Bake           bool           `yaml:"bake"`
	RaySeparation  *float64       `yaml:"ray_separation"`
	UpdateInterval *time.Duration `yaml:"update_interval"`
}

// SphereSource tessellates a sphere.
type SphereSource struct {
	Radius float64 `yaml:"radius"`
	Cells  int     `yaml:"cells"`
}

// BoxSource tessellates a box.
type BoxSource struct {
	Size  []float64 `yaml:"size"`
	Cells int       `yaml:"cells"`
}

var (
	one = r3.Vector{X: 1, Y: 1, Z: 1}

	directions = map[string]spatialmath.Axis{
		"x": spatialmath.AxisX,
		"y": spatialmath.AxisY,
		"z": spatialmath.AxisZ,
	}
)

// ListenerPoint returns the listener position and whether the scene has one.
func (cfg *Config) ListenerPoint() (r3.Vector, bool) {
	if len(cfg.Listener) == 0 {
		return r3.Vector{}, false
	}
	v, err := toVector(cfg.Listener, r3.Vector{})
	if err != nil {
		return r3.Vector{}, false
	}
	return v, true
}

// Validate checks every shape and reports all problems at once. Shapes without a name are given
// a random one.
func (cfg *Config) Validate() error {
	var errs error
	if _, err := toVector(cfg.Listener, r3.Vector{}); err != nil {
		errs = multierr.Append(errs, utils.NewConfigValidationError("listener", err))
	}
	seen := make(map[string]bool, len(cfg.Shapes))
	for i := range cfg.Shapes {
		s := &cfg.Shapes[i]
		if s.Name == "" {
			s.Name = uuid.NewString()
		}
		path := fmt.Sprintf("shapes.%d", i)
		if seen[s.Name] {
			errs = multierr.Append(errs, utils.NewConfigValidationError(path, errors.Errorf("shape name %q is not unique", s.Name)))
		}
		seen[s.Name] = true
		errs = multierr.Append(errs, s.Validate(path))
	}
	return errs
}

// Validate checks the shape's fields for its type.
func (s *Shape) Validate(path string) error {
	var errs error
	fail := func(err error) {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path, err))
	}
	for _, field := range []struct {
		name string
		v    []float64
	}{
		{"position", s.Position},
		{"rotation_deg", s.RotationDeg},
		{"scale", s.Scale},
		{"center", s.Center},
	} {
		if _, err := toVector(field.v, r3.Vector{}); err != nil {
			fail(errors.Wrap(err, field.name))
		}
	}

	switch s.Type {
	case shape.KindBox:
		if _, err := toVector(s.Size, one); err != nil {
			fail(errors.Wrap(err, "size"))
		}
	case shape.KindSphere:
		if s.Radius < 0 {
			fail(errors.New("radius must not be negative"))
		}
	case shape.KindCapsule:
		if s.Radius < 0 || s.Height < 0 {
			fail(errors.New("radius and height must not be negative"))
		}
		if _, ok := directions[strings.ToLower(s.Direction)]; s.Direction != "" && !ok {
			fail(errors.Errorf("unknown direction %q", s.Direction))
		}
	case shape.KindMesh:
		if s.Mesh == nil {
			return multierr.Append(errs, utils.NewConfigValidationFieldRequiredError(path, "mesh"))
		}
		for _, err := range multierr.Errors(s.Mesh.Validate()) {
			fail(err)
		}
	case shape.KindPath:
		if len(s.Points) < 2 {
			fail(errors.New("a path needs at least two points"))
		}
		for j, p := range s.Points {
			if _, err := toVector(p, r3.Vector{}); err != nil {
				fail(errors.Wrapf(err, "points.%d", j))
			}
		}
	case "":
		return multierr.Append(errs, utils.NewConfigValidationFieldRequiredError(path, "type"))
	default:
		fail(errors.Errorf("unknown shape type %q", s.Type))
	}
	return errs
}

// Validate checks that the mesh has a geometry source and sensible settings.
func (m *Mesh) Validate() error {
	sources := 0
	for _, set := range []bool{m.File != "", m.Sphere != nil, m.Box != nil} {
		if set {
			sources++
		}
	}
	var errs error
	switch {
	case sources > 1:
		errs = multierr.Append(errs, errors.New("mesh: only one of file, sphere and box may be set"))
	case sources == 0 && m.Baked == "":
		errs = multierr.Append(errs, errors.New("mesh: one of file, baked, sphere and box is required"))
	case sources == 0 && m.UpdateInterval != nil && *m.UpdateInterval >= 0:
		errs = multierr.Append(errs, errors.New("mesh: a baked tree without a source cannot be updated"))
	}
	if m.RaySeparation != nil && *m.RaySeparation <= 0 {
		errs = multierr.Append(errs, errors.New("mesh: ray_separation must be positive"))
	}
	if m.Sphere != nil && m.Sphere.Radius <= 0 {
		errs = multierr.Append(errs, errors.New("mesh: sphere radius must be positive"))
	}
	if m.Box != nil {
		if _, err := toVector(m.Box.Size, one); err != nil {
			errs = multierr.Append(errs, errors.Wrap(err, "mesh: box size"))
		}
	}
	return errs
}

func toVector(v []float64, def r3.Vector) (r3.Vector, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return r3.Vector{X: v[0], Y: v[1], Z: v[2]}, nil
	default:
		return def, errors.Errorf("expected 3 components, got %d", len(v))
	}
}
