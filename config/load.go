package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"go.viam.com/volumetric/logging"
	"go.viam.com/volumetric/shape"
	"go.viam.com/volumetric/spatialmath"
	"go.viam.com/volumetric/trimesh"
)

// Load reads and validates the scene file at path.
func Load(path string) (*Config, error) {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read scene %q", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot load scene %q", path)
	}
	return cfg, nil
}

// Parse decodes and validates a scene. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "cannot decode scene")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Build creates a scene from a validated config. Relative mesh files are resolved against
// baseDir.
func Build(cfg *Config, logger logging.Logger, baseDir string) (*shape.Scene, error) {
	if logger == nil {
		logger = logging.Global()
	}
	scene := shape.NewScene(logger)
	for i := range cfg.Shapes {
		s := &cfg.Shapes[i]
		g, err := s.geometry(baseDir)
		if err != nil {
			return nil, errors.Wrapf(err, "shape %q", s.Name)
		}
		in := shape.NewInstance(s.Name, g, logger.Sublogger(s.Name).With("type", s.Type))
		in.Hollow = s.Hollow
		if in.Transform, err = s.transform(); err != nil {
			return nil, errors.Wrapf(err, "shape %q", s.Name)
		}
		scene.Add(in)
		logger.Debugw("added shape", "name", s.Name, "type", s.Type, "hollow", s.Hollow)
	}
	return scene, nil
}

func (s *Shape) transform() (shape.Transform, error) {
	position, err := toVector(s.Position, r3.Vector{})
	if err != nil {
		return shape.Transform{}, err
	}
	euler, err := toVector(s.RotationDeg, r3.Vector{})
	if err != nil {
		return shape.Transform{}, err
	}
	scale, err := toVector(s.Scale, one)
	if err != nil {
		return shape.Transform{}, err
	}
	rotation := spatialmath.QuatFromEulerDegrees(euler.X, euler.Y, euler.Z)
	return shape.NewTransform(position, rotation, scale), nil
}

func (s *Shape) geometry(baseDir string) (shape.Geometry, error) {
	center, err := toVector(s.Center, r3.Vector{})
	if err != nil {
		return nil, err
	}
	switch s.Type {
	case shape.KindBox:
		size, err := toVector(s.Size, one)
		if err != nil {
			return nil, err
		}
		return shape.NewBox(center, size), nil
	case shape.KindSphere:
		return shape.NewSphere(center, orDefault(s.Radius, 1)), nil
	case shape.KindCapsule:
		c := shape.NewCapsule(center, orDefault(s.Radius, 1), orDefault(s.Height, 2))
		if dir, ok := directions[strings.ToLower(s.Direction)]; ok {
			c.Direction = dir
		}
		return c, nil
	case shape.KindMesh:
		if s.Mesh == nil {
			return nil, errors.New("mesh settings are required")
		}
		return s.Mesh.build(baseDir)
	case shape.KindPath:
		points := make([]r3.Vector, 0, len(s.Points))
		for _, p := range s.Points {
			v, err := toVector(p, r3.Vector{})
			if err != nil {
				return nil, err
			}
			points = append(points, v)
		}
		return shape.NewPath(points...), nil
	default:
		return nil, errors.Errorf("unknown shape type %q", s.Type)
	}
}

func (m *Mesh) build(baseDir string) (*shape.Mesh, error) {
	src, err := m.source(baseDir)
	if err != nil {
		return nil, err
	}
	var mesh *shape.Mesh
	if src == nil {
		mesh = shape.NewMesh(nil)
	} else {
		mesh = shape.NewMesh(src)
	}
	if m.RaySeparation != nil {
		mesh.RaySeparation = *m.RaySeparation
	}
	if m.UpdateInterval != nil {
		mesh.UpdateInterval = *m.UpdateInterval
	}

	if m.Baked != "" {
		tree, err := loadTree(resolve(baseDir, m.Baked))
		if err != nil {
			return nil, err
		}
		mesh.SetTree(tree)
	}
	if m.Bake && !mesh.IsBaked() {
		if err := mesh.Bake(); err != nil {
			return nil, errors.Wrap(err, "cannot bake mesh")
		}
	}
	return mesh, nil
}

func (m *Mesh) source(baseDir string) (*trimesh.IndexedMesh, error) {
	switch {
	case m.File != "":
		path := resolve(baseDir, m.File)
		//nolint:gosec
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot open mesh %q", path)
		}
		defer func() {
			//nolint:errcheck
			f.Close()
		}()
		src, err := trimesh.LoadOBJ(f)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot parse mesh %q", path)
		}
		return src, nil
	case m.Sphere != nil:
		return trimesh.SphereMesh(m.Sphere.Radius, cellsOrDefault(m.Sphere.Cells))
	case m.Box != nil:
		size, err := toVector(m.Box.Size, one)
		if err != nil {
			return nil, err
		}
		return trimesh.BoxMesh(size, cellsOrDefault(m.Box.Cells))
	default:
		return nil, nil
	}
}

func loadTree(path string) (*trimesh.Tree, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open baked tree %q", path)
	}
	defer func() {
		//nolint:errcheck
		f.Close()
	}()
	tree, err := trimesh.LoadTree(f)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read baked tree %q", path)
	}
	return tree, nil
}

func resolve(baseDir, path string) string {
	if filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func cellsOrDefault(cells int) int {
	if cells <= 0 {
		return trimesh.DefaultSDFCells
	}
	return cells
}
