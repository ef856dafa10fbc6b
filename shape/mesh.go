package shape

import (
	"time"

	"github.com/golang/geo/r3"

	"go.viam.com/volumetric/spatialmath"
	"go.viam.com/volumetric/trimesh"
)

const (
	// DefaultRaySeparation is the world distance a containment ray restarts past each hit.
	DefaultRaySeparation = 0.1
	// NeverUpdate disables periodic rebuilds of a mesh's triangle index.
	NeverUpdate time.Duration = -1

	maxRayHits = 50
)

var worldUp = r3.Vector{Y: 1}

// Mesh is a triangle mesh read from a Source. Nearest points come from a baked Tree when one has
// been built and from a Linear scan otherwise. Containment is decided by counting the crossings of
// a ray cast straight up in world space, so only closed meshes classify correctly.
type Mesh struct {
	Source trimesh.Source
	// RaySeparation must be positive for any point to be classified inside.
	RaySeparation float64
	// UpdateInterval is how often the active index is rebuilt from Source. Zero rebuilds on every
	// tick and a negative interval never rebuilds.
	UpdateInterval time.Duration

	tree     *trimesh.Tree
	linear   *trimesh.Linear
	cooldown time.Duration
	// localUp is world up expressed in the local frame, unnormalized, as of the last frame.
	localUp r3.Vector
}

// NewMesh returns an unbaked mesh with the default ray separation that never rebuilds.
func NewMesh(src trimesh.Source) *Mesh {
	return &Mesh{Source: src, RaySeparation: DefaultRaySeparation, UpdateInterval: NeverUpdate}
}

// Kind returns KindMesh.
func (m *Mesh) Kind() Kind { return KindMesh }

func (m *Mesh) frame(t Transform) *spatialmath.Transform {
	matrix := t.Matrix()
	m.localUp = matrix.InverseTransformDirection(worldUp)
	return matrix
}

// Bake builds a tree from the source. The tree is used for every later query until ClearBake.
func (m *Mesh) Bake() error {
	if m.tree == nil {
		m.tree = trimesh.NewTree()
	}
	err := m.tree.Update(m.Source)
	if m.linear != nil {
		m.linear.Clear()
	}
	return err
}

// ClearBake drops the baked tree.
func (m *Mesh) ClearBake() {
	if m.tree != nil {
		m.tree.Clear()
	}
}

// IsBaked reports whether a non-empty tree is in use.
func (m *Mesh) IsBaked() bool {
	return m.tree != nil && m.tree.IsBaked()
}

// SetTree installs a previously baked tree, such as one read with trimesh.LoadTree.
func (m *Mesh) SetTree(tree *trimesh.Tree) {
	m.tree = tree
	if m.linear != nil {
		m.linear.Clear()
	}
}

// Tree returns the baked tree, or nil if the mesh was never baked.
func (m *Mesh) Tree() *trimesh.Tree {
	return m.tree
}

// index returns the active triangle index, building the linear set on first use.
func (m *Mesh) index() (trimesh.Index, error) {
	if m.IsBaked() {
		return m.tree, nil
	}
	if m.linear == nil {
		m.linear = trimesh.NewLinear()
	}
	if !m.linear.HasTriangles() {
		if err := m.linear.Update(m.Source); err != nil {
			return m.linear, err
		}
	}
	return m.linear, nil
}

// ready reports whether the mesh has triangles to query.
func (m *Mesh) ready() (bool, error) {
	idx, err := m.index()
	if err != nil {
		return false, err
	}
	return idx.HasTriangles(), nil
}

// advance counts elapsed off the update cooldown and rebuilds the active index when it runs out.
func (m *Mesh) advance(elapsed time.Duration) error {
	if m.cooldown > m.UpdateInterval {
		m.cooldown = m.UpdateInterval
	}
	if m.UpdateInterval < 0 {
		return nil
	}
	m.cooldown -= elapsed
	if m.cooldown > 0 {
		return nil
	}
	m.cooldown = m.UpdateInterval
	if m.IsBaked() {
		return m.tree.Update(m.Source)
	}
	if m.linear != nil {
		return m.linear.Update(m.Source)
	}
	return nil
}

func (m *Mesh) closest(pt r3.Vector) r3.Vector {
	idx, err := m.index()
	if err != nil {
		return pt
	}
	return idx.FindClosestPoint(pt)
}

// contains casts a ray from pt along world up and counts the surfaces it crosses. Each cast
// restarts RaySeparation past the previous hit so a hit on a shared edge is counted once.
func (m *Mesh) contains(pt r3.Vector) bool {
	if m.RaySeparation <= 0 {
		return false
	}
	idx, err := m.index()
	if err != nil || !idx.HasTriangles() {
		return false
	}
	bound, ok := idx.Bounds()
	if !ok || !bound.Contains(pt) {
		return false
	}

	dir := m.localUp
	if dir == (r3.Vector{}) {
		dir = worldUp
	}
	stretch := dir.Norm()
	dir = dir.Mul(1 / stretch)
	separation := m.RaySeparation * stretch

	length := bound.Size().Norm()
	ray := spatialmath.Ray{Origin: pt, Direction: dir}
	hits := 0
	for i := 0; i < maxRayHits && length > 0; i++ {
		dist, hit := idx.Raycast(ray, length)
		if !hit {
			break
		}
		hits++
		length -= dist + separation
		ray.Origin = ray.At(dist + separation)
	}
	return hits%2 == 1
}
