// Package trimesh extracts triangles from mesh geometry and answers closest point and ray queries
// over them, either by linear scan or through a bounding volume tree.
package trimesh

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/volumetric/spatialmath"
)

// Topology describes how a submesh's index list is to be read.
type Topology int

// Supported topologies. Only TopologyTriangles contributes triangles.
const (
	TopologyTriangles Topology = iota
	TopologyQuads
	TopologyLines
	TopologyPoints
)

var (
	// ErrNotReadable is returned when a source does not allow its geometry to be read.
	ErrNotReadable = errors.New("mesh source is not readable")
	// ErrBadIndex is returned when a source references a vertex that does not exist.
	ErrBadIndex = errors.New("mesh index out of range")
)

// Source is anything that exposes vertex positions and per-submesh index lists.
type Source interface {
	Vertices() []r3.Vector
	SubMeshCount() int
	Topology(subMesh int) Topology
	Indices(subMesh int) []int
}

// ReadableSource is implemented by sources whose geometry may be locked away.
type ReadableSource interface {
	Source
	IsReadable() bool
}

// SubMesh is one index list of an IndexedMesh.
type SubMesh struct {
	Topology Topology
	Indices  []int
}

// IndexedMesh is an in-memory Source.
type IndexedMesh struct {
	Positions []r3.Vector
	SubMeshes []SubMesh
	// NonReadable marks geometry that may not be read back, mirroring locked engine assets.
	NonReadable bool
}

// NewIndexedMesh returns a mesh with a single triangle submesh.
func NewIndexedMesh(positions []r3.Vector, indices []int) *IndexedMesh {
	return &IndexedMesh{
		Positions: positions,
		SubMeshes: []SubMesh{{Topology: TopologyTriangles, Indices: indices}},
	}
}

// Vertices returns the vertex positions.
func (m *IndexedMesh) Vertices() []r3.Vector {
	return m.Positions
}

// SubMeshCount returns the number of submeshes.
func (m *IndexedMesh) SubMeshCount() int {
	return len(m.SubMeshes)
}

// Topology returns the topology of the given submesh.
func (m *IndexedMesh) Topology(subMesh int) Topology {
	return m.SubMeshes[subMesh].Topology
}

// Indices returns the index list of the given submesh.
func (m *IndexedMesh) Indices(subMesh int) []int {
	return m.SubMeshes[subMesh].Indices
}

// IsReadable reports whether the geometry may be read.
func (m *IndexedMesh) IsReadable() bool {
	return !m.NonReadable
}

// TriangleCount returns the number of triangles the mesh will produce.
func (m *IndexedMesh) TriangleCount() int {
	count := 0
	for _, sm := range m.SubMeshes {
		if sm.Topology == TopologyTriangles {
			count += len(sm.Indices) / 3
		}
	}
	return count
}

// checkSource verifies a source can be read and that every triangle index is in range.
// A nil source is valid and has no triangles.
func checkSource(src Source) error {
	if src == nil {
		return nil
	}
	if rs, ok := src.(ReadableSource); ok && !rs.IsReadable() {
		return ErrNotReadable
	}
	vertexCount := len(src.Vertices())
	for i := 0; i < src.SubMeshCount(); i++ {
		if src.Topology(i) != TopologyTriangles {
			continue
		}
		indices := src.Indices(i)
		for j := 0; j+2 < len(indices); j += 3 {
			for _, idx := range indices[j : j+3] {
				if idx < 0 || idx >= vertexCount {
					return errors.Wrapf(ErrBadIndex, "submesh %d index %d refers to vertex %d of %d", i, j, idx, vertexCount)
				}
			}
		}
	}
	return nil
}

// eachTriangle calls fn with the vertices of every triangle of src, in submesh order.
// The source must already have passed checkSource.
func eachTriangle(src Source, fn func(a, b, c r3.Vector)) {
	if src == nil {
		return
	}
	positions := src.Vertices()
	for i := 0; i < src.SubMeshCount(); i++ {
		if src.Topology(i) != TopologyTriangles {
			continue
		}
		indices := src.Indices(i)
		for j := 0; j+2 < len(indices); j += 3 {
			fn(positions[indices[j]], positions[indices[j+1]], positions[indices[j+2]])
		}
	}
}

// Triangles extracts every triangle of src with its planes calculated.
func Triangles(src Source) ([]*spatialmath.Triangle, error) {
	if err := checkSource(src); err != nil {
		return nil, err
	}
	var tris []*spatialmath.Triangle
	eachTriangle(src, func(a, b, c r3.Vector) {
		tris = append(tris, spatialmath.NewTriangle(a, b, c))
	})
	return tris, nil
}

// Index is a queryable collection of triangles rebuilt from a Source.
type Index interface {
	Update(src Source) error
	Clear()
	HasTriangles() bool
	Len() int
	FindClosestPoint(pt r3.Vector) r3.Vector
	Raycast(ray spatialmath.Ray, maxDist float64) (float64, bool)
	Bounds() (spatialmath.AABB, bool)
}

func trianglesBound(tris []*spatialmath.Triangle) spatialmath.AABB {
	if len(tris) == 0 {
		return spatialmath.AABB{}
	}
	bound := tris[0].Bounds()
	for _, tri := range tris[1:] {
		bound = bound.Encapsulate(tri.Bounds())
	}
	return bound
}

// closestOf returns the closest point to pt over tris, or pt itself when tris is empty.
func closestOf(tris []*spatialmath.Triangle, pt r3.Vector) r3.Vector {
	closest := pt
	closestDist := -1.
	for i := len(tris) - 1; i >= 0; i-- {
		candidate := tris[i].ClosestTo(pt)
		if d := candidate.Sub(pt).Norm2(); closestDist < 0 || d < closestDist {
			closest, closestDist = candidate, d
		}
	}
	return closest
}
