package trimesh

import (
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// DefaultSDFCells is the marching cubes resolution along the longest side of a solid.
const DefaultSDFCells = 32

// FromSDF tessellates an sdfx solid with uniform marching cubes. Coincident vertices are welded
// so neighboring triangles share indices.
func FromSDF(s sdf.SDF3, cells int) (*IndexedMesh, error) {
	if s == nil {
		return nil, errors.New("nil solid")
	}
	if cells <= 0 {
		cells = DefaultSDFCells
	}
	triangles := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))
	if len(triangles) == 0 {
		return nil, errors.New("solid produced no triangles")
	}

	positions := make([]r3.Vector, 0, len(triangles))
	indices := make([]int, 0, len(triangles)*3)
	welded := make(map[v3.Vec]int, len(triangles))
	for _, tri := range triangles {
		for j := 0; j < 3; j++ {
			v := tri[j]
			idx, ok := welded[v]
			if !ok {
				idx = len(positions)
				welded[v] = idx
				positions = append(positions, r3.Vector{X: v.X, Y: v.Y, Z: v.Z})
			}
			indices = append(indices, idx)
		}
	}
	return NewIndexedMesh(positions, indices), nil
}

// SphereMesh tessellates a sphere of the given radius centered on the origin.
func SphereMesh(radius float64, cells int) (*IndexedMesh, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, errors.Wrap(err, "sphere")
	}
	return FromSDF(s, cells)
}

// BoxMesh tessellates an axis aligned box of the given size centered on the origin.
func BoxMesh(size r3.Vector, cells int) (*IndexedMesh, error) {
	s, err := sdf.Box3D(v3.Vec{X: size.X, Y: size.Y, Z: size.Z}, 0)
	if err != nil {
		return nil, errors.Wrap(err, "box")
	}
	return FromSDF(s, cells)
}
