package trimesh

import (
	"github.com/golang/geo/r3"

	"go.viam.com/volumetric/spatialmath"
)

// Linear answers queries by scanning every triangle. It suits small or frequently changing
// meshes where building a tree is not worth it.
type Linear struct {
	triangles []*spatialmath.Triangle
}

// NewLinear returns an empty linear set.
func NewLinear() *Linear {
	return &Linear{}
}

// Update re-extracts the triangles of src, reusing the existing triangle values by position and
// dropping any surplus. On error the set is left empty.
func (l *Linear) Update(src Source) error {
	if err := checkSource(src); err != nil {
		l.Clear()
		return err
	}
	count := 0
	eachTriangle(src, func(a, b, c r3.Vector) {
		var tri *spatialmath.Triangle
		if count == len(l.triangles) {
			tri = &spatialmath.Triangle{}
			l.triangles = append(l.triangles, tri)
		} else {
			tri = l.triangles[count]
		}
		tri.A, tri.B, tri.C = a, b, c
		tri.CalculatePlanes()
		count++
	})
	clear(l.triangles[count:])
	l.triangles = l.triangles[:count]
	return nil
}

// Clear drops all triangles.
func (l *Linear) Clear() {
	clear(l.triangles)
	l.triangles = l.triangles[:0]
}

// HasTriangles reports whether the set holds any triangle.
func (l *Linear) HasTriangles() bool {
	return len(l.triangles) > 0
}

// Len returns the number of triangles.
func (l *Linear) Len() int {
	return len(l.triangles)
}

// FindClosestPoint returns the closest point on any triangle to pt, or pt itself if the set is
// empty. Check HasTriangles to tell the two apart.
func (l *Linear) FindClosestPoint(pt r3.Vector) r3.Vector {
	return closestOf(l.triangles, pt)
}

// Raycast returns the distance to the nearest triangle the ray crosses within maxDist.
func (l *Linear) Raycast(ray spatialmath.Ray, maxDist float64) (float64, bool) {
	best, hit := maxDist, false
	for _, tri := range l.triangles {
		if d, ok := tri.IntersectRay(ray); ok && d <= best {
			best, hit = d, true
		}
	}
	return best, hit
}

// Bounds returns the box around every triangle, and false when empty.
func (l *Linear) Bounds() (spatialmath.AABB, bool) {
	if len(l.triangles) == 0 {
		return spatialmath.AABB{}, false
	}
	return trianglesBound(l.triangles), true
}
