package shape

import (
	"github.com/golang/geo/r3"

	"go.viam.com/volumetric/spatialmath"
)

// Path is a polyline through Points in the local frame. It has a surface but no volume, so it
// only ever produces an outer point.
type Path struct {
	Points []r3.Vector
}

// NewPath returns a path through points.
func NewPath(points ...r3.Vector) *Path {
	return &Path{Points: points}
}

// Kind returns KindPath.
func (p *Path) Kind() Kind { return KindPath }

func (p *Path) frame(t Transform) *spatialmath.Transform {
	return t.Matrix()
}

// Valid reports whether the path has at least one segment.
func (p *Path) Valid() bool {
	return len(p.Points) > 1
}

func (p *Path) closest(pt r3.Vector) r3.Vector {
	closest, _ := spatialmath.ClosestPointPolyline(p.Points, pt)
	return closest
}
