package shape

import (
	"github.com/golang/geo/r3"

	"go.viam.com/volumetric/spatialmath"
)

// Geometry is the closed set of shapes an Instance can carry: *Box, *Sphere, *Capsule, *Mesh and
// *Path. Every query happens in the geometry's own local frame, which frame derives from the
// owning instance's Transform.
type Geometry interface {
	// frame returns the local to world transform of the geometry under t and refreshes any state
	// that depends on it.
	frame(t Transform) *spatialmath.Transform
	Kind() Kind
}

// Kind names a Geometry variant.
type Kind string

// The geometry kinds.
const (
	KindBox     Kind = "box"
	KindSphere  Kind = "sphere"
	KindCapsule Kind = "capsule"
	KindMesh    Kind = "mesh"
	KindPath    Kind = "path"
)

// Volumetric reports whether the geometry encloses a volume. Paths only have a surface.
func Volumetric(g Geometry) bool {
	_, isPath := g.(*Path)
	return !isPath
}

// Classify reports whether local, a point in the geometry's local frame, is inside the geometry.
// Paths contain nothing.
func Classify(g Geometry, local r3.Vector) bool {
	switch g := g.(type) {
	case *Box:
		return g.contains(local)
	case *Sphere:
		return g.contains(local)
	case *Capsule:
		return g.contains(local)
	case *Mesh:
		return g.contains(local)
	case *Path:
		return false
	default:
		return false
	}
}

// Snap returns the point on the surface of the geometry nearest to local, in the local frame.
func Snap(g Geometry, local r3.Vector) r3.Vector {
	switch g := g.(type) {
	case *Box:
		return g.snap(local)
	case *Sphere:
		return g.snap(local)
	case *Capsule:
		return g.snap(local)
	case *Mesh:
		return g.closest(local)
	case *Path:
		return g.closest(local)
	default:
		return local
	}
}

// Clip returns the nearest point of a solid geometry to an outside point. Boxes clamp the point
// onto their volume; every other geometry snaps it to the surface.
func Clip(g Geometry, local r3.Vector) r3.Vector {
	if b, ok := g.(*Box); ok {
		return b.clip(local)
	}
	return Snap(g, local)
}
