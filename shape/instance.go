// Package shape places geometry in the world and answers, once per tick, where each shape's
// nearest surface and volume points are relative to a listener.
package shape

import (
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/volumetric/logging"
)

// Tick is the input of one evaluation. When HasListener is false no results are computed.
type Tick struct {
	Listener    r3.Vector
	HasListener bool
	Elapsed     time.Duration
}

// ListenerAt returns a tick with a listener at pt.
func ListenerAt(pt r3.Vector, elapsed time.Duration) Tick {
	return Tick{Listener: pt, HasListener: true, Elapsed: elapsed}
}

// Instance is a Geometry placed in the world. It is owned by a single caller, which must call
// Reset and then Evaluate on every tick.
type Instance struct {
	Name      string
	Geometry  Geometry
	Transform Transform
	// Hollow shapes only report their surface, never their volume.
	Hollow bool
	Result Result

	logger logging.Logger
}

// NewInstance returns an instance of g at the identity transform.
func NewInstance(name string, g Geometry, logger logging.Logger) *Instance {
	return &Instance{Name: name, Geometry: g, logger: logger}
}

func (in *Instance) log() logging.Logger {
	if in.logger == nil {
		return logging.Global()
	}
	return in.logger
}

// Reset clears the results of the previous tick.
func (in *Instance) Reset() {
	in.Result.OuterPointSet = false
	in.Result.InnerPointSet = false
}

// Evaluate advances any periodic mesh rebuild and then, if the tick has a listener, publishes
// this tick's results. A mesh with no triangles publishes nothing. An error means the geometry
// could not be read; the instance publishes nothing for the tick but stays usable.
func (in *Instance) Evaluate(tick Tick) error {
	mesh, isMesh := in.Geometry.(*Mesh)
	if isMesh {
		if err := mesh.advance(tick.Elapsed); err != nil {
			return errors.Wrapf(err, "updating mesh %q", in.Name)
		}
	}
	if !tick.HasListener || in.Geometry == nil {
		return nil
	}

	switch g := in.Geometry.(type) {
	case *Mesh:
		ready, err := g.ready()
		if err != nil {
			return errors.Wrapf(err, "reading mesh %q", in.Name)
		}
		if !ready {
			in.log().Debugw("mesh has no triangles", "shape", in.Name)
			return nil
		}
	case *Path:
		if !g.Valid() {
			in.log().Debugw("path needs at least two points", "shape", in.Name)
			return nil
		}
	}

	frame := in.Geometry.frame(in.Transform)
	listener := tick.Listener
	local := frame.InverseTransformPoint(listener)

	switch {
	case in.Hollow || !Volumetric(in.Geometry):
		in.Result.setOuter(frame.TransformPoint(Snap(in.Geometry, local)), listener)
	case Classify(in.Geometry, local):
		in.Result.setInner(listener, listener, true)
		in.Result.setOuter(frame.TransformPoint(Snap(in.Geometry, local)), listener)
	default:
		in.Result.setInnerOuter(frame.TransformPoint(Clip(in.Geometry, local)), listener, false)
	}
	return nil
}

// Step runs Reset and Evaluate for a single instance.
func (in *Instance) Step(tick Tick) error {
	in.Reset()
	return in.Evaluate(tick)
}

// FinalPoint returns the point a consumer should use for this tick. Paths always report their
// outer point.
func (in *Instance) FinalPoint() (r3.Vector, float64, bool) {
	return in.Result.Final(in.Hollow || !Volumetric(in.Geometry))
}

// PointInShape reports whether a world point is inside the geometry, regardless of Hollow.
func (in *Instance) PointInShape(world r3.Vector) bool {
	if in.Geometry == nil {
		return false
	}
	frame := in.Geometry.frame(in.Transform)
	return Classify(in.Geometry, frame.InverseTransformPoint(world))
}
