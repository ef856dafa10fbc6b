package shape

import (
	"go.uber.org/multierr"

	"go.viam.com/volumetric/logging"
)

// Scene is an ordered set of instances evaluated together.
type Scene struct {
	instances []*Instance
	byName    map[string]*Instance
	logger    logging.Logger
}

// NewScene returns a scene holding instances.
func NewScene(logger logging.Logger, instances ...*Instance) *Scene {
	if logger == nil {
		logger = logging.Global()
	}
	s := &Scene{byName: make(map[string]*Instance), logger: logger}
	for _, in := range instances {
		s.Add(in)
	}
	return s
}

// Add appends an instance. An instance with the name of an existing one replaces it in lookups.
func (s *Scene) Add(in *Instance) {
	if in.logger == nil {
		in.logger = s.logger.Sublogger(in.Name)
	}
	s.instances = append(s.instances, in)
	s.byName[in.Name] = in
}

// Instances returns the instances in evaluation order.
func (s *Scene) Instances() []*Instance {
	return s.instances
}

// Lookup returns the instance with the given name.
func (s *Scene) Lookup(name string) (*Instance, bool) {
	in, ok := s.byName[name]
	return in, ok
}

// Reset clears the previous results of every instance.
func (s *Scene) Reset() {
	for _, in := range s.instances {
		in.Reset()
	}
}

// Evaluate evaluates every instance. A failing instance does not stop the others; all errors are
// returned together.
func (s *Scene) Evaluate(tick Tick) error {
	var errs error
	for _, in := range s.instances {
		if err := in.Evaluate(tick); err != nil {
			s.logger.Debugw("shape evaluation failed", "shape", in.Name, "error", err)
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// Step runs Reset then Evaluate over the whole scene.
func (s *Scene) Step(tick Tick) error {
	s.Reset()
	return s.Evaluate(tick)
}
