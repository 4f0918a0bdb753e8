package ecs

import (
	"time"

	"github.com/argus-labs/reactive-font/pkg/telemetry/statsd"
	"github.com/rotisserie/eris"
)

// systemMetadata contains the metadata for a system.
type systemMetadata struct {
	name string       // The name of the system
	fn   func() error // Function that wraps a System
}

// systemScheduler runs the systems of a hook one after another in registration order. Systems and
// component hooks mutate the world state directly, so running them concurrently isn't safe.
type systemScheduler struct {
	systems []systemMetadata
}

// newSystemScheduler creates a new system scheduler.
func newSystemScheduler() systemScheduler {
	return systemScheduler{systems: make([]systemMetadata, 0)}
}

// register registers a system with the scheduler.
func (s *systemScheduler) register(name string, systemFn func() error) {
	s.systems = append(s.systems, systemMetadata{name: name, fn: systemFn})
}

// run executes the systems in order and stops at the first error.
func (s *systemScheduler) run() error {
	for _, system := range s.systems {
		if err := runSystem(system); err != nil {
			return err
		}
	}
	return nil
}

// runSystem executes a single system and records its duration.
func runSystem(system systemMetadata) error {
	defer statsd.EmitTickStat(time.Now(), system.name)
	if err := system.fn(); err != nil {
		return eris.Wrapf(err, "system %s failed", system.name)
	}
	return nil
}
