package ecs

import (
	"context"
	"reflect"
	"sort"
	"time"

	"github.com/argus-labs/reactive-font/pkg/telemetry/statsd"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// World represents the root ECS state.
type World struct {
	state     *WorldState          // Entities and their components
	hooks     hookManager          // Component lifecycle hooks
	resources map[reflect.Type]any // Singletons keyed by type
	plugins   []Plugin             // Registered plugins in registration order
	logger    zerolog.Logger

	// Systems.
	tick        uint64             // Height of the current or last executed tick
	initDone    bool               // Tracks if init systems have been executed
	initSystems []systemMetadata   // Initialization systems, run once during the first tick
	scheduler   [3]systemScheduler // Systems schedulers (PreUpdate, Update, PostUpdate)
}

// WorldOption configures a World.
type WorldOption func(*World)

// WithLogger sets the logger used by the world, its systems and its hooks.
func WithLogger(logger zerolog.Logger) WorldOption {
	return func(w *World) { w.logger = logger }
}

// NewWorld creates a new World instance.
func NewWorld(opts ...WorldOption) *World {
	world := &World{
		hooks:       newHookManager(),
		resources:   make(map[reflect.Type]any),
		plugins:     make([]Plugin, 0),
		logger:      zerolog.Nop(),
		initDone:    false,
		initSystems: make([]systemMetadata, 0),
		scheduler:   [3]systemScheduler{},
	}
	world.state = newWorldState(world)

	for i := range world.scheduler {
		world.scheduler[i] = newSystemScheduler()
	}
	for _, opt := range opts {
		opt(world)
	}

	return world
}

// Tick executes the registered systems in order: init systems on the first tick, then PreUpdate,
// Update and PostUpdate. If any system returns an error, the tick stops and the error is returned.
// Changes made before the failing system are kept.
func (w *World) Tick(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "tick cancelled")
	}

	start := time.Now()
	w.tick++

	// Run init systems once on first tick.
	if !w.initDone {
		for _, system := range w.initSystems {
			if err := runSystem(system); err != nil {
				return eris.Wrap(err, "init system failed")
			}
		}
		w.initDone = true
	}

	for i := range w.scheduler {
		if err := ctx.Err(); err != nil {
			return eris.Wrap(err, "tick cancelled")
		}
		if err := w.scheduler[i].run(); err != nil {
			return eris.Wrapf(err, "%s failed at tick %d", SystemHook(i), w.tick)
		}
	}

	statsd.EmitTickStat(start, "full_tick")
	return nil
}

// CustomTick allows for a custom update function to be run instead of the registered systems.
// This function is for testing and internal use only!
func (w *World) CustomTick(fn func(*WorldState)) {
	fn(w.state)
}

// State returns the world state. Prefer systems for mutations during the tick loop.
func (w *World) State() *WorldState {
	return w.state
}

// TickHeight returns the number of ticks executed so far.
func (w *World) TickHeight() uint64 {
	return w.tick
}

// Logger returns the world logger.
func (w *World) Logger() *zerolog.Logger {
	return &w.logger
}

// -------------------------------------------------------------------------------------------------
// Introspection methods
// -------------------------------------------------------------------------------------------------

// ComponentNames returns the registered component names ordered by registration.
func (w *World) ComponentNames() []string {
	return w.state.components.names()
}

// ComponentTypes returns a map of component names to their reflect.Type.
func (w *World) ComponentTypes() map[string]reflect.Type {
	types := make(map[string]reflect.Type, len(w.state.components.types))
	for name, cid := range w.state.components.catalog {
		types[name] = w.state.components.types[cid]
	}
	return types
}

// SystemNames returns the names of the registered systems, init systems first, then by hook in
// execution order.
func (w *World) SystemNames() []string {
	names := make([]string, 0, len(w.initSystems))
	for _, system := range w.initSystems {
		names = append(names, system.name)
	}
	for i := range w.scheduler {
		for _, system := range w.scheduler[i].systems {
			names = append(names, system.name)
		}
	}
	return names
}

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int {
	return w.state.EntityCount()
}

// EntityCount returns the number of live entities.
func (ws *WorldState) EntityCount() int {
	return ws.entities.count()
}

// Entities returns the IDs of all live entities in ascending order.
func (ws *WorldState) Entities() []EntityID {
	ws.entities.mu.Lock()
	entities := make([]EntityID, 0, len(ws.entities.entityArch))
	for eid := range ws.entities.entityArch {
		entities = append(entities, eid)
	}
	ws.entities.mu.Unlock()

	sort.Slice(entities, func(i, j int) bool { return entities[i] < entities[j] })
	return entities
}

// ArchetypeOf returns the archetype ID of an entity.
func (ws *WorldState) ArchetypeOf(eid EntityID) (int, error) {
	arch, err := ws.entities.getArchetype(eid)
	if err != nil {
		return 0, err
	}
	return arch.id, nil
}
