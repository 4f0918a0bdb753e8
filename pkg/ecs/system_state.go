package ecs

import (
	"iter"
	"reflect"

	"github.com/argus-labs/reactive-font/pkg/assert"
	"github.com/kelindar/bitmap"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// systemStateField defines the interface for system state initialization. All system state fields
// must implement this interface.
type systemStateField interface {
	init(w *World, system string) error
}

var _ systemStateField = &BaseSystemState{}
var _ systemStateField = &WithResource[struct{}]{}
var _ systemStateField = &Contains[struct{}]{}
var _ systemStateField = &Exact[struct{}]{}

// -------------------------------------------------------------------------------------------------
// Base System State Field
// -------------------------------------------------------------------------------------------------

// BaseSystemState is a barebones system state field that can be embedded in your custom system
// state types to allow your systems to access the world state and a system-scoped logger.
//
// Example:
//
//	type DebugSystemState struct {
//	    ecs.BaseSystemState
//	}
//
//	func DebugSystem(state *DebugSystemState) error {
//	    state.Logger().Info().Int("entities", state.WorldState().EntityCount()).Msg("tick")
//	    return nil
//	}
type BaseSystemState struct {
	world  *World
	logger zerolog.Logger
}

// init initializes the base system state.
func (b *BaseSystemState) init(w *World, system string) error {
	b.world = w
	b.logger = w.logger.With().Str("system", system).Logger()
	return nil
}

// WorldState returns the world state the system runs against.
func (b *BaseSystemState) WorldState() *WorldState {
	return b.world.state
}

// Logger returns a logger tagged with the system name.
func (b *BaseSystemState) Logger() *zerolog.Logger {
	return &b.logger
}

// Tick returns the height of the tick being executed.
func (b *BaseSystemState) Tick() uint64 {
	return b.world.tick
}

// -------------------------------------------------------------------------------------------------
// Resource Fields
// -------------------------------------------------------------------------------------------------

// WithResource gives a system access to the world resource of type T. The resource must be set
// before the system is registered.
//
// Example:
//
//	type RefreshSystemState struct {
//	    ecs.BaseSystemState
//	    Registry ecs.WithResource[font.Registry]
//	}
type WithResource[T any] struct {
	resource *T
}

func (r *WithResource[T]) init(w *World, _ string) error {
	resource, err := getResource[T](w)
	if err != nil {
		return eris.Wrap(err, "resource must be set before registering the system")
	}
	r.resource = resource
	return nil
}

// Get returns the resource.
func (r *WithResource[T]) Get() *T {
	return r.resource
}

// -------------------------------------------------------------------------------------------------
// Component Search Fields
// -------------------------------------------------------------------------------------------------

// search provides type-safe component queries for entities in the world state. It uses reflection
// during initialization to figure out which components to include in the query. T must be a struct
// type composed of fields of only the type Ref[Component], e.g.:
//
//	type Label struct {
//	    Text ecs.Ref[font.Text]
//	    Font ecs.Ref[font.TextFont]
//	}
//
// Every component type used in T will be automatically registered when the system is registered.
type search[T any] struct {
	world      *World        // Reference to the world
	components bitmap.Bitmap // Bitmap of component types this search looks for
	result     T             // Reusable instance of the result type
	fields     []ref         // Cached references to result's fields to be initialized in Iter
}

// init initializes the search by analyzing the generic type's struct fields and caching its
// component dependencies.
func (s *search[T]) init(w *World, _ string) error {
	var zero T
	resultType := reflect.TypeOf(zero)
	if resultType.Kind() != reflect.Struct {
		return eris.Errorf("search type must be a struct, got %s", resultType)
	}
	resultValue := reflect.ValueOf(&s.result).Elem()

	s.world = w
	s.fields = make([]ref, resultType.NumField())

	for i := range resultType.NumField() {
		// Store a ref of the field in the search to be initialized during Iter.
		field := resultType.Field(i)
		fieldRef, ok := resultValue.Field(i).Addr().Interface().(ref)
		if !ok {
			return eris.Errorf("field %s must be of type Ref[Component], got %s", field.Name, field.Type)
		}
		s.fields[i] = fieldRef

		// Register the component.
		cid, err := fieldRef.register(w)
		if err != nil {
			return err
		}
		s.components.Set(cid)
	}

	return nil
}

// GetByID returns the result for an entity if it has every component of the search.
func (s *search[T]) GetByID(eid EntityID) (T, bool) {
	ws := s.world.state
	if !s.matches(ws, eid) {
		var zero T
		return zero, false
	}

	s.attach(ws, eid)
	return s.result, true
}

func (s *search[T]) attach(ws *WorldState, eid EntityID) {
	for i := range s.fields {
		s.fields[i].attach(ws, eid) // Attach the entity and world state to the ref
	}
}

func (s *search[T]) matches(ws *WorldState, eid EntityID) bool {
	arch, err := ws.entities.getArchetype(eid)
	return err == nil && arch.contains(s.components)
}

// iter returns an iterator over the entities of the given archetypes. Each archetype's entity list
// is copied before it is walked because hooks fired by the loop body can move entities. Entities
// that were destroyed or lost a searched component since the copy are skipped.
func (s *search[T]) iter(archs []*archetype) iter.Seq2[EntityID, T] {
	ws := s.world.state
	return func(yield func(EntityID, T) bool) {
		for _, arch := range archs {
			for _, eid := range arch.snapshotEntities() {
				if !s.matches(ws, eid) {
					continue
				}
				s.attach(ws, eid)
				if !yield(eid, s.result) {
					return
				}
			}
		}
	}
}

// Contains provides a search that matches archetypes containing all specified component types,
// potentially along with additional components.
//
// Example:
//
//	type StyleSystemState struct {
//	    Labels ecs.Contains[struct {
//	        Marker ecs.Ref[font.ReactiveFont]
//	    }]
//	}
type Contains[T any] struct{ search[T] }

// Iter returns an iterator over entities and their components that match the Contains search.
func (c *Contains[T]) Iter() iter.Seq2[EntityID, T] {
	return c.iter(c.world.state.archContains(c.components))
}

// Exact provides a search that matches archetypes containing exactly the specified component types,
// without any additional components.
type Exact[T any] struct{ search[T] }

// Iter returns an iterator over entities and their components that match the Exact query.
func (c *Exact[T]) Iter() iter.Seq2[EntityID, T] {
	archs := make([]*archetype, 0, 1)
	if arch := c.world.state.archExact(c.components); arch != nil {
		archs = append(archs, arch)
	}
	return c.iter(archs)
}

// -------------------------------------------------------------------------------------------------
// Component Handles
// -------------------------------------------------------------------------------------------------

// ref is an internal interface for component references.
type ref interface {
	attach(*WorldState, EntityID)
	register(*World) (componentID, error)
}

var _ ref = &Ref[Component]{}

// Ref provides a type-safe handle to a component on an entity.
type Ref[T Component] struct {
	ws     *WorldState // Internal reference to the world state
	entity EntityID    // The entity's ID
}

// attach sets the entity and world state to the Ref so that Get and Set works properly.
func (r *Ref[T]) attach(ws *WorldState, eid EntityID) {
	r.ws = ws
	r.entity = eid
}

// register registers the component type of this Ref.
func (r *Ref[T]) register(w *World) (componentID, error) {
	return registerComponent[T](w.state)
}

// Entity returns the entity the Ref is attached to.
func (r *Ref[T]) Entity() EntityID {
	return r.entity
}

// Get retrieves the component value for this Ref's entity.
func (r *Ref[T]) Get() T {
	component, err := Get[T](r.ws, r.entity)
	assert.That(err == nil, "entity doesn't exist or doesn't contain the component") // Shouldn't happen
	return component
}

// Set updates the component value for this Ref's entity. It fails if the entity is being
// destroyed.
func (r *Ref[T]) Set(component T) error {
	return Set(r.ws, r.entity, component)
}

// -------------------------------------------------------------------------------------------------
// Internal
// -------------------------------------------------------------------------------------------------

// initializeSystemState initializes every field of a system state struct.
func initializeSystemState[T any](w *World, state *T, system string) error {
	value := reflect.ValueOf(state).Elem()
	if value.Kind() != reflect.Struct {
		return eris.Errorf("system state must be a struct, got %s", value.Type())
	}

	for i := range value.NumField() {
		field := value.Field(i)
		fieldType := value.Type().Field(i)

		// If the field is not exported, return an error.
		if !fieldType.IsExported() {
			return eris.Errorf("field %s must be exported", fieldType.Name)
		}

		// If the field doesn't implement systemStateField, return an error. This shouldn't happen
		// as long as the user sticks to the provided system state field types.
		stateField, ok := field.Addr().Interface().(systemStateField)
		if !ok {
			return eris.Errorf("field %s must be a system state field", fieldType.Name)
		}

		if err := stateField.init(w, system); err != nil {
			return eris.Wrapf(err, "failed to initialize field %s", fieldType.Name)
		}
	}
	return nil
}
