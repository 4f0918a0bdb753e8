package ecs

import (
	"reflect"

	"github.com/argus-labs/reactive-font/pkg/assert"
	"github.com/kelindar/bitmap"
	"github.com/rotisserie/eris"
)

// Component is the interface that all components must implement.
// Components are pure data containers that can be attached to entities. They must be
// JSON-serializable so the world state can be snapshotted.
type Component interface { //nolint:iface // We may add more methods in the future.
	// Name returns a unique string identifier for the component type.
	// This should be consistent across program executions.
	Name() string
}

// componentID is a unique identifier for a component type.
// It is used internally to track and manage component types efficiently.
type componentID = uint32

// componentManager manages component type registration and lookup.
type componentManager struct {
	nextID    componentID            // The next available component ID
	catalog   map[string]componentID // Component name -> component ID
	factories []columnFactory        // Component ID -> column factory
	types     []reflect.Type         // Component ID -> concrete Go type
}

// newComponentManager creates a new component manager.
func newComponentManager() componentManager {
	return componentManager{
		nextID:    0,
		catalog:   make(map[string]componentID),
		factories: make([]columnFactory, 0),
		types:     make([]reflect.Type, 0),
	}
}

// register registers a new component type and returns its ID.
// If the component is already registered with the same Go type, no-op.
func (cm *componentManager) register(name string, typ reflect.Type, factory columnFactory) (componentID, error) {
	if name == "" {
		return 0, eris.New("component name cannot be empty")
	}

	// If component already exists, no-op.
	if cid, exists := cm.catalog[name]; exists {
		if cm.types[cid] != typ {
			return 0, eris.Errorf("component name %s is already used by type %s", name, cm.types[cid])
		}
		return cid, nil
	}

	cm.catalog[name] = cm.nextID
	cm.factories = append(cm.factories, factory)
	cm.types = append(cm.types, typ)
	cm.nextID++
	assert.That(int(cm.nextID) == len(cm.factories), "component id doesn't match number of components")

	return cm.nextID - 1, nil
}

// getID returns a component's ID given a name.
func (cm *componentManager) getID(name string) (componentID, error) {
	id, exists := cm.catalog[name]
	if !exists {
		return 0, eris.Wrapf(ErrComponentNotFound, "component %s", name)
	}
	return id, nil
}

// idOf returns the ID of a component value, checking that the value has the registered Go type.
func (cm *componentManager) idOf(component Component) (componentID, error) {
	cid, err := cm.getID(component.Name())
	if err != nil {
		return 0, err
	}
	if typ := reflect.TypeOf(component); cm.types[cid] != typ {
		return 0, eris.Errorf("component %s is registered as %s, got %s", component.Name(), cm.types[cid], typ)
	}
	return cid, nil
}

// createArchetype creates an archetype with one column per component in the bitmap. Columns are
// ordered by component ID.
func (cm *componentManager) createArchetype(aid archetypeID, components bitmap.Bitmap) *archetype {
	columns := make([]abstractColumn, 0, components.Count())
	components.Range(func(cid uint32) {
		assert.That(int(cid) < len(cm.factories), "archetype references unregistered component")
		columns = append(columns, cm.factories[cid]())
	})
	return newArchetype(aid, components, columns)
}

// names returns the registered component names ordered by component ID.
func (cm *componentManager) names() []string {
	names := make([]string, len(cm.factories))
	for name, cid := range cm.catalog {
		names[cid] = name
	}
	return names
}

// registerComponent registers the component type T in the world state.
func registerComponent[T Component](ws *WorldState) (componentID, error) {
	var zero T
	return ws.components.register(zero.Name(), reflect.TypeOf(zero), newColumnFactory[T]())
}

// RegisterComponent registers a component type with the world. Registration is idempotent. Set and
// the system state fields register components automatically, but components created through
// Create or restored from a snapshot must be registered up front.
func RegisterComponent[T Component](w *World) error {
	_, err := registerComponent[T](w.state)
	return err
}
