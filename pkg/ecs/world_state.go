package ecs

import (
	"github.com/kelindar/bitmap"
	"github.com/rotisserie/eris"
)

// WorldState holds the state of the world.
type WorldState struct {
	world      *World                // Reference to the world
	components componentManager      // Registered component types
	entities   entityManager         // Manages entity IDs and archetype mappings
	archetypes []*archetype          // Contain all archetypes that exist where the index is the archetype ID
	despawning map[EntityID]struct{} // Entities whose removal hooks are running
}

// newWorldState creates a new world state.
func newWorldState(world *World) *WorldState {
	ws := &WorldState{
		world:      world,
		components: newComponentManager(),
		entities:   newEntityManager(),
		archetypes: make([]*archetype, 0),
		despawning: make(map[EntityID]struct{}),
	}
	// Archetype 0 is always the empty archetype, which holds entities without components.
	ws.findOrCreateArchetype(bitmap.Bitmap{})
	return ws
}

// World returns the world that owns this state.
func (ws *WorldState) World() *World {
	return ws.world
}

// findOrCreateArchetype finds an existing archetype that matches the component types or creates a
// new archetype if none match.
func (ws *WorldState) findOrCreateArchetype(components bitmap.Bitmap) *archetype {
	// First try to find existing archetype, if found return it.
	if arch := ws.archExact(components); arch != nil {
		return arch
	}

	// Create new archetype if none found.
	archID := len(ws.archetypes) // archID = index in archetypes array
	arch := ws.components.createArchetype(archID, components)
	ws.archetypes = append(ws.archetypes, arch)

	return arch
}

// archContains returns all archetypes that have the given component types.
func (ws *WorldState) archContains(components bitmap.Bitmap) []*archetype {
	var archs []*archetype
	for _, arch := range ws.archetypes {
		if arch.contains(components) {
			archs = append(archs, arch)
		}
	}
	return archs
}

// archExact returns the archetype that exactly matches the given component types.
func (ws *WorldState) archExact(components bitmap.Bitmap) *archetype {
	for _, arch := range ws.archetypes {
		if arch.exact(components) {
			return arch
		}
	}
	return nil
}

// componentBitmap builds the bitmap of the given component names.
func (ws *WorldState) componentBitmap(names []string) (bitmap.Bitmap, error) {
	components := bitmap.Bitmap{}
	for _, name := range names {
		cid, err := ws.components.getID(name)
		if err != nil {
			return components, eris.Wrap(err, "component is not registered")
		}
		components.Set(cid)
	}
	return components, nil
}

// entitiesWith returns a copy of the IDs of every entity that has all of the given components.
func (ws *WorldState) entitiesWith(components bitmap.Bitmap) []EntityID {
	var entities []EntityID
	for _, arch := range ws.archContains(components) {
		entities = append(entities, arch.entities...)
	}
	return entities
}

// isDespawning reports whether the entity's removal hooks are running.
func (ws *WorldState) isDespawning(eid EntityID) bool {
	_, ok := ws.despawning[eid]
	return ok
}
