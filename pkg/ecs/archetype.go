package ecs

import (
	"github.com/argus-labs/reactive-font/pkg/assert"
	"github.com/kelindar/bitmap"
)

// archetypeID is the unique identifier for an archetype. It corresponds to the index in the
// world state's archetypes slice.
type archetypeID = int

// archetype represents a collection of entities with the same component types.
// NOTE: We store the compCount instead of using Bitmap.Count() because counting bits is O(n).
type archetype struct {
	id         archetypeID      // Corresponds to the index in the archetypes array
	components bitmap.Bitmap    // Bitmap of components contained in this archetype
	rows       sparseSet        // Entity ID -> row
	entities   []EntityID       // List of entities of this archetype
	columns    []abstractColumn // List of columns containing component data
	compCount  int              // Number of component types in the archetype
}

// newArchetype creates an archetype for the given component types.
func newArchetype(aid archetypeID, components bitmap.Bitmap, columns []abstractColumn) *archetype {
	assert.That(components.Count() == len(columns), "mismatched number of columns and components")
	return &archetype{
		id:         aid,
		components: components,
		rows:       newSparseSet(),
		entities:   make([]EntityID, 0),
		columns:    columns,
		compCount:  len(columns),
	}
}

// exact returns true if the given components matches the archetype's exactly.
func (a *archetype) exact(components bitmap.Bitmap) bool {
	if a.compCount != components.Count() {
		return false
	}
	return a.contains(components)
}

// contains returns true if the archetype contains all of the components in the given components.
func (a *archetype) contains(components bitmap.Bitmap) bool {
	intersect := components.Clone(nil)
	intersect.And(a.components)
	return intersect.Count() == components.Count()
}

// hasEntity reports whether the entity lives in this archetype.
func (a *archetype) hasEntity(eid EntityID) bool {
	_, ok := a.rows.get(eid)
	return ok
}

// snapshotEntities returns a copy of the entity list. Iterators use it so that entities moving
// between archetypes during iteration don't shift the slice being walked.
func (a *archetype) snapshotEntities() []EntityID {
	return append([]EntityID(nil), a.entities...)
}

// newEntity adds the entity to the archetype and extends every column with a zero value so the
// columns stay the same length as the entities slice.
func (a *archetype) newEntity(eid EntityID) {
	a.entities = append(a.entities, eid)

	for _, column := range a.columns {
		column.extend()
		assert.That(column.len() == len(a.entities), "column components length doesn't match entities")
	}

	a.rows.set(eid, len(a.entities)-1)
}

// removeEntity removes an entity from the archetype by swapping it with the last entity.
// Expects the caller to check that the entity belongs to this archetype.
func (a *archetype) removeEntity(eid EntityID) {
	row, exists := a.rows.get(eid)
	assert.That(exists, "entity is not in archetype")

	lastIndex := len(a.entities) - 1
	a.entities[row] = a.entities[lastIndex]
	a.entities = a.entities[:lastIndex]

	for _, column := range a.columns {
		column.remove(row)
		assert.That(column.len() == len(a.entities), "column components length doesn't match entities")
	}

	ok := a.rows.remove(eid)
	assert.That(ok, "entity isn't removed from sparse set")

	// If the entity was the last item in the slice, nothing was swapped.
	if row == lastIndex {
		return
	}

	// Else, update the swapped entity to point to its new row.
	a.rows.set(a.entities[row], row)
}

// moveEntity creates the entity in the destination archetype, copies the component values the two
// archetypes share, and removes the entity from this archetype.
func (a *archetype) moveEntity(destination *archetype, eid EntityID) {
	row, exists := a.rows.get(eid)
	assert.That(exists, "entity is not in archetype")

	destination.newEntity(eid)
	newRow, exists := destination.rows.get(eid)
	assert.That(exists, "new entity isn't created in the destination archetype")

	for _, dst := range destination.columns {
		for _, src := range a.columns {
			if dst.name() == src.name() {
				dst.setAbstract(newRow, src.getAbstract(row))
			}
		}
	}

	a.removeEntity(eid)
}

// componentsOf returns the entity's component values in column order.
func (a *archetype) componentsOf(eid EntityID) []Component {
	row, exists := a.rows.get(eid)
	assert.That(exists, "entity is not in archetype")

	comps := make([]Component, len(a.columns))
	for i, col := range a.columns {
		comps[i] = col.getAbstract(row)
	}
	return comps
}
