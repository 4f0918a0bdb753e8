package ecs

import (
	"math"
	"sync"

	"github.com/argus-labs/reactive-font/pkg/assert"
	"github.com/rotisserie/eris"
)

// EntityID is a unique identifier for an entity. IDs of destroyed entities are recycled.
type EntityID uint32

// MaxEntityID is the maximum entity ID that can be created.
const MaxEntityID = math.MaxUint32 - 1

// entityManager manages entity IDs and references to their associated archetypes. This struct acts
// as an index/mapping from entity ID to its archetype to avoid iterating through all archetypes.
// All methods that accept a pointer to an archetype expects a non-nil pointer.
type entityManager struct {
	nextID     EntityID                // The next ID to allocate if no free IDs are available
	free       []EntityID              // A queue of free IDs
	entityArch map[EntityID]*archetype // Maps entity IDs to archetypes
	mu         sync.Mutex              // Mutex for thread-safe operations
}

// newEntityManager creates a new entity manager.
func newEntityManager() entityManager {
	return entityManager{
		nextID:     0,
		free:       make([]EntityID, 0),
		entityArch: make(map[EntityID]*archetype),
		mu:         sync.Mutex{},
	}
}

// new returns a new entity ID placed in the given archetype.
func (em *entityManager) new(arch *archetype) (EntityID, error) {
	assert.That(arch != nil, "archetype must not be nil")

	em.mu.Lock()
	defer em.mu.Unlock()

	var id EntityID
	if len(em.free) > 0 {
		// Pop from the front of the free list (FIFO) so a just-freed ID is reused as late as possible.
		id = em.free[0]
		em.free = em.free[1:]
	} else {
		id = em.nextID
		if id > MaxEntityID {
			return 0, eris.New("max number of entities exceeded")
		}
		em.nextID++
	}

	arch.newEntity(id)
	em.entityArch[id] = arch

	return id, nil
}

// remove removes the entity from its archetype and marks its ID as available for reuse.
func (em *entityManager) remove(id EntityID) error {
	em.mu.Lock()
	defer em.mu.Unlock()

	arch, exists := em.entityArch[id]
	if !exists {
		return ErrEntityNotFound
	}

	arch.removeEntity(id)
	em.free = append(em.free, id)
	delete(em.entityArch, id)

	return nil
}

// move moves an entity from its current archetype to another one, carrying over the component
// values both archetypes have in common.
func (em *entityManager) move(id EntityID, destination *archetype) error {
	em.mu.Lock()
	defer em.mu.Unlock()

	current, exists := em.entityArch[id]
	if !exists {
		return ErrEntityNotFound
	}
	assert.That(current != destination, "entity moved into its existing archetype")

	current.moveEntity(destination, id)
	em.entityArch[id] = destination

	return nil
}

// isAlive checks if an entity ID is currently active.
func (em *entityManager) isAlive(id EntityID) bool {
	em.mu.Lock()
	defer em.mu.Unlock()

	_, exists := em.entityArch[id]
	return exists
}

// count returns the number of live entities.
func (em *entityManager) count() int {
	em.mu.Lock()
	defer em.mu.Unlock()

	return len(em.entityArch)
}

// getArchetype returns the archetype associated with the given entity.
// Returns ErrEntityNotFound if the entity does not exist.
func (em *entityManager) getArchetype(id EntityID) (*archetype, error) {
	em.mu.Lock()
	defer em.mu.Unlock()

	arch, exists := em.entityArch[id]
	if !exists {
		return nil, eris.Wrapf(ErrEntityNotFound, "entity %d", id)
	}
	return arch, nil
}
