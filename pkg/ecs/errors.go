package ecs

import "github.com/rotisserie/eris"

var (
	// ErrEntityNotFound is returned when attempting to operate on a non-existent entity
	// or when an entity cannot be found in the expected location.
	ErrEntityNotFound = eris.New("entity does not exist")

	// ErrComponentNotFound is returned when an entity doesn't contain the requested component or
	// when the component type hasn't been registered.
	ErrComponentNotFound = eris.New("component not found")

	// ErrEntityDespawning is returned when a component write targets an entity whose removal
	// hooks are currently running. The entity is still readable until Destroy returns.
	ErrEntityDespawning = eris.New("entity is being despawned")

	// ErrResourceNotFound is returned when a resource of the requested type was never set.
	ErrResourceNotFound = eris.New("resource not found")
)
