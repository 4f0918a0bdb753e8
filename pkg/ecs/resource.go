package ecs

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// SetResource stores a world-wide singleton keyed by its type. Setting a resource of a type that
// already exists replaces it.
func SetResource[T any](w *World, resource *T) {
	w.resources[reflect.TypeFor[T]()] = resource
}

// GetResource returns the resource of type T.
// Returns ErrResourceNotFound if no resource of that type was set.
func GetResource[T any](ws *WorldState) (*T, error) {
	return getResource[T](ws.world)
}

func getResource[T any](w *World) (*T, error) {
	typ := reflect.TypeFor[T]()
	resource, ok := w.resources[typ]
	if !ok {
		return nil, eris.Wrapf(ErrResourceNotFound, "resource %s", typ)
	}
	return resource.(*T), nil //nolint:errcheck // Keyed by type
}
