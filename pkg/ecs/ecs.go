package ecs

import "github.com/rotisserie/eris"

// Create creates an entity with the given components. The components must already be registered.
// OnInsert hooks fire for every component in the order given.
func Create(ws *WorldState, components ...Component) (EntityID, error) {
	for _, component := range components {
		if _, err := ws.components.idOf(component); err != nil {
			return 0, eris.Wrap(err, "failed to create entity")
		}
	}

	eid, err := ws.entities.new(ws.archetypes[0])
	if err != nil {
		return 0, err
	}

	for _, component := range components {
		if err := setComponent(ws, eid, component); err != nil {
			return eid, eris.Wrapf(err, "failed to set component %s", component.Name())
		}
	}
	return eid, nil
}

// Destroy deletes an entity and all its components from the world. The OnRemove hooks of every
// component run first, while the entity and its components are still valid. Component writes to
// the entity fail with ErrEntityDespawning until Destroy returns. Destroying an entity that is
// already being destroyed is a no-op.
func Destroy(ws *WorldState, eid EntityID) error {
	arch, err := ws.entities.getArchetype(eid)
	if err != nil {
		return err
	}
	if ws.isDespawning(eid) {
		return nil
	}

	ws.despawning[eid] = struct{}{}
	defer delete(ws.despawning, eid)

	// Collect the values up front. Writes are blocked, so the entity keeps its components while
	// the hooks run, but its row can still shift when hooks touch other entities.
	type removal struct {
		cid       componentID
		component Component
	}
	values := arch.componentsOf(eid)
	removals := make([]removal, 0, len(values))
	i := 0
	arch.components.Range(func(cid uint32) {
		removals = append(removals, removal{cid: cid, component: values[i]})
		i++
	})

	for _, r := range removals {
		ws.fireHooks(r.cid, OnRemove, eid, r.component)
	}

	return ws.entities.remove(eid)
}

// Alive checks if an entity exists in the world. Entities being destroyed are still alive.
func Alive(ws *WorldState, eid EntityID) bool {
	return ws.entities.isAlive(eid)
}

// Despawning reports whether the entity is being destroyed.
func Despawning(ws *WorldState, eid EntityID) bool {
	return ws.isDespawning(eid)
}

// Set sets a component on an entity. If the entity contains the component type, it will update the
// value and fire OnReplace. If it doesn't, it will add the component and fire OnInsert.
func Set[T Component](ws *WorldState, eid EntityID, component T) error {
	if _, err := registerComponent[T](ws); err != nil {
		return err
	}
	return setComponent(ws, eid, component)
}

// Get gets a component from an entity.
// Returns an error if the entity doesn't exist or doesn't contain the component type.
func Get[T Component](ws *WorldState, eid EntityID) (T, error) {
	var zero T

	arch, err := ws.entities.getArchetype(eid)
	if err != nil {
		return zero, err
	}
	cid, err := ws.components.getID(zero.Name())
	if err != nil {
		return zero, err
	}
	if !arch.components.Contains(cid) {
		return zero, eris.Wrapf(ErrComponentNotFound, "entity %d has no %s", eid, zero.Name())
	}

	col, err := getColumn[T](arch)
	if err != nil {
		return zero, err
	}
	row, _ := arch.rows.get(eid)
	return col.get(row), nil
}

// Has checks if an entity has a specific component type.
// Returns false if either the entity doesn't exist or doesn't have the component.
func Has[T Component](ws *WorldState, eid EntityID) bool {
	_, err := Get[T](ws, eid)
	return err == nil
}

// Remove removes a component from an entity. OnRemove hooks fire before the component is removed.
// Returns an error if the entity or the component to remove doesn't exist.
func Remove[T Component](ws *WorldState, eid EntityID) error {
	if ws.isDespawning(eid) {
		return eris.Wrapf(ErrEntityDespawning, "entity %d", eid)
	}

	component, err := Get[T](ws, eid)
	if err != nil {
		return err
	}
	cid, err := ws.components.getID(component.Name())
	if err != nil {
		return err
	}

	ws.fireHooks(cid, OnRemove, eid, component)

	// A hook may have destroyed the entity or removed the component already.
	arch, err := ws.entities.getArchetype(eid)
	if err != nil || !arch.components.Contains(cid) {
		return nil //nolint:nilerr // The component is gone either way.
	}

	components := arch.components.Clone(nil)
	components.Remove(cid)
	return ws.entities.move(eid, ws.findOrCreateArchetype(components))
}

// setComponent inserts or replaces a registered component and fires the matching hooks.
func setComponent(ws *WorldState, eid EntityID, component Component) error {
	if ws.isDespawning(eid) {
		return eris.Wrapf(ErrEntityDespawning, "entity %d", eid)
	}

	cid, err := ws.components.idOf(component)
	if err != nil {
		return err
	}
	arch, err := ws.entities.getArchetype(eid)
	if err != nil {
		return err
	}

	kind := OnReplace
	if !arch.components.Contains(cid) {
		kind = OnInsert
		components := arch.components.Clone(nil)
		components.Set(cid)
		arch = ws.findOrCreateArchetype(components)
		if err := ws.entities.move(eid, arch); err != nil {
			return err
		}
	}

	row, _ := arch.rows.get(eid)
	columnOf(arch, component.Name()).setAbstract(row, component)

	ws.fireHooks(cid, kind, eid, component)
	return nil
}

// columnOf returns the column storing the named component, or nil.
func columnOf(arch *archetype, name string) abstractColumn {
	for _, col := range arch.columns {
		if col.name() == name {
			return col
		}
	}
	return nil
}

// ComponentsOf returns every component of an entity keyed by component name.
func ComponentsOf(ws *WorldState, eid EntityID) (map[string]Component, error) {
	arch, err := ws.entities.getArchetype(eid)
	if err != nil {
		return nil, err
	}
	comps := arch.componentsOf(eid)
	result := make(map[string]Component, len(comps))
	for _, comp := range comps {
		result[comp.Name()] = comp
	}
	return result, nil
}

// EntitiesWith returns the IDs of every entity that has all of the named components. Entities
// created or moved afterwards aren't reflected in the returned slice.
func EntitiesWith(ws *WorldState, names ...string) ([]EntityID, error) {
	components, err := ws.componentBitmap(names)
	if err != nil {
		return nil, err
	}
	return ws.entitiesWith(components), nil
}
