package ecs

import (
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// worldSnapshot is the JSON form of the world state. Archetypes are identified by the names of
// their components so a snapshot can be restored into a world that registered its components in
// a different order.
type worldSnapshot struct {
	Tick       uint64              `json:"tick"`
	NextID     EntityID            `json:"next_id"`
	FreeIDs    []EntityID          `json:"free_ids"`
	Archetypes []archetypeSnapshot `json:"archetypes"`
}

type archetypeSnapshot struct {
	Entities []EntityID       `json:"entities"`
	Columns  []columnSnapshot `json:"columns"`
}

type columnSnapshot struct {
	Component string            `json:"component"`
	Values    []json.RawMessage `json:"values"`
}

// Serialize converts the world state to JSON. Systems, hooks and resources aren't included as they
// are recreated on startup.
func (w *World) Serialize() ([]byte, error) {
	ws := w.state
	snapshot := worldSnapshot{
		Tick:       w.tick,
		Archetypes: make([]archetypeSnapshot, 0, len(ws.archetypes)),
	}

	for _, arch := range ws.archetypes {
		if len(arch.entities) == 0 {
			continue
		}
		archSnapshot := archetypeSnapshot{
			Entities: append([]EntityID(nil), arch.entities...),
			Columns:  make([]columnSnapshot, 0, len(arch.columns)),
		}
		for _, col := range arch.columns {
			colSnapshot, err := col.serialize()
			if err != nil {
				return nil, eris.Wrapf(err, "failed to serialize archetype %d", arch.id)
			}
			archSnapshot.Columns = append(archSnapshot.Columns, colSnapshot)
		}
		snapshot.Archetypes = append(snapshot.Archetypes, archSnapshot)
	}

	ws.entities.mu.Lock()
	snapshot.NextID = ws.entities.nextID
	snapshot.FreeIDs = append([]EntityID{}, ws.entities.free...)
	ws.entities.mu.Unlock()

	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, eris.Wrap(err, "failed to marshal world snapshot")
	}
	return data, nil
}

// Deserialize replaces the world state with a snapshot produced by Serialize. Every component in
// the snapshot must be registered. Hooks don't fire for restored components and init systems are
// considered done.
func (w *World) Deserialize(data []byte) error {
	var snapshot worldSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return eris.Wrap(err, "failed to unmarshal world snapshot")
	}

	// Build into a fresh state so a failed restore leaves the current state untouched.
	ws := newWorldState(w)
	ws.components = w.state.components

	for i, archSnapshot := range snapshot.Archetypes {
		names := make([]string, len(archSnapshot.Columns))
		for j, col := range archSnapshot.Columns {
			names[j] = col.Component
		}
		components, err := ws.componentBitmap(names)
		if err != nil {
			return eris.Wrapf(err, "failed to restore archetype %d", i)
		}
		if components.Count() != len(names) {
			return eris.Errorf("archetype %d has duplicate components", i)
		}

		arch := ws.findOrCreateArchetype(components)
		if len(arch.entities) != 0 {
			return eris.Errorf("archetype %d appears twice in snapshot", i)
		}
		for _, eid := range archSnapshot.Entities {
			if _, exists := ws.entities.entityArch[eid]; exists {
				return eris.Errorf("entity %d appears twice in snapshot", eid)
			}
			arch.newEntity(eid)
			ws.entities.entityArch[eid] = arch
		}

		for _, colSnapshot := range archSnapshot.Columns {
			col := columnOf(arch, colSnapshot.Component)
			if len(colSnapshot.Values) != len(archSnapshot.Entities) {
				return eris.Errorf("column %s length doesn't match entities", colSnapshot.Component)
			}
			if err := col.deserialize(colSnapshot); err != nil {
				return eris.Wrapf(err, "failed to restore archetype %d", i)
			}
		}
	}

	ws.entities.nextID = snapshot.NextID
	ws.entities.free = append([]EntityID{}, snapshot.FreeIDs...)

	w.state = ws
	w.tick = snapshot.Tick
	// Mark init as done to prevent re-running init systems after restore.
	w.initDone = true
	return nil
}
