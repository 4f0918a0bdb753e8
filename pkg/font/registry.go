package font

import (
	"slices"

	"github.com/argus-labs/reactive-font/pkg/ecs"
	"github.com/rotisserie/eris"
)

// Registry stores presets by key and tracks which entities use each key. It is an explicit context
// object: the Plugin stores it as a world resource and hooks and systems reach it through the
// world. A Registry isn't safe for concurrent use; mutate it during setup or from systems.
type Registry struct {
	presets    map[string]Preset
	order      []string // Keys in registration order
	defaultKey string

	users map[string]map[ecs.EntityID]struct{} // Marker key -> entities. "" holds default users.
	keyOf map[ecs.EntityID]string              // Entity -> marker key

	dirty        map[string]struct{} // Keys whose users must be restyled
	defaultDirty bool                // Default users must be restyled
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		presets: make(map[string]Preset),
		order:   make([]string, 0),
		users:   make(map[string]map[ecs.EntityID]struct{}),
		keyOf:   make(map[ecs.EntityID]string),
		dirty:   make(map[string]struct{}),
	}
}

// Register stores a preset under its key. The first registered preset becomes the default unless a
// default is already set. Returns ErrDuplicateFont if the key exists; use Replace to overwrite.
func (r *Registry) Register(key string, preset Preset) error {
	if preset.Key == "" {
		preset.Key = key
	}
	if preset.Key != key {
		return eris.Wrapf(ErrInvalidPreset, "preset key %s doesn't match %s", preset.Key, key)
	}
	if _, exists := r.presets[key]; exists {
		return eris.Wrapf(ErrDuplicateFont, "font %s", key)
	}

	normalized, err := preset.normalize()
	if err != nil {
		return err
	}

	r.presets[key] = normalized
	r.order = append(r.order, key)
	r.markDirty(key)

	if r.defaultKey == "" {
		r.defaultKey = key
		r.defaultDirty = true
	}
	return nil
}

// Replace swaps the preset stored under an existing key. Entities using the key are restyled by
// the plugin's refresh system on the next tick.
func (r *Registry) Replace(key string, preset Preset) error {
	if _, exists := r.presets[key]; !exists {
		return eris.Wrapf(ErrFontNotFound, "font %s", key)
	}
	if preset.Key == "" {
		preset.Key = key
	}
	if preset.Key != key {
		return eris.Wrapf(ErrInvalidPreset, "preset key %s doesn't match %s", preset.Key, key)
	}

	normalized, err := preset.normalize()
	if err != nil {
		return err
	}

	r.presets[key] = normalized
	r.markDirty(key)
	return nil
}

// Lookup returns the preset registered under key.
func (r *Registry) Lookup(key string) (Preset, error) {
	preset, ok := r.presets[key]
	if !ok {
		return Preset{}, eris.Wrapf(ErrFontNotFound, "font %s", key)
	}
	return preset, nil
}

// SetDefault selects the preset used by markers with an empty key.
func (r *Registry) SetDefault(key string) error {
	if _, exists := r.presets[key]; !exists {
		return eris.Wrapf(ErrFontNotFound, "font %s", key)
	}
	if r.defaultKey != key {
		r.defaultKey = key
		r.defaultDirty = true
	}
	return nil
}

// Default returns the default preset. Returns ErrCannotFindFont if no preset is registered.
func (r *Registry) Default() (Preset, error) {
	if r.defaultKey == "" {
		return Preset{}, ErrCannotFindFont
	}
	return r.Lookup(r.defaultKey)
}

// DefaultKey returns the key of the default preset, or "" if there is none.
func (r *Registry) DefaultKey() string {
	return r.defaultKey
}

// Resolve returns the preset a marker with the given key uses.
func (r *Registry) Resolve(key string) (Preset, error) {
	if key == "" {
		return r.Default()
	}
	return r.Lookup(key)
}

// Keys returns the registered keys in registration order.
func (r *Registry) Keys() []string {
	return slices.Clone(r.order)
}

// Presets returns the registered presets in registration order.
func (r *Registry) Presets() []Preset {
	presets := make([]Preset, len(r.order))
	for i, key := range r.order {
		presets[i] = r.presets[key]
	}
	return presets
}

// Len returns the number of registered presets.
func (r *Registry) Len() int {
	return len(r.presets)
}

// -------------------------------------------------------------------------------------------------
// Back-references
// -------------------------------------------------------------------------------------------------

// UsedBy returns the entities whose marker names key, sorted by ID. An empty key returns the
// entities using the default preset.
func (r *Registry) UsedBy(key string) []ecs.EntityID {
	users := make([]ecs.EntityID, 0, len(r.users[key]))
	for eid := range r.users[key] {
		users = append(users, eid)
	}
	slices.Sort(users)
	return users
}

// KeyOf returns the marker key the registry has recorded for an entity.
func (r *Registry) KeyOf(eid ecs.EntityID) (string, bool) {
	key, ok := r.keyOf[eid]
	return key, ok
}

// Tracked returns the number of entities with a back-reference.
func (r *Registry) Tracked() int {
	return len(r.keyOf)
}

// track records that an entity's marker names key, moving any previous back-reference.
func (r *Registry) track(eid ecs.EntityID, key string) {
	r.untrack(eid)

	users, ok := r.users[key]
	if !ok {
		users = make(map[ecs.EntityID]struct{})
		r.users[key] = users
	}
	users[eid] = struct{}{}
	r.keyOf[eid] = key
}

// untrack drops the entity's back-reference. Returns false if there was none.
func (r *Registry) untrack(eid ecs.EntityID) bool {
	key, ok := r.keyOf[eid]
	if !ok {
		return false
	}

	delete(r.keyOf, eid)
	delete(r.users[key], eid)
	if len(r.users[key]) == 0 {
		delete(r.users, key)
	}
	return true
}

// resetUsers drops every back-reference.
func (r *Registry) resetUsers() {
	r.users = make(map[string]map[ecs.EntityID]struct{})
	r.keyOf = make(map[ecs.EntityID]string)
}

func (r *Registry) markDirty(key string) {
	r.dirty[key] = struct{}{}
	if key == r.defaultKey {
		r.defaultDirty = true
	}
}

// takeStale returns the entities that need restyling since the last call and clears the dirty
// state. Entities are ordered by ID.
func (r *Registry) takeStale() []ecs.EntityID {
	stale := make(map[ecs.EntityID]struct{})
	for key := range r.dirty {
		for eid := range r.users[key] {
			stale[eid] = struct{}{}
		}
	}
	if r.defaultDirty {
		for eid := range r.users[""] {
			stale[eid] = struct{}{}
		}
	}
	r.dirty = make(map[string]struct{})
	r.defaultDirty = false

	entities := make([]ecs.EntityID, 0, len(stale))
	for eid := range stale {
		entities = append(entities, eid)
	}
	slices.Sort(entities)
	return entities
}
