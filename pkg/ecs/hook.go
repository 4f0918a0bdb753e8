package ecs

import (
	"github.com/rotisserie/eris"
)

// HookKind is the component lifecycle event a hook reacts to.
type HookKind uint8

const (
	// OnInsert runs after a component is added to an entity that didn't have it.
	OnInsert HookKind = iota
	// OnReplace runs after an existing component of an entity is overwritten.
	OnReplace
	// OnRemove runs before a component is removed from an entity, either through Remove or
	// Destroy. The entity and all of its components are still readable inside the hook.
	OnRemove
)

func (k HookKind) String() string {
	switch k {
	case OnInsert:
		return "on_insert"
	case OnReplace:
		return "on_replace"
	case OnRemove:
		return "on_remove"
	default:
		return "unknown"
	}
}

// Hook is a callback for a component lifecycle event. The component argument is the new value for
// OnInsert and OnReplace, and the value being removed for OnRemove.
type Hook[T Component] func(ws *WorldState, eid EntityID, component T) error

// abstractHook is a hook with the component type erased.
type abstractHook struct {
	owner string
	fn    func(ws *WorldState, eid EntityID, component Component) error
}

// hookManager stores the hooks of every component.
type hookManager struct {
	hooks map[componentID][3][]abstractHook
}

func newHookManager() hookManager {
	return hookManager{hooks: make(map[componentID][3][]abstractHook)}
}

func (hm *hookManager) add(cid componentID, kind HookKind, hook abstractHook) {
	hooks := hm.hooks[cid]
	hooks[kind] = append(hooks[kind], hook)
	hm.hooks[cid] = hooks
}

func (hm *hookManager) get(cid componentID, kind HookKind) []abstractHook {
	return hm.hooks[cid][kind]
}

// RegisterHook registers a lifecycle hook for the component type T, registering T if needed. Hooks
// of the same component and kind run in registration order. The owner names the hook in logs.
func RegisterHook[T Component](w *World, kind HookKind, owner string, hook Hook[T]) error {
	if kind > OnRemove {
		return eris.Errorf("invalid hook kind %d", kind)
	}
	if hook == nil {
		return eris.New("hook cannot be nil")
	}

	cid, err := registerComponent[T](w.state)
	if err != nil {
		return eris.Wrap(err, "failed to register hook component")
	}

	w.hooks.add(cid, kind, abstractHook{
		owner: owner,
		fn: func(ws *WorldState, eid EntityID, component Component) error {
			concrete, ok := component.(T)
			if !ok {
				return eris.Errorf("hook expected %T, got %T", concrete, component)
			}
			return hook(ws, eid, concrete)
		},
	})
	return nil
}

// fireHooks runs the hooks of a component. Hook errors are logged and never fail the write that
// triggered them.
func (ws *WorldState) fireHooks(cid componentID, kind HookKind, eid EntityID, component Component) {
	for _, hook := range ws.world.hooks.get(cid, kind) {
		if err := hook.fn(ws, eid, component); err != nil {
			ws.world.logger.Warn().
				Err(err).
				Str("hook", hook.owner).
				Str("kind", kind.String()).
				Str("component", component.Name()).
				Uint32("entity", uint32(eid)).
				Msg("component hook failed")
		}
	}
}
