package font

import (
	"github.com/argus-labs/reactive-font/pkg/ecs"
	"github.com/rotisserie/eris"
)

// PluginName is the name the plugin registers under.
const PluginName = "reactive_font"

// Plugin keeps the TextFont and TextColor of ReactiveFont entities in sync with their presets.
type Plugin struct {
	registry *Registry
}

var _ ecs.Plugin = (*Plugin)(nil)

// NewPlugin creates the plugin with the given registry. A nil registry creates an empty one.
func NewPlugin(registry *Registry) *Plugin {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Plugin{registry: registry}
}

func (p *Plugin) Name() string { return PluginName }

// Registry returns the registry the plugin stores as a world resource.
func (p *Plugin) Registry() *Registry { return p.registry }

// Build registers the components, the registry resource, the hooks and the refresh system.
func (p *Plugin) Build(w *ecs.World) error {
	for _, register := range []func(*ecs.World) error{
		ecs.RegisterComponent[ReactiveFont],
		ecs.RegisterComponent[Text],
		ecs.RegisterComponent[TextFont],
		ecs.RegisterComponent[TextColor],
		ecs.RegisterComponent[Bold],
		ecs.RegisterComponent[Italic],
		ecs.RegisterComponent[FontSize],
		ecs.RegisterComponent[FontColor],
	} {
		if err := register(w); err != nil {
			return err
		}
	}

	ecs.SetResource(w, p.registry)

	if err := p.registerHooks(w); err != nil {
		return err
	}

	return ecs.RegisterSystem(w, refreshSystem, ecs.WithHook(ecs.PostUpdate), ecs.WithName("font.refresh"))
}

func (p *Plugin) registerHooks(w *ecs.World) error {
	const owner = PluginName
	reg := p.registry

	onMarker := func(ws *ecs.WorldState, eid ecs.EntityID, marker ReactiveFont) error {
		reg.track(eid, marker.Key)
		return apply(ws, reg, eid, "")
	}
	errs := []error{
		ecs.RegisterHook(w, ecs.OnInsert, owner, onMarker),
		ecs.RegisterHook(w, ecs.OnReplace, owner, onMarker),
		ecs.RegisterHook(w, ecs.OnRemove, owner, func(_ *ecs.WorldState, eid ecs.EntityID, _ ReactiveFont) error {
			reg.untrack(eid)
			return nil
		}),
	}
	errs = append(errs, registerModifierHooks[Bold](w, reg)...)
	errs = append(errs, registerModifierHooks[Italic](w, reg)...)
	errs = append(errs, registerModifierHooks[FontSize](w, reg)...)
	errs = append(errs, registerModifierHooks[FontColor](w, reg)...)

	for _, err := range errs {
		if err != nil {
			return eris.Wrap(err, "failed to register font hooks")
		}
	}
	return nil
}

// registerModifierHooks restyles the entity whenever the modifier T is added, changed or removed.
// OnRemove runs while T is still attached, so the style is computed as if it were gone.
func registerModifierHooks[T ecs.Component](w *ecs.World, reg *Registry) []error {
	restyle := func(ws *ecs.WorldState, eid ecs.EntityID, _ T) error {
		return apply(ws, reg, eid, "")
	}
	var zero T
	return []error{
		ecs.RegisterHook(w, ecs.OnInsert, PluginName, restyle),
		ecs.RegisterHook(w, ecs.OnReplace, PluginName, restyle),
		ecs.RegisterHook(w, ecs.OnRemove, PluginName, func(ws *ecs.WorldState, eid ecs.EntityID, _ T) error {
			return apply(ws, reg, eid, zero.Name())
		}),
	}
}

type refreshState struct {
	ecs.BaseSystemState
	Registry ecs.WithResource[Registry]
}

// refreshSystem restyles the users of presets that were registered or replaced, and the default
// users when the default changed, since the previous run.
func refreshSystem(state *refreshState) error {
	reg := state.Registry.Get()
	ws := state.WorldState()

	for _, eid := range reg.takeStale() {
		if err := apply(ws, reg, eid, ""); err != nil {
			state.Logger().Warn().Err(err).Uint32("entity", uint32(eid)).Msg("failed to restyle text")
		}
	}
	return nil
}

// apply sets the TextFont and TextColor of a marked entity from its preset and modifiers. The
// modifier named by without is treated as absent. Entities without a marker or being destroyed
// are skipped.
func apply(ws *ecs.WorldState, reg *Registry, eid ecs.EntityID, without string) error {
	if ecs.Despawning(ws, eid) || !ecs.Alive(ws, eid) {
		return nil
	}
	marker, err := ecs.Get[ReactiveFont](ws, eid)
	if err != nil {
		return nil //nolint:nilerr // Not a reactive text entity.
	}

	preset, err := reg.Resolve(marker.Key)
	if err != nil {
		return &FontError{Entity: eid, Key: marker.Key, Err: err}
	}

	bold := has[Bold](ws, eid, without)
	italic := has[Italic](ws, eid, without)

	size := preset.Size
	if override, ok := get[FontSize](ws, eid, without); ok {
		size = override.Value
	}
	color := preset.Color
	if override, ok := get[FontColor](ws, eid, without); ok {
		color = override.Color
	}

	textFont := TextFont{Font: preset.Handle(bold, italic), Size: size}
	if current, err := ecs.Get[TextFont](ws, eid); err != nil || current != textFont {
		if err := ecs.Set(ws, eid, textFont); err != nil {
			return eris.Wrap(err, "failed to set text font")
		}
	}

	textColor := TextColor{Color: color}
	if current, err := ecs.Get[TextColor](ws, eid); err != nil || current != textColor {
		if err := ecs.Set(ws, eid, textColor); err != nil {
			return eris.Wrap(err, "failed to set text color")
		}
	}
	return nil
}

func has[T ecs.Component](ws *ecs.WorldState, eid ecs.EntityID, without string) bool {
	_, ok := get[T](ws, eid, without)
	return ok
}

func get[T ecs.Component](ws *ecs.WorldState, eid ecs.EntityID, without string) (T, bool) {
	var zero T
	if zero.Name() == without {
		return zero, false
	}
	value, err := ecs.Get[T](ws, eid)
	return value, err == nil
}

// -------------------------------------------------------------------------------------------------
// Helpers
// -------------------------------------------------------------------------------------------------

// SpawnText creates a text entity styled by the preset key. Extra components such as Bold or
// FontSize are added before the marker so the entity is styled once.
func SpawnText(ws *ecs.WorldState, key, text string, extra ...ecs.Component) (ecs.EntityID, error) {
	components := make([]ecs.Component, 0, len(extra)+2)
	components = append(components, Text{Value: text})
	components = append(components, extra...)
	components = append(components, ReactiveFont{Key: key})
	return ecs.Create(ws, components...)
}

// Use points the entity's marker at another preset key, adding the marker if it's missing.
func Use(ws *ecs.WorldState, eid ecs.EntityID, key string) error {
	return ecs.Set(ws, eid, ReactiveFont{Key: key})
}

// Rebuild recreates the registry's back-references from the markers in the world, e.g. after the
// world was restored from a snapshot. Every rebuilt entity is restyled on the next refresh.
func Rebuild(ws *ecs.WorldState) (int, error) {
	reg, err := ecs.GetResource[Registry](ws)
	if err != nil {
		return 0, err
	}
	entities, err := ecs.EntitiesWith(ws, ReactiveFont{}.Name())
	if err != nil {
		return 0, err
	}

	reg.resetUsers()
	for _, eid := range entities {
		marker, err := ecs.Get[ReactiveFont](ws, eid)
		if err != nil {
			return 0, err
		}
		reg.track(eid, marker.Key)
		reg.markDirty(marker.Key)
	}
	reg.defaultDirty = true
	return len(entities), nil
}
