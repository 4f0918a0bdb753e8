package ecs

import "github.com/rotisserie/eris"

// Plugin bundles components, hooks, resources and systems that are added to a world together.
type Plugin interface {
	// Name returns a unique name for the plugin.
	Name() string
	// Build registers the plugin's parts with the world.
	Build(w *World) error
}

// RegisterPlugin builds a plugin into the world. A plugin can only be registered once.
func (w *World) RegisterPlugin(plugin Plugin) error {
	name := plugin.Name()
	if name == "" {
		return eris.New("plugin name cannot be empty")
	}
	for _, p := range w.plugins {
		if p.Name() == name {
			return eris.Errorf("plugin %s is already registered", name)
		}
	}
	if w.initDone {
		return eris.Errorf("cannot register plugin %s after the first tick", name)
	}

	if err := plugin.Build(w); err != nil {
		return eris.Wrapf(err, "failed to build plugin %s", name)
	}
	w.plugins = append(w.plugins, plugin)

	w.logger.Debug().Str("plugin", name).Msg("plugin registered")
	return nil
}

// PluginNames returns the names of the registered plugins in registration order.
func (w *World) PluginNames() []string {
	names := make([]string, len(w.plugins))
	for i, p := range w.plugins {
		names[i] = p.Name()
	}
	return names
}
