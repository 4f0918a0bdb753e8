// Package log writes structured dumps of a world's contents with zerolog.
package log

import (
	"slices"

	"github.com/argus-labs/reactive-font/pkg/ecs"
	"github.com/argus-labs/reactive-font/pkg/font"
	"github.com/rs/zerolog"
)

type Loggable interface {
	ComponentNames() []string
	SystemNames() []string
	PluginNames() []string
}

var _ Loggable = (*ecs.World)(nil)

func loadComponentsToEvent(zeroLoggerEvent *zerolog.Event, target Loggable) *zerolog.Event {
	components := target.ComponentNames()
	zeroLoggerEvent.Int("total_components", len(components))
	arrayLogger := zerolog.Arr()
	for id, name := range components {
		dictLogger := zerolog.Dict()
		dictLogger = dictLogger.Int("component_id", id)
		dictLogger = dictLogger.Str("component_name", name)
		arrayLogger = arrayLogger.Dict(dictLogger)
	}
	return zeroLoggerEvent.Array("components", arrayLogger)
}

func loadSystemIntoEvent(zeroLoggerEvent *zerolog.Event, target Loggable) *zerolog.Event {
	systems := target.SystemNames()
	zeroLoggerEvent.Int("total_systems", len(systems))
	arrayLogger := zerolog.Arr()
	for _, sysName := range systems {
		arrayLogger = arrayLogger.Str(sysName)
	}
	return zeroLoggerEvent.Array("systems", arrayLogger)
}

func loadPluginsIntoEvent(zeroLoggerEvent *zerolog.Event, target Loggable) *zerolog.Event {
	return zeroLoggerEvent.Strs("plugins", target.PluginNames())
}

// Components logs all component info related to the world.
func Components(logger *zerolog.Logger, target Loggable, level zerolog.Level) {
	zeroLoggerEvent := logger.WithLevel(level)
	zeroLoggerEvent = loadComponentsToEvent(zeroLoggerEvent, target)
	zeroLoggerEvent.Send()
}

// System logs all system info related to the world.
func System(logger *zerolog.Logger, target Loggable, level zerolog.Level) {
	zeroLoggerEvent := logger.WithLevel(level)
	zeroLoggerEvent = loadSystemIntoEvent(zeroLoggerEvent, target)
	zeroLoggerEvent.Send()
}

// Entity logs the archetype and component names of an entity. Nothing is logged if the entity
// doesn't exist.
func Entity(logger *zerolog.Logger, level zerolog.Level, ws *ecs.WorldState, entityID ecs.EntityID) {
	archID, err := ws.ArchetypeOf(entityID)
	if err != nil {
		return
	}
	components, err := ecs.ComponentsOf(ws, entityID)
	if err != nil {
		return
	}

	arrayLogger := zerolog.Arr()
	for _, name := range sortedKeys(components) {
		arrayLogger = arrayLogger.Str(name)
	}
	logger.WithLevel(level).
		Array("components", arrayLogger).
		Uint32("entity_id", uint32(entityID)).
		Int("archetype_id", archID).
		Send()
}

// Presets logs the registered presets, the default key and how many entities use each preset.
func Presets(logger *zerolog.Logger, registry *font.Registry, level zerolog.Level) {
	arrayLogger := zerolog.Arr()
	for _, preset := range registry.Presets() {
		dictLogger := zerolog.Dict().
			Str("key", preset.Key).
			Str("regular", string(preset.Regular)).
			Float32("size", preset.Size).
			Str("color", preset.Color.Hex()).
			Int("users", len(registry.UsedBy(preset.Key)))
		arrayLogger = arrayLogger.Dict(dictLogger)
	}
	logger.WithLevel(level).
		Int("total_presets", registry.Len()).
		Str("default", registry.DefaultKey()).
		Int("tracked_entities", registry.Tracked()).
		Array("presets", arrayLogger).
		Send()
}

// World Logs everything about the world (components, systems and plugins).
func World(logger *zerolog.Logger, target Loggable, level zerolog.Level) {
	zeroLoggerEvent := logger.WithLevel(level)
	zeroLoggerEvent = loadComponentsToEvent(zeroLoggerEvent, target)
	zeroLoggerEvent = loadSystemIntoEvent(zeroLoggerEvent, target)
	zeroLoggerEvent = loadPluginsIntoEvent(zeroLoggerEvent, target)
	zeroLoggerEvent.Send()
}

// CreateSystemLogger creates a Sub Logger with the entry {"system" : systemName}.
func CreateSystemLogger(logger *zerolog.Logger, systemName string) *zerolog.Logger {
	newLogger := logger.With().Str("system", systemName).Logger()
	return &newLogger
}

func sortedKeys(components map[string]ecs.Component) []string {
	names := make([]string, 0, len(components))
	for name := range components {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
