package ecs

import (
	"reflect"
	"runtime"
	"strings"

	"github.com/rotisserie/eris"
)

// System is a function that contains game logic.
type System[T any] func(state *T) error

// systemConfig holds all configurable options for system registration.
type systemConfig struct {
	// The hook that determines when the system should be executed.
	hook SystemHook
	// Overrides the name derived from the system function.
	name string
}

// newSystemConfig creates a new system config with default values.
func newSystemConfig() systemConfig {
	return systemConfig{hook: Update}
}

// SystemOption is a function that configures a SystemConfig.
type SystemOption func(*systemConfig)

// SystemHook defines when a system should be executed in the update cycle.
type SystemHook uint8

const (
	// PreUpdate runs before the main update.
	PreUpdate SystemHook = 0
	// Update runs during the main update phase.
	Update SystemHook = 1
	// PostUpdate runs after the main update.
	PostUpdate SystemHook = 2
	// Init runs once before the schedules of the first tick.
	Init SystemHook = 3
)

func (h SystemHook) String() string {
	switch h {
	case PreUpdate:
		return "pre_update"
	case Update:
		return "update"
	case PostUpdate:
		return "post_update"
	case Init:
		return "init"
	default:
		return "unknown"
	}
}

// WithHook returns an option to set the system hook.
func WithHook(hook SystemHook) SystemOption {
	return func(cfg *systemConfig) { cfg.hook = hook }
}

// WithName returns an option to set the system name used in logs and metrics.
func WithName(name string) SystemOption {
	return func(cfg *systemConfig) { cfg.name = name }
}

// RegisterSystem registers a system with the world. The system state is a struct whose exported
// fields are system state fields (BaseSystemState, Contains, Ref, WithResource). The fields are
// initialized once here and reused on every run.
func RegisterSystem[T any](w *World, system System[T], opts ...SystemOption) error {
	cfg := newSystemConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.hook > Init {
		return eris.Errorf("invalid system hook %d", cfg.hook)
	}
	if w.initDone && cfg.hook == Init {
		return eris.New("cannot register init systems after the first tick")
	}

	name := cfg.name
	if name == "" {
		name = systemName(system)
	}

	state := new(T)
	if err := initializeSystemState(w, state, name); err != nil {
		return eris.Wrapf(err, "failed to register system %s", name)
	}

	fn := func() error { return system(state) }
	if cfg.hook == Init {
		w.initSystems = append(w.initSystems, systemMetadata{name: name, fn: fn})
	} else {
		w.scheduler[cfg.hook].register(name, fn)
	}

	w.logger.Debug().Str("system", name).Str("hook", cfg.hook.String()).Msg("system registered")
	return nil
}

// systemName returns the short name of a function, e.g. "font.refreshSystem".
func systemName(fn any) string {
	name := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()).Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
