// Package app runs a world with the reactive font plugin: it loads presets, restores and stores
// snapshots, serves the debug API and drives the tick loop.
package app

import (
	"context"
	"time"

	"github.com/argus-labs/reactive-font/pkg/ecs"
	"github.com/argus-labs/reactive-font/pkg/font"
	"github.com/argus-labs/reactive-font/pkg/log"
	"github.com/argus-labs/reactive-font/pkg/server"
	"github.com/argus-labs/reactive-font/pkg/snapshot"
	"github.com/argus-labs/reactive-font/pkg/telemetry"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	serviceName     = "reactivefont"
	shutdownTimeout = 10 * time.Second
	redisTimeout    = 5 * time.Second
)

// App owns a world and everything needed to run it.
type App struct {
	world      *ecs.World
	guard      *server.WorldGuard
	registry   *font.Registry
	storage    snapshot.Storage
	server     *server.Server
	redis      *redis.Client
	instanceID string

	options Options
	tel     telemetry.Telemetry
	logger  zerolog.Logger
}

// New creates an app from environment variables, overridden by the non-zero values in opts.
func New(opts Options) (*App, error) {
	// Load and validate options.
	cfg, err := loadConfig()
	if err != nil {
		return nil, eris.Wrap(err, "failed to load app config")
	}
	options := newDefaultOptions()
	cfg.applyToOptions(&options)
	options.apply(opts)
	if err := options.validate(); err != nil {
		return nil, eris.Wrap(err, "invalid app options")
	}

	tel, err := telemetry.New(telemetry.Options{ServiceName: serviceName})
	if err != nil {
		return nil, eris.Wrap(err, "failed to initialize telemetry")
	}

	instanceID := uuid.NewString()
	a := &App{
		instanceID: instanceID,
		options:    options,
		tel:        tel,
		logger:     tel.GetLogger("app").With().Str("instance_id", instanceID).Logger(),
	}

	// Setup the world and the font plugin.
	a.world = ecs.NewWorld(ecs.WithLogger(tel.GetLogger("world")))
	a.guard = server.NewWorldGuard(a.world)
	a.registry = font.NewRegistry()
	if options.PresetsFile != "" {
		file, err := font.LoadPresetsFile(options.PresetsFile)
		if err != nil {
			return nil, eris.Wrap(err, "failed to load presets")
		}
		if err := file.Apply(a.registry); err != nil {
			return nil, eris.Wrap(err, "failed to apply presets")
		}
	}
	if err := a.world.RegisterPlugin(font.NewPlugin(a.registry)); err != nil {
		return nil, eris.Wrap(err, "failed to register font plugin")
	}

	// Setup snapshot storage.
	if err := a.setupStorage(); err != nil {
		return nil, err
	}

	// Setup the debug server.
	if options.DebugAddress != "" {
		srv, err := server.New(a.guard, server.WithLogger(tel.GetLogger("server")), server.WithCORS())
		if err != nil {
			return nil, eris.Wrap(err, "failed to create debug server")
		}
		a.server = srv
	}

	return a, nil
}

func (a *App) setupStorage() error {
	if a.options.Storage != nil {
		a.storage = a.options.Storage
		return nil
	}

	switch a.options.SnapshotStorage {
	case snapshot.StorageTypeNop:
		a.storage = snapshot.NewNopStorage()
	case snapshot.StorageTypeMemory:
		a.storage = snapshot.NewMemoryStorage()
	case snapshot.StorageTypeRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     a.options.RedisAddress,
			Password: a.options.RedisPassword,
		})

		ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return eris.Wrap(err, "failed to connect to redis")
		}

		storage, err := snapshot.NewRedisStorage(client, a.options.Namespace)
		if err != nil {
			_ = client.Close()
			return eris.Wrap(err, "failed to create redis snapshot storage")
		}
		a.redis = client
		a.storage = storage
	case snapshot.StorageTypeUndefined:
		return eris.New("snapshot storage type is undefined")
	}
	return nil
}

// World returns the app's world. Register components and systems on it before Run.
func (a *App) World() *ecs.World {
	return a.world
}

// Registry returns the font registry the plugin reads.
func (a *App) Registry() *font.Registry {
	return a.registry
}

// InstanceID returns the ID stamped on this process' snapshots and logs.
func (a *App) InstanceID() string {
	return a.instanceID
}

// Update runs fn with exclusive access to the world. Use it to change the world or the registry
// from outside of systems while the app is running.
func (a *App) Update(fn func(w *ecs.World) error) error {
	return a.guard.Update(fn)
}

// Run restores the latest snapshot, then ticks the world until the context is cancelled or
// MaxTicks is reached. A snapshot is stored on the way out.
func (a *App) Run(ctx context.Context) error {
	defer a.shutdown()

	if err := a.restore(ctx); err != nil {
		return err
	}
	log.World(&a.logger, a.world, zerolog.DebugLevel)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)
	if a.server != nil {
		eg.Go(func() error {
			return a.server.Serve(ctx, a.options.DebugAddress)
		})
	}
	eg.Go(func() error {
		// Stop the server once the loop is done.
		defer cancel()
		return a.tickLoop(ctx)
	})

	return eg.Wait()
}

func (a *App) tickLoop(ctx context.Context) error {
	ticker := time.NewTicker(time.Duration(float64(time.Second) / a.options.TickRate))
	defer ticker.Stop()

	a.logger.Info().Float64("tick_rate", a.options.TickRate).Msg("Starting tick loop")
	for {
		select {
		case <-ticker.C:
			if err := a.Tick(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return eris.Wrap(err, "failed to run tick")
			}
			if a.options.MaxTicks != 0 && a.world.TickHeight() >= a.options.MaxTicks {
				a.logger.Info().Uint64("tick", a.world.TickHeight()).Msg("Reached max ticks")
				return nil
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// Tick runs one tick of the world and stores a snapshot when one is due.
func (a *App) Tick(ctx context.Context) error {
	err := a.guard.Update(func(w *ecs.World) error {
		return w.Tick(ctx)
	})
	if err != nil {
		return err
	}

	every := a.options.SnapshotEvery
	if every != 0 && a.world.TickHeight()%every == 0 {
		if err := a.storeSnapshot(ctx); err != nil {
			a.logger.Warn().Err(err).Msg("failed to store snapshot")
		}
	}
	return nil
}

// restore loads the latest snapshot into the world and rebuilds the font back-references. A
// missing or unusable snapshot starts a fresh world.
func (a *App) restore(ctx context.Context) error {
	logger := a.logger.With().Str("storage", a.storageName()).Logger()

	snap, err := a.storage.Load(ctx)
	if err != nil {
		if eris.Is(err, snapshot.ErrSnapshotNotFound) {
			logger.Debug().Msg("no snapshot found, starting fresh")
			return nil
		}
		logger.Warn().Err(err).Msg("failed to load snapshot, starting fresh")
		return nil
	}

	return a.guard.Update(func(w *ecs.World) error {
		if err := w.Deserialize(snap.Data); err != nil {
			logger.Warn().Err(err).Msg("failed to restore world from snapshot, starting fresh")
			return nil
		}

		rebuilt, err := font.Rebuild(w.State())
		if err != nil {
			return eris.Wrap(err, "failed to rebuild font references")
		}

		logger.Info().
			Uint64("tick", snap.TickHeight).
			Str("taken_by", snap.InstanceID).
			Int("entities", w.EntityCount()).
			Int("styled", rebuilt).
			Msg("restored world from snapshot")
		return nil
	})
}

func (a *App) storeSnapshot(ctx context.Context) error {
	var snap *snapshot.Snapshot
	err := a.guard.View(func(w *ecs.World) error {
		data, err := w.Serialize()
		if err != nil {
			return eris.Wrap(err, "failed to serialize world")
		}
		snap = &snapshot.Snapshot{
			TickHeight: w.TickHeight(),
			Timestamp:  time.Now(),
			InstanceID: a.instanceID,
			Data:       data,
			Version:    snapshot.CurrentVersion,
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := a.storage.Store(ctx, snap); err != nil {
		return eris.Wrap(err, "failed to store snapshot")
	}
	a.logger.Debug().Uint64("tick", snap.TickHeight).Msg("stored snapshot")
	return nil
}

func (a *App) storageName() string {
	if a.options.Storage != nil {
		return "custom"
	}
	return a.options.SnapshotStorage.String()
}

// shutdown stores a final snapshot and releases the app's resources.
func (a *App) shutdown() {
	// Create a timeout context for shutdown.
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.logger.Info().Msg("Shutting down app")

	if a.world.TickHeight() > 0 {
		if err := a.storeSnapshot(ctx); err != nil {
			a.logger.Error().Err(err).Msg("failed to store final snapshot")
		}
	}
	log.Presets(&a.logger, a.registry, zerolog.DebugLevel)

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}

	if err := a.tel.Shutdown(); err != nil {
		a.logger.Error().Err(err).Msg("telemetry shutdown error")
	}

	a.logger.Info().Msg("App shutdown complete")
}
