package app

import (
	"github.com/argus-labs/reactive-font/pkg/snapshot"
	"github.com/caarlos0/env/v11"
	"github.com/rotisserie/eris"
)

// Config holds the app configuration. Configuration can be set via environment variables with the
// specified defaults.
type Config struct {
	// Number of ticks per second.
	TickRate float64 `env:"APP_TICK_RATE" envDefault:"30"`

	// Path to a TOML preset file loaded into the font registry on startup.
	PresetsFile string `env:"APP_PRESETS_FILE"`

	// Snapshot storage type ("NOP", "MEMORY", "REDIS").
	SnapshotStorage string `env:"APP_SNAPSHOT_STORAGE" envDefault:"NOP"`

	// Store a snapshot every N ticks. Zero only stores one on shutdown.
	SnapshotEvery uint64 `env:"APP_SNAPSHOT_EVERY" envDefault:"0"`

	// Redis connection, required by the REDIS snapshot storage.
	RedisAddress  string `env:"REDIS_ADDRESS"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// Prefix of the snapshot keys.
	Namespace string `env:"APP_NAMESPACE" envDefault:"reactivefont"`

	// Address of the debug HTTP server. Empty disables the server.
	DebugAddress string `env:"APP_DEBUG_ADDRESS"`
}

// loadConfig loads the configuration from environment variables.
func loadConfig() (Config, error) {
	cfg := Config{}

	if err := env.Parse(&cfg); err != nil {
		return cfg, eris.Wrap(err, "failed to parse app config")
	}

	if err := cfg.validate(); err != nil {
		return cfg, eris.Wrap(err, "failed to validate app config")
	}

	return cfg, nil
}

// validate performs validation on the loaded configuration.
func (cfg *Config) validate() error {
	if cfg.TickRate <= 0 {
		return eris.Errorf("tick rate must be positive, got %v", cfg.TickRate)
	}
	storageType, err := snapshot.ParseStorageType(cfg.SnapshotStorage)
	if err != nil {
		return eris.Wrap(err, "invalid snapshot storage")
	}
	if storageType == snapshot.StorageTypeRedis && cfg.RedisAddress == "" {
		return eris.New("redis address is required for the REDIS snapshot storage")
	}
	if cfg.Namespace == "" {
		return eris.New("namespace cannot be empty")
	}
	return nil
}

// applyToOptions applies the configuration values to the given Options. It expects a validated
// config.
func (cfg *Config) applyToOptions(opt *Options) {
	storageType, _ := snapshot.ParseStorageType(cfg.SnapshotStorage)

	opt.TickRate = cfg.TickRate
	opt.PresetsFile = cfg.PresetsFile
	opt.SnapshotStorage = storageType
	opt.SnapshotEvery = cfg.SnapshotEvery
	opt.RedisAddress = cfg.RedisAddress
	opt.RedisPassword = cfg.RedisPassword
	opt.Namespace = cfg.Namespace
	opt.DebugAddress = cfg.DebugAddress
}

type Options struct {
	TickRate        float64              // Number of ticks per second
	PresetsFile     string               // TOML preset file loaded on startup
	SnapshotStorage snapshot.StorageType // Snapshot storage type
	SnapshotEvery   uint64               // Ticks between snapshots, zero stores on shutdown only
	RedisAddress    string               // Redis address for the REDIS storage
	RedisPassword   string               // Redis password
	Namespace       string               // Snapshot key prefix
	DebugAddress    string               // Debug HTTP server address, empty disables it
	MaxTicks        uint64               // Stop after this many ticks, zero runs until cancelled
	Storage         snapshot.Storage     // Overrides SnapshotStorage with a ready storage
}

func newDefaultOptions() Options {
	// Set these to invalid values to force users to pass in the correct options.
	return Options{
		TickRate:        0,
		SnapshotStorage: snapshot.StorageTypeNop,
		Namespace:       "",
	}
}

// apply merges the given options into the current options, overriding non-zero values.
func (opt *Options) apply(newOpt Options) {
	if newOpt.TickRate != 0.0 {
		opt.TickRate = newOpt.TickRate
	}
	if newOpt.PresetsFile != "" {
		opt.PresetsFile = newOpt.PresetsFile
	}
	if newOpt.SnapshotStorage != snapshot.StorageTypeUndefined {
		opt.SnapshotStorage = newOpt.SnapshotStorage
	}
	if newOpt.SnapshotEvery != 0 {
		opt.SnapshotEvery = newOpt.SnapshotEvery
	}
	if newOpt.RedisAddress != "" {
		opt.RedisAddress = newOpt.RedisAddress
	}
	if newOpt.RedisPassword != "" {
		opt.RedisPassword = newOpt.RedisPassword
	}
	if newOpt.Namespace != "" {
		opt.Namespace = newOpt.Namespace
	}
	if newOpt.DebugAddress != "" {
		opt.DebugAddress = newOpt.DebugAddress
	}
	if newOpt.MaxTicks != 0 {
		opt.MaxTicks = newOpt.MaxTicks
	}
	if newOpt.Storage != nil {
		opt.Storage = newOpt.Storage
	}
}

// validate checks that all required options are set and valid.
func (opt *Options) validate() error {
	if opt.TickRate <= 0 {
		return eris.Errorf("tick rate must be positive, got %v", opt.TickRate)
	}
	if opt.Storage == nil {
		if !opt.SnapshotStorage.IsValid() {
			return eris.Errorf("invalid snapshot storage type: %s", opt.SnapshotStorage)
		}
		if opt.SnapshotStorage == snapshot.StorageTypeRedis && opt.RedisAddress == "" {
			return eris.New("redis address is required for the REDIS snapshot storage")
		}
	}
	if opt.Namespace == "" {
		return eris.New("namespace cannot be empty")
	}
	return nil
}
