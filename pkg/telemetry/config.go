package telemetry

import (
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Config is read from the environment. Options passed to New take precedence.
type Config struct {
	// Minimum level that gets written: debug, info, warn or error.
	LogLevel string `env:"APP_LOG_LEVEL" envDefault:"info"`

	// json for machines, pretty for terminals.
	LogFormat string `env:"APP_LOG_FORMAT" envDefault:"json"`

	// Address of the statsd agent, e.g. localhost:8125. Tick timings are dropped when unset.
	StatsdAddress string `env:"APP_STATSD_ADDRESS"`
}

// loadConfig loads the configuration from environment variables.
func loadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, eris.Wrap(err, "failed to parse telemetry config")
	}
	if err := cfg.validate(); err != nil {
		return cfg, eris.Wrap(err, "failed to validate telemetry config")
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return err
	}
	if _, err := ParseLogFormat(cfg.LogFormat); err != nil {
		return err
	}
	return nil
}

// applyToOptions copies a validated config into opt.
func (cfg *Config) applyToOptions(opt *Options) {
	format, _ := ParseLogFormat(cfg.LogFormat)

	opt.LogLevel = cfg.LogLevel
	opt.LogFormat = format
	opt.StatsdAddress = cfg.StatsdAddress
}

type Options struct {
	ServiceName   string    // Statsd namespace and prefix of component loggers
	LogLevel      string    // Minimum log level
	LogFormat     LogFormat // Log output format, empty keeps the configured one
	StatsdAddress string    // Statsd agent address
	StatsdTags    []string  // Tags attached to every metric
}

// apply merges the given options into the current options, overriding non-zero values.
func (opt *Options) apply(newOpt Options) {
	if newOpt.ServiceName != "" {
		opt.ServiceName = newOpt.ServiceName
	}
	if newOpt.LogLevel != "" {
		opt.LogLevel = newOpt.LogLevel
	}
	if newOpt.LogFormat != "" {
		opt.LogFormat = newOpt.LogFormat
	}
	if newOpt.StatsdAddress != "" {
		opt.StatsdAddress = newOpt.StatsdAddress
	}
	if len(newOpt.StatsdTags) > 0 {
		opt.StatsdTags = newOpt.StatsdTags
	}
}

func (opt *Options) validate() error {
	if opt.ServiceName == "" {
		return eris.New("service name cannot be empty")
	}
	if _, err := parseLevel(opt.LogLevel); err != nil {
		return err
	}
	if _, err := ParseLogFormat(string(opt.LogFormat)); err != nil {
		return err
	}
	return nil
}

// LogFormat selects how log lines are encoded.
type LogFormat string

const (
	LogFormatJSON   LogFormat = "json"   // One JSON object per line
	LogFormatPretty LogFormat = "pretty" // Colored console output
)

// ParseLogFormat parses a format name, ignoring case.
func ParseLogFormat(s string) (LogFormat, error) {
	switch format := LogFormat(strings.ToLower(s)); format {
	case LogFormatJSON, LogFormatPretty:
		return format, nil
	default:
		return "", eris.Errorf("invalid log format %q (must be %q or %q)", s, LogFormatJSON, LogFormatPretty)
	}
}

func parseLevel(s string) (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil || s == "" {
		return zerolog.NoLevel, eris.Errorf("invalid log level %q (must be debug, info, warn or error)", s)
	}
	return level, nil
}
