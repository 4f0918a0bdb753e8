// Package telemetry builds the process logger and the statsd client from environment variables
// and code options.
package telemetry

import (
	"github.com/argus-labs/reactive-font/pkg/telemetry/statsd"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

type Telemetry struct {
	Logger      zerolog.Logger
	serviceName string
}

func New(opts Options) (Telemetry, error) {
	config, err := loadConfig()
	if err != nil {
		return Telemetry{}, eris.Wrap(err, "failed to load telemetry config")
	}

	var options Options
	config.applyToOptions(&options)
	options.apply(opts)
	if err := options.validate(); err != nil {
		return Telemetry{}, eris.Wrap(err, "invalid telemetry options")
	}

	logger := NewLogger(options.LogLevel, options.LogFormat)

	if options.StatsdAddress != "" {
		if err := statsd.Init(options.StatsdAddress, options.ServiceName, options.StatsdTags); err != nil {
			return Telemetry{}, eris.Wrap(err, "failed to init statsd client")
		}
	}

	return Telemetry{
		Logger:      logger,
		serviceName: options.ServiceName,
	}, nil
}

// Shutdown flushes and closes the statsd client.
func (t *Telemetry) Shutdown() error {
	return statsd.Close()
}

// GetLogger returns a component-specific logger.
func (t *Telemetry) GetLogger(component string) zerolog.Logger {
	return t.Logger.With().Str("component", t.serviceName+"."+component).Logger()
}
