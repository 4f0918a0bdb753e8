package telemetry

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger creates a logger writing to stdout with the given level and format. An unknown level
// falls back to info and an unknown format falls back to JSON.
func NewLogger(level string, format LogFormat) zerolog.Logger {
	return newLogger(os.Stdout, level, format)
}

func newLogger(out io.Writer, levelName string, format LogFormat) zerolog.Logger {
	level, err := parseLevel(levelName)
	if err != nil {
		level = zerolog.InfoLevel
	}

	writer := out
	if format == LogFormatPretty {
		writer = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()
}
