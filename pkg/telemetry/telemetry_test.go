package telemetry

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogFormat(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input   string
		want    LogFormat
		wantErr bool
	}{
		{input: "json", want: LogFormatJSON},
		{input: "PRETTY", want: LogFormatPretty},
		{input: "", wantErr: true},
		{input: "xml", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLogFormat(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewLogger_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newLogger(&buf, "warn", LogFormatJSON)
	logger.Info().Msg("dropped")
	logger.Warn().Str("key", "mono").Msg("kept")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["message"])
	assert.Equal(t, "mono", line["key"])
	assert.Contains(t, line, "time")
	assert.Contains(t, line, "caller")
}

func TestNewLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newLogger(&buf, "loud", LogFormatPretty)
	logger.Debug().Msg("dropped")
	logger.Info().Msg("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestOptions(t *testing.T) {
	t.Parallel()

	var opts Options
	cfg := Config{LogLevel: "info", LogFormat: "json"}
	cfg.applyToOptions(&opts)
	require.Error(t, opts.validate())

	opts.apply(Options{ServiceName: "reactivefont", LogFormat: LogFormatPretty})
	require.NoError(t, opts.validate())
	assert.Equal(t, LogFormatPretty, opts.LogFormat)
	assert.Equal(t, "info", opts.LogLevel)

	opts.apply(Options{LogLevel: "nope"})
	require.Error(t, opts.validate())
}

func TestNew_FromEnv(t *testing.T) {
	t.Setenv("APP_LOG_LEVEL", "debug")
	t.Setenv("APP_LOG_FORMAT", "pretty")

	tel, err := New(Options{ServiceName: "reactivefont"})
	require.NoError(t, err)
	defer func() { require.NoError(t, tel.Shutdown()) }()

	assert.Equal(t, "debug", tel.Logger.GetLevel().String())
}

func TestNew_InvalidEnv(t *testing.T) {
	t.Setenv("APP_LOG_FORMAT", "xml")

	_, err := New(Options{ServiceName: "reactivefont"})
	require.Error(t, err)
}
