package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/requex/errors"
	"github.com/kochabx/requex/log/writer"
)

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	logger := New(WithOutput(&buf))

	logger.Info().Str("method", "GET").Msg("request dispatched")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, "request dispatched", line["message"])
	assert.Contains(t, line, "time")
}

func TestWithLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(WithOutput(&buf), WithLevel(zerolog.WarnLevel))

	logger.Debug().Msg("hidden")
	logger.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn().Err(errors.New(404, "not found")).Msg("shown")
	assert.Contains(t, buf.String(), "code=404")
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	logger := New(WithOutput(&buf)).With(map[string]any{"component": "pending"})

	logger.Info().Msg("registered")
	assert.Contains(t, buf.String(), `"component":"pending"`)
	assert.Same(t, &buf, logger.Writer())
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Error().Msg("discarded")
}

func TestGlobalLog(t *testing.T) {
	prev := G()
	defer SetGlobalLogger(prev)

	var buf bytes.Buffer
	SetGlobalLogger(New(WithOutput(&buf)))
	SetGlobalLevel(zerolog.InfoLevel)

	Debug().Msg("hidden")
	Info().Msg("global info")
	Warnf("global %s", "warn")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "global info")
	assert.Contains(t, buf.String(), "global warn")
}

func TestConsoleWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(WithOutput(writer.ConsoleTo(&buf)))

	logger.Info().Msg("console line")
	assert.Contains(t, buf.String(), "| INFO  |")
	assert.Contains(t, buf.String(), "console line")
}
