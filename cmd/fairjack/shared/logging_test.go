package shared

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "warn", true)
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Str("game_id", "abc").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"game_id":"abc"`)
	assert.Contains(t, out, `"level":"warn"`)
}

func TestNewLoggerDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "", true)
	require.NoError(t, err)

	logger.Debug().Msg("debug")
	logger.Info().Msg("info")
	assert.NotContains(t, buf.String(), `"debug"`)
	assert.Contains(t, buf.String(), `"info"`)
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := newLogger(&bytes.Buffer{}, "chatty", false)
	assert.Error(t, err)
}
