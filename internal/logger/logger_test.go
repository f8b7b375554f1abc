package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false, "")

	log.Debug("hidden")
	log.Info("rates refreshed", "usd", "5.45")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "rates refreshed", record["msg"])
	assert.Equal(t, "5.45", record["usd"])
	assert.Equal(t, "INFO", record["level"])
}

func TestNewDevelopmentWritesTextAtDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, true, "")

	log.Debug("goal loaded", "goal_id", "g1")

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "goal_id=g1")
}

func TestNewWithInvalidSentryDSN(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false, "not a dsn")

	log.Error("still logged")
	assert.Contains(t, buf.String(), "sentry disabled")
	assert.Contains(t, buf.String(), "still logged")
}
