package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info"}, &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("shown")
	_ = logger.Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "shown", record["msg"])
	assert.Equal(t, "info", record["level"])
	assert.Contains(t, record, "timestamp")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "parse log level")
}

func TestSlog(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "debug"}, &buf)
	require.NoError(t, err)

	Slog(logger).Debug("parameter not set", "key", "port")
	_ = logger.Sync()

	var record map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record))
	assert.Equal(t, "parameter not set", record["msg"])
	assert.Equal(t, "port", record["key"])
}

func TestNew_Development(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "debug", Development: true}, &buf)
	require.NoError(t, err)

	logger.Debug("dev record")
	_ = logger.Sync()

	var record map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record))
	assert.Equal(t, "dev record", record["M"])
	assert.Equal(t, "DEBUG", record["L"])
}
