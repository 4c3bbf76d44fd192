package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHandler captures log records as JSON lines.
type testHandler struct {
	buf   *bytes.Buffer
	level slog.Level
	attrs []slog.Attr
}

func newTestHandler() *testHandler {
	return &testHandler{
		buf:   &bytes.Buffer{},
		level: slog.LevelDebug,
	}
}

func (h *testHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *testHandler) Handle(_ context.Context, r slog.Record) error {
	data := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	for _, attr := range h.attrs {
		data[attr.Key] = attr.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		data[a.Key] = a.Value.Any()
		return true
	})
	return json.NewEncoder(h.buf).Encode(data)
}

func (h *testHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newH := &testHandler{
		buf:   h.buf,
		level: h.level,
		attrs: make([]slog.Attr, len(h.attrs)+len(attrs)),
	}
	copy(newH.attrs, h.attrs)
	copy(newH.attrs[len(h.attrs):], attrs)
	return newH
}

func (h *testHandler) WithGroup(_ string) slog.Handler {
	return h
}

func (h *testHandler) getLastRecord() map[string]any {
	lines := bytes.Split(h.buf.Bytes(), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		if len(lines[i]) > 0 {
			var m map[string]any
			if err := json.Unmarshal(lines[i], &m); err == nil {
				return m
			}
		}
	}
	return nil
}

func TestEnrichLogger(t *testing.T) {
	t.Run("adds load_id and source", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)

		enriched := EnrichLogger(logger, "load-123", "file:app.yaml")
		enriched.Info("test message")

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "load-123", record["load_id"])
		assert.Equal(t, "file:app.yaml", record["source"])
		assert.Equal(t, "test message", record["msg"])
	})

	t.Run("nil logger returns nil", func(t *testing.T) {
		assert.Nil(t, EnrichLogger(nil, "load-123", "env"))
	})
}

func TestLogLookupMiss(t *testing.T) {
	h := newTestHandler()
	LogLookupMiss(slog.New(h), "timeout", "int")

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "DEBUG", record["level"])
	assert.Equal(t, "parameter not set", record["msg"])
	assert.Equal(t, "timeout", record["key"])
	assert.Equal(t, "int", record["target"])

	assert.NotPanics(t, func() { LogLookupMiss(nil, "k", "int") })
}

func TestLogParseFailure(t *testing.T) {
	h := newTestHandler()
	LogParseFailure(slog.New(h), "port", "int", "eighty")

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "DEBUG", record["level"])
	assert.Equal(t, "parameter text did not parse", record["msg"])
	assert.Equal(t, "port", record["key"])
	assert.Equal(t, "eighty", record["text"])

	assert.NotPanics(t, func() { LogParseFailure(nil, "k", "int", "x") })
}

func TestLogConversionError(t *testing.T) {
	h := newTestHandler()
	LogConversionError(slog.New(h), "flag", "bool", "time.Duration", errors.New("no conversion"))

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "parameter conversion failed", record["msg"])
	assert.Equal(t, "flag", record["key"])
	assert.Equal(t, "bool", record["kind"])
	assert.Equal(t, "time.Duration", record["target"])
	assert.Equal(t, "no conversion", record["error"])

	assert.NotPanics(t, func() { LogConversionError(nil, "k", "bool", "int", errors.New("x")) })
}

func TestLogLoadLifecycle(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogLoadStart(logger, "load-1", 3)
	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "parameter load starting", record["msg"])
	assert.Equal(t, float64(3), record["layers"])

	LogLayer(logger, "env", 4)
	record = h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "parameter layer merged", record["msg"])
	assert.Equal(t, "env", record["layer"])
	assert.Equal(t, float64(4), record["entries"])

	LogLoadComplete(logger, "load-1", 12.5, 7)
	record = h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "parameter load completed", record["msg"])
	assert.Equal(t, 12.5, record["duration_ms"])
	assert.Equal(t, float64(7), record["entries"])

	LogLoadError(logger, "load-1", errors.New("bad yaml"), 1.0, "file:app.yaml")
	record = h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "bad yaml", record["error"])
	assert.Equal(t, "file:app.yaml", record["source"])

	assert.NotPanics(t, func() {
		LogLoadStart(nil, "x", 0)
		LogLayer(nil, "x", 0)
		LogLoadComplete(nil, "x", 0, 0)
		LogLoadError(nil, "x", errors.New("e"), 0, "x")
	})
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	time.Sleep(5 * time.Millisecond)
	assert.GreaterOrEqual(t, done(), 4.0)
}
