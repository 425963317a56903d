package logging

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// compile-time interface checks
var (
	_ Logger = (*SlogAdapter)(nil)
	_ Logger = (*DesignMeshLogger)(nil)
	_ Logger = NoOpLogger{}
)

func newBufferLogger(level LogLevel) (*DesignMeshLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: level, Format: "json", Output: &buf})
	return logger, &buf
}

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestDesignMeshLoggerKeyValueArgs(t *testing.T) {
	logger, buf := newBufferLogger(LogLevelInfo)

	logger.WithComponent("pipeline").WithSession("s1").Info("pipeline started", "query", "bed")

	entry := decodeEntry(t, buf)
	assert.Equal(t, "pipeline started", entry["msg"])
	assert.Equal(t, "pipeline", entry["component"])
	assert.Equal(t, "s1", entry["session_id"])
	assert.Equal(t, "bed", entry["query"])
}

func TestDesignMeshLoggerLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LogLevelWarn)

	logger.Info("below threshold")
	assert.Zero(t, buf.Len())

	logger.Warn("at threshold")
	assert.NotZero(t, buf.Len())
}

func TestLogStage(t *testing.T) {
	logger, buf := newBufferLogger(LogLevelInfo)

	logger.LogStage("Room Analysis", 42*time.Millisecond, true, nil)

	entry := decodeEntry(t, buf)
	assert.Equal(t, "Stage completed", entry["msg"])
	assert.Equal(t, "Room Analysis", entry["stage"])
	assert.Equal(t, true, entry["success"])
}

func TestLogStageFallback(t *testing.T) {
	logger, buf := newBufferLogger(LogLevelInfo)

	logger.LogStage("Furniture Shopping", time.Millisecond, false, assert.AnError)

	entry := decodeEntry(t, buf)
	assert.Equal(t, "Stage fell back to defaults", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, assert.AnError.Error(), entry["error"])
}

func TestLogCapabilityCall(t *testing.T) {
	logger, buf := newBufferLogger(LogLevelInfo)

	logger.LogCapabilityCall("product_search", 10*time.Millisecond, false, assert.AnError)

	entry := decodeEntry(t, buf)
	assert.Equal(t, "Capability call failed", entry["msg"])
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "product_search", entry["capability"])
	assert.Equal(t, assert.AnError.Error(), entry["error"])
}
