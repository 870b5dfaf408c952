package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApplicationLogger(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{name: "json to stdout", config: Config{Level: "INFO", Format: "json", Output: "stdout"}},
		{name: "text to stderr", config: Config{Level: "debug", Format: "text", Output: "stderr"}},
		{name: "defaults", config: Config{}},
		{name: "invalid level", config: Config{Level: "LOUD"}, wantErr: "invalid log level: LOUD"},
		{name: "invalid format", config: Config{Format: "xml"}, wantErr: "invalid log format: xml"},
		{name: "invalid output", config: Config{Output: "syslog"}, wantErr: "invalid log output: syslog"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewApplicationLogger(tt.config)
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestApplicationLogger_StructuredFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewApplicationLoggerWithWriter(Config{Level: "INFO", Format: "json"}, &buf)
	require.NoError(t, err)

	ctx := WithRequestID(WithCorrelationID(context.Background(), "corr-1"), "req-1")
	logger.WithComponent("recovery").ErrorWithError(ctx, errors.New("boom"), "request failed", Fields{
		"status": 500,
	})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "request failed", entry["msg"])
	assert.Equal(t, "recovery", entry["component"])
	assert.Equal(t, "corr-1", entry["correlation_id"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, map[string]interface{}{"status": float64(500)}, entry["metadata"])
}

func TestApplicationLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewApplicationLoggerWithWriter(Config{Level: "WARN", Format: "json"}, &buf)
	require.NoError(t, err)

	ctx := context.Background()
	logger.Debug(ctx, "debug", nil)
	logger.Info(ctx, "info", nil)
	logger.Warn(ctx, "warn", nil)
	logger.Error(ctx, "error", nil)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "warn", entries[0]["msg"])
	assert.Equal(t, "error", entries[1]["msg"])
}

func TestApplicationLogger_CorrelationIDFallsBackToRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewApplicationLoggerWithWriter(Config{Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Info(WithRequestID(context.Background(), "req-42"), "handled", nil)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "req-42", entries[0]["correlation_id"])
	assert.Equal(t, "default", entries[0]["component"])
}

func TestApplicationLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewApplicationLoggerWithWriter(Config{Format: "text"}, &buf)
	require.NoError(t, err)

	logger.Info(context.Background(), "server started", Fields{"port": 8080})

	assert.Contains(t, buf.String(), "server started")
	assert.Contains(t, buf.String(), "8080")
}
