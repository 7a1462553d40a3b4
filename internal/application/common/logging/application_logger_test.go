package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestApplicationLogger_CreateStructuredLogger tests creation of structured logger.
func TestApplicationLogger_CreateStructuredLogger(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "create logger with JSON format",
			config: Config{Level: "INFO", Format: "json", Output: "stdout"},
		},
		{
			name:   "create logger with text format",
			config: Config{Level: "debug", Format: "text", Output: "stderr"},
		},
		{
			name:    "create logger with invalid level",
			config:  Config{Level: "INVALID", Format: "json", Output: "stdout"},
			wantErr: true,
		},
		{
			name:    "create logger with invalid format",
			config:  Config{Level: "INFO", Format: "xml", Output: "stdout"},
			wantErr: true,
		},
		{
			name:    "create logger with invalid output",
			config:  Config{Level: "INFO", Format: "json", Output: "file"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewApplicationLogger(tt.config)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, logger)
				return
			}

			require.NoError(t, err)
			assert.Implements(t, (*ApplicationLogger)(nil), logger)
		})
	}
}

// TestApplicationLogger_LogLevels tests different log levels.
func TestApplicationLogger_LogLevels(t *testing.T) {
	logger, err := NewApplicationLogger(Config{Level: "WARN", Format: "json", Output: "buffer"})
	require.NoError(t, err)

	ctx := WithCorrelationID(context.Background(), "corr-1")

	logger.Info(ctx, "dropped", nil)
	assert.Empty(t, getLoggerOutput(logger))

	logger.Warn(ctx, "kept", Fields{"field_id": "txt2img_prompt"})

	var entry LogEntry
	require.NoError(t, json.Unmarshal([]byte(getLoggerOutput(logger)), &entry))
	assert.Equal(t, "WARN", entry.Level)
	assert.Equal(t, "kept", entry.Message)
	assert.Equal(t, "corr-1", entry.CorrelationID)
	assert.Equal(t, "default", entry.Component)
	assert.Equal(t, "txt2img_prompt", entry.Metadata["field_id"])
}

func TestApplicationLogger_ErrorWithErrorAndComponent(t *testing.T) {
	logger, err := NewApplicationLogger(Config{Level: "DEBUG", Format: "json", Output: "buffer"})
	require.NoError(t, err)

	scoped := logger.WithComponent("scanner")
	scoped.ErrorWithError(context.Background(), errors.New("boom"), "scan failed", nil)

	var entry LogEntry
	require.NoError(t, json.Unmarshal([]byte(getLoggerOutput(logger)), &entry))
	assert.Equal(t, "scanner", entry.Component)
	assert.Equal(t, "boom", entry.Error)
	assert.NotEmpty(t, entry.CorrelationID, "a correlation id is generated when absent")
}

func TestApplicationLogger_LogPerformance(t *testing.T) {
	logger, err := NewApplicationLogger(Config{Level: "INFO", Format: "json", Output: "buffer"})
	require.NoError(t, err)

	fields := Fields{"messages": 2}
	logger.LogPerformance(context.Background(), "scan", 1500*time.Microsecond, fields)

	var entry LogEntry
	require.NoError(t, json.Unmarshal([]byte(getLoggerOutput(logger)), &entry))
	assert.Equal(t, "scan", entry.Operation)
	assert.Equal(t, "1.5ms", entry.Duration)
	assert.NotContains(t, fields, "operation", "caller fields must not be mutated")
}

func TestApplicationLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewApplicationLoggerWithWriter(Config{Level: "INFO", Format: "text"}, &buf)
	require.NoError(t, err)

	logger.WithComponent("api").Info(context.Background(), "listening", nil)

	line := strings.TrimSpace(buf.String())
	assert.Contains(t, line, "INFO api: listening")
}

func TestEnsureCorrelationID(t *testing.T) {
	ctx, id := EnsureCorrelationID(context.Background())
	require.NotEmpty(t, id)
	assert.Equal(t, id, GetCorrelationID(ctx))

	same, again := EnsureCorrelationID(ctx)
	assert.Equal(t, id, again)
	assert.Equal(t, ctx, same)
}

func TestNewNopLogger(t *testing.T) {
	logger := NewNopLogger()
	assert.NotPanics(t, func() {
		logger.Error(context.Background(), "ignored", Fields{"k": "v"})
	})
}
