package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture swaps the package logger for one writing JSON into a buffer.
func capture(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	prev := log
	t.Cleanup(func() { log = prev })

	var buf bytes.Buffer
	log = New(NewJSONHandler(&buf, &slog.HandlerOptions{Level: level}))
	return &buf
}

func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec), line)
		out = append(out, rec)
	}
	return out
}

func TestInitWithLevel(t *testing.T) {
	prev := log
	t.Cleanup(func() { log = prev })

	InitWithLevel("error")
	assert.False(t, log.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, log.Enabled(context.Background(), slog.LevelError))

	Init()
	assert.True(t, log.Enabled(context.Background(), slog.LevelInfo))
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name    string
		min     slog.Level
		write   func()
		level   string
		message string
	}{
		{"Info", slog.LevelInfo, func() { Info("class booked", "class_id", 7) }, "INFO", "class booked"},
		{"Infof", slog.LevelInfo, func() { Infof("server on port %s", "8080") }, "INFO", "server on port 8080"},
		{"Warn", slog.LevelInfo, func() { Warn("redis unavailable") }, "WARN", "redis unavailable"},
		{"Error", slog.LevelInfo, func() { Error("refund failed", "user_id", 3) }, "ERROR", "refund failed"},
		{"Errorf", slog.LevelInfo, func() { Errorf("shutdown: %v", "timeout") }, "ERROR", "shutdown: timeout"},
		{"Debug", slog.LevelDebug, func() { Debug("sending email") }, "DEBUG", "sending email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, tt.min)
			tt.write()

			recs := records(t, buf)
			require.Len(t, recs, 1)
			assert.Equal(t, tt.level, recs[0]["level"])
			assert.Equal(t, tt.message, recs[0]["msg"])
		})
	}
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	buf := capture(t, slog.LevelInfo)

	Debug("hidden")

	assert.Empty(t, buf.String())
}

func TestAttributes(t *testing.T) {
	buf := capture(t, slog.LevelInfo)

	Info("class booked", "class_id", 7, "user_id", 3)
	With("request_id", "abc").Warn("slow request")

	recs := records(t, buf)
	require.Len(t, recs, 2)
	assert.EqualValues(t, 7, recs[0]["class_id"])
	assert.EqualValues(t, 3, recs[0]["user_id"])
	assert.Equal(t, "abc", recs[1]["request_id"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}
