package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(t *testing.T) (*ZapLogger, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return NewZapLogger(zap.New(core)), logs
}

func TestZapLogger_Levels(t *testing.T) {
	log, logs := newObservedLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)

	wantLevels := []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	wantMsgs := []string{"dbg", "inf", "wrn", "err"}
	for i, e := range entries {
		assert.Equal(t, wantLevels[i], e.Level)
		assert.Equal(t, wantMsgs[i], e.Message)
	}
	assert.EqualValues(t, 1, entries[0].ContextMap()["a"])
}

func TestZapLogger_WithAndTraceID(t *testing.T) {
	log, logs := newObservedLogger(t)

	ctx := WithTraceID(context.Background(), "trace-1")
	log.With("component", "rest").Info(ctx, "hello", "k", "v")

	entries := logs.FilterMessage("hello").AllUntimed()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, "rest", fields["component"])
	assert.Equal(t, "v", fields["k"])
	assert.Equal(t, "trace-1", fields[TraceIDKey])
}

func TestNew_SelectsBackendAndLevel(t *testing.T) {
	ctx := context.Background()

	t.Run("slog", func(t *testing.T) {
		var buf bytes.Buffer
		log := New("slog", "warn", &buf)
		assert.IsType(t, &SlogLogger{}, log)

		log.Info(ctx, "hidden")
		log.Warn(ctx, "shown")

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "shown")
	})

	t.Run("zap", func(t *testing.T) {
		var buf bytes.Buffer
		log := New("zap", "debug", &buf)
		assert.IsType(t, &ZapLogger{}, log)

		log.Debug(ctx, "shown", "n", 1)

		line := strings.TrimSpace(buf.String())
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		assert.Equal(t, "shown", rec["msg"])
		assert.Equal(t, "debug", rec["level"])
	})
}

func TestTraceIDFromContext(t *testing.T) {
	_, ok := TraceIDFromContext(context.Background())
	assert.False(t, ok)

	id, ok := TraceIDFromContext(WithTraceID(context.Background(), "x"))
	assert.True(t, ok)
	assert.Equal(t, "x", id)
}
