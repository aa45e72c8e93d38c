package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContextAddsCorrelationID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core))

	ctx := WithCorrelationID(context.Background(), "abc-123")
	log.DebugFCtx(ctx, "transport call %s", "GET")
	log.WithContext(ctx).DebugW("authenticated", "grant", "password")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "transport call GET", entries[0].Message)
	assert.Equal(t, "abc-123", entries[0].ContextMap()["correlation_id"])
	assert.Equal(t, "abc-123", entries[1].ContextMap()["correlation_id"])
	assert.Equal(t, "password", entries[1].ContextMap()["grant"])
}

func TestRegisterContextKey(t *testing.T) {
	type key struct{}
	RegisterContextKey(key{}, "dataset")
	defer UnregisterContextKey(key{})

	core, logs := observer.New(zapcore.InfoLevel)
	log := FromZap(zap.New(core))

	log.InfoFCtx(context.WithValue(context.Background(), key{}, "42"), "statistics")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "42", logs.All()[0].ContextMap()["dataset"])
}

func TestCorrelationIDMissing(t *testing.T) {
	assert.Empty(t, CorrelationID(context.Background()))
	assert.Equal(t, "x", CorrelationID(WithCorrelationID(context.Background(), "x")))
}

func TestNewLoggerLevels(t *testing.T) {
	log, err := NewLogger(LoggerOptions{Level: "not-a-level", Encoding: "json"})
	require.NoError(t, err)
	assert.NoError(t, log.SetLogLevel("debug"))
	assert.Error(t, log.SetLogLevel("loud"))

	assert.NotPanics(t, func() {
		nop := NewNop()
		nop.InfoF("ignored %d", 1)
		nop.With("k", "v").ErrorW("ignored")
	})
}
