package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	appctx "shortid/internal/core/context"
)

func TestWithContextAddsTraceAndClient(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := &Logger{zap.New(core).Sugar()}

	ctx := appctx.WithTrace(context.Background(), &appctx.TraceContext{TraceID: "t-1", RequestID: "r-1"})
	ctx = appctx.WithClient(ctx, &appctx.ClientContext{Subject: "billing"})
	ctx = WithLogger(ctx, l)

	Info(ctx, "issued", "count", 3)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "t-1", fields["trace_id"])
	assert.Equal(t, "r-1", fields["request_id"])
	assert.Equal(t, "billing", fields["client"])
	assert.Equal(t, int64(3), fields["count"])
}

func TestNewParsesLevel(t *testing.T) {
	l, err := New(Config{Level: "warn", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)
	assert.False(t, l.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Desugar().Core().Enabled(zapcore.WarnLevel))

	l, err = New(Config{Level: "bogus"})
	require.NoError(t, err)
	assert.True(t, l.Desugar().Core().Enabled(zapcore.InfoLevel))
}

func TestComponent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := (&Logger{zap.New(core).Sugar()}).WithComponent("generator")
	l.Debugw("worker allocated", "worker_id", 1)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "generator", logs.All()[0].ContextMap()["component"])
}

func TestZapConfigAttachesService(t *testing.T) {
	zc := Config{Service: "shortid"}.zapConfig()
	assert.Equal(t, map[string]any{"service": "shortid"}, zc.InitialFields)
	assert.Equal(t, "ts", zc.EncoderConfig.TimeKey)

	assert.Nil(t, Config{Development: true}.zapConfig().InitialFields)
}

func TestWithContextWithoutFieldsKeepsLogger(t *testing.T) {
	l := Nop()
	assert.Same(t, l, l.WithContext(context.Background()))
}
