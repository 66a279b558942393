package telemetry

import (
	"context"
	"testing"

	"github.com/docfiling/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerProvider_DisabledLeavesLoggerAlone(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), LogsConfig{}, nil)
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())

	log := zap.NewNop()
	assert.Same(t, log, lp.Attach(log, zapcore.InfoLevel))
	assert.NoError(t, lp.Shutdown(context.Background()))
}

func TestLogsConfigFrom(t *testing.T) {
	base := config.TelemetryConfig{Enabled: true, LogsEnabled: true, ServiceName: "docfiling"}
	assert.True(t, LogsConfigFrom(base).Enabled)

	base.Enabled = false
	assert.False(t, LogsConfigFrom(base).Enabled, "log export follows the telemetry master switch")
}

func TestLevelFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	core := &levelFilterCore{Core: inner, minLevel: zapcore.WarnLevel}
	log := zap.New(core).With(zap.String("folder", "42"))

	log.Info("dropped")
	log.Warn("kept")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "kept", entry.Message)
	assert.Equal(t, "42", entry.ContextMap()["folder"])
}
