package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	Debug("hidden")
	Info("shown", zap.String("subgrid", "AU_12_C"))
	Warn("warned")
	Error("failed")

	require.Equal(t, 3, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "shown", entry.Message)
	assert.Equal(t, "AU_12_C", entry.ContextMap()["subgrid"])
}

func TestInitBadLevel(t *testing.T) {
	assert.Error(t, Init("loud", false))
}

func TestInit(t *testing.T) {
	defer SetLogger(nil)
	require.NoError(t, Init("warn", true))
	assert.False(t, L().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, L().Core().Enabled(zapcore.WarnLevel))
}
