package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInit_Production(t *testing.T) {
	require.NoError(t, Init("production"))
	t.Cleanup(func() { Logger = nil })

	assert.False(t, Logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, Logger.Core().Enabled(zapcore.InfoLevel))
}

func TestInit_ProdAlias(t *testing.T) {
	require.NoError(t, Init("prod"))
	t.Cleanup(func() { Logger = nil })

	assert.False(t, Logger.Core().Enabled(zapcore.DebugLevel))
}

func TestInit_DefaultsToDevelopment(t *testing.T) {
	require.NoError(t, Init(""))
	t.Cleanup(func() { Logger = nil })

	assert.True(t, Logger.Core().Enabled(zapcore.DebugLevel))
}

func TestGet_FallbackWithoutInit(t *testing.T) {
	Logger = nil

	assert.NotNil(t, Get())
}
