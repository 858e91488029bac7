package zaplog

import (
	"testing"

	"github.com/Swind/go-pool-future/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_ForwardsLevelsAndFields(t *testing.T) {
	zcore, logs := observer.New(zap.DebugLevel)
	logger := New(zap.New(zcore))

	logger.Debug("debug msg", core.F("k", "v"))
	logger.Info("info msg")
	logger.Warn("warn msg", core.F("pool", "pool-a"), core.F("depth", 3))
	logger.Error("error msg")

	entries := logs.All()
	require.Len(t, entries, 4)

	assert.Equal(t, zap.DebugLevel, entries[0].Level)
	assert.Equal(t, "debug msg", entries[0].Message)
	require.Len(t, entries[0].Context, 1)
	assert.Equal(t, "k", entries[0].Context[0].Key)

	assert.Equal(t, zap.InfoLevel, entries[1].Level)
	assert.Empty(t, entries[1].Context)

	assert.Equal(t, zap.WarnLevel, entries[2].Level)
	require.Len(t, entries[2].Context, 2)
	assert.Equal(t, "pool", entries[2].Context[0].Key)

	assert.Equal(t, zap.ErrorLevel, entries[3].Level)
}

func TestNew_NilFallsBackToNop(t *testing.T) {
	logger := New(nil)
	require.NotNil(t, logger)

	// Must not panic
	logger.Info("into the void")
}

func TestLogger_SatisfiesCoreLogger(t *testing.T) {
	var _ core.Logger = New(zap.NewNop())
}
