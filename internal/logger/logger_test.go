package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(level zapcore.Level) (*ZapLogger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return &ZapLogger{logger: zap.New(core).Sugar()}, logs
}

func TestZapLogger_Fields(t *testing.T) {
	log, logs := newObserved(zapcore.DebugLevel)

	log.With("flight", "SA100").Info("seat allocated", "seat", 4)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "seat allocated", entry.Message)
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
	assert.Equal(t, map[string]interface{}{"flight": "SA100", "seat": int64(4)}, entry.ContextMap())
}

func TestZapLogger_Levels(t *testing.T) {
	log, logs := newObserved(zapcore.WarnLevel)

	log.Debug("skipped")
	log.Info("skipped")
	log.Warn("kept")
	log.Error("kept")

	assert.Equal(t, 2, logs.Len())
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestNewLogger_UnknownLevel(t *testing.T) {
	log := NewLogger("chatty")
	require.NotNil(t, log)
	assert.True(t, log.logger.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.logger.Desugar().Core().Enabled(zapcore.DebugLevel))
}
