package logging

import (
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func resetLoggerForTest() {
	initOnce = sync.Once{}
	logger = nil
	exitFunc = os.Exit
}

// useObserver installs an in-memory logger and marks initialization done.
func useObserver(level zapcore.Level) *observer.ObservedLogs {
	core, logs := observer.New(level)
	logger = zap.New(core)
	initOnce = sync.Once{}
	initOnce.Do(func() {})
	return logs
}

func TestParseLevelMappings(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARNING"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("unknown"))
}

func TestLoggerSingleton(t *testing.T) {
	resetLoggerForTest()
	first := L()
	second := L()
	assert.Same(t, first, second)
}

func TestLevelFromEnvironment(t *testing.T) {
	resetLoggerForTest()
	t.Setenv("ECODASH_LOG_LEVEL", "error")
	t.Setenv("ECODASH_LOG_FORMAT", "json")

	l := L()
	assert.False(t, l.Core().Enabled(zapcore.WarnLevel))
	assert.True(t, l.Core().Enabled(zapcore.ErrorLevel))
	resetLoggerForTest()
}

func TestWithAddsFields(t *testing.T) {
	resetLoggerForTest()
	logs := useObserver(zapcore.InfoLevel)

	With(zap.String("component", "store")).Info("hello")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "hello", entries[0].Message)
	assert.Equal(t, "store", entries[0].ContextMap()["component"])
	resetLoggerForTest()
}

func TestFatalInvokesExitFunction(t *testing.T) {
	resetLoggerForTest()
	logs := useObserver(zapcore.DebugLevel)

	var exitCode int
	exitFunc = func(code int) {
		exitCode = code
	}

	Fatal("boom", zap.String("key", "value"))

	require.Equal(t, 1, exitCode)
	require.Equal(t, 1, logs.FilterMessage("boom").Len())
	resetLoggerForTest()
}
