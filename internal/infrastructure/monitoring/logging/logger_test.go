package logging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_DefaultsToInfoJSON(t *testing.T) {
	logger, err := NewLogger(LogConfig{})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNewLogger_InvalidOutputPath(t *testing.T) {
	_, err := NewLogger(LogConfig{OutputPaths: []string{"/nonexistent-dir/sub/log"}})
	assert.Error(t, err)
}

func TestLogger_EmitsStructuredFields(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	logger := NewLoggerFromCore(core)

	logger.Info("window fetched",
		String("range", "1-10"),
		Int("documents", 10),
		Duration("elapsed", 2*time.Second),
	)

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "window fetched", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "1-10", fields["range"])
	assert.EqualValues(t, 10, fields["documents"])
}

func TestLogger_WithCarriesFieldsToChildren(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	logger := NewLoggerFromCore(core).With(String("doc", "EP1234567A1"))

	logger.Warn("biblio fetch failed")

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "EP1234567A1", entries[0].ContextMap()["doc"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestErr_NilError(t *testing.T) {
	f := Err(nil)
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "<nil>", f.Value)
}

func TestNopLogger_DiscardsEverything(t *testing.T) {
	logger := NewNopLogger()
	assert.NotPanics(t, func() {
		logger.Info("ignored")
		logger.With(String("k", "v")).Named("child").Error("ignored")
	})
}
