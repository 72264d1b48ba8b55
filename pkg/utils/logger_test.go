package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	t.Run("writes json to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "bundler.log")

		logger, err := NewLogger(LoggerConfig{Level: "info", OutputPath: path, Format: "json"})
		require.NoError(t, err)
		logger.Info("hello")
		logger.Debug("hidden")
		require.NoError(t, logger.Sync())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"hello"`)
		assert.Contains(t, string(data), `"timestamp"`)
		assert.NotContains(t, string(data), "hidden")
	})

	t.Run("verbose forces debug", func(t *testing.T) {
		logger, err := NewLogger(LoggerConfig{Level: "error", OutputPath: "stderr", Format: "console", Verbose: true})
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		assert.Equal(t, zapcore.InfoLevel, parseLevel("loud"))
		assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	})
}

func TestNewCLILogger(t *testing.T) {
	quiet, err := NewCLILogger(false)
	require.NoError(t, err)
	assert.False(t, quiet.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, quiet.Core().Enabled(zapcore.WarnLevel))

	verbose, err := NewCLILogger(true)
	require.NoError(t, err)
	assert.True(t, verbose.Core().Enabled(zapcore.DebugLevel))
}
