package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"nonsense", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "level %q", tt.in)
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bot.log")

	cfg := DefaultConfig()
	cfg.Output = OutputFile
	cfg.FilePath = path
	cfg.Level = "debug"

	log, err := New(cfg)
	require.NoError(t, err)

	log.Debug("routed update", zap.String("route", "start"))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"routed update"`)
	assert.Contains(t, string(data), `"route":"start"`)
}

func TestNew_LevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.log")

	cfg := DefaultConfig()
	cfg.Output = OutputFile
	cfg.FilePath = path
	cfg.Level = "warn"

	log, err := New(cfg)
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("visible")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "visible")
}

func TestNew_Console(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Format = "console"

	log, err := New(cfg)
	require.NoError(t, err)
	assert.NotNil(t, log)
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}
