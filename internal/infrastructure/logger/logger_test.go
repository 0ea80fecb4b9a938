package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{
			name: "console to stdout",
			cfg:  Config{Level: "debug", Format: "console", Output: "stdout", TimeFormat: "2006-01-02T15:04:05Z07:00"},
		},
		{
			name: "json to stderr",
			cfg:  Config{Level: "info", Format: "json", Output: "stderr", TimeFormat: "2006-01-02T15:04:05Z07:00"},
		},
		{
			name: "empty output defaults to stdout",
			cfg:  Config{Level: "warn", Format: "json", TimeFormat: "2006-01-02T15:04:05Z07:00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(&tt.cfg)
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settlement.log")

	log, err := New(&Config{Level: "info", Format: "json", Output: path, TimeFormat: "2006-01-02"})
	require.NoError(t, err)

	log.Info("cycle disbursed")
	require.NoError(t, Sync(log))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(content), "cycle disbursed"))
}

func TestNew_UnwritableFileOutput(t *testing.T) {
	_, err := New(&Config{Level: "info", Format: "json", Output: "/nonexistent/dir/app.log", TimeFormat: "2006-01-02"})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"unknown", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.level))
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filtered.log")

	log, err := New(&Config{Level: "warn", Format: "json", Output: path, TimeFormat: "2006-01-02"})
	require.NoError(t, err)

	log.Info("below threshold")
	log.Warn("at threshold")
	require.NoError(t, Sync(log))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(content), "below threshold"))
	assert.True(t, strings.Contains(string(content), "at threshold"))
}
