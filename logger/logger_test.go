package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range cases {
		l, err := New(in, "json", "healthtrack")
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(want), in)
		if want > zapcore.DebugLevel {
			assert.False(t, l.Core().Enabled(want-1), in)
		}
	}
}

func TestNewConsole(t *testing.T) {
	l, err := New("debug", "console", "")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := New("info", "json", "healthtrack", WithFile(FileOptions{Path: path, MaxSizeMB: 1}))
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("written to file")
	_ = l.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "written to file")
	assert.Contains(t, string(b), `"service":"healthtrack"`)
	assert.NotContains(t, string(b), "hidden")
}

func TestWithFileEmptyPath(t *testing.T) {
	l, err := New("info", "json", "", WithFile(FileOptions{}))
	require.NoError(t, err)
	assert.NotNil(t, l)
}
