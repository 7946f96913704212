package app

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_DerivesPaths(t *testing.T) {
	cfg, err := NewConfig(Config{DataDir: "/srv/echo"})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/srv/echo", "templates", "messenger.go.tmpl"), cfg.TemplatePath)
	assert.Equal(t, filepath.Join("/srv/echo", "extensions"), cfg.ExtensionDir)
	assert.Equal(t, filepath.Join("/srv/echo", "build"), cfg.BuildDir)
	assert.Equal(t, ".", cfg.ModuleDir)
	assert.Equal(t, "go", cfg.GoBinary)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestNewConfig_KeepsExplicitPaths(t *testing.T) {
	cfg, err := NewConfig(Config{DataDir: "/srv/echo", TemplatePath: "/tmp/t.tmpl"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/t.tmpl", cfg.TemplatePath)
}

func TestNewConfig_Rejects(t *testing.T) {
	testCases := []struct {
		name string
		cfg  Config
	}{
		{"missing data dir", Config{}},
		{"bad level", Config{DataDir: "d", LogLevel: "trace"}},
		{"bad format", Config{DataDir: "d", LogFormat: "yaml"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewConfig(tc.cfg)
			require.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("info", "json", &buf)

	logger.Debug("hidden")
	logger.Info("shown", "id", "M1")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"id":"M1"`)
	assert.True(t, newLogger("", "text", &buf).Enabled(context.Background(), slog.LevelWarn))
	assert.False(t, newLogger("", "text", &buf).Enabled(context.Background(), slog.LevelInfo))
}
