package app

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigBindDefaults(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	require.NoError(t, cfg.Parse(fs, []string{"-scene", "rain", "-w", "64", "-watch"}))
	assert.Equal(t, "rain", cfg.Scene)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 150, cfg.Height)
	assert.True(t, cfg.Watch)
	assert.Equal(t, map[string]string{"w": "64", "h": "150", "seed": "42"}, cfg.SceneConfig())
}

func TestConfigFileThenFlags(t *testing.T) {
	file := filepath.Join(t.TempDir(), "sandbox.yaml")
	require.NoError(t, os.WriteFile(file, []byte("scene: hourglass\nwidth: 80\nheight: 60\nrules: ./rules\nlog_level: debug\n"), 0o644))

	cfg := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	require.NoError(t, cfg.Parse(fs, []string{"-config", file, "-h", "40"}))
	assert.Equal(t, "hourglass", cfg.Scene)
	assert.Equal(t, 80, cfg.Width)
	assert.Equal(t, 40, cfg.Height, "explicit flags win over the file")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, file, cfg.File)
	assert.Equal(t, "./rules", cfg.SceneConfig()["rules"])
}

func TestConfigFileErrors(t *testing.T) {
	cfg := NewConfig()
	assert.Error(t, cfg.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("width: [1"), 0o644))
	assert.Error(t, cfg.LoadFile(bad))
}

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseLevel("loud")
	assert.EqualError(t, err, "invalid log level: loud")

	_, err = NewLogger(io.Discard, "loud")
	assert.Error(t, err)
	log, err := NewLogger(io.Discard, "warn")
	require.NoError(t, err)
	assert.False(t, log.Enabled(context.Background(), slog.LevelInfo))
}
