package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".grind"), cfg.DataDir)
	assert.Equal(t, filepath.Join(home, ".grind", "grind.db"), cfg.DBPath())
	assert.Equal(t, filepath.Join(home, ".grind", "grind.log"), cfg.LogPath())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.Notifications)
	assert.True(t, cfg.Sound)
	assert.Equal(t, ".", cfg.ExportDir)
	assert.Equal(t, DefaultPlannedMinutes, cfg.DefaultPlannedMinutes)
}

func TestLoadFileAndEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GRIND_LOG_LEVEL", "debug")

	path := filepath.Join(home, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir: ~/focus
db_file: /var/lib/grind/state.db
sound: false
default_planned_minutes: 50
log_level: warn
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "focus"), cfg.DataDir)
	assert.Equal(t, "/var/lib/grind/state.db", cfg.DBPath())
	assert.Equal(t, filepath.Join(home, "focus", "grind.log"), cfg.LogPath())
	assert.False(t, cfg.Sound)
	assert.True(t, cfg.Notifications)
	assert.Equal(t, 50, cfg.DefaultPlannedMinutes)
	// environment wins over the file
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sound: [nope"), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parse config")
}
