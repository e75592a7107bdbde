package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 800, cfg.Display.Width)
	assert.Equal(t, 600, cfg.Display.Height)
	assert.Equal(t, 60, cfg.Display.Framerate)
	assert.Equal(t, 200.0, cfg.Gameplay.PlayerSpeed)
	assert.Equal(t, 400.0, cfg.Gameplay.BulletSpeed)
	assert.Equal(t, 5, cfg.Gameplay.MaxHealth)
	assert.Equal(t, "recordings", cfg.Recording.Dir)
	assert.Equal(t, 1024, cfg.Recording.QueueCapacity)
	assert.Equal(t, 1.0, cfg.Recording.KeyframeInterval)
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	data := []byte("display:\n  width: 320\n  height: 240\ngameplay:\n  player_speed: 150\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "game.yaml"), data, 0o644))

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, 320, cfg.Display.Width)
	assert.Equal(t, 240, cfg.Display.Height)
	assert.Equal(t, 150.0, cfg.Gameplay.PlayerSpeed)

	// Values absent from the file keep their defaults.
	assert.Equal(t, 60, cfg.Display.Framerate)
	assert.Equal(t, 400.0, cfg.Gameplay.BulletSpeed)
}

func TestLoader_LoadMissingFile(t *testing.T) {
	_, err := NewLoader(t.TempDir()).Load()
	assert.Error(t, err)
}

func TestLoader_LoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "game.yaml"), []byte("display: [not a map"), 0o644))

	_, err := NewLoader(dir).Load()
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	// Empty base path and missing file both fall back to the defaults.
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Display.Width)

	cfg, err = LoadOrDefault(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Display.Width)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "game.yaml"), []byte("display:\n  width: 1024\n"), 0o644))

	cfg, err = LoadOrDefault(dir)
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Display.Width)
}
