package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "/Gallery", cfg.Folder)
	assert.Equal(t, 6, cfg.InitialDisplay)
	assert.Equal(t, 10*time.Second, cfg.RotationInterval)
	assert.Equal(t, 1000.0, cfg.LoadThreshold)
	assert.Equal(t, 6, cfg.LoadBatch)
	assert.Equal(t, ":8888", cfg.Addr)
	assert.Empty(t, cfg.Dir)
	assert.Equal(t, 10*time.Minute, cfg.ViewTTL)
	assert.Equal(t, 1000, cfg.MaxViews)
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("GALLERY_FOLDER", "/photos")
	t.Setenv("GALLERY_INITIAL_DISPLAY", "4")
	t.Setenv("GALLERY_ROTATION_INTERVAL", "2s")
	t.Setenv("GALLERY_LOAD_BATCH", "3")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "/photos", cfg.Folder)
	assert.Equal(t, 4, cfg.InitialDisplay)
	assert.Equal(t, 2*time.Second, cfg.RotationInterval)
	assert.Equal(t, 3, cfg.LoadBatch)
}

func TestParseRejectsInvalid(t *testing.T) {
	t.Setenv("GALLERY_INITIAL_DISPLAY", "0")
	_, err := Parse()
	assert.Error(t, err)

	t.Setenv("GALLERY_INITIAL_DISPLAY", "not-a-number")
	_, err = Parse()
	assert.Error(t, err)
}

func TestParseViewLimits(t *testing.T) {
	t.Setenv("GALLERY_VIEW_TTL", "0s")
	t.Setenv("GALLERY_MAX_VIEWS", "0")
	cfg, err := Parse()
	require.NoError(t, err, "zero disables expiry and the cap")
	assert.Zero(t, cfg.ViewTTL)
	assert.Zero(t, cfg.MaxViews)

	t.Setenv("GALLERY_MAX_VIEWS", "-1")
	_, err = Parse()
	assert.Error(t, err)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GALLERY_LOAD_THRESHOLD=250\n"), 0644))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		os.Chdir(wd)
		os.Unsetenv("GALLERY_LOAD_THRESHOLD")
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 250.0, cfg.LoadThreshold)
}
