package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corenes.json")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Window.Scale)
	assert.FileExists(t, path)
}

func TestLoadRoundTripsSavedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corenes.json")
	cfg, err := Load(path)
	require.NoError(t, err)
	cfg.Window.Scale = 4
	cfg.Emulation.Pacing = "video"
	require.NoError(t, cfg.Save())

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, reloaded.Window.Scale)
	assert.Equal(t, "video", reloaded.Emulation.Pacing)
}

func TestValidateClampsOutOfRangeFields(t *testing.T) {
	cfg := Default()
	cfg.Window.Scale = 0
	cfg.Emulation.Pacing = "bogus"
	cfg.Audio.SampleRate = -1
	cfg.Audio.Backend = "bogus"
	cfg.validate()

	assert.Equal(t, 2, cfg.Window.Scale)
	assert.Equal(t, "audio", cfg.Emulation.Pacing)
	assert.Equal(t, 44100, cfg.Audio.SampleRate)
	assert.Equal(t, "none", cfg.Audio.Backend)
}

func TestWindowResolutionScalesNativeFramebuffer(t *testing.T) {
	cfg := Default()
	cfg.Window.Scale = 3
	w, h := cfg.WindowResolution()
	assert.Equal(t, 768, w)
	assert.Equal(t, 720, h)
}
