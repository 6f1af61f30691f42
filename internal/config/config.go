// Package config implements the JSON-backed configuration file the
// CLI loads via -config, trimmed to the settings corenes actually
// exposes: window scale, frame pacing, input bindings, and paths.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the root configuration document.
type Config struct {
	Window    WindowConfig    `json:"window"`
	Emulation EmulationConfig `json:"emulation"`
	Input     InputConfig     `json:"input"`
	Audio     AudioConfig     `json:"audio"`
	Paths     PathsConfig     `json:"paths"`

	path string
}

// WindowConfig controls the ebiten presenter window.
type WindowConfig struct {
	Scale      int  `json:"scale"` // NES resolution multiplier
	Fullscreen bool `json:"fullscreen"`
	VSync      bool `json:"vsync"`
}

// EmulationConfig controls frame pacing and tracing.
type EmulationConfig struct {
	Pacing     string `json:"pacing"` // "audio" or "video"
	CPUTracing bool   `json:"cpu_tracing"`
}

// KeyMapping maps one controller port to keyboard keys, named the way
// ebiten's key constants are named (e.g. "ArrowUp", "KeyJ").
type KeyMapping struct {
	Up     string `json:"up"`
	Down   string `json:"down"`
	Left   string `json:"left"`
	Right  string `json:"right"`
	A      string `json:"a"`
	B      string `json:"b"`
	Start  string `json:"start"`
	Select string `json:"select"`
}

// InputConfig holds both controller ports' key bindings.
type InputConfig struct {
	Port1 KeyMapping `json:"port1"`
	Port2 KeyMapping `json:"port2"`
}

// AudioConfig controls the optional portaudio sink.
type AudioConfig struct {
	Backend    string `json:"backend"` // "none" or "portaudio"
	SampleRate int    `json:"sample_rate"`
}

// PathsConfig holds filesystem locations the CLI reads or writes.
type PathsConfig struct {
	ROMs string `json:"roms"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Scale:      2,
			Fullscreen: false,
			VSync:      true,
		},
		Emulation: EmulationConfig{
			Pacing:     "audio",
			CPUTracing: false,
		},
		Input: InputConfig{
			Port1: KeyMapping{
				Up: "ArrowUp", Down: "ArrowDown", Left: "ArrowLeft", Right: "ArrowRight",
				A: "KeyX", B: "KeyZ", Start: "Enter", Select: "ShiftRight",
			},
			Port2: KeyMapping{
				Up: "KeyW", Down: "KeyS", Left: "KeyA", Right: "KeyD",
				A: "KeyK", B: "KeyJ", Start: "KeyP", Select: "KeyO",
			},
		},
		Audio: AudioConfig{
			Backend:    "none",
			SampleRate: 44100,
		},
		Paths: PathsConfig{
			ROMs: "./roms",
		},
	}
}

// Load reads path, falling back to and persisting the default
// configuration when the file does not yet exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.path = path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, cfg.Save()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %q: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %q: %w", path, err)
	}

	cfg.validate()
	return cfg, nil
}

// Save writes the configuration back to its originating path.
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("config: creating directory for %q: %w", c.path, err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: marshaling: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("config: writing %q: %w", c.path, err)
	}
	return nil
}

// validate clamps fields a hand-edited config file could have left
// out-of-range back to sane defaults.
func (c *Config) validate() {
	if c.Window.Scale <= 0 {
		c.Window.Scale = 2
	}
	if c.Emulation.Pacing != "video" {
		c.Emulation.Pacing = "audio"
	}
	if c.Audio.SampleRate <= 0 {
		c.Audio.SampleRate = 44100
	}
	if c.Audio.Backend != "portaudio" {
		c.Audio.Backend = "none"
	}
}

// WindowResolution returns the presenter window size for the
// configured scale, given the NES's native 256x240 framebuffer.
func (c *Config) WindowResolution() (int, int) {
	return 256 * c.Window.Scale, 240 * c.Window.Scale
}
