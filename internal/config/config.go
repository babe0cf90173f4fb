// Package config provides YAML-based configuration loading for the game,
// the renderer, audio cues, key bindings, history storage and the SSH server.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-invaders/internal/render"
)

// Config is the complete invaders configuration.
type Config struct {
	Loop        LoopConfig       `yaml:"loop"`
	Render      RenderConfig     `yaml:"render"`
	Audio       AudioConfig      `yaml:"audio"`
	Input       InputConfig      `yaml:"input"`
	Log         LogConfig        `yaml:"log"`
	Storage     StorageConfig    `yaml:"storage"`
	Screenshots ScreenshotConfig `yaml:"screenshots"`
	Serve       ServeConfig      `yaml:"serve"`
}

// LoopConfig controls the game loop.
type LoopConfig struct {
	Tick time.Duration `yaml:"tick"` // sleep between game loop iterations
}

// RenderConfig controls terminal output.
type RenderConfig struct {
	ClearBackground string `yaml:"clear_background"` // colour used for forced repaints
	ResetBackground string `yaml:"reset_background"`
	BufferSize      int    `yaml:"buffer_size"`
}

// AudioConfig controls sound cues.
type AudioConfig struct {
	Enabled    bool                  `yaml:"enabled"`
	SampleRate int                   `yaml:"sample_rate"`
	Volume     float64               `yaml:"volume"` // 0.0 - 1.0
	AssetsDir  string                `yaml:"assets_dir"`
	Cues       map[string]ToneConfig `yaml:"cues"`
}

// ToneConfig describes the synthesized fallback for one cue.
type ToneConfig struct {
	Freq     float64       `yaml:"freq"`
	Duration time.Duration `yaml:"duration"`
}

// InputConfig lists the key names bound to each action.
type InputConfig struct {
	Left       []string `yaml:"left"`
	Right      []string `yaml:"right"`
	Quit       []string `yaml:"quit"`
	Screenshot []string `yaml:"screenshot"`
}

// LogConfig controls the diagnostic log. An empty file disables logging
// for local play, since stdout belongs to the game.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// StorageConfig locates the session history database.
type StorageConfig struct {
	DB string `yaml:"db"`
}

// ScreenshotConfig locates frame dumps.
type ScreenshotConfig struct {
	Dir string `yaml:"dir"`
}

// ServeConfig configures the SSH server.
type ServeConfig struct {
	Address     string        `yaml:"address"`
	HostKey     string        `yaml:"host_key"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

var logLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
	"fatal": true,
}

// Validate reports every problem with the configuration.
func (c Config) Validate() error {
	var errs []error

	if c.Loop.Tick <= 0 {
		errs = append(errs, fmt.Errorf("loop.tick must be positive, got %v", c.Loop.Tick))
	}

	if _, err := render.ParseColor(c.Render.ClearBackground); err != nil {
		errs = append(errs, fmt.Errorf("render.clear_background: %w", err))
	}
	if _, err := render.ParseColor(c.Render.ResetBackground); err != nil {
		errs = append(errs, fmt.Errorf("render.reset_background: %w", err))
	}
	if c.Render.BufferSize < 0 {
		errs = append(errs, fmt.Errorf("render.buffer_size must not be negative, got %d", c.Render.BufferSize))
	}

	if c.Audio.Enabled && c.Audio.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("audio.sample_rate must be positive, got %d", c.Audio.SampleRate))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("audio.volume must be within [0, 1], got %v", c.Audio.Volume))
	}
	for name, tone := range c.Audio.Cues {
		if tone.Freq <= 0 || tone.Duration <= 0 {
			errs = append(errs, fmt.Errorf("audio.cues.%s: freq and duration must be positive", name))
		}
	}

	for name, keys := range map[string][]string{
		"left":       c.Input.Left,
		"right":      c.Input.Right,
		"quit":       c.Input.Quit,
		"screenshot": c.Input.Screenshot,
	} {
		if len(keys) == 0 {
			errs = append(errs, fmt.Errorf("input.%s must bind at least one key", name))
		}
	}

	if !logLevels[c.Log.Level] {
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}

	if c.Serve.IdleTimeout < 0 {
		errs = append(errs, fmt.Errorf("serve.idle_timeout must not be negative, got %v", c.Serve.IdleTimeout))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
	}
	return nil
}
