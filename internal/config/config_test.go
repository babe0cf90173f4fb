package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() failed: %v", err)
	}
}

func TestEmbeddedDefaultsMatchDefault(t *testing.T) {
	cfg := Config{}
	if err := yaml.Unmarshal(defaultInvadersYAML, &cfg); err != nil {
		t.Fatalf("embedded defaults do not parse: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("embedded defaults differ from Default():\n got %+v\nwant %+v", cfg, Default())
	}
}

func TestLoadCustomPathOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invaders.yaml")
	data := `
loop:
  tick: 5ms
render:
  clear_background: red
input:
  quit: [x]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Loop.Tick != 5*time.Millisecond {
		t.Errorf("Loop.Tick = %v, expected 5ms", cfg.Loop.Tick)
	}
	if cfg.Render.ClearBackground != "red" {
		t.Errorf("ClearBackground = %q, expected red", cfg.Render.ClearBackground)
	}
	if !reflect.DeepEqual(cfg.Input.Quit, []string{"x"}) {
		t.Errorf("Input.Quit = %v, expected [x]", cfg.Input.Quit)
	}

	// Untouched keys keep their defaults.
	if cfg.Render.ResetBackground != "black" {
		t.Errorf("ResetBackground = %q, expected default black", cfg.Render.ResetBackground)
	}
	if len(cfg.Audio.Cues) != 6 {
		t.Errorf("Audio.Cues has %d entries, expected 6", len(cfg.Audio.Cues))
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("loop: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected error for malformed custom config")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("loop:\n  tick: 0s\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(invalid); err == nil {
		t.Error("expected validation error for zero tick")
	}
}

func TestLoadSearchesUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if err := os.MkdirAll(filepath.Join(home, ".invaders"), 0o755); err != nil {
		t.Fatal(err)
	}
	data := "log:\n  level: debug\n"
	if err := os.WriteFile(filepath.Join(home, ".invaders", "config.yaml"), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, expected debug from user config", cfg.Log.Level)
	}
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Load() without files = %+v, expected defaults", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errSub string
	}{
		{"zero tick", func(c *Config) { c.Loop.Tick = 0 }, "loop.tick"},
		{"negative tick", func(c *Config) { c.Loop.Tick = -time.Millisecond }, "loop.tick"},
		{"unknown clear colour", func(c *Config) { c.Render.ClearBackground = "mauve" }, "render.clear_background"},
		{"unknown reset colour", func(c *Config) { c.Render.ResetBackground = "" }, "render.reset_background"},
		{"negative buffer", func(c *Config) { c.Render.BufferSize = -1 }, "render.buffer_size"},
		{"zero sample rate", func(c *Config) { c.Audio.SampleRate = 0 }, "audio.sample_rate"},
		{"loud volume", func(c *Config) { c.Audio.Volume = 2 }, "audio.volume"},
		{"bad cue", func(c *Config) { c.Audio.Cues["pew"] = ToneConfig{} }, "audio.cues.pew"},
		{"no left keys", func(c *Config) { c.Input.Left = nil }, "input.left"},
		{"no quit keys", func(c *Config) { c.Input.Quit = []string{} }, "input.quit"},
		{"unknown log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"negative idle timeout", func(c *Config) { c.Serve.IdleTimeout = -time.Second }, "serve.idle_timeout"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.errSub) {
				t.Errorf("error %q does not mention %q", err, tc.errSub)
			}
		})
	}
}

func TestValidateSampleRateIgnoredWhenAudioDisabled(t *testing.T) {
	cfg := Default()
	cfg.Audio.Enabled = false
	cfg.Audio.SampleRate = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with audio disabled failed: %v", err)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := map[string]string{
		"~":                home,
		"~/.invaders/x.db": filepath.Join(home, ".invaders", "x.db"),
		"/abs/path.db":     "/abs/path.db",
		"relative/path.db": "relative/path.db",
		"~other/not/home":  "~other/not/home",
	}
	for in, expected := range tests {
		if got := ExpandHome(in); got != expected {
			t.Errorf("ExpandHome(%q) = %q, expected %q", in, got, expected)
		}
	}
}
