package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/invaders.yaml
var defaultInvadersYAML []byte

// Default returns the built-in configuration. It matches
// defaults/invaders.yaml and is used when that file cannot be parsed.
func Default() Config {
	return Config{
		Loop: LoopConfig{
			Tick: time.Millisecond,
		},
		Render: RenderConfig{
			ClearBackground: "blue",
			ResetBackground: "black",
			BufferSize:      128 * 1024,
		},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
			Volume:     1.0,
			Cues: map[string]ToneConfig{
				"startup": {Freq: 523.25, Duration: 400 * time.Millisecond},
				"move":    {Freq: 220, Duration: 20 * time.Millisecond},
				"pew":     {Freq: 880, Duration: 80 * time.Millisecond},
				"explode": {Freq: 110, Duration: 250 * time.Millisecond},
				"lose":    {Freq: 196, Duration: 600 * time.Millisecond},
				"win":     {Freq: 659.25, Duration: 600 * time.Millisecond},
			},
		},
		Input: InputConfig{
			Left:       []string{"left", "a"},
			Right:      []string{"right", "d"},
			Quit:       []string{"esc", "q", "ctrl+c"},
			Screenshot: []string{"ctrl+s"},
		},
		Log: LogConfig{
			Level: "info",
		},
		Storage: StorageConfig{
			DB: "~/.invaders/history.db",
		},
		Screenshots: ScreenshotConfig{
			Dir: "~/.invaders/screenshots",
		},
		Serve: ServeConfig{
			Address:     ":2323",
			HostKey:     "~/.invaders/host_key",
			IdleTimeout: 10 * time.Minute,
		},
	}
}
