package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-invaders/internal/audio"
	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/core"
	"github.com/vovakirdan/tui-invaders/internal/game"
	"github.com/vovakirdan/tui-invaders/internal/input"
	"github.com/vovakirdan/tui-invaders/internal/render"
	"github.com/vovakirdan/tui-invaders/internal/storage"
	"github.com/vovakirdan/tui-invaders/internal/terminal"
)

// renderOptions converts the render section of the config.
func renderOptions(cfg config.Config) (render.Options, error) {
	clearBg, err := render.ParseColor(cfg.Render.ClearBackground)
	if err != nil {
		return render.Options{}, err
	}
	reset, err := render.ParseColor(cfg.Render.ResetBackground)
	if err != nil {
		return render.Options{}, err
	}
	return render.Options{
		ClearBackground: clearBg,
		ResetBackground: reset,
		BufferSize:      cfg.Render.BufferSize,
	}, nil
}

// keyMap converts the input section of the config.
func keyMap(cfg config.Config) input.KeyMap {
	return input.NewKeyMap(input.Bindings{
		Left:       cfg.Input.Left,
		Right:      cfg.Input.Right,
		Quit:       cfg.Input.Quit,
		Screenshot: cfg.Input.Screenshot,
	})
}

// openAudio opens the sound device once per process.
func openAudio(cfg config.Config, logger *log.Logger) audio.Device {
	tones := make(map[string]audio.Tone, len(cfg.Audio.Cues))
	for name, t := range cfg.Audio.Cues {
		tones[name] = audio.Tone{Freq: t.Freq, Duration: t.Duration}
	}
	return audio.Open(cfg.Audio.Enabled, audio.Options{
		SampleRate: cfg.Audio.SampleRate,
		Volume:     cfg.Audio.Volume,
		AssetsDir:  config.ExpandHome(cfg.Audio.AssetsDir),
		Tones:      tones,
	}, logger)
}

// openStore opens the history database. A failure is reported and play
// continues without history.
func openStore(cfg config.Config, logger *log.Logger) *storage.Store {
	store, err := storage.Open(cfg.Storage.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open history database: %v\n", err)
		logger.Warn("history disabled", "error", err)
		return nil
	}
	return store
}

// playLocal runs one game on this process's terminal.
func playLocal(ctx context.Context, cfg config.Config, cues audio.Player, store *storage.Store, logger *log.Logger) (game.Result, error) {
	ropts, err := renderOptions(cfg)
	if err != nil {
		return game.Result{}, err
	}

	width := core.NumCols
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = terminal.LaneWidth(w)
		if !terminal.Fits(w, h) {
			fmt.Fprintf(os.Stderr, "Warning: terminal is %dx%d, the game needs at least %dx%d\n",
				w, h, core.NumCols, core.NumRows)
			time.Sleep(time.Second)
		}
	}

	rd, err := input.NewReader(os.Stdin, os.Getenv("TERM"))
	if err != nil {
		return game.Result{}, err
	}
	defer rd.Close()

	res, err := game.RunSession(ctx, game.Options{
		Out:         os.Stdout,
		Mode:        terminal.RawMode(int(os.Stdin.Fd())),
		Input:       rd,
		Keys:        keyMap(cfg),
		Cues:        cues,
		Render:      ropts,
		Tick:        cfg.Loop.Tick,
		PlayerWidth: width,
		Screenshots: game.NewScreenshots(cfg.Screenshots.Dir),
		Logger:      logger,
	})

	logger.Info("session finished",
		"reason", res.Reason,
		"sent", res.FramesSent,
		"rendered", res.FramesRendered,
		"duration", res.Duration.Round(time.Millisecond),
	)

	if store != nil && res.Reason != "" {
		//nolint:errcheck // Best-effort save
		store.SaveSession(storage.SessionRecord{
			Origin:         "local",
			Reason:         res.Reason,
			FramesSent:     res.FramesSent,
			FramesRendered: res.FramesRendered,
			Duration:       res.Duration,
			StartedAt:      res.StartedAt,
		})
	}

	return res, err
}
