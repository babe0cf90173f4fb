package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/game"
	"github.com/vovakirdan/tui-invaders/internal/logging"
)

var flagNoSound bool

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a game directly in the current terminal.

The terminal is switched to raw mode and the alternate screen for the
duration of the game and restored afterwards, also when the game fails.

Controls (defaults, see 'invaders keys'):
  Left/A, Right/D  - Move
  Ctrl+S           - Save a screenshot
  Q/Esc/Ctrl+C     - Quit

Examples:
  invaders play
  invaders play --no-sound
  invaders play --log-file /tmp/invaders.log --log-level debug`,
	Run: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagNoSound, "no-sound", false, "Disable sound cues")
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	if flagNoSound {
		cfg.Audio.Enabled = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := playOnce(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
	printSummary(res)
}

// playOnce runs a single local game with its own logger, store and sound
// device.
func playOnce(ctx context.Context, cfg config.Config) (game.Result, error) {
	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		return game.Result{}, err
	}
	defer closer.Close()

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	cues := openAudio(cfg, logger)
	defer cues.Close()

	return playLocal(ctx, cfg, cues, store, logger)
}

func printSummary(res game.Result) {
	fmt.Printf("Game over: %s\n", res.Reason)
	fmt.Printf("  Frames sent:     %d\n", res.FramesSent)
	fmt.Printf("  Frames rendered: %d\n", res.FramesRendered)
	fmt.Printf("  Duration:        %s\n", res.Duration.Round(time.Millisecond))
}

// logLevel parses a level name, falling back to info.
func logLevel(name string) log.Level {
	lvl, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
