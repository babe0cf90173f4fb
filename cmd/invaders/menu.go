package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/logging"
	"github.com/vovakirdan/tui-invaders/internal/platform/tui"
	"github.com/vovakirdan/tui-invaders/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the launcher menu",
	Long: `Start the interactive launcher menu.

Navigate with arrow keys or j/k, select with Enter, quit with q.
From the menu you can start a game, browse the session history and
review the game controls.`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	if err := menuLoop(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func menuLoop(cfg config.Config) error {
	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	// The sound device can only be initialized once per process, so it is
	// shared by every game started from the menu.
	cues := openAudio(cfg, logger)
	defer cues.Close()

	width, height, _ := term.GetSize(int(os.Stdout.Fd()))

	for {
		result, err := tui.RunMenu(loadTotals(store), width, height)
		if err != nil {
			return err
		}
		if result.Width > 0 {
			width, height = result.Width, result.Height
		}

		switch result.Choice {
		case tui.ChoicePlay:
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			_, err := playLocal(ctx, cfg, cues, store, logger)
			stop()
			if err != nil {
				return err
			}

		case tui.ChoiceHistory:
			goBack, err := tui.RunHistory(store, width, height)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}

		case tui.ChoiceKeys:
			goBack, err := tui.RunKeys(keyMap(cfg), width)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}

		default:
			return nil
		}
	}
}

// loadTotals returns nil when there is no store or the query fails.
func loadTotals(store *storage.Store) *storage.Totals {
	if store == nil {
		return nil
	}
	totals, err := store.Totals()
	if err != nil {
		return nil
	}
	return totals
}
