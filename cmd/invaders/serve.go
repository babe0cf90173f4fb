package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-invaders/internal/logging"
	"github.com/vovakirdan/tui-invaders/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the invaders SSH server",
	Long: `Start an SSH server that runs one game per connection.

Every connection needs an interactive terminal of at least 40x20.
Sessions are recorded in the history database with origin ssh:<user>.
Sound cues are not played for remote sessions.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, uses serve.host_key from the config (~/.invaders/host_key)

Examples:
  invaders serve                           # Listen on :2323
  invaders serve --ssh :2222               # Listen on port 2222
  invaders serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 2323`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (overrides config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (overrides config)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting (overrides config)")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	ropts, err := renderOptions(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	scfg := tui.SSHServerConfig{
		Address:     cfg.Serve.Address,
		HostKeyPath: cfg.Serve.HostKey,
		IdleTimeout: cfg.Serve.IdleTimeout,
		Keys:        keyMap(cfg),
		Render:      ropts,
		Tick:        cfg.Loop.Tick,
	}
	if flagSSHAddr != "" {
		scfg.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		scfg.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		scfg.IdleTimeout = flagIdleTimeout
	}

	logger := logging.NewStderr(logging.Prefix+"-ssh", logLevel(cfg.Log.Level))

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	server, err := tui.NewSSHServer(scfg, store, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(ctx); err != nil {
		logger.Error("server stopped", "error", err)
		stop()
		os.Exit(1)
	}
	logger.Info("server stopped")
}
