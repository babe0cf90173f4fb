// invaders is a terminal invaders game with a diffing frame renderer.
//
// Usage:
//
//	invaders play            - Play in this terminal
//	invaders menu            - Start the launcher menu
//	invaders serve           - Start SSH server for remote play
//	invaders history         - Show recorded sessions
//	invaders keys            - Show the game controls
//
// Global flags:
//
//	--config <path>     - Config file (default: search ~/.invaders, ./configs)
//	--db <path>         - Override the history database path
//	--log-file <path>   - Write the diagnostic log to a file
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-invaders/internal/config"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagLogFile  string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "invaders",
	Short: "Invaders - defend the bottom row of your terminal",
	Long: `Invaders is a terminal game drawn on a 40x20 character grid.
Only the cells that change between frames are written to the terminal.

Available commands:
  play     - Play in this terminal
  menu     - Interactive launcher menu
  serve    - Start SSH server for remote play
  history  - View recorded sessions
  keys     - Show the game controls

Examples:
  invaders play
  invaders menu
  invaders serve --ssh :2222
  invaders history --limit 5
  invaders play --config ./invaders.yaml --log-file /tmp/invaders.log`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to history database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Path to log file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(keysCmd)
}

// loadConfig loads the configuration and applies global flag overrides.
// It exits the process on error.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	applyFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func applyFlags(cfg *config.Config) {
	if flagDBPath != "" {
		cfg.Storage.DB = flagDBPath
	}
	if flagLogFile != "" {
		cfg.Log.File = flagLogFile
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
}
