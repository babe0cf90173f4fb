package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-invaders/internal/platform/tui"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Show the game controls",
	Long: `Print the key bindings in effect, including overrides from the
input section of the config file.`,
	Run: func(_ *cobra.Command, _ []string) {
		cfg := loadConfig()
		fmt.Println(tui.RenderKeys(keyMap(cfg)))
	},
}
