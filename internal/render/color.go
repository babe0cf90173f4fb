package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// colorNames maps config colour names to ANSI basic colours.
var colorNames = map[string]ansi.BasicColor{
	"black":          ansi.Black,
	"red":            ansi.Red,
	"green":          ansi.Green,
	"yellow":         ansi.Yellow,
	"blue":           ansi.Blue,
	"magenta":        ansi.Magenta,
	"cyan":           ansi.Cyan,
	"white":          ansi.White,
	"bright_black":   ansi.BrightBlack,
	"bright_red":     ansi.BrightRed,
	"bright_green":   ansi.BrightGreen,
	"bright_yellow":  ansi.BrightYellow,
	"bright_blue":    ansi.BrightBlue,
	"bright_magenta": ansi.BrightMagenta,
	"bright_cyan":    ansi.BrightCyan,
	"bright_white":   ansi.BrightWhite,
}

// ParseColor resolves a colour name such as "blue" or "bright_red".
func ParseColor(name string) (ansi.BasicColor, error) {
	c, ok := colorNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("render: unknown color %q", name)
	}
	return c, nil
}
