package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/vovakirdan/tui-invaders/internal/core"
)

// Bindings lists the key names bound to each action.
type Bindings struct {
	Left       []string `yaml:"left"`
	Right      []string `yaml:"right"`
	Quit       []string `yaml:"quit"`
	Screenshot []string `yaml:"screenshot"`
}

// DefaultBindings returns the stock controls.
func DefaultBindings() Bindings {
	return Bindings{
		Left:       []string{"left", "a"},
		Right:      []string{"right", "d"},
		Quit:       []string{"esc", "q", "ctrl+c"},
		Screenshot: []string{"ctrl+s"},
	}
}

// KeyMap translates key presses to game actions.
// It also satisfies help.KeyMap so the bindings can be shown to the player.
type KeyMap struct {
	Left       key.Binding
	Right      key.Binding
	Quit       key.Binding
	Screenshot key.Binding
}

// NewKeyMap builds a key map from bindings.
func NewKeyMap(b Bindings) KeyMap {
	return KeyMap{
		Left:       binding(b.Left, "move left"),
		Right:      binding(b.Right, "move right"),
		Quit:       binding(b.Quit, "quit"),
		Screenshot: binding(b.Screenshot, "screenshot"),
	}
}

// DefaultKeyMap returns the key map for DefaultBindings.
func DefaultKeyMap() KeyMap {
	return NewKeyMap(DefaultBindings())
}

func binding(keys []string, desc string) key.Binding {
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(strings.Join(keys, "/"), desc),
	)
}

// Action returns the action bound to k, or ActionNone.
// Quit is checked first so it can never be shadowed by a movement binding.
func (km KeyMap) Action(k Key) core.Action {
	switch {
	case key.Matches(k, km.Quit):
		return core.ActionQuit
	case key.Matches(k, km.Left):
		return core.ActionLeft
	case key.Matches(k, km.Right):
		return core.ActionRight
	case key.Matches(k, km.Screenshot):
		return core.ActionScreenshot
	}
	return core.ActionNone
}

// ShortHelp returns bindings for the single-line help view.
func (km KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.Left, km.Right, km.Quit}
}

// FullHelp returns every binding, grouped by purpose.
func (km KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{km.Left, km.Right},
		{km.Quit, km.Screenshot},
	}
}
