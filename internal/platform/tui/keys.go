package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-invaders/internal/input"
)

// RenderKeys lists every game binding in the full help layout.
func RenderKeys(km input.KeyMap) string {
	h := help.New()
	h.ShowAll = true
	return h.View(km)
}

// KeysModel shows the game bindings until any key is pressed.
type KeysModel struct {
	text     string
	width    int
	quit     key.Binding
	quitting bool
}

// NewKeysModel creates a screen listing the bindings in km.
func NewKeysModel(km input.KeyMap, width int) KeysModel {
	return KeysModel{
		text:  RenderKeys(km),
		width: width,
		quit:  DefaultMenuKeyMap().Quit,
	}
}

func (m KeysModel) Init() tea.Cmd { return nil }

func (m KeysModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.quitting = key.Matches(msg, m.quit)
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m KeysModel) View() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(menuTitleStyle.Render(centerText("CONTROLS", m.width)))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Padding(0, 2).Render(m.text))
	b.WriteString("\n\n")
	b.WriteString(menuHelpStyle.Render("  any key: back  •  " + m.quit.Help().Key + ": quit"))
	b.WriteString("\n")
	return b.String()
}

// RunKeys shows the bindings screen. Returns true to go back to the menu.
func RunKeys(km input.KeyMap, width int) (goBack bool, err error) {
	finalModel, err := tea.NewProgram(NewKeysModel(km, width), tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(KeysModel)
	if !ok {
		return false, nil
	}
	return !m.quitting, nil
}
