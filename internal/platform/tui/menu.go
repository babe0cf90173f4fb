package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/tui-invaders/internal/storage"
)

// Choice is a launcher menu entry.
type Choice int

const (
	ChoiceNone Choice = iota
	ChoicePlay
	ChoiceHistory
	ChoiceKeys
	ChoiceQuit
)

// MenuItem represents a selectable entry in the menu.
type MenuItem struct {
	Choice      Choice
	Title       string
	Description string
}

// DefaultMenuItems returns the launcher entries in display order.
func DefaultMenuItems() []MenuItem {
	return []MenuItem{
		{ChoicePlay, "Play", "defend the bottom row"},
		{ChoiceHistory, "History", "past sessions"},
		{ChoiceKeys, "Keys", "game controls"},
		{ChoiceQuit, "Quit", "leave the launcher"},
	}
}

var (
	menuTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46")).
			MarginBottom(1)
	menuItemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	menuActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuDescStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	menuHelpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// MenuModel is the Bubble Tea model for the launcher menu.
type MenuModel struct {
	items    []MenuItem
	cursor   int
	width    int
	height   int
	totals   *storage.Totals
	keys     MenuKeyMap
	help     help.Model
	quitting bool
	selected Choice
}

// NewMenuModel creates a new menu model. totals may be nil when no history
// is available.
func NewMenuModel(totals *storage.Totals, width, height int) MenuModel {
	return MenuModel{
		items:  DefaultMenuItems(),
		width:  width,
		height: height,
		totals: totals,
		keys:   DefaultMenuKeyMap(),
		help:   help.New(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Back):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Select):
		m.selected = m.items[m.cursor].Choice
		if m.selected == ChoiceQuit {
			m.quitting = true
		}
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(menuTitleStyle.Render(centerText("I N V A D E R S", m.width)))
	b.WriteString("\n")

	if line := totalsLine(m.totals); line != "" {
		b.WriteString(menuDescStyle.Render(centerText(line, m.width)))
		b.WriteString("\n\n")
	}

	for i, item := range m.items {
		cursor := "  "
		style := menuItemStyle
		if i == m.cursor {
			cursor = "> "
			style = menuActiveStyle
		}
		line := fmt.Sprintf("%s%-8s", cursor, item.Title)
		b.WriteString(centerText(style.Render(line)+"  "+menuDescStyle.Render(item.Description), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(menuHelpStyle.Render(m.help.View(m.keys)))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the chosen entry, or ChoiceNone.
func (m MenuModel) Selected() Choice {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

func totalsLine(t *storage.Totals) string {
	if t == nil || t.Sessions == 0 {
		return "no sessions played yet"
	}
	return fmt.Sprintf("%d sessions, %s played, last %s",
		t.Sessions, t.PlayTime.Round(time.Second), humanize.Time(t.LastPlayed))
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Choice Choice
	Width  int
	Height int
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(totals *storage.Totals, width, height int) (MenuResult, error) {
	model := NewMenuModel(totals, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Choice: ChoiceQuit}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok || m.IsQuitting() || m.Selected() == ChoiceNone {
		return MenuResult{Choice: ChoiceQuit}, nil
	}

	return MenuResult{Choice: m.Selected(), Width: m.width, Height: m.height}, nil
}
