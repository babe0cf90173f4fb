// Package terminal owns the process-wide terminal state for a play session:
// raw mode, the alternate screen and cursor visibility. Everything Enter
// changes is undone by Leave in reverse order.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-invaders/internal/core"
)

// Mode switches the input device in and out of raw mode.
type Mode interface {
	Enable() error
	Disable() error
}

// rawMode puts a file descriptor into raw mode with x/term.
type rawMode struct {
	fd    int
	state *term.State
}

// RawMode returns a Mode for the terminal behind fd.
func RawMode(fd int) Mode {
	return &rawMode{fd: fd}
}

func (m *rawMode) Enable() error {
	if !term.IsTerminal(m.fd) {
		return fmt.Errorf("terminal: fd %d is not a terminal", m.fd)
	}
	state, err := term.MakeRaw(m.fd)
	if err != nil {
		return fmt.Errorf("terminal: enable raw mode: %w", err)
	}
	m.state = state
	return nil
}

func (m *rawMode) Disable() error {
	if m.state == nil {
		return nil
	}
	if err := term.Restore(m.fd, m.state); err != nil {
		return fmt.Errorf("terminal: disable raw mode: %w", err)
	}
	m.state = nil
	return nil
}

// cookedMode is used when the remote side already delivers raw keystrokes,
// as an SSH channel with a PTY does.
type cookedMode struct{}

// NoRawMode returns a Mode that leaves the input device untouched.
func NoRawMode() Mode {
	return cookedMode{}
}

func (cookedMode) Enable() error  { return nil }
func (cookedMode) Disable() error { return nil }

// Terminal is a scoped handle on a terminal's output and input mode.
type Terminal struct {
	out  io.Writer
	mode Mode

	mu   sync.Mutex
	undo []func() error
}

// New creates a Terminal writing control sequences to out.
func New(out io.Writer, mode Mode) *Terminal {
	return &Terminal{out: out, mode: mode}
}

// Enter enables raw mode, switches to the alternate screen and hides the
// cursor. If a step fails, the steps already applied are undone and the
// error is returned.
func (t *Terminal) Enter() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.mode.Enable(); err != nil {
		return t.abort(err)
	}
	t.undo = append(t.undo, t.mode.Disable)

	if err := t.write(ansi.SetAltScreenSaveCursorMode); err != nil {
		return t.abort(fmt.Errorf("terminal: enter alternate screen: %w", err))
	}
	t.undo = append(t.undo, func() error {
		if err := t.write(ansi.ResetAltScreenSaveCursorMode); err != nil {
			return fmt.Errorf("terminal: leave alternate screen: %w", err)
		}
		return nil
	})

	if err := t.write(ansi.HideCursor); err != nil {
		return t.abort(fmt.Errorf("terminal: hide cursor: %w", err))
	}
	t.undo = append(t.undo, func() error {
		if err := t.write(ansi.ResetStyle + ansi.ShowCursor); err != nil {
			return fmt.Errorf("terminal: show cursor: %w", err)
		}
		return nil
	})

	return nil
}

// Leave undoes whatever Enter applied, most recent first: show the cursor,
// leave the alternate screen, disable raw mode. Every step runs even if an
// earlier one fails. Safe to call multiple times.
func (t *Terminal) Leave() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.unwind()
}

func (t *Terminal) abort(err error) error {
	return errors.Join(err, t.unwind())
}

func (t *Terminal) unwind() error {
	var errs []error
	for i := len(t.undo) - 1; i >= 0; i-- {
		if err := t.undo[i](); err != nil {
			errs = append(errs, err)
		}
	}
	t.undo = nil
	return errors.Join(errs...)
}

func (t *Terminal) write(seq string) error {
	_, err := io.WriteString(t.out, seq)
	return err
}

// Fits reports whether a terminal of the given size can show the whole grid.
func Fits(width, height int) bool {
	return width >= core.NumCols && height >= core.NumRows
}

// LaneWidth returns how many grid columns a terminal of the given width
// shows. An unknown width (zero or less) means the whole grid.
func LaneWidth(width int) int {
	if width <= 0 || width > core.NumCols {
		return core.NumCols
	}
	return width
}
