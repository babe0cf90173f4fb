// Package render reconciles the terminal with a newly built frame by writing
// only the cells that changed since the previously rendered frame.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/vovakirdan/tui-invaders/internal/core"
)

// DefaultBufferSize holds a forced repaint of the whole grid several times over.
const DefaultBufferSize = 128 * 1024

// Options configures a Renderer.
type Options struct {
	// ClearBackground is painted across the screen on a forced redraw.
	ClearBackground ansi.BasicColor

	// ResetBackground is selected after the clear sweep, before any cell is written.
	ResetBackground ansi.BasicColor

	// BufferSize is the initial capacity of the frame buffer in bytes. The
	// buffer grows when a frame needs more.
	BufferSize int
}

// DefaultOptions returns a blue clear sweep followed by a black background.
func DefaultOptions() Options {
	return Options{
		ClearBackground: ansi.Blue,
		ResetBackground: ansi.Black,
		BufferSize:      DefaultBufferSize,
	}
}

// Renderer writes frame deltas to a terminal.
// It is owned by the render loop and is not safe for concurrent use.
type Renderer struct {
	out      io.Writer
	buf      bytes.Buffer
	clearSeq string
}

// NewRenderer creates a renderer writing to out.
func NewRenderer(out io.Writer, opts Options) *Renderer {
	size := opts.BufferSize
	if size <= 0 {
		size = DefaultBufferSize
	}

	var sb strings.Builder
	sb.WriteString(ansi.Style{}.BackgroundColor(opts.ClearBackground).String())
	sb.WriteString(ansi.EraseEntireScreen)
	sb.WriteString(ansi.Style{}.BackgroundColor(opts.ResetBackground).String())

	r := &Renderer{
		out:      out,
		clearSeq: sb.String(),
	}
	r.buf.Grow(size)
	return r
}

// Render brings the terminal from last to curr.
//
// With force set the screen is cleared first and every cell of curr is
// written, whatever last holds. Otherwise only cells that differ are
// written. Cells are visited column by column, top to bottom. The output
// reaches out in a single Write at the end, or not at all when nothing
// changed.
//
// A returned error means the terminal no longer matches last or curr; the
// caller must stop diffing against either.
func (r *Renderer) Render(last, curr *core.Frame, force bool) error {
	w := &r.buf
	w.Reset()

	if force {
		w.WriteString(r.clearSeq)
	}

	for col := range curr {
		for row, c := range curr[col] {
			if !force && c == last[col][row] {
				continue
			}
			w.WriteString(ansi.CursorPosition(col+1, row+1))
			w.WriteRune(c)
		}
	}

	if w.Len() == 0 {
		return nil
	}
	if _, err := r.out.Write(w.Bytes()); err != nil {
		return fmt.Errorf("render: write: %w", err)
	}
	return nil
}
