package core

import "strings"

// Grid dimensions shared by every Frame in the system.
const (
	NumCols = 40
	NumRows = 20
)

// Blank is the rune every cell holds in a freshly built frame.
const Blank = ' '

// Frame is a complete snapshot of the character grid for one simulation tick.
// Cells are addressed as [column][row]. A Frame is a plain value: the game
// loop builds a new one every tick and hands it to the render loop, after
// which the producer must not touch it again.
type Frame [NumCols][NumRows]rune

// NewFrame returns a frame with every cell set to Blank.
func NewFrame() Frame {
	var f Frame
	for col := range f {
		for row := range f[col] {
			f[col][row] = Blank
		}
	}
	return f
}

// Set places a rune at (col, row).
// Coordinates outside the grid panic; callers own the bounds.
func (f *Frame) Set(col, row int, r rune) {
	f[col][row] = r
}

// Get returns the rune at (col, row).
// Coordinates outside the grid panic; callers own the bounds.
func (f *Frame) Get(col, row int) rune {
	return f[col][row]
}

// Row returns the given row as a string, left to right.
func (f *Frame) Row(row int) string {
	var sb strings.Builder
	sb.Grow(NumCols)
	for col := 0; col < NumCols; col++ {
		sb.WriteRune(f[col][row])
	}
	return sb.String()
}

// String converts the frame to text, one line per row.
func (f *Frame) String() string {
	var sb strings.Builder
	sb.Grow(NumCols*NumRows + NumRows) // Pre-allocate for efficiency

	for row := 0; row < NumRows; row++ {
		if row > 0 {
			sb.WriteRune('\n')
		}
		sb.WriteString(f.Row(row))
	}
	return sb.String()
}

// Drawable is implemented by anything that can stamp itself onto a frame.
// Draw is called exactly once per entity per frame and must not keep the
// frame pointer after it returns.
type Drawable interface {
	Draw(f *Frame)
}

// DrawAll stamps every drawable onto f in order; later drawables win on overlap.
func DrawAll(f *Frame, ds ...Drawable) {
	for _, d := range ds {
		d.Draw(f)
	}
}
