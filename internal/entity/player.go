// Package entity holds the game objects that draw themselves onto a frame.
package entity

import "github.com/vovakirdan/tui-invaders/internal/core"

// PlayerGlyph is the rune used to draw the player ship.
const PlayerGlyph = 'A'

// Player is the ship on the bottom row. Its only state is a horizontal
// position bounded by the lane width.
type Player struct {
	x     int
	y     int
	width int
}

// NewPlayer creates a player centred on the bottom row of the full grid.
func NewPlayer() *Player {
	return NewPlayerWithWidth(core.NumCols)
}

// NewPlayerWithWidth creates a player confined to columns [0, width).
// The width is clamped to the grid so the player can always be drawn.
func NewPlayerWithWidth(width int) *Player {
	width = core.Clamp(width, 1, core.NumCols)
	return &Player{
		x:     width / 2,
		y:     core.NumRows - 1,
		width: width,
	}
}

// X returns the player's current column.
func (p *Player) X() int {
	return p.x
}

// Y returns the player's row.
func (p *Player) Y() int {
	return p.y
}

// MoveLeft shifts the player one column left. Returns false at the left edge.
func (p *Player) MoveLeft() bool {
	return p.moveTo(p.x - 1)
}

// MoveRight shifts the player one column right. Returns false at the right edge.
func (p *Player) MoveRight() bool {
	return p.moveTo(p.x + 1)
}

// moveTo clamps x into the lane and reports whether the position changed.
func (p *Player) moveTo(x int) bool {
	x = core.Clamp(x, 0, p.width-1)
	if x == p.x {
		return false
	}
	p.x = x
	return true
}

// Draw stamps the player glyph at its position.
func (p *Player) Draw(f *core.Frame) {
	f.Set(p.x, p.y, PlayerGlyph)
}
