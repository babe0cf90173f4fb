// Package game runs a play session: the game loop on the calling goroutine,
// the render loop beside it, and the ordered setup and teardown around both.
package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-invaders/internal/audio"
	"github.com/vovakirdan/tui-invaders/internal/core"
	"github.com/vovakirdan/tui-invaders/internal/entity"
	"github.com/vovakirdan/tui-invaders/internal/input"
	"github.com/vovakirdan/tui-invaders/internal/pipe"
)

// DefaultTick is the pause between game loop iterations. It keeps the game
// loop from queueing frames far faster than a terminal can draw them.
const DefaultTick = time.Millisecond

// Reasons a game loop stops.
const (
	ReasonQuit         = "quit"
	ReasonCancelled    = "cancelled"
	ReasonInputClosed  = "input closed"
	ReasonRenderFailed = "render failed"
)

// Outcome describes how a game loop ended.
type Outcome struct {
	Reason     string
	FramesSent int
}

// Game is the producer side of a session. It owns the player and is the
// only writer of game state.
type Game struct {
	player    *entity.Player
	drawables []core.Drawable

	input  input.Source
	keys   input.KeyMap
	cues   audio.Player
	frames *pipe.Sender[core.Frame]

	tick        time.Duration
	screenshots *Screenshots
	logger      *log.Logger
}

// GameConfig holds the collaborators of a Game.
type GameConfig struct {
	Player      *entity.Player
	Input       input.Source
	Keys        input.KeyMap
	Cues        audio.Player
	Frames      *pipe.Sender[core.Frame]
	Tick        time.Duration
	Screenshots *Screenshots // nil disables screenshots
	Logger      *log.Logger
}

// NewGame creates a game loop. Zero values in cfg get defaults, except
// Input and Frames which are required.
func NewGame(cfg GameConfig) *Game {
	g := &Game{
		player:      cfg.Player,
		input:       cfg.Input,
		keys:        cfg.Keys,
		cues:        cfg.Cues,
		frames:      cfg.Frames,
		tick:        cfg.Tick,
		screenshots: cfg.Screenshots,
		logger:      cfg.Logger,
	}
	if g.player == nil {
		g.player = entity.NewPlayer()
	}
	if g.cues == nil {
		g.cues = audio.Silent{}
	}
	if g.tick <= 0 {
		g.tick = DefaultTick
	}
	if g.logger == nil {
		g.logger = log.New(io.Discard)
	}
	g.drawables = []core.Drawable{g.player}
	return g
}

// Player returns the player controlled by this game.
func (g *Game) Player() *entity.Player {
	return g.player
}

// Run executes the game loop until the player quits, the input goes away or
// ctx is cancelled. Every iteration drains pending input, builds a fresh
// frame from the drawables, sends it to the render loop and sleeps one tick.
func (g *Game) Run(ctx context.Context) (Outcome, error) {
	var out Outcome

	ticker := time.NewTicker(g.tick)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			out.Reason = ReasonCancelled
			return out, nil
		}

		// Input
		quit, shoot, err := g.drainInput()
		if err != nil {
			if errors.Is(err, io.EOF) {
				out.Reason = ReasonInputClosed
				return out, nil
			}
			return out, err
		}
		if quit {
			g.cues.Play(audio.Lose)
			out.Reason = ReasonQuit
			return out, nil
		}

		// Draw and send
		frame := core.NewFrame()
		core.DrawAll(&frame, g.drawables...)
		if shoot {
			g.screenshot(&frame)
		}

		if err := g.frames.Send(frame); err != nil && !errors.Is(err, pipe.ErrReceiverClosed) {
			return out, fmt.Errorf("game: send frame: %w", err)
		}
		out.FramesSent++

		select {
		case <-ctx.Done():
		case <-ticker.C:
		}
	}
}

// drainInput applies every pending key press. It reports whether quit or a
// screenshot was requested. Keys after a quit are discarded.
func (g *Game) drainInput() (bool, bool, error) {
	screenshot := false
	for {
		keys, err := g.input.Poll()
		for _, k := range keys {
			switch g.keys.Action(k) {
			case core.ActionLeft:
				if g.player.MoveLeft() {
					g.cues.Play(audio.Move)
				}
			case core.ActionRight:
				if g.player.MoveRight() {
					g.cues.Play(audio.Move)
				}
			case core.ActionScreenshot:
				screenshot = true
			case core.ActionQuit:
				return true, screenshot, nil
			}
		}
		if err != nil {
			return false, screenshot, err
		}
		if len(keys) == 0 {
			return false, screenshot, nil
		}
	}
}

func (g *Game) screenshot(f *core.Frame) {
	if g.screenshots == nil {
		return
	}
	path, err := g.screenshots.Save(f)
	if err != nil {
		g.logger.Warn("screenshot failed", "err", err)
		return
	}
	g.logger.Info("screenshot saved", "path", path)
}
