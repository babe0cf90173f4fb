package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-invaders/internal/audio"
	"github.com/vovakirdan/tui-invaders/internal/core"
	"github.com/vovakirdan/tui-invaders/internal/entity"
	"github.com/vovakirdan/tui-invaders/internal/input"
	"github.com/vovakirdan/tui-invaders/internal/pipe"
	"github.com/vovakirdan/tui-invaders/internal/render"
	"github.com/vovakirdan/tui-invaders/internal/terminal"
)

// Options configures a session.
type Options struct {
	Out    io.Writer     // terminal output
	Mode   terminal.Mode // nil means the remote side is already raw
	Input  input.Source
	Keys   input.KeyMap
	Cues   audio.Player
	Render render.Options
	Tick   time.Duration

	// PlayerWidth confines the player to columns [0, PlayerWidth).
	// Zero uses the full grid.
	PlayerWidth int

	Screenshots *Screenshots
	Logger      *log.Logger
}

// Result summarizes a finished session.
type Result struct {
	Reason         string
	FramesSent     int
	FramesRendered int
	StartedAt      time.Time
	Duration       time.Duration
}

// RunSession plays one game on opts.Out and blocks until it is over.
//
// The game loop runs on the calling goroutine and the render loop in a
// second one. When the game loop stops the frame channel is closed, the
// render loop drains every queued frame, and only after it has returned are
// audio cues awaited and the terminal restored. A render failure cancels
// the game loop through the group context.
//
// The returned error joins game, render and teardown failures. The Result
// is valid even when an error is returned.
func RunSession(ctx context.Context, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	cues := opts.Cues
	if cues == nil {
		cues = audio.Silent{}
	}
	mode := opts.Mode
	if mode == nil {
		mode = terminal.NoRawMode()
	}

	res := Result{StartedAt: time.Now()}

	cues.Play(audio.Startup)

	term := terminal.New(opts.Out, mode)
	if err := term.Enter(); err != nil {
		cues.Wait()
		res.Reason = "setup failed"
		res.Duration = time.Since(res.StartedAt)
		return res, fmt.Errorf("game: %w", err)
	}
	logger.Debug("terminal entered")
	// Leave is idempotent; this only matters when the game loop panics.
	defer term.Leave() //nolint:errcheck // Reported by the normal path below

	tx, rx := pipe.New[core.Frame]()
	renderer := render.NewRenderer(opts.Out, opts.Render)

	group, gctx := errgroup.WithContext(ctx)
	var rendered int
	group.Go(func() error {
		n, err := render.Loop(renderer, rx)
		rendered = n
		if err != nil {
			return fmt.Errorf("game: render loop: %w", err)
		}
		return nil
	})
	// Drain and join before the deferred Leave, also on a panic.
	defer func() {
		tx.Close()
		group.Wait() //nolint:errcheck // Reported by the normal path below
	}()

	g := NewGame(GameConfig{
		Player:      entity.NewPlayerWithWidth(playerWidth(opts.PlayerWidth)),
		Input:       opts.Input,
		Keys:        opts.Keys,
		Cues:        cues,
		Frames:      tx,
		Tick:        opts.Tick,
		Screenshots: opts.Screenshots,
		Logger:      logger,
	})
	outcome, runErr := g.Run(gctx)
	logger.Debug("game loop stopped", "reason", outcome.Reason, "frames", outcome.FramesSent, "queued", rx.Len())

	// Shutdown: close the channel, join the render loop, then wait for
	// audio and restore the terminal.
	tx.Close()
	renderErr := group.Wait()
	cues.Wait()
	leaveErr := term.Leave()

	res.Reason = outcome.Reason
	if renderErr != nil {
		res.Reason = ReasonRenderFailed
	}
	res.FramesSent = outcome.FramesSent
	res.FramesRendered = rendered
	res.Duration = time.Since(res.StartedAt)

	if leaveErr != nil {
		leaveErr = fmt.Errorf("game: %w", leaveErr)
	}
	return res, errors.Join(runErr, renderErr, leaveErr)
}

func playerWidth(w int) int {
	if w <= 0 {
		return core.NumCols
	}
	return w
}
