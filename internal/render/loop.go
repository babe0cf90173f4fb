package render

import (
	"errors"

	"github.com/vovakirdan/tui-invaders/internal/core"
	"github.com/vovakirdan/tui-invaders/internal/pipe"
)

// Loop is the body of the render goroutine.
//
// It first paints a blank baseline with a forced redraw, then renders each
// received frame against the one rendered before it. It returns the number
// of frames rendered after the baseline once the sender is closed and the
// queue drained, or the first render error. The receiver is always closed
// on return so a producer that outlives the loop sees its sends fail.
func Loop(r *Renderer, frames *pipe.Receiver[core.Frame]) (int, error) {
	defer frames.Close()

	last := core.NewFrame()
	if err := r.Render(&last, &last, true); err != nil {
		return 0, err
	}

	rendered := 0
	for {
		curr, err := frames.Recv()
		if errors.Is(err, pipe.ErrClosed) {
			return rendered, nil
		}
		if err != nil {
			return rendered, err
		}

		if err := r.Render(&last, &curr, false); err != nil {
			return rendered, err
		}
		last = curr
		rendered++
	}
}
