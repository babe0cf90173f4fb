package render

import (
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/tui-invaders/internal/core"
	"github.com/vovakirdan/tui-invaders/internal/pipe"
)

// framesWithMovingGlyph returns n frames with a glyph walking along row 0.
func framesWithMovingGlyph(n int) []core.Frame {
	frames := make([]core.Frame, n)
	for i := range frames {
		f := core.NewFrame()
		f.Set(i%core.NumCols, 0, 'A')
		frames[i] = f
	}
	return frames
}

// diffCells lists the cells that differ between two frames.
func diffCells(last, curr *core.Frame) map[[2]int]rune {
	d := make(map[[2]int]rune)
	for col := 0; col < core.NumCols; col++ {
		for row := 0; row < core.NumRows; row++ {
			if last.Get(col, row) != curr.Get(col, row) {
				d[[2]int{col, row}] = curr.Get(col, row)
			}
		}
	}
	return d
}

func TestLoopRendersEveryFrameInOrder(t *testing.T) {
	const n = 25
	var w chunkWriter
	r := NewRenderer(&w, DefaultOptions())
	tx, rx := pipe.New[core.Frame]()

	frames := framesWithMovingGlyph(n)
	for _, f := range frames {
		if err := tx.Send(f); err != nil {
			t.Fatalf("Send() failed: %v", err)
		}
	}
	tx.Close()

	done := make(chan struct{})
	var rendered int
	var loopErr error
	go func() {
		defer close(done)
		rendered, loopErr = Loop(r, rx)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Loop() did not return after the sender closed")
	}

	if loopErr != nil {
		t.Fatalf("Loop() failed: %v", loopErr)
	}
	if rendered != n {
		t.Errorf("Loop() rendered %d frames, expected %d", rendered, n)
	}

	// One flush for the baseline plus one per frame that changed something.
	if len(w.chunks) != n+1 {
		t.Fatalf("Expected %d flushes, got %d", n+1, len(w.chunks))
	}

	baseline := core.NewFrame()
	if got := len(parseWrites(t, w.chunks[0])); got != core.NumCols*core.NumRows {
		t.Errorf("Baseline wrote %d cells, expected a full repaint", got)
	}

	prev := baseline
	for i, chunk := range w.chunks[1:] {
		want := diffCells(&prev, &frames[i])
		writes := parseWrites(t, chunk)
		if len(writes) != len(want) {
			t.Fatalf("Frame %d: wrote %d cells, expected %d", i, len(writes), len(want))
		}
		for _, cw := range writes {
			if want[[2]int{cw.col, cw.row}] != cw.r {
				t.Errorf("Frame %d: unexpected write %+v", i, cw)
			}
		}
		prev = frames[i]
	}
}

func TestLoopWaitsForFrames(t *testing.T) {
	var w chunkWriter
	r := NewRenderer(&w, DefaultOptions())
	tx, rx := pipe.New[core.Frame]()

	done := make(chan int, 1)
	go func() {
		n, _ := Loop(r, rx)
		done <- n
	}()

	select {
	case <-done:
		t.Fatal("Loop() returned while the sender was still open")
	case <-time.After(20 * time.Millisecond):
	}

	f := core.NewFrame()
	f.Set(0, 0, 'A')
	tx.Send(f)
	tx.Close()

	select {
	case n := <-done:
		if n != 1 {
			t.Errorf("Loop() rendered %d frames, expected 1", n)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Loop() did not return after Close()")
	}
}

func TestLoopStopsOnDeviceError(t *testing.T) {
	r := NewRenderer(failWriter{}, DefaultOptions())
	tx, rx := pipe.New[core.Frame]()
	defer tx.Close()

	n, err := Loop(r, rx)
	if !errors.Is(err, errDevice) {
		t.Fatalf("Loop() = %v, expected device error", err)
	}
	if n != 0 {
		t.Errorf("Loop() rendered %d frames before failing, expected 0", n)
	}

	if err := tx.Send(core.NewFrame()); !errors.Is(err, pipe.ErrReceiverClosed) {
		t.Errorf("Send() after failed loop = %v, expected ErrReceiverClosed", err)
	}
}
