package input

import (
	"errors"
	"fmt"
	"io"
	"sync"

	xinput "github.com/charmbracelet/x/input"
	"github.com/muesli/cancelreader"
)

// Source yields key presses without blocking.
type Source interface {
	// Poll returns every key press received since the previous call.
	// It never waits; an empty slice means nothing is pending.
	Poll() ([]Key, error)
}

// Reader is a Source backed by an io.Reader such as stdin or an SSH channel.
// A goroutine reads and decodes input; Poll drains what it has collected.
type Reader struct {
	cr cancelreader.CancelReader
	xr *xinput.Reader

	mu      sync.Mutex
	pending []Key
	err     error

	done chan struct{}
}

// NewReader starts reading keys from r. termType is the terminal's $TERM
// and selects the key sequences it is known to send.
func NewReader(r io.Reader, termType string) (*Reader, error) {
	cr, err := cancelreader.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("input: cannot create reader: %w", err)
	}
	xr, err := xinput.NewReader(newSeqJoiner(cr, escDelay), termType, 0)
	if err != nil {
		cr.Close()
		return nil, fmt.Errorf("input: cannot create reader: %w", err)
	}

	rd := &Reader{
		cr:   cr,
		xr:   xr,
		done: make(chan struct{}),
	}
	go rd.readLoop()
	return rd, nil
}

func (rd *Reader) readLoop() {
	defer close(rd.done)

	for {
		events, err := rd.xr.ReadEvents()
		if keys := keysFromEvents(events); len(keys) > 0 {
			rd.mu.Lock()
			rd.pending = append(rd.pending, keys...)
			rd.mu.Unlock()
		}
		if err != nil {
			if !errors.Is(err, cancelreader.ErrCanceled) {
				rd.mu.Lock()
				rd.err = err
				rd.mu.Unlock()
			}
			return
		}
	}
}

// Poll returns the pending key presses. Once the underlying reader fails,
// keys read before the failure are returned first and the error after.
// io.EOF is reported like any other read error: the input is gone.
func (rd *Reader) Poll() ([]Key, error) {
	rd.mu.Lock()
	defer rd.mu.Unlock()

	if len(rd.pending) > 0 {
		keys := rd.pending
		rd.pending = nil
		return keys, nil
	}
	if rd.err != nil {
		return nil, fmt.Errorf("input: read: %w", rd.err)
	}
	return nil, nil
}

// Close stops the read goroutine.
func (rd *Reader) Close() error {
	if rd.cr.Cancel() {
		<-rd.done
	}
	rd.xr.Close()
	return rd.cr.Close()
}
