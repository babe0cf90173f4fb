package game

import (
	"bytes"
	"errors"
	"sync"

	"github.com/vovakirdan/tui-invaders/internal/input"
)

// scriptSource returns one scripted batch per Poll call. Once the script is
// exhausted it returns err, or nothing when err is nil.
type scriptSource struct {
	mu      sync.Mutex
	batches [][]input.Key
	err     error
	polls   int
}

func keys(names ...string) []input.Key {
	out := make([]input.Key, len(names))
	for i, n := range names {
		out[i] = input.Key{Name: n}
	}
	return out
}

func (s *scriptSource) Poll() ([]input.Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polls++
	if len(s.batches) == 0 {
		return nil, s.err
	}
	b := s.batches[0]
	s.batches = s.batches[1:]
	return b, nil
}

// recordingCues records played cue names and Wait calls.
type recordingCues struct {
	mu     sync.Mutex
	events []string
}

func (c *recordingCues) Play(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, name)
}

func (c *recordingCues) Wait() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, "wait")
}

func (c *recordingCues) played() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.events...)
}

// syncBuffer is a bytes.Buffer safe for the render goroutine and the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var errDevice = errors.New("device gone")

// failingWriter accepts the first ok writes and fails every later one.
type failingWriter struct {
	mu     sync.Mutex
	ok     int
	writes int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writes++
	if w.writes > w.ok {
		return 0, errDevice
	}
	return len(p), nil
}

type fakeMode struct {
	enableErr error
	enabled   bool
	disabled  bool
}

func (m *fakeMode) Enable() error {
	if m.enableErr != nil {
		return m.enableErr
	}
	m.enabled = true
	return nil
}

func (m *fakeMode) Disable() error {
	m.disabled = true
	return nil
}

// panicSource panics on the first Poll.
type panicSource struct{}

func (panicSource) Poll() ([]input.Key, error) {
	panic("input exploded")
}
