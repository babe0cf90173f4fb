// Package pipe provides the ordered, unbounded, single-producer/single-consumer
// transport that carries frames from the game loop to the render loop.
//
// Go channels are bounded, and the game loop must never block on a send, so
// the queue lives behind a mutex and a condition variable. Closing either
// half is the only shutdown signal: a closed sender lets the receiver drain
// what is left and then report ErrClosed, a closed receiver makes every later
// send fail with ErrReceiverClosed.
package pipe

import (
	"errors"
	"sync"
)

var (
	// ErrClosed is returned by Recv once the sender is closed and the queue is empty.
	ErrClosed = errors.New("pipe: sender closed")

	// ErrReceiverClosed is returned by Send when nobody will receive the value.
	ErrReceiverClosed = errors.New("pipe: receiver closed")
)

// state is shared by both halves.
type state[T any] struct {
	mu           sync.Mutex
	ready        *sync.Cond
	queue        []T
	head         int
	senderDone   bool
	receiverDone bool
}

// Sender is the producer half.
type Sender[T any] struct {
	s        *state[T]
	doneOnce sync.Once
}

// Receiver is the consumer half.
type Receiver[T any] struct {
	s        *state[T]
	doneOnce sync.Once
}

// New creates a connected sender/receiver pair.
func New[T any]() (*Sender[T], *Receiver[T]) {
	s := &state[T]{}
	s.ready = sync.NewCond(&s.mu)
	return &Sender[T]{s: s}, &Receiver[T]{s: s}
}

// Send appends v to the queue without blocking.
// Ownership of v passes to the receiver.
func (tx *Sender[T]) Send(v T) error {
	s := tx.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.receiverDone {
		return ErrReceiverClosed
	}
	if s.senderDone {
		return ErrClosed
	}

	s.queue = append(s.queue, v)
	s.ready.Signal()
	return nil
}

// Close drops the producer half. Values already queued are still delivered.
// Safe to call multiple times.
func (tx *Sender[T]) Close() {
	tx.doneOnce.Do(func() {
		s := tx.s
		s.mu.Lock()
		s.senderDone = true
		s.mu.Unlock()
		s.ready.Broadcast()
	})
}

// Recv blocks until a value is available and returns it in send order.
// After the sender is closed and every queued value has been received,
// Recv returns ErrClosed.
func (rx *Receiver[T]) Recv() (T, error) {
	s := rx.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.head == len(s.queue) && !s.senderDone && !s.receiverDone {
		s.ready.Wait()
	}

	var zero T
	if s.receiverDone {
		return zero, ErrClosed
	}
	if s.head == len(s.queue) {
		return zero, ErrClosed
	}

	v := s.queue[s.head]
	s.queue[s.head] = zero
	s.head++

	// Reclaim the consumed prefix once the queue is drained.
	if s.head == len(s.queue) {
		s.queue = s.queue[:0]
		s.head = 0
	}
	return v, nil
}

// Close drops the consumer half; pending values are discarded and later
// sends fail. Safe to call multiple times.
func (rx *Receiver[T]) Close() {
	rx.doneOnce.Do(func() {
		s := rx.s
		s.mu.Lock()
		s.receiverDone = true
		s.queue = nil
		s.head = 0
		s.mu.Unlock()
		s.ready.Broadcast()
	})
}

// Len returns the number of values waiting to be received.
func (rx *Receiver[T]) Len() int {
	s := rx.s
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue) - s.head
}
