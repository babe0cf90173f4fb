package input

import (
	"bytes"
	"io"
	"time"

	"github.com/charmbracelet/x/ansi"
)

// escDelay is how long a read ending in a partial escape sequence waits for
// the rest of it. A lone ESC is only reported as the escape key after this.
const escDelay = 50 * time.Millisecond

// seqJoiner hands reads to the key parser so that an escape sequence split
// across reads (slow links, SSH) arrives in one piece.
type seqJoiner struct {
	chunks chan []byte
	err    error // set before chunks is closed
	carry  []byte
	delay  time.Duration
}

func newSeqJoiner(r io.Reader, delay time.Duration) *seqJoiner {
	j := &seqJoiner{
		chunks: make(chan []byte, 16),
		delay:  delay,
	}
	go j.pump(r)
	return j
}

func (j *seqJoiner) pump(r io.Reader) {
	defer close(j.chunks)
	for {
		buf := make([]byte, 256)
		n, err := r.Read(buf)
		if n > 0 {
			j.chunks <- buf[:n]
		}
		if err != nil {
			j.err = err
			return
		}
	}
}

func (j *seqJoiner) Read(p []byte) (int, error) {
	buf := j.carry
	j.carry = nil
	if len(buf) == 0 {
		chunk, ok := <-j.chunks
		if !ok {
			return 0, j.err
		}
		buf = chunk
	}

	var timeout <-chan time.Time
join:
	for partialEscape(buf) {
		if timeout == nil {
			timer := time.NewTimer(j.delay)
			defer timer.Stop()
			timeout = timer.C
		}
		select {
		case chunk, ok := <-j.chunks:
			if !ok {
				break join
			}
			buf = append(buf, chunk...)
		case <-timeout:
			break join
		}
	}

	n := copy(p, buf)
	if n < len(buf) {
		j.carry = buf[n:]
	}
	return n, nil
}

// partialEscape reports whether b ends inside an escape sequence: a bare
// ESC, an SS3 introducer, or a CSI without its final byte.
func partialEscape(b []byte) bool {
	i := bytes.LastIndexByte(b, ansi.ESC)
	if i < 0 {
		return false
	}
	tail := b[i+1:]
	switch {
	case len(tail) == 0:
		return true
	case tail[0] == 'O':
		return len(tail) == 1
	case tail[0] == '[':
		for _, c := range tail[1:] {
			if c >= 0x40 && c <= 0x7e {
				return false
			}
		}
		return true
	}
	return false
}
