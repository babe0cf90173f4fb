package input

import (
	"io"
	"testing"
	"time"

	"github.com/vovakirdan/tui-invaders/internal/core"
)

func TestPartialEscape(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"", false},
		{"abc", false},
		{"\x1b", true},
		{"a\x1b", true},
		{"\x1b[", true},
		{"\x1b[1;", true},
		{"\x1bO", true},
		{"\x1b[D", false},
		{"\x1bOD", false},
		{"\x1b[Dq", false},
		{"\x1bq", false},
		{"\x1b[D\x1b", true},
	}

	for _, tc := range tests {
		if got := partialEscape([]byte(tc.input)); got != tc.expected {
			t.Errorf("partialEscape(%q) = %v, expected %v", tc.input, got, tc.expected)
		}
	}
}

func TestSeqJoinerJoinsSplitSequence(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	j := newSeqJoiner(pr, time.Second)
	go func() {
		pw.Write([]byte("\x1b"))
		time.Sleep(5 * time.Millisecond)
		pw.Write([]byte("[D"))
	}()

	buf := make([]byte, 16)
	n, err := j.Read(buf)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if got := string(buf[:n]); got != "\x1b[D" {
		t.Errorf("Read() = %q, expected %q", got, "\x1b[D")
	}
}

func TestSeqJoinerGivesUpAfterDelay(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	j := newSeqJoiner(pr, 10*time.Millisecond)
	go pw.Write([]byte("\x1b"))

	buf := make([]byte, 16)
	n, err := j.Read(buf)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if got := string(buf[:n]); got != "\x1b" {
		t.Errorf("Read() = %q, expected a lone ESC", got)
	}
}

func TestSeqJoinerCarriesOverflow(t *testing.T) {
	pr, pw := io.Pipe()
	j := newSeqJoiner(pr, time.Second)
	go func() {
		pw.Write([]byte("abcdef"))
		pw.Close()
	}()

	buf := make([]byte, 4)
	n, err := j.Read(buf)
	if err != nil || string(buf[:n]) != "abcd" {
		t.Fatalf("first Read() = %q, %v", buf[:n], err)
	}
	n, err = j.Read(buf)
	if err != nil || string(buf[:n]) != "ef" {
		t.Fatalf("second Read() = %q, %v", buf[:n], err)
	}
	if _, err := j.Read(buf); err != io.EOF {
		t.Errorf("Read() after close = %v, expected io.EOF", err)
	}
}

func TestReaderSplitArrowIsNotQuit(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	rd, err := NewReader(pr, "xterm")
	if err != nil {
		t.Fatalf("NewReader() failed: %v", err)
	}
	defer rd.Close()

	go func() {
		pw.Write([]byte("\x1b"))
		time.Sleep(5 * time.Millisecond)
		pw.Write([]byte("[D"))
	}()

	keys, err := pollUntil(t, rd, 1)
	if err != nil {
		t.Fatalf("Poll() failed: %v", err)
	}
	// Give a wrongly split sequence time to show up as extra keys.
	time.Sleep(2 * escDelay)
	more, _ := rd.Poll()
	keys = append(keys, more...)

	got := names(keys)
	if len(got) != 1 || got[0] != "left" {
		t.Fatalf("split arrow decoded as %q, expected [left]", got)
	}
	if a := DefaultKeyMap().Action(keys[0]); a != core.ActionLeft {
		t.Errorf("split arrow action = %v, expected %v", a, core.ActionLeft)
	}
}
