package input

import (
	"strings"
	"testing"

	xinput "github.com/charmbracelet/x/input"
)

func names(keys []Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	return out
}

func TestKeysFromEvents(t *testing.T) {
	events := []xinput.Event{
		xinput.KeyPressEvent{Code: xinput.KeyLeft},
		xinput.KeyReleaseEvent{Code: xinput.KeyLeft},
		xinput.UnknownEvent("\x1b[99X"),
		xinput.KeyPressEvent{Code: 's', Mod: xinput.ModCtrl},
		xinput.KeyPressEvent{Code: 'q', Text: "q"},
	}

	got := names(keysFromEvents(events))
	expected := []string{"left", "ctrl+s", "q"}
	if strings.Join(got, ",") != strings.Join(expected, ",") {
		t.Errorf("keysFromEvents() = %q, expected %q", got, expected)
	}
}

func TestReaderDecodes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"printable", "ad", []string{"a", "d"}},
		{"arrows", "\x1b[D\x1b[C", []string{"left", "right"}},
		{"ss3 arrows", "\x1bOD\x1bOC", []string{"left", "right"}},
		{"lone escape", "\x1b", []string{"esc"}},
		{"alt key", "\x1bq", []string{"alt+q"}},
		{"ctrl keys", "\x03\x13", []string{"ctrl+c", "ctrl+s"}},
		{"enter and space", "\r ", []string{"enter", "space"}},
		{"utf8 rune", "é", []string{"é"}},
		{"mixed burst", "aa\x1b[Dq", []string{"a", "a", "left", "q"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rd, err := NewReader(strings.NewReader(tc.input), "xterm")
			if err != nil {
				t.Fatalf("NewReader() failed: %v", err)
			}
			defer rd.Close()

			keys, _ := pollUntil(t, rd, len(tc.expected))
			got := names(keys)
			if strings.Join(got, ",") != strings.Join(tc.expected, ",") {
				t.Errorf("keys for %q = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}
