// Package input turns raw terminal bytes into key presses and key presses
// into game actions.
package input

import (
	xinput "github.com/charmbracelet/x/input"
)

// Key is a single decoded key press, named the way key bindings name keys:
// "left", "esc", "ctrl+s", "a", ...
type Key struct {
	Name string
}

// String returns the key name so a Key can be matched against bindings.
func (k Key) String() string {
	return k.Name
}

// keysFromEvents keeps the key presses of a decoded batch. Releases, mouse,
// paste and unknown sequences are dropped.
func keysFromEvents(events []xinput.Event) []Key {
	var keys []Key
	for _, ev := range events {
		if kp, ok := ev.(xinput.KeyPressEvent); ok {
			keys = append(keys, Key{Name: kp.String()})
		}
	}
	return keys
}
