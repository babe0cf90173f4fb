package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows the game loop to work with intents rather than raw input.
type Action int

const (
	ActionNone       Action = iota
	ActionLeft              // Left arrow, A - move the player one column left
	ActionRight             // Right arrow, D - move the player one column right
	ActionQuit              // Escape, Q - end the session
	ActionScreenshot        // Ctrl+S - dump the current frame to disk
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionQuit:
		return "Quit"
	case ActionScreenshot:
		return "Screenshot"
	default:
		return "Unknown"
	}
}
