// Package core provides the frame model and the small set of shared types
// used by the game loop, the render loop and the entities in between.
// It has no external dependencies so that both loops stay testable.
package core

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
