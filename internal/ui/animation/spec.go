package animation

import "fmt"

// ExerciseType names the eye exercise suggested on a break surface.
type ExerciseType int

const (
	ExerciseBlink ExerciseType = iota
	ExerciseLeftRight
	ExerciseUpDown
	ExerciseLookOutside
)

// Hint returns the instruction shown for an exercise.
func (exercise ExerciseType) Hint() string {
	switch exercise {
	case ExerciseBlink:
		return "Blink your eyes and take rest"
	case ExerciseLeftRight:
		return "Move your eyes left and right"
	case ExerciseUpDown:
		return "Move your eyes up and down"
	case ExerciseLookOutside:
		return "Look into the distance and relax your eyes"
	default:
		return ""
	}
}

// Frame is one rendering of the break surface chrome.
type Frame struct {
	Exercise    ExerciseType
	SkipIn      int
	SkipEnabled bool
}

// SkipLabel returns the skip button caption.
func (frame Frame) SkipLabel() string {
	if frame.SkipEnabled {
		return "Skip Break"
	}
	return fmt.Sprintf("Skip Break in .. %d", frame.SkipIn)
}
