package animation

import "time"

// DefaultConfig returns the break surface timings.
func DefaultConfig() Config {
	return Config{
		Step:      time.Second,
		SkipDelay: 3,
		ExerciseDuration: Range{
			Min: 12 * time.Second,
			Max: 18 * time.Second,
		},
		Exercises: []ExerciseType{
			ExerciseBlink,
			ExerciseLeftRight,
			ExerciseUpDown,
			ExerciseLookOutside,
		},
	}
}
