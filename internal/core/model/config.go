package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDuration indicates a non-positive work or break duration.
var ErrInvalidDuration = errors.New("duration must be a positive number of seconds")

const (
	DefaultWorkDurationSeconds  = 25 * 60
	DefaultBreakDurationSeconds = 2 * 60
)

// Idle policy. These are fixed by design and not user configurable.
const (
	IdleEnterThreshold = 120 * time.Second
	IdleStopThreshold  = 300 * time.Second
	IdleSampleInterval = 2 * time.Second
	TickInterval       = time.Second
)

// TimerConfig holds the durable work/break preferences.
type TimerConfig struct {
	WorkDurationSeconds  int
	BreakDurationSeconds int
}

// DefaultTimerConfig returns the out-of-the-box schedule: 25 minutes of work, 2 minutes of rest.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		WorkDurationSeconds:  DefaultWorkDurationSeconds,
		BreakDurationSeconds: DefaultBreakDurationSeconds,
	}
}

// Validate reports whether both durations are positive.
func (config TimerConfig) Validate() error {
	if config.WorkDurationSeconds <= 0 {
		return fmt.Errorf("work duration %d: %w", config.WorkDurationSeconds, ErrInvalidDuration)
	}
	if config.BreakDurationSeconds <= 0 {
		return fmt.Errorf("break duration %d: %w", config.BreakDurationSeconds, ErrInvalidDuration)
	}
	return nil
}

// WorkDuration returns the work interval as a time.Duration.
func (config TimerConfig) WorkDuration() time.Duration {
	return time.Duration(config.WorkDurationSeconds) * time.Second
}

// BreakDuration returns the break interval as a time.Duration.
func (config TimerConfig) BreakDuration() time.Duration {
	return time.Duration(config.BreakDurationSeconds) * time.Second
}

// IdleSeconds converts an idle duration into whole seconds, clamped at zero.
func IdleSeconds(idle time.Duration) int {
	if idle < 0 {
		return 0
	}
	return int(idle / time.Second)
}
