package timekeeper

import "blinkaway/internal/core/model"

// Kind is the operating mode of the scheduler.
type Kind string

const (
	KindWorking Kind = "working"
	KindOnBreak Kind = "on_break"
	KindPaused  Kind = "paused"
	KindStopped Kind = "stopped"
	KindIdle    Kind = "idle"
)

// Phase is one of the two alternating countdowns.
type Phase string

const (
	PhaseWork  Phase = "work"
	PhaseBreak Phase = "break"
)

// StopReason tells a deliberate stop apart from one forced by inactivity.
type StopReason string

const (
	StopManual StopReason = "manual"
	StopIdle   StopReason = "idle"
)

// State is the complete scheduler state owned by the TimeKeeper actor.
//
// Phase and Remaining describe the countdown that is running (Working,
// OnBreak), frozen (Paused, Idle) or waiting at full length (Stopped).
// Suspended is set only in KindIdle and holds the kind to return to.
type State struct {
	Kind       Kind
	Phase      Phase
	Remaining  int
	Suspended  Kind
	StopReason StopReason
	Config     model.TimerConfig
}

// NewState returns the initial, manually stopped state.
func NewState(config model.TimerConfig) State {
	return stoppedState(config, StopManual)
}

// Running reports whether ticks advance the countdown.
func (state State) Running() bool {
	return state.Kind == KindWorking || state.Kind == KindOnBreak
}

// PausedByUser reports whether a Resume would take effect.
func (state State) PausedByUser() bool {
	return state.Kind == KindPaused || (state.Kind == KindIdle && state.Suspended == KindPaused)
}

// BreakVisible reports whether break surfaces belong on screen.
func (state State) BreakVisible() bool {
	switch state.Kind {
	case KindOnBreak, KindPaused, KindIdle:
		return state.Phase == PhaseBreak
	default:
		return false
	}
}

// Duration returns the configured length of a phase in seconds.
func (state State) Duration(phase Phase) int {
	if phase == PhaseBreak {
		return state.Config.BreakDurationSeconds
	}
	return state.Config.WorkDurationSeconds
}

func phaseKind(phase Phase) Kind {
	if phase == PhaseBreak {
		return KindOnBreak
	}
	return KindWorking
}

func stoppedState(config model.TimerConfig, reason StopReason) State {
	return State{
		Kind:       KindStopped,
		Phase:      PhaseWork,
		Remaining:  config.WorkDurationSeconds,
		StopReason: reason,
		Config:     config,
	}
}

func workingState(config model.TimerConfig) State {
	return State{
		Kind:      KindWorking,
		Phase:     PhaseWork,
		Remaining: config.WorkDurationSeconds,
		Config:    config,
	}
}

func breakState(config model.TimerConfig) State {
	return State{
		Kind:      KindOnBreak,
		Phase:     PhaseBreak,
		Remaining: config.BreakDurationSeconds,
		Config:    config,
	}
}
