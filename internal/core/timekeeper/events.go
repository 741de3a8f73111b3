package timekeeper

import (
	"time"

	"blinkaway/internal/actor"
	"blinkaway/internal/core/model"
)

// Tick advances the running countdown by one second.
type Tick struct {
	actor.InputBase
	At time.Time
}

// IdleSample reports how long the user has been without input.
type IdleSample struct {
	actor.InputBase
	IdleSeconds int
}

// CmdStart force-enters Working with a fresh countdown.
type CmdStart struct{ actor.InputBase }

// CmdStop force-enters Stopped.
type CmdStop struct{ actor.InputBase }

// CmdPause freezes the active phase.
type CmdPause struct{ actor.InputBase }

// CmdResume continues a paused phase.
type CmdResume struct{ actor.InputBase }

// CmdTogglePause resumes when paused and pauses otherwise.
type CmdTogglePause struct{ actor.InputBase }

// CmdSkipBreak ends the current break early.
type CmdSkipBreak struct{ actor.InputBase }

// CmdStartBreak ends the current work phase early.
type CmdStartBreak struct{ actor.InputBase }

// CmdSaveSettings replaces the timer configuration and restarts the active phase.
// Reply, when set, receives the persistence result. FromDisk marks a config
// that was read back from the settings file and must not be written again.
type CmdSaveSettings struct {
	actor.InputBase
	Config   model.TimerConfig
	FromDisk bool
	Reply    chan<- error
}

// CmdGetSettings asks for the current configuration.
type CmdGetSettings struct {
	actor.InputBase
	Reply chan<- model.TimerConfig
}

// EffOpenBreakSurfaces asks for one break surface per display.
type EffOpenBreakSurfaces struct {
	actor.EffectBase
	Remaining int
}

// EffCloseBreakSurfaces asks for every break surface to be closed.
type EffCloseBreakSurfaces struct{ actor.EffectBase }

// EffUpdateStatus refreshes the tray tooltip and title.
type EffUpdateStatus struct {
	actor.EffectBase
	State State
}

// EffRebuildMenu rebuilds the tray context menu.
type EffRebuildMenu struct {
	actor.EffectBase
	State State
}

// EffPushCountdown broadcasts the active countdown to open surfaces.
type EffPushCountdown struct {
	actor.EffectBase
	Phase     Phase
	Remaining int
}

// EffPersistSettings writes the configuration to the settings store.
type EffPersistSettings struct {
	actor.EffectBase
	Config model.TimerConfig
	Reply  chan<- error
}

// EffReplyError completes a command reply with a rejection.
type EffReplyError struct {
	actor.EffectBase
	Reply chan<- error
	Err   error
}

// EffReplySettings answers a CmdGetSettings.
type EffReplySettings struct {
	actor.EffectBase
	Config model.TimerConfig
	Reply  chan<- model.TimerConfig
}

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventProgress    EventType = "progress"
)

// Event represents a TimeKeeper update for observers.
type Event struct {
	Type      EventType
	Kind      Kind
	Phase     Phase
	Remaining int
	Reason    StopReason
	At        time.Time
}
