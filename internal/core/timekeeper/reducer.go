package timekeeper

import (
	"blinkaway/internal/actor"
	"blinkaway/internal/core/model"
)

var (
	idleEnterSeconds = int(model.IdleEnterThreshold.Seconds())
	idleStopSeconds  = int(model.IdleStopThreshold.Seconds())
)

// Reduce is the scheduler transition function. It never performs I/O; every
// external action is returned as an effect. Inputs that do not apply to the
// current state return the state unchanged with no effects.
func Reduce(state State, input actor.Input) (State, []actor.Effect) {
	switch in := input.(type) {
	case Tick:
		return reduceTick(state)
	case IdleSample:
		return reduceIdle(state, in.IdleSeconds)
	case CmdStart:
		return enterWork(state)
	case CmdStop:
		return reduceStop(state)
	case CmdPause:
		return reducePause(state)
	case CmdResume:
		return reduceResume(state)
	case CmdTogglePause:
		if state.PausedByUser() {
			return reduceResume(state)
		}
		return reducePause(state)
	case CmdSkipBreak:
		if state.Kind != KindOnBreak {
			return state, nil
		}
		return enterWork(state)
	case CmdStartBreak:
		if state.Kind != KindWorking {
			return state, nil
		}
		return enterBreak(state)
	case CmdSaveSettings:
		return reduceSaveSettings(state, in)
	case CmdGetSettings:
		if in.Reply == nil {
			return state, nil
		}
		return state, []actor.Effect{EffReplySettings{Config: state.Config, Reply: in.Reply}}
	default:
		return state, nil
	}
}

func reduceTick(state State) (State, []actor.Effect) {
	if !state.Running() {
		return state, nil
	}
	next := state
	next.Remaining--
	if next.Remaining > 0 {
		return next, []actor.Effect{
			EffUpdateStatus{State: next},
			EffPushCountdown{Phase: next.Phase, Remaining: next.Remaining},
		}
	}
	if state.Kind == KindWorking {
		return enterBreak(state)
	}
	return enterWork(state)
}

func reduceIdle(state State, idleSeconds int) (State, []actor.Effect) {
	if idleSeconds < 0 {
		idleSeconds = 0
	}
	switch state.Kind {
	case KindWorking, KindOnBreak, KindPaused:
		if idleSeconds >= idleStopSeconds {
			return enterStopped(state, StopIdle)
		}
		if idleSeconds < idleEnterSeconds {
			return state, nil
		}
		next := state
		next.Suspended = state.Kind
		next.Kind = KindIdle
		return next, []actor.Effect{EffUpdateStatus{State: next}, EffRebuildMenu{State: next}}
	case KindIdle:
		if idleSeconds >= idleStopSeconds {
			return enterStopped(state, StopIdle)
		}
		if idleSeconds >= idleEnterSeconds {
			return state, nil
		}
		next := state
		next.Kind = state.Suspended
		next.Suspended = ""
		return next, resumedEffects(next)
	case KindStopped:
		if state.StopReason == StopIdle && idleSeconds < idleStopSeconds {
			return enterWork(state)
		}
		return state, nil
	default:
		return state, nil
	}
}

func reduceStop(state State) (State, []actor.Effect) {
	if state.Kind == KindStopped {
		// An explicit stop overrides an idle stop so the user's return does not restart the timer.
		next := state
		next.StopReason = StopManual
		return next, nil
	}
	return enterStopped(state, StopManual)
}

func reducePause(state State) (State, []actor.Effect) {
	switch state.Kind {
	case KindWorking, KindOnBreak:
	case KindIdle:
		if state.Suspended == KindPaused {
			return state, nil
		}
	default:
		return state, nil
	}
	next := state
	next.Kind = KindPaused
	next.Suspended = ""
	return next, []actor.Effect{EffUpdateStatus{State: next}, EffRebuildMenu{State: next}}
}

func reduceResume(state State) (State, []actor.Effect) {
	if !state.PausedByUser() {
		return state, nil
	}
	next := state
	next.Kind = phaseKind(state.Phase)
	next.Suspended = ""
	return next, resumedEffects(next)
}

func reduceSaveSettings(state State, in CmdSaveSettings) (State, []actor.Effect) {
	if err := in.Config.Validate(); err != nil {
		if in.Reply == nil {
			return state, nil
		}
		return state, []actor.Effect{EffReplyError{Reply: in.Reply, Err: err}}
	}
	if in.FromDisk && in.Config == state.Config {
		return state, nil
	}

	next := state
	next.Config = in.Config
	next.Remaining = next.Duration(next.Phase)

	var effects []actor.Effect
	if !in.FromDisk {
		effects = append(effects, EffPersistSettings{Config: in.Config, Reply: in.Reply})
	}
	effects = append(effects,
		EffUpdateStatus{State: next},
		EffRebuildMenu{State: next},
		EffPushCountdown{Phase: next.Phase, Remaining: next.Remaining},
	)
	return next, effects
}

func enterWork(state State) (State, []actor.Effect) {
	next := workingState(state.Config)
	var effects []actor.Effect
	if state.BreakVisible() {
		effects = append(effects, EffCloseBreakSurfaces{})
	}
	return next, append(effects, transitionEffects(next)...)
}

func enterBreak(state State) (State, []actor.Effect) {
	next := breakState(state.Config)
	effects := []actor.Effect{EffOpenBreakSurfaces{Remaining: next.Remaining}}
	return next, append(effects, transitionEffects(next)...)
}

func enterStopped(state State, reason StopReason) (State, []actor.Effect) {
	next := stoppedState(state.Config, reason)
	var effects []actor.Effect
	if state.BreakVisible() {
		effects = append(effects, EffCloseBreakSurfaces{})
	}
	return next, append(effects, transitionEffects(next)...)
}

func resumedEffects(next State) []actor.Effect {
	var effects []actor.Effect
	if next.Kind == KindOnBreak {
		effects = append(effects, EffOpenBreakSurfaces{Remaining: next.Remaining})
	}
	return append(effects, transitionEffects(next)...)
}

func transitionEffects(next State) []actor.Effect {
	return []actor.Effect{
		EffUpdateStatus{State: next},
		EffRebuildMenu{State: next},
		EffPushCountdown{Phase: next.Phase, Remaining: next.Remaining},
	}
}
