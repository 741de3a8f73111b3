package timekeeper

import (
	"testing"

	"blinkaway/internal/actor"
	"blinkaway/internal/core/model"

	"pgregory.net/rapid"
)

func configGen() *rapid.Generator[model.TimerConfig] {
	return rapid.Custom(func(t *rapid.T) model.TimerConfig {
		return model.TimerConfig{
			WorkDurationSeconds:  rapid.IntRange(1, 120).Draw(t, "work"),
			BreakDurationSeconds: rapid.IntRange(1, 60).Draw(t, "break"),
		}
	})
}

func inputGen() *rapid.Generator[actor.Input] {
	return rapid.Custom(func(t *rapid.T) actor.Input {
		switch rapid.IntRange(0, 10).Draw(t, "kind") {
		case 0:
			return CmdStart{}
		case 1:
			return CmdStop{}
		case 2:
			return CmdPause{}
		case 3:
			return CmdResume{}
		case 4:
			return CmdSkipBreak{}
		case 5:
			return CmdStartBreak{}
		case 6:
			return IdleSample{IdleSeconds: rapid.IntRange(0, 400).Draw(t, "idle")}
		case 7:
			return CmdSaveSettings{Config: configGen().Draw(t, "config")}
		default:
			return Tick{}
		}
	})
}

func TestPropertyCountdownBoundedByPhaseDuration(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		state := NewState(configGen().Draw(t, "initial"))
		inputs := rapid.SliceOfN(inputGen(), 0, 200).Draw(t, "inputs")
		for _, input := range inputs {
			state, _ = Reduce(state, input)
			if state.Remaining < 0 || state.Remaining > state.Duration(state.Phase) {
				t.Fatalf("remaining %d outside [0,%d] in %+v", state.Remaining, state.Duration(state.Phase), state)
			}
			if state.Kind == KindIdle && state.Suspended == "" {
				t.Fatalf("idle state without suspended kind: %+v", state)
			}
			if state.Kind != KindIdle && state.Suspended != "" {
				t.Fatalf("suspended kind outside idle: %+v", state)
			}
		}
	})
}

func TestPropertyTicksAreMonotonicUntilExpiry(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		config := configGen().Draw(t, "config")
		state, _ := Reduce(NewState(config), CmdStart{})
		n := rapid.IntRange(1, 400).Draw(t, "ticks")
		for i := 0; i < n; i++ {
			prev := state
			state, _ = Reduce(state, Tick{})
			if state.Phase == prev.Phase {
				if state.Remaining != prev.Remaining-1 {
					t.Fatalf("tick moved %d -> %d", prev.Remaining, state.Remaining)
				}
				continue
			}
			if prev.Remaining != 1 || state.Remaining != state.Duration(state.Phase) {
				t.Fatalf("phase switched early or without reset: %+v -> %+v", prev, state)
			}
		}
	})
}

func TestPropertyPauseResumeRestoresCountdown(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		state, _ := Reduce(NewState(configGen().Draw(t, "config")), CmdStart{})
		state, _ = actor.Replay(state, ticks(rapid.IntRange(0, 200).Draw(t, "ticks")), Reduce)

		paused, _ := Reduce(state, CmdPause{})
		resumed, _ := Reduce(paused, CmdResume{})
		if resumed != state {
			t.Fatalf("round trip %+v -> %+v", state, resumed)
		}
	})
}

func TestPropertySkipBreakOnlyAffectsBreaks(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		state := NewState(configGen().Draw(t, "initial"))
		state, _ = actor.Replay(state, rapid.SliceOfN(inputGen(), 0, 100).Draw(t, "inputs"), Reduce)
		next, effects := Reduce(state, CmdSkipBreak{})
		if state.Kind != KindOnBreak && (next != state || len(effects) != 0) {
			t.Fatalf("skip changed %+v -> %+v", state, next)
		}
		if state.Kind == KindOnBreak && next.Kind != KindWorking {
			t.Fatalf("skip left break in %+v", next)
		}
	})
}

func TestPropertyBreakSurfacesBalance(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		state := NewState(configGen().Draw(t, "initial"))
		open := false
		for _, input := range rapid.SliceOfN(inputGen(), 0, 200).Draw(t, "inputs") {
			var effects []actor.Effect
			state, effects = Reduce(state, input)
			for _, effect := range effects {
				switch effect.(type) {
				case EffOpenBreakSurfaces:
					open = true
				case EffCloseBreakSurfaces:
					open = false
				}
			}
			if state.Kind == KindOnBreak && !open {
				t.Fatalf("on break without surfaces after %T", input)
			}
			if !state.BreakVisible() && open {
				t.Fatalf("surfaces left open in %+v after %T", state, input)
			}
		}
	})
}
