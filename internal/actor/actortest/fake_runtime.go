// Package actortest provides test helpers for the actor package.
package actortest

import (
	"context"
	"sync"

	"blinkaway/internal/actor"
)

// FakeRuntime records effects instead of executing them.
type FakeRuntime struct {
	mu      sync.Mutex
	effects []actor.Effect
	stopped int
}

var _ actor.Runtime = (*FakeRuntime)(nil)

// HandleEffects implements actor.Runtime.
func (r *FakeRuntime) HandleEffects(_ context.Context, effects []actor.Effect, _ func(actor.Input)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.effects = append(r.effects, effects...)
}

// Stop implements actor.Runtime.
func (r *FakeRuntime) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped++
}

// Effects returns a snapshot of recorded effects.
func (r *FakeRuntime) Effects() []actor.Effect {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]actor.Effect, len(r.effects))
	copy(out, r.effects)
	return out
}

// StopCount reports how many times Stop was called.
func (r *FakeRuntime) StopCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopped
}
