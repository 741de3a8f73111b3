// Package animation drives the moving parts of a break surface: the skip
// button countdown and the rotating exercise hint.
package animation

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Range defines a duration range with random sampling.
type Range struct {
	Min time.Duration
	Max time.Duration
}

// Random returns a random duration within the range.
func (value Range) Random(rng *rand.Rand) time.Duration {
	if value.Max <= value.Min {
		return value.Min
	}
	delta := value.Max - value.Min
	return value.Min + time.Duration(rng.Int63n(int64(delta)))
}

// Config contains break surface timing values.
type Config struct {
	// Step is the skip countdown resolution.
	Step time.Duration
	// SkipDelay is how many steps pass before skipping is allowed.
	SkipDelay        int
	ExerciseDuration Range
	Exercises        []ExerciseType
}

// Engine emits frames for one break surface.
type Engine struct {
	mu      sync.Mutex
	config  Config
	onFrame func(Frame)
	cancel  context.CancelFunc
	rng     *rand.Rand
}

// New creates a new engine. onFrame runs on the engine goroutine.
func New(config Config, onFrame func(Frame)) *Engine {
	if config.Step <= 0 {
		config.Step = time.Second
	}
	if len(config.Exercises) == 0 {
		config.Exercises = []ExerciseType{ExerciseBlink}
	}
	return &Engine{
		config:  config,
		onFrame: onFrame,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start restarts the skip countdown and exercise rotation.
func (engine *Engine) Start(ctx context.Context) {
	engine.start(ctx, engine.run)
}

// Stop terminates any active sequence.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.cancel != nil {
		engine.cancel()
		engine.cancel = nil
	}
}

func (engine *Engine) start(parent context.Context, run func(context.Context)) {
	engine.mu.Lock()
	if engine.cancel != nil {
		engine.cancel()
	}
	runCtx, cancel := context.WithCancel(parent)
	engine.cancel = cancel
	engine.mu.Unlock()

	go run(runCtx)
}

func (engine *Engine) run(ctx context.Context) {
	config := engine.config
	index := 0
	frame := Frame{
		Exercise:    config.Exercises[index],
		SkipIn:      config.SkipDelay,
		SkipEnabled: config.SkipDelay <= 0,
	}
	if frame.SkipEnabled {
		frame.SkipIn = 0
	}
	engine.emit(ctx, frame)

	untilSwitch := engine.nextSwitch()
	for {
		if !sleepWithContext(ctx, config.Step) {
			return
		}
		changed := false
		if !frame.SkipEnabled {
			frame.SkipIn--
			if frame.SkipIn <= 0 {
				frame.SkipIn = 0
				frame.SkipEnabled = true
			}
			changed = true
		}
		untilSwitch -= config.Step
		if untilSwitch <= 0 && len(config.Exercises) > 1 {
			index = (index + 1) % len(config.Exercises)
			frame.Exercise = config.Exercises[index]
			untilSwitch = engine.nextSwitch()
			changed = true
		}
		if changed {
			engine.emit(ctx, frame)
		}
	}
}

func (engine *Engine) nextSwitch() time.Duration {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.config.ExerciseDuration.Random(engine.rng)
}

func (engine *Engine) emit(ctx context.Context, frame Frame) {
	if ctx.Err() != nil || engine.onFrame == nil {
		return
	}
	engine.onFrame(frame)
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
