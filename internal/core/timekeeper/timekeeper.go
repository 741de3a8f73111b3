package timekeeper

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"blinkaway/internal/actor"
	"blinkaway/internal/core/model"
	"blinkaway/internal/logger"

	"golang.org/x/sync/errgroup"
)

// ErrIdleUnsupported indicates idle detection is not available on this system.
var ErrIdleUnsupported = errors.New("idle detection unsupported")

// IdleChecker reports the duration of user inactivity.
type IdleChecker interface {
	IdleDuration() (time.Duration, error)
}

// Config contains runtime options for TimeKeeper.
type Config struct {
	TickInterval       time.Duration
	IdleSampleInterval time.Duration
	MailboxSize        int
}

// TimeKeeper owns the scheduler state. All mutation funnels through one actor
// loop; the clock and idle sampler only enqueue inputs.
type TimeKeeper struct {
	actor   *actor.Actor[State]
	options Config

	clock *Driver
	idle  *Driver

	mu          sync.Mutex
	idleChecker IdleChecker
	idleOff     atomic.Bool
	events      []chan Event
}

// New creates a TimeKeeper in the Stopped state. Effects are handed to runtime.
func New(config model.TimerConfig, runtime actor.Runtime, options Config) *TimeKeeper {
	if options.TickInterval <= 0 {
		options.TickInterval = model.TickInterval
	}
	if options.IdleSampleInterval <= 0 {
		options.IdleSampleInterval = model.IdleSampleInterval
	}
	if err := config.Validate(); err != nil {
		logger.Warnf("timekeeper: %v; using defaults", err)
		config = model.DefaultTimerConfig()
	}

	keeper := &TimeKeeper{options: options}
	opts := []actor.Option[State]{
		actor.WithHooks(actor.Hooks[State]{
			OnTransition: keeper.observe,
		}),
	}
	if options.MailboxSize > 0 {
		opts = append(opts, actor.WithMailboxSize[State](options.MailboxSize))
	}
	keeper.actor = actor.New(NewState(config), Reduce, runtime, opts...)
	keeper.clock = NewDriver(options.TickInterval, func(now time.Time) {
		keeper.actor.TryEnqueue(Tick{At: now})
	})
	keeper.idle = NewDriver(options.IdleSampleInterval, keeper.sampleIdle)
	return keeper
}

// SetIdleChecker injects an idle checker.
func (keeper *TimeKeeper) SetIdleChecker(checker IdleChecker) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.idleChecker = checker
	keeper.idleOff.Store(false)
}

// Subscribe registers a new observer channel. Slow observers miss events.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	keeper.events = append(keeper.events, ch)
	keeper.mu.Unlock()
	return ch
}

// Enqueue delivers an input to the state machine.
func (keeper *TimeKeeper) Enqueue(input actor.Input) bool {
	return keeper.actor.Enqueue(input)
}

// State returns a snapshot of the scheduler state.
func (keeper *TimeKeeper) State() State {
	return keeper.actor.State()
}

// Run starts the actor and both drivers and blocks until ctx is canceled.
// Observer channels are closed on return.
func (keeper *TimeKeeper) Run(ctx context.Context) error {
	keeper.actor.Start()
	keeper.clock.Arm()
	keeper.idle.Arm()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		<-groupCtx.Done()
		keeper.clock.Disarm()
		keeper.idle.Disarm()
		keeper.actor.Stop()
		return nil
	})
	group.Go(func() error {
		select {
		case <-keeper.actor.Done():
			return actor.ErrStopped
		case <-groupCtx.Done():
			<-keeper.actor.Done()
			return nil
		}
	})

	err := group.Wait()
	keeper.closeObservers()
	if errors.Is(err, actor.ErrStopped) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (keeper *TimeKeeper) sampleIdle(time.Time) {
	if keeper.idleOff.Load() {
		return
	}
	keeper.mu.Lock()
	checker := keeper.idleChecker
	keeper.mu.Unlock()
	if checker == nil {
		return
	}

	idle, err := checker.IdleDuration()
	if err != nil {
		if errors.Is(err, ErrIdleUnsupported) {
			keeper.idleOff.Store(true)
			logger.Warnf("timekeeper: idle sampling disabled: %v", err)
			return
		}
		logger.Debugf("timekeeper: idle sample failed: %v", err)
		return
	}
	keeper.actor.TryEnqueue(IdleSample{IdleSeconds: model.IdleSeconds(idle)})
}

func (keeper *TimeKeeper) observe(prev, next State, input actor.Input) {
	if prev.Kind != next.Kind || prev.Phase != next.Phase {
		logger.Infof("timekeeper: %s/%s -> %s/%s (%T)", prev.Kind, prev.Phase, next.Kind, next.Phase, input)
		keeper.emit(Event{
			Type:      EventStateChange,
			Kind:      next.Kind,
			Phase:     next.Phase,
			Remaining: next.Remaining,
			Reason:    next.StopReason,
			At:        time.Now(),
		})
		return
	}
	if prev.Remaining != next.Remaining {
		keeper.emit(Event{
			Type:      EventProgress,
			Kind:      next.Kind,
			Phase:     next.Phase,
			Remaining: next.Remaining,
			At:        time.Now(),
		})
	}
}

func (keeper *TimeKeeper) emit(event Event) {
	keeper.mu.Lock()
	events := append([]chan Event(nil), keeper.events...)
	keeper.mu.Unlock()
	for _, ch := range events {
		select {
		case ch <- event:
		default:
		}
	}
}

func (keeper *TimeKeeper) closeObservers() {
	keeper.mu.Lock()
	events := keeper.events
	keeper.events = nil
	keeper.mu.Unlock()
	for _, ch := range events {
		close(ch)
	}
}
