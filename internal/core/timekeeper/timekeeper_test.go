package timekeeper

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"blinkaway/internal/actor/actortest"
	"blinkaway/internal/core/model"

	"github.com/stretchr/testify/require"
)

type fakeIdle struct {
	mu    sync.Mutex
	idle  time.Duration
	err   error
	calls atomic.Int32
}

func (idle *fakeIdle) IdleDuration() (time.Duration, error) {
	idle.calls.Add(1)
	idle.mu.Lock()
	defer idle.mu.Unlock()
	return idle.idle, idle.err
}

func (idle *fakeIdle) set(value time.Duration) {
	idle.mu.Lock()
	defer idle.mu.Unlock()
	idle.idle = value
}

func runKeeper(t *testing.T, keeper *TimeKeeper) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- keeper.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("timekeeper did not stop")
		}
	})
}

func TestDriverArmDisarmIdempotent(t *testing.T) {
	var fired atomic.Int32
	driver := NewDriver(time.Millisecond, func(time.Time) { fired.Add(1) })

	driver.Disarm()
	driver.Arm()
	driver.Arm()
	require.True(t, driver.Armed())
	require.Eventually(t, func() bool { return fired.Load() > 2 }, time.Second, time.Millisecond)

	driver.Disarm()
	driver.Disarm()
	require.False(t, driver.Armed())
	stoppedAt := fired.Load()
	time.Sleep(10 * time.Millisecond)
	require.Equal(t, stoppedAt, fired.Load())
}

func TestTimeKeeperTicksIntoBreak(t *testing.T) {
	rt := &actortest.FakeRuntime{}
	keeper := New(model.TimerConfig{WorkDurationSeconds: 2, BreakDurationSeconds: 500}, rt, Config{
		TickInterval:       5 * time.Millisecond,
		IdleSampleInterval: time.Hour,
	})
	events := keeper.Subscribe(64)
	require.True(t, keeper.Enqueue(CmdStart{}))
	runKeeper(t, keeper)

	require.Eventually(t, func() bool {
		return keeper.State().Kind == KindOnBreak
	}, 2*time.Second, 5*time.Millisecond)

	opened := 0
	for _, effect := range rt.Effects() {
		if _, ok := effect.(EffOpenBreakSurfaces); ok {
			opened++
		}
	}
	require.Equal(t, 1, opened)

	var kinds []Kind
	for len(kinds) < 2 {
		select {
		case event := <-events:
			if event.Type == EventStateChange {
				kinds = append(kinds, event.Kind)
			}
		case <-time.After(time.Second):
			t.Fatalf("state changes observed: %v", kinds)
		}
	}
	require.Equal(t, []Kind{KindWorking, KindOnBreak}, kinds)
}

func TestTimeKeeperIdleSamplingSuspends(t *testing.T) {
	idle := &fakeIdle{}
	keeper := New(model.DefaultTimerConfig(), &actortest.FakeRuntime{}, Config{
		TickInterval:       time.Hour,
		IdleSampleInterval: 2 * time.Millisecond,
	})
	keeper.SetIdleChecker(idle)
	require.True(t, keeper.Enqueue(CmdStart{}))
	runKeeper(t, keeper)

	idle.set(130 * time.Second)
	require.Eventually(t, func() bool { return keeper.State().Kind == KindIdle }, 2*time.Second, 2*time.Millisecond)

	idle.set(0)
	require.Eventually(t, func() bool { return keeper.State().Kind == KindWorking }, 2*time.Second, 2*time.Millisecond)
}

func TestTimeKeeperDisablesUnsupportedIdle(t *testing.T) {
	idle := &fakeIdle{err: ErrIdleUnsupported}
	keeper := New(model.DefaultTimerConfig(), &actortest.FakeRuntime{}, Config{
		TickInterval:       time.Hour,
		IdleSampleInterval: time.Millisecond,
	})
	keeper.SetIdleChecker(idle)
	runKeeper(t, keeper)

	require.Eventually(t, func() bool { return idle.calls.Load() >= 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, int32(1), idle.calls.Load())
}

func TestTimeKeeperIgnoresTransientIdleErrors(t *testing.T) {
	idle := &fakeIdle{err: errors.New("xprintidle: exit status 1")}
	keeper := New(model.DefaultTimerConfig(), &actortest.FakeRuntime{}, Config{
		TickInterval:       time.Hour,
		IdleSampleInterval: time.Millisecond,
	})
	keeper.SetIdleChecker(idle)
	runKeeper(t, keeper)

	require.Eventually(t, func() bool { return idle.calls.Load() >= 3 }, time.Second, time.Millisecond)
	require.Equal(t, KindStopped, keeper.State().Kind)
}

func TestNewFallsBackToDefaultsOnInvalidConfig(t *testing.T) {
	keeper := New(model.TimerConfig{}, nil, Config{})
	require.Equal(t, model.DefaultTimerConfig(), keeper.State().Config)
	require.Equal(t, KindStopped, keeper.State().Kind)
}

func TestRunClosesObservers(t *testing.T) {
	keeper := New(model.DefaultTimerConfig(), &actortest.FakeRuntime{}, Config{})
	events := keeper.Subscribe(1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- keeper.Run(ctx) }()
	cancel()
	require.NoError(t, <-done)

	_, open := <-events
	require.False(t, open)
}
