package preferences

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"blinkaway/internal/core/model"
	"blinkaway/internal/dispatch"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu       sync.Mutex
	config   model.TimerConfig
	saveErr  error
	saved    []model.TimerConfig
	attached int
	detached int
}

func (backend *fakeBackend) GetSettings(context.Context) (model.TimerConfig, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return backend.config, nil
}

func (backend *fakeBackend) SaveSettings(_ context.Context, config model.TimerConfig) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	if backend.saveErr != nil {
		return backend.saveErr
	}
	backend.saved = append(backend.saved, config)
	return nil
}

func (backend *fakeBackend) AttachView(dispatch.CountdownView) func() {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.attached++
	return func() {
		backend.mu.Lock()
		defer backend.mu.Unlock()
		backend.detached++
	}
}

func (backend *fakeBackend) savedCount() int {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return len(backend.saved)
}

func onMain[T any](read func() T) T {
	var value T
	fyne.DoAndWait(func() { value = read() })
	return value
}

func TestShowFillsFormAndAttaches(t *testing.T) {
	app := test.NewTempApp(t)
	backend := &fakeBackend{config: model.TimerConfig{WorkDurationSeconds: 1200, BreakDurationSeconds: 180}}
	prefs := New(app, backend)

	prefs.Show()
	prefs.Show()
	require.Eventually(t, func() bool {
		return onMain(func() string { return prefs.workMin.Text }) == "20"
	}, time.Second, time.Millisecond)
	require.Equal(t, "3", onMain(func() string { return prefs.breakMin.Text }))
	require.Equal(t, 1, backend.attached)

	prefs.PushCountdown(90)
	require.Eventually(t, func() bool {
		return onMain(func() string { return prefs.countdown.Text }) == "1:30"
	}, time.Second, time.Millisecond)

	prefs.Hide()
	require.Equal(t, 1, backend.detached)
}

func TestSaveRejectsInvalidInput(t *testing.T) {
	app := test.NewTempApp(t)
	backend := &fakeBackend{config: model.DefaultTimerConfig()}
	prefs := New(app, backend)

	prefs.workMin.SetText("0")
	prefs.breakMin.SetText("2")
	prefs.handleSave()
	require.Contains(t, prefs.status.Text, "work duration")
	require.Zero(t, backend.savedCount())
}

func TestSaveSubmitsSeconds(t *testing.T) {
	app := test.NewTempApp(t)
	backend := &fakeBackend{config: model.DefaultTimerConfig()}
	prefs := New(app, backend)

	prefs.workMin.SetText("10")
	prefs.breakMin.SetText("1")
	prefs.handleSave()
	require.Eventually(t, func() bool { return backend.savedCount() == 1 }, time.Second, time.Millisecond)
	require.Equal(t, model.TimerConfig{WorkDurationSeconds: 600, BreakDurationSeconds: 60}, backend.saved[0])
}

func TestSaveErrorIsShown(t *testing.T) {
	app := test.NewTempApp(t)
	backend := &fakeBackend{saveErr: errors.New("save settings: read-only file system")}
	prefs := New(app, backend)

	prefs.workMin.SetText("10")
	prefs.breakMin.SetText("1")
	prefs.handleSave()
	require.Eventually(t, func() bool {
		return onMain(func() string { return prefs.status.Text }) == "save settings: read-only file system"
	}, time.Second, time.Millisecond)
}
