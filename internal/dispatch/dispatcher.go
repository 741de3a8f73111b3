// Package dispatch turns timekeeper effects into calls on the window, tray and
// settings collaborators.
package dispatch

import (
	"context"
	"fmt"
	"sync"

	"blinkaway/internal/actor"
	"blinkaway/internal/core/model"
	"blinkaway/internal/core/timekeeper"
	"blinkaway/internal/logger"

	"github.com/google/uuid"
)

// Bounds is a display rectangle in screen coordinates.
type Bounds struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Display identifies one connected screen.
type Display struct {
	ID     string
	Bounds Bounds
}

// Surface is an open break overlay.
type Surface interface {
	PushCountdown(seconds int)
	Close() error
}

// Windows creates break surfaces.
type Windows interface {
	Displays() []Display
	OpenBreakSurface(display Display) (Surface, error)
}

// SkipGate is implemented by Windows whose surfaces offer a skip control.
// Skipping is only allowed while the break is running.
type SkipGate interface {
	SetSkipAllowed(allowed bool)
}

// Tray renders the status icon.
type Tray interface {
	SetTooltip(text string)
	SetTitle(text string)
	RebuildMenu(items []MenuItem)
}

// CountdownView receives the active countdown, e.g. an open settings window.
type CountdownView interface {
	PushCountdown(seconds int)
}

// SettingsSaver persists the timer configuration.
type SettingsSaver interface {
	Save(config model.TimerConfig) error
}

// Dispatcher implements actor.Runtime for the timekeeper.
type Dispatcher struct {
	windows Windows
	tray    Tray
	saver   SettingsSaver

	surfaceMu sync.Mutex
	surfaces  map[string]Surface
	episode   string

	viewMu sync.Mutex
	views  map[int]CountdownView
	nextID int
}

var _ actor.Runtime = (*Dispatcher)(nil)

// New creates a dispatcher. Any collaborator may be nil.
func New(windows Windows, tray Tray, saver SettingsSaver) *Dispatcher {
	return &Dispatcher{
		windows:  windows,
		tray:     tray,
		saver:    saver,
		surfaces: make(map[string]Surface),
		views:    make(map[int]CountdownView),
	}
}

// AttachView registers a countdown view and returns a function that detaches it.
func (dispatcher *Dispatcher) AttachView(view CountdownView) func() {
	dispatcher.viewMu.Lock()
	id := dispatcher.nextID
	dispatcher.nextID++
	dispatcher.views[id] = view
	dispatcher.viewMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			dispatcher.viewMu.Lock()
			delete(dispatcher.views, id)
			dispatcher.viewMu.Unlock()
		})
	}
}

// OpenSurfaces reports how many break surfaces are currently open.
func (dispatcher *Dispatcher) OpenSurfaces() int {
	dispatcher.surfaceMu.Lock()
	defer dispatcher.surfaceMu.Unlock()
	return len(dispatcher.surfaces)
}

// HandleEffects implements actor.Runtime.
func (dispatcher *Dispatcher) HandleEffects(ctx context.Context, effects []actor.Effect, _ func(actor.Input)) {
	for _, effect := range effects {
		if ctx.Err() != nil {
			return
		}
		dispatcher.handle(effect)
	}
}

// Stop closes any open break surfaces.
func (dispatcher *Dispatcher) Stop() {
	dispatcher.closeSurfaces()
}

func (dispatcher *Dispatcher) handle(effect actor.Effect) {
	switch eff := effect.(type) {
	case timekeeper.EffOpenBreakSurfaces:
		dispatcher.gateSkip(true)
		dispatcher.openSurfaces(eff.Remaining)
	case timekeeper.EffCloseBreakSurfaces:
		dispatcher.closeSurfaces()
	case timekeeper.EffUpdateStatus:
		dispatcher.gateSkip(eff.State.Kind == timekeeper.KindOnBreak)
		if dispatcher.tray != nil {
			dispatcher.tray.SetTooltip(Tooltip(eff.State))
			dispatcher.tray.SetTitle(TrayTitle(eff.State))
		}
	case timekeeper.EffRebuildMenu:
		if dispatcher.tray != nil {
			dispatcher.tray.RebuildMenu(MenuItems(eff.State))
		}
	case timekeeper.EffPushCountdown:
		dispatcher.pushCountdown(eff.Phase, eff.Remaining)
	case timekeeper.EffPersistSettings:
		dispatcher.persist(eff)
	case timekeeper.EffReplyError:
		reply(eff.Reply, eff.Err)
	case timekeeper.EffReplySettings:
		if eff.Reply != nil {
			select {
			case eff.Reply <- eff.Config:
			default:
			}
		}
	default:
		logger.Debugf("dispatch: unhandled effect %T", effect)
	}
}

func (dispatcher *Dispatcher) openSurfaces(remaining int) {
	if dispatcher.windows == nil {
		return
	}
	dispatcher.surfaceMu.Lock()
	defer dispatcher.surfaceMu.Unlock()

	if dispatcher.episode == "" {
		dispatcher.episode = uuid.NewString()
	}
	for _, display := range dispatcher.windows.Displays() {
		if _, open := dispatcher.surfaces[display.ID]; open {
			continue
		}
		surface, err := dispatcher.windows.OpenBreakSurface(display)
		if err != nil {
			logger.Warnf("dispatch: break %s: open surface on display %s: %v", dispatcher.episode, display.ID, err)
			continue
		}
		dispatcher.surfaces[display.ID] = surface
		surface.PushCountdown(remaining)
	}
	logger.Debugf("dispatch: break %s: %d surface(s) open", dispatcher.episode, len(dispatcher.surfaces))
}

func (dispatcher *Dispatcher) gateSkip(allowed bool) {
	if gate, ok := dispatcher.windows.(SkipGate); ok {
		gate.SetSkipAllowed(allowed)
	}
}

func (dispatcher *Dispatcher) closeSurfaces() {
	dispatcher.surfaceMu.Lock()
	defer dispatcher.surfaceMu.Unlock()

	for id, surface := range dispatcher.surfaces {
		if err := surface.Close(); err != nil {
			logger.Warnf("dispatch: break %s: close surface on display %s: %v", dispatcher.episode, id, err)
		}
		delete(dispatcher.surfaces, id)
	}
	dispatcher.episode = ""
}

func (dispatcher *Dispatcher) pushCountdown(phase timekeeper.Phase, remaining int) {
	if phase == timekeeper.PhaseBreak {
		dispatcher.surfaceMu.Lock()
		for _, surface := range dispatcher.surfaces {
			surface.PushCountdown(remaining)
		}
		dispatcher.surfaceMu.Unlock()
	}

	dispatcher.viewMu.Lock()
	views := make([]CountdownView, 0, len(dispatcher.views))
	for _, view := range dispatcher.views {
		views = append(views, view)
	}
	dispatcher.viewMu.Unlock()
	for _, view := range views {
		view.PushCountdown(remaining)
	}
}

func (dispatcher *Dispatcher) persist(eff timekeeper.EffPersistSettings) {
	var err error
	if dispatcher.saver != nil {
		err = dispatcher.saver.Save(eff.Config)
	}
	if err != nil {
		err = fmt.Errorf("save settings: %w", err)
		logger.Warnf("dispatch: %v", err)
	}
	reply(eff.Reply, err)
}

func reply(ch chan<- error, err error) {
	if ch == nil {
		return
	}
	select {
	case ch <- err:
	default:
	}
}
