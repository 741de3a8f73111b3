// Package overlay renders break surfaces with fyne.
//
// Multi-monitor support only needs a real enumeration in Manager.Displays:
// the dispatcher already keys surfaces by Display.ID and opens one per entry.
package overlay

import (
	"context"
	"errors"
	"image/color"
	"sync"

	"blinkaway/internal/dispatch"
	"blinkaway/internal/logger"
	"blinkaway/internal/ui/animation"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Config defines overlay visuals.
type Config struct {
	Opacity    uint8
	Fullscreen bool
	Animation  animation.Config
}

// DefaultConfig returns the overlay visuals used by the app.
func DefaultConfig() Config {
	return Config{
		Opacity:    204,
		Fullscreen: true,
		Animation:  animation.DefaultConfig(),
	}
}

const (
	overlayWidthFraction  = float32(0.5)
	overlayHeightFraction = float32(0.5)
	defaultScreenWidth    = float32(1920)
	defaultScreenHeight   = float32(1080)
	primaryDisplayID      = "primary"
)

var (
	backgroundColor = color.NRGBA{R: 0x4A, G: 0x97, B: 0x82}
	headlineColor   = color.NRGBA{R: 0x27, G: 0x27, B: 0x2A, A: 255}
	textColor       = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// ErrClosed is returned by OpenBreakSurface once the manager is shut down.
var ErrClosed = errors.New("overlay manager closed")

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// Manager opens break surfaces. It implements dispatch.Windows and
// dispatch.SkipGate.
type Manager struct {
	app    fyne.App
	config Config
	onSkip func()

	mu          sync.Mutex
	open        map[*Window]struct{}
	skipAllowed bool

	done     chan struct{}
	doneOnce sync.Once
}

var (
	_ dispatch.Windows  = (*Manager)(nil)
	_ dispatch.SkipGate = (*Manager)(nil)
)

// NewManager creates a manager. onSkip runs when a surface's skip button is tapped.
func NewManager(app fyne.App, config Config, onSkip func()) *Manager {
	return &Manager{
		app:         app,
		config:      config,
		onSkip:      onSkip,
		open:        make(map[*Window]struct{}),
		skipAllowed: true,
		done:        make(chan struct{}),
	}
}

// Displays reports the screens break surfaces are opened on. fyne exposes no
// monitor enumeration, so every surface targets the primary display and a
// fullscreen window covers it.
func (manager *Manager) Displays() []dispatch.Display {
	return []dispatch.Display{{
		ID:     primaryDisplayID,
		Bounds: dispatch.Bounds{Width: int(defaultScreenWidth), Height: int(defaultScreenHeight)},
	}}
}

// OpenBreakSurface creates and shows a surface on the fyne thread and waits
// for it, or returns ErrClosed if the manager shuts down first.
func (manager *Manager) OpenBreakSurface(display dispatch.Display) (dispatch.Surface, error) {
	select {
	case <-manager.done:
		return nil, ErrClosed
	default:
	}

	created := make(chan *Window, 1)
	fyne.Do(func() {
		select {
		case <-manager.done:
			created <- nil
			return
		default:
		}
		overlay := newWindow(manager.app, manager.config, display)
		overlay.SetOnSkip(manager.onSkip)
		manager.track(overlay)
		overlay.show()
		created <- overlay
	})

	select {
	case overlay := <-created:
		if overlay == nil {
			return nil, ErrClosed
		}
		return overlay, nil
	case <-manager.done:
		return nil, ErrClosed
	}
}

// SetSkipAllowed implements dispatch.SkipGate. Open surfaces keep their skip
// button disabled while skipping is not allowed, on top of the skip delay.
func (manager *Manager) SetSkipAllowed(allowed bool) {
	manager.mu.Lock()
	if manager.skipAllowed == allowed {
		manager.mu.Unlock()
		return
	}
	manager.skipAllowed = allowed
	windows := make([]*Window, 0, len(manager.open))
	for overlay := range manager.open {
		windows = append(windows, overlay)
	}
	manager.mu.Unlock()

	fyne.Do(func() {
		for _, overlay := range windows {
			overlay.setSkipAllowedUnsafe(allowed)
		}
	})
}

// Shutdown makes pending and future OpenBreakSurface calls return ErrClosed.
// Call it when the fyne loop stops. Safe to call repeatedly.
func (manager *Manager) Shutdown() {
	manager.doneOnce.Do(func() {
		close(manager.done)
	})
}

// track must run on the fyne thread.
func (manager *Manager) track(overlay *Window) {
	manager.mu.Lock()
	manager.open[overlay] = struct{}{}
	overlay.skipAllowed = manager.skipAllowed
	manager.mu.Unlock()
	overlay.onClosed = func() {
		manager.mu.Lock()
		delete(manager.open, overlay)
		manager.mu.Unlock()
	}
	overlay.applySkipUnsafe()
}

// Window is one break surface.
type Window struct {
	window     fyne.Window
	config     Config
	background *canvas.Rectangle
	timerLabel *canvas.Text
	hintLabel  *canvas.Text
	skipButton *widget.Button
	engine     *animation.Engine
	cancelCtx  context.CancelFunc
	onSkip     func()
	onClosed   func()

	// Accessed on the fyne thread only.
	frame       animation.Frame
	skipAllowed bool

	closeOnce sync.Once
}

func newWindow(app fyne.App, config Config, display dispatch.Display) *Window {
	window := app.NewWindow("BlinkAway")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		// Splash window is undecorated (no native frame/buttons).
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	fill := backgroundColor
	fill.A = config.Opacity
	background := canvas.NewRectangle(fill)

	timerLabel := canvas.NewText(dispatch.FormatClock(0), textColor)
	timerLabel.Alignment = fyne.TextAlignCenter
	timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timerLabel.TextSize = 36

	hintLabel := canvas.NewText("", headlineColor)
	hintLabel.Alignment = fyne.TextAlignCenter
	hintLabel.TextStyle = fyne.TextStyle{Bold: true}
	hintLabel.TextSize = 48

	skipButton := widget.NewButton("", nil)
	skipButton.Importance = widget.HighImportance

	content := container.NewCenter(container.NewVBox(
		timerLabel,
		widget.NewSeparator(),
		hintLabel,
		container.NewCenter(skipButton),
	))
	window.SetContent(container.NewStack(background, content))

	overlay := &Window{
		window:      window,
		config:      config,
		background:  background,
		timerLabel:  timerLabel,
		hintLabel:   hintLabel,
		skipButton:  skipButton,
		skipAllowed: true,
	}
	overlay.engine = animation.New(config.Animation, func(frame animation.Frame) {
		fyne.Do(func() { overlay.applyFrameUnsafe(frame) })
	})
	overlay.applyFrameUnsafe(animation.Frame{SkipIn: config.Animation.SkipDelay, SkipEnabled: config.Animation.SkipDelay <= 0})
	logger.Debugf("overlay: surface for display %s (%dx%d)", display.ID, display.Bounds.Width, display.Bounds.Height)
	return overlay
}

// SetOnSkip sets skip handler.
func (overlay *Window) SetOnSkip(handler func()) {
	overlay.onSkip = handler
	overlay.skipButton.OnTapped = func() {
		if overlay.onSkip != nil {
			overlay.onSkip()
		}
	}
}

// PushCountdown implements dispatch.Surface.
func (overlay *Window) PushCountdown(seconds int) {
	fyne.Do(func() {
		overlay.timerLabel.Text = dispatch.FormatClock(seconds)
		overlay.timerLabel.Refresh()
	})
}

// Close implements dispatch.Surface. Safe to call repeatedly.
func (overlay *Window) Close() error {
	overlay.closeOnce.Do(func() {
		if overlay.onClosed != nil {
			overlay.onClosed()
		}
		overlay.stopEngine()
		fyne.Do(func() {
			if overlay.config.Fullscreen {
				overlay.window.SetFullScreen(false)
			}
			overlay.window.Close()
		})
	})
	return nil
}

func (overlay *Window) show() {
	overlay.stopEngine()
	ctx, cancel := context.WithCancel(context.Background())
	overlay.cancelCtx = cancel

	overlay.applyWindowMode()
	overlay.window.Show()
	overlay.window.RequestFocus()
	overlay.applyNativeOpacity(overlay.config.Opacity)
	overlay.engine.Start(ctx)
}

func (overlay *Window) applyFrameUnsafe(frame animation.Frame) {
	overlay.frame = frame
	overlay.hintLabel.Text = frame.Exercise.Hint()
	overlay.hintLabel.Refresh()
	overlay.skipButton.SetText(frame.SkipLabel())
	overlay.applySkipUnsafe()
}

func (overlay *Window) setSkipAllowedUnsafe(allowed bool) {
	overlay.skipAllowed = allowed
	overlay.applySkipUnsafe()
}

func (overlay *Window) applySkipUnsafe() {
	if overlay.frame.SkipEnabled && overlay.skipAllowed {
		overlay.skipButton.Enable()
	} else {
		overlay.skipButton.Disable()
	}
}

func (overlay *Window) stopEngine() {
	if overlay.engine != nil {
		overlay.engine.Stop()
	}
	if overlay.cancelCtx != nil {
		overlay.cancelCtx()
		overlay.cancelCtx = nil
	}
}

func (overlay *Window) applyWindowMode() {
	if overlay.config.Fullscreen {
		overlay.window.SetFullScreen(true)
		return
	}
	overlay.window.SetFullScreen(false)
	overlay.resizeToScreenFraction()
}

func (overlay *Window) resizeToScreenFraction() {
	screenSize := fyne.NewSize(defaultScreenWidth, defaultScreenHeight)
	canvasSize := overlay.window.Canvas().Size()
	// Canvas size can be reused as a proxy for monitor size when it is clearly screen-like.
	if canvasSize.Width >= 1024 && canvasSize.Height >= 720 {
		screenSize = canvasSize
	}

	width := screenSize.Width * overlayWidthFraction
	height := screenSize.Height * overlayHeightFraction
	minSize := overlay.window.Content().MinSize()
	if width < minSize.Width {
		width = minSize.Width
	}
	if height < minSize.Height {
		height = minSize.Height
	}

	overlay.window.Resize(fyne.NewSize(width, height))
	overlay.window.CenterOnScreen()
}
