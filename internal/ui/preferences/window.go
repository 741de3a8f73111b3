// Package preferences implements the settings window.
package preferences

import (
	"context"
	"time"

	"blinkaway/internal/core/model"
	"blinkaway/internal/dispatch"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

const requestTimeout = 5 * time.Second

// Backend is what the settings window needs from the running app.
type Backend interface {
	GetSettings(ctx context.Context) (model.TimerConfig, error)
	SaveSettings(ctx context.Context, config model.TimerConfig) error
	AttachView(view dispatch.CountdownView) func()
}

// Window handles the preferences UI.
type Window struct {
	app       fyne.App
	backend   Backend
	window    fyne.Window
	countdown *widget.Label
	workMin   *widget.Entry
	breakMin  *widget.Entry
	status    *widget.Label
	detach    func()
}

// New creates a settings window. It stays hidden until Show.
func New(app fyne.App, backend Backend) *Window {
	prefs := &Window{app: app, backend: backend}
	prefs.build()
	return prefs
}

func (prefs *Window) build() {
	window := prefs.app.NewWindow("Blinkaway Settings")

	countdown := widget.NewLabelWithStyle(dispatch.FormatClock(0), fyne.TextAlignCenter, fyne.TextStyle{Bold: true, Monospace: true})
	workMin := widget.NewEntry()
	breakMin := widget.NewEntry()
	status := widget.NewLabel("")
	status.Wrapping = fyne.TextWrapWord

	form := container.NewVBox(
		container.NewHBox(layout.NewSpacer(), countdown, widget.NewLabel("remaining"), layout.NewSpacer()),
		widget.NewLabelWithStyle("For the next break", fyne.TextAlignCenter, fyne.TextStyle{Italic: true}),
		widget.NewSeparator(),
		widget.NewLabel("Work Duration (minutes)"),
		workMin,
		widget.NewLabel("Break Duration (minutes)"),
		breakMin,
		status,
	)

	saveButton := widget.NewButton("Save", nil)
	saveButton.Importance = widget.HighImportance
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(layout.NewSpacer(), cancelButton, saveButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(360, 320))
	window.SetCloseIntercept(prefs.Hide)

	prefs.window = window
	prefs.countdown = countdown
	prefs.workMin = workMin
	prefs.breakMin = breakMin
	prefs.status = status

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = prefs.Hide
}

// Show displays the window, attaches the live countdown and fills the form
// from the running config. Must run on the fyne goroutine.
func (prefs *Window) Show() {
	prefs.status.SetText("")
	if prefs.detach == nil {
		prefs.detach = prefs.backend.AttachView(prefs)
	}
	prefs.window.Show()
	prefs.window.RequestFocus()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		config, err := prefs.backend.GetSettings(ctx)
		fyne.Do(func() {
			if err != nil {
				prefs.status.SetText(err.Error())
				config = model.DefaultTimerConfig()
			}
			prefs.setValues(ValuesFromConfig(config))
		})
	}()
}

// Hide detaches the countdown and hides the window.
func (prefs *Window) Hide() {
	if prefs.detach != nil {
		prefs.detach()
		prefs.detach = nil
	}
	prefs.window.Hide()
}

// PushCountdown implements dispatch.CountdownView.
func (prefs *Window) PushCountdown(seconds int) {
	fyne.Do(func() {
		prefs.countdown.SetText(dispatch.FormatClock(seconds))
	})
}

func (prefs *Window) setValues(values FormValues) {
	prefs.workMin.SetText(values.WorkMinutes)
	prefs.breakMin.SetText(values.BreakMinutes)
}

func (prefs *Window) handleSave() {
	config, err := ParseForm(FormValues{
		WorkMinutes:  prefs.workMin.Text,
		BreakMinutes: prefs.breakMin.Text,
	})
	if err != nil {
		prefs.status.SetText(err.Error())
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := prefs.backend.SaveSettings(ctx, config)
		fyne.Do(func() {
			if err != nil {
				prefs.status.SetText(err.Error())
				return
			}
			prefs.Hide()
		})
	}()
}
