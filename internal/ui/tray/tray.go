// Package tray renders the system tray icon, tooltip and menu.
package tray

import (
	"blinkaway/internal/dispatch"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/systray"
)

const menuTitle = "Blinkaway"

// Manager handles system tray state. It implements dispatch.Tray.
type Manager struct {
	app      desktop.App
	onAction func(dispatch.Action)
	paused   bool
}

var _ dispatch.Tray = (*Manager)(nil)

// New creates a tray manager. onAction runs on the fyne goroutine.
func New(app desktop.App, onAction func(dispatch.Action)) *Manager {
	manager := &Manager{app: app, onAction: onAction}
	app.SetSystemTrayIcon(iconFor(false))
	app.SetSystemTrayMenu(manager.buildMenu([]dispatch.MenuItem{
		{Action: dispatch.ActionStart, Label: "Start"},
		{},
		{Action: dispatch.ActionQuit, Label: "Quit"},
	}))
	return manager
}

// SetTooltip updates the hover text.
func (manager *Manager) SetTooltip(text string) {
	fyne.Do(func() {
		systray.SetTooltip(text)
	})
}

// SetTitle updates the text beside the icon. Only macOS renders it.
func (manager *Manager) SetTitle(text string) {
	fyne.Do(func() {
		systray.SetTitle(text)
	})
}

// RebuildMenu replaces the tray menu.
func (manager *Manager) RebuildMenu(items []dispatch.MenuItem) {
	menu := manager.buildMenu(items)
	fyne.Do(func() {
		manager.app.SetSystemTrayMenu(menu)
	})
}

// SetPaused swaps the tray icon between the active and paused variants.
func (manager *Manager) SetPaused(paused bool) {
	if manager.paused == paused {
		return
	}
	manager.paused = paused
	fyne.Do(func() {
		manager.app.SetSystemTrayIcon(iconFor(paused))
	})
}

func (manager *Manager) buildMenu(items []dispatch.MenuItem) *fyne.Menu {
	menuItems := make([]*fyne.MenuItem, 0, len(items))
	for _, item := range items {
		if item.Separator() {
			menuItems = append(menuItems, fyne.NewMenuItemSeparator())
			continue
		}
		action := item.Action
		menuItem := fyne.NewMenuItem(item.Label, func() {
			if manager.onAction != nil {
				manager.onAction(action)
			}
		})
		if action == dispatch.ActionQuit {
			menuItem.IsQuit = true
		}
		menuItems = append(menuItems, menuItem)
	}
	return fyne.NewMenu(menuTitle, menuItems...)
}

func iconFor(paused bool) fyne.Resource {
	if paused {
		return theme.VisibilityOffIcon()
	}
	return theme.VisibilityIcon()
}
