package dispatch

import (
	"fmt"

	"blinkaway/internal/core/timekeeper"
)

// Action identifies what a tray menu item does when activated.
type Action string

const (
	ActionStartBreak  Action = "start-break"
	ActionTogglePause Action = "toggle-pause"
	ActionStart       Action = "start"
	ActionStop        Action = "stop"
	ActionSettings    Action = "settings"
	ActionSkipBreak   Action = "skip-break"
	ActionQuit        Action = "quit"
)

// MenuItem is one entry of the tray context menu. A zero Action marks a separator.
type MenuItem struct {
	Action Action
	Label  string
}

// Separator reports whether the item is a menu separator.
func (item MenuItem) Separator() bool {
	return item.Action == ""
}

// FormatClock renders seconds as M:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// Tooltip returns the tray tooltip for a state.
func Tooltip(state timekeeper.State) string {
	switch state.Kind {
	case timekeeper.KindIdle:
		return "Timer paused (idle)"
	case timekeeper.KindStopped:
		return "Timer stopped"
	}
	if state.Phase == timekeeper.PhaseBreak {
		return fmt.Sprintf("Break: %s left", FormatClock(state.Remaining))
	}
	return fmt.Sprintf("Work: %s left", FormatClock(state.Remaining))
}

// TrayTitle returns the short label shown next to the tray icon on macOS.
func TrayTitle(state timekeeper.State) string {
	switch state.Kind {
	case timekeeper.KindIdle:
		return "idle"
	case timekeeper.KindWorking, timekeeper.KindPaused:
		if state.Phase != timekeeper.PhaseWork {
			return ""
		}
		if state.Remaining >= 60 {
			return fmt.Sprintf("%dm", (state.Remaining+59)/60)
		}
		return fmt.Sprintf("%ds", state.Remaining)
	default:
		return ""
	}
}

// MenuItems returns the tray menu for a state.
func MenuItems(state timekeeper.State) []MenuItem {
	var items []MenuItem
	stopped := state.Kind == timekeeper.KindStopped

	if state.Kind == timekeeper.KindWorking {
		items = append(items, MenuItem{Action: ActionStartBreak, Label: "Start next break"})
	}
	switch {
	case stopped:
		items = append(items, MenuItem{Action: ActionStart, Label: "Start"})
	case state.PausedByUser():
		items = append(items, MenuItem{Action: ActionTogglePause, Label: "Resume"})
	default:
		items = append(items, MenuItem{Action: ActionTogglePause, Label: "Pause"})
	}
	if !stopped {
		items = append(items, MenuItem{Action: ActionStop, Label: "Stop"})
	}
	items = append(items, MenuItem{Action: ActionSettings, Label: "Settings"})
	if state.Kind == timekeeper.KindOnBreak {
		items = append(items, MenuItem{Action: ActionSkipBreak, Label: "Skip Break"})
	}
	return append(items, MenuItem{}, MenuItem{Action: ActionQuit, Label: "Quit"})
}
