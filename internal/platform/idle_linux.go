//go:build linux

package platform

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"blinkaway/internal/core/timekeeper"

	"github.com/godbus/dbus/v5"
)

const (
	mutterIdleDest   = "org.gnome.Mutter.IdleMonitor"
	mutterIdlePath   = "/org/gnome/Mutter/IdleMonitor/Core"
	mutterIdleMethod = "org.gnome.Mutter.IdleMonitor.GetIdletime"
)

type idleProvider struct {
	xprintidlePath string
}

type mutterIdleProvider struct {
	object dbus.BusObject
}

type unsupportedIdleProvider struct{}

func newIdleProvider() IdleProvider {
	wayland := strings.ToLower(os.Getenv("XDG_SESSION_TYPE")) == "wayland"
	if path, err := exec.LookPath("xprintidle"); err == nil && !wayland {
		return &idleProvider{xprintidlePath: path}
	}
	conn, err := dbus.SessionBus()
	if err != nil {
		return unsupportedIdleProvider{}
	}
	return &mutterIdleProvider{object: conn.Object(mutterIdleDest, dbus.ObjectPath(mutterIdlePath))}
}

func (provider *idleProvider) IdleDuration() (time.Duration, error) {
	output, err := exec.Command(provider.xprintidlePath).Output()
	if err != nil {
		return 0, fmt.Errorf("xprintidle: %w", err)
	}
	return parseIdleMillis(string(output))
}

func (provider *mutterIdleProvider) IdleDuration() (time.Duration, error) {
	var idleMillis uint64
	if err := provider.object.Call(mutterIdleMethod, 0).Store(&idleMillis); err != nil {
		var dbusErr dbus.Error
		if errors.As(err, &dbusErr) && (dbusErr.Name == "org.freedesktop.DBus.Error.ServiceUnknown" ||
			dbusErr.Name == "org.freedesktop.DBus.Error.UnknownMethod") {
			return 0, fmt.Errorf("mutter idle monitor: %w", timekeeper.ErrIdleUnsupported)
		}
		return 0, fmt.Errorf("mutter idle monitor: %w", err)
	}
	return time.Duration(idleMillis) * time.Millisecond, nil
}

func (unsupportedIdleProvider) IdleDuration() (time.Duration, error) {
	return 0, timekeeper.ErrIdleUnsupported
}
