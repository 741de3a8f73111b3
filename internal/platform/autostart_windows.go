//go:build windows

package platform

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

const registryRunKey = `Software\Microsoft\Windows\CurrentVersion\Run`

func (service *platformService) EnableAutostart(launch Launch) error {
	if err := launch.validate("enable autostart"); err != nil {
		return err
	}

	key, _, err := registry.CreateKey(registry.CURRENT_USER, registryRunKey, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("enable autostart: open run key: %w", err)
	}
	defer key.Close()

	if err := key.SetStringValue(launch.AppName, runCommandLine(launch)); err != nil {
		return fmt.Errorf("enable autostart: set run value: %w", err)
	}
	return nil
}

func (service *platformService) DisableAutostart(appName string) error {
	if appName == "" {
		return fmt.Errorf("disable autostart: app name is empty")
	}

	key, err := registry.OpenKey(registry.CURRENT_USER, registryRunKey, registry.SET_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("disable autostart: open run key: %w", err)
	}
	defer key.Close()

	if err := key.DeleteValue(appName); err != nil && !errors.Is(err, registry.ErrNotExist) {
		return fmt.Errorf("disable autostart: delete run value: %w", err)
	}
	return nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Roaming")
}

// runCommandLine renders the Run value. The executable is always quoted,
// arguments only when they need it.
func runCommandLine(launch Launch) string {
	parts := []string{`"` + strings.Trim(launch.ExecPath, `"`) + `"`}
	for _, arg := range launch.Args {
		parts = append(parts, windows.EscapeArg(arg))
	}
	return strings.Join(parts, " ")
}
