//go:build linux

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// desktopExecReserved lists characters that force quoting of an Exec argument.
const desktopExecReserved = " \t\n\"'\\><~|&;$*?#()`"

func (service *platformService) EnableAutostart(launch Launch) error {
	if err := launch.validate("enable autostart"); err != nil {
		return err
	}

	entryPath, err := service.desktopEntryPath(launch.AppName)
	if err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(entryPath), 0o755); err != nil {
		return fmt.Errorf("enable autostart: create autostart dir: %w", err)
	}
	if err := os.WriteFile(entryPath, []byte(buildDesktopEntry(launch)), 0o644); err != nil {
		return fmt.Errorf("enable autostart: write desktop entry: %w", err)
	}
	return nil
}

func (service *platformService) DisableAutostart(appName string) error {
	if appName == "" {
		return fmt.Errorf("disable autostart: app name is empty")
	}

	entryPath, err := service.desktopEntryPath(appName)
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	if err := os.Remove(entryPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("disable autostart: remove desktop entry: %w", err)
	}
	return nil
}

func (service *platformService) desktopEntryPath(appName string) (string, error) {
	configDir, err := service.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "autostart", desktopFileName(appName)), nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}

func desktopFileName(appName string) string {
	return slug(appName) + ".desktop"
}

func buildDesktopEntry(launch Launch) string {
	command := launch.Command()
	args := make([]string, len(command))
	for i, arg := range command {
		args[i] = desktopExecArg(arg)
	}

	var entry strings.Builder
	entry.WriteString("[Desktop Entry]\nType=Application\n")
	fmt.Fprintf(&entry, "Name=%s\n", launch.AppName)
	entry.WriteString("Comment=Work and break reminder\n")
	fmt.Fprintf(&entry, "TryExec=%s\n", launch.ExecPath)
	fmt.Fprintf(&entry, "Exec=%s\n", strings.Join(args, " "))
	entry.WriteString("Terminal=false\nX-GNOME-Autostart-enabled=true\nX-GNOME-Autostart-Delay=5\n")
	return entry.String()
}

// desktopExecArg quotes one Exec argument. A literal percent is doubled so it
// is not read as a field code. Inside quotes every escape is itself escaped
// once more for the string value, so $ becomes \\$ and \ becomes four backslashes.
func desktopExecArg(arg string) string {
	arg = strings.ReplaceAll(arg, "%", "%%")
	if arg != "" && !strings.ContainsAny(arg, desktopExecReserved) {
		return arg
	}

	var quoted strings.Builder
	quoted.WriteByte('"')
	for _, r := range arg {
		switch r {
		case '"', '`', '$':
			quoted.WriteString(`\\`)
		case '\\':
			quoted.WriteString(`\\\`)
		}
		quoted.WriteRune(r)
	}
	quoted.WriteByte('"')
	return quoted.String()
}
