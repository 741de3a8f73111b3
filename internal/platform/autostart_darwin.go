//go:build darwin

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const launchAgentHeader = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
`

var plistEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func (service *platformService) EnableAutostart(launch Launch) error {
	if err := launch.validate("enable autostart"); err != nil {
		return err
	}

	plistPath, err := launchAgentPath(launch.AppName)
	if err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(plistPath), 0o755); err != nil {
		return fmt.Errorf("enable autostart: create LaunchAgents dir: %w", err)
	}
	content := buildLaunchAgentPlist(launchAgentLabel(launch.AppName), launch.Command())
	if err := os.WriteFile(plistPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("enable autostart: write plist: %w", err)
	}
	return nil
}

func (service *platformService) DisableAutostart(appName string) error {
	if appName == "" {
		return fmt.Errorf("disable autostart: app name is empty")
	}

	plistPath, err := launchAgentPath(appName)
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	if err := os.Remove(plistPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("disable autostart: remove plist: %w", err)
	}
	return nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "Library", "Application Support")
}

func launchAgentLabel(appName string) string {
	return "com.blinkaway." + slug(appName)
}

func launchAgentPath(appName string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, "Library", "LaunchAgents", launchAgentLabel(appName)+".plist"), nil
}

func buildLaunchAgentPlist(label string, command []string) string {
	var plist strings.Builder
	plist.WriteString(launchAgentHeader)
	plistKey(&plist, "Label")
	plistString(&plist, "\t", label)

	plistKey(&plist, "ProgramArguments")
	plist.WriteString("\t<array>\n")
	for _, arg := range command {
		plistString(&plist, "\t\t", arg)
	}
	plist.WriteString("\t</array>\n")

	plistKey(&plist, "RunAtLoad")
	plist.WriteString("\t<true/>\n")
	plistKey(&plist, "LimitLoadToSessionType")
	plistString(&plist, "\t", "Aqua")
	plistKey(&plist, "ProcessType")
	plistString(&plist, "\t", "Interactive")
	plist.WriteString("</dict>\n</plist>\n")
	return plist.String()
}

func plistKey(plist *strings.Builder, key string) {
	fmt.Fprintf(plist, "\t<key>%s</key>\n", key)
}

func plistString(plist *strings.Builder, indent, value string) {
	fmt.Fprintf(plist, "%s<string>%s</string>\n", indent, plistEscaper.Replace(value))
}
