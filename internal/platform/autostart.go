package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidAutostartAction indicates an -autostart value other than enable or disable.
var ErrInvalidAutostartAction = errors.New("invalid autostart action")

// Service defines OS-specific helpers needed by the application.
type Service interface {
	GetConfigDir() (string, error)
	EnableAutostart(launch Launch) error
	DisableAutostart(appName string) error
}

// Launch is the command a login item runs.
type Launch struct {
	AppName  string
	ExecPath string
	// Args follow ExecPath, e.g. -config-dir so the login instance reads
	// the same settings file as the one that registered it.
	Args []string
}

// Command returns ExecPath followed by Args.
func (launch Launch) Command() []string {
	return append([]string{launch.ExecPath}, launch.Args...)
}

func (launch Launch) validate(op string) error {
	if launch.AppName == "" {
		return fmt.Errorf("%s: app name is empty", op)
	}
	if launch.ExecPath == "" {
		return fmt.Errorf("%s: exec path is empty", op)
	}
	return nil
}

type platformService struct{}

// NewService returns a platform-specific implementation.
func NewService() Service {
	return &platformService{}
}

// GetConfigDir returns the OS-standard configuration directory.
func (service *platformService) GetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}

	return fallbackConfigDir(homeDir), nil
}

// AppConfigDir returns the per-application directory under the OS config dir.
func AppConfigDir(service Service, appName string) (string, error) {
	configDir, err := service.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, slug(appName)), nil
}

// ApplyAutostart enables or disables launch at login.
func ApplyAutostart(service Service, action string, launch Launch) error {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case "enable", "on":
		return service.EnableAutostart(launch)
	case "disable", "off":
		return service.DisableAutostart(launch.AppName)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAutostartAction, action)
	}
}

func slug(appName string) string {
	name := strings.TrimSpace(appName)
	if name == "" {
		name = "blinkaway"
	}
	name = strings.ToLower(name)
	return strings.ReplaceAll(name, " ", "-")
}
