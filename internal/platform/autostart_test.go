package platform

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeService struct {
	configDir string
	enabled   map[string][]string
}

func (service *fakeService) GetConfigDir() (string, error) {
	if service.configDir == "" {
		return "", errors.New("no home")
	}
	return service.configDir, nil
}

func (service *fakeService) EnableAutostart(launch Launch) error {
	if err := launch.validate("enable autostart"); err != nil {
		return err
	}
	service.enabled[launch.AppName] = launch.Command()
	return nil
}

func (service *fakeService) DisableAutostart(appName string) error {
	delete(service.enabled, appName)
	return nil
}

func TestApplyAutostart(t *testing.T) {
	service := &fakeService{enabled: map[string][]string{}}
	launch := Launch{
		AppName:  "BlinkAway",
		ExecPath: "/usr/bin/blinkaway",
		Args:     []string{"-config-dir", "/srv/blinkaway"},
	}

	require.NoError(t, ApplyAutostart(service, "enable", launch))
	require.Equal(t, []string{"/usr/bin/blinkaway", "-config-dir", "/srv/blinkaway"}, service.enabled["BlinkAway"])

	require.NoError(t, ApplyAutostart(service, " Disable ", Launch{AppName: "BlinkAway"}))
	require.Empty(t, service.enabled)

	err := ApplyAutostart(service, "maybe", launch)
	require.ErrorIs(t, err, ErrInvalidAutostartAction)

	err = ApplyAutostart(service, "on", Launch{AppName: "BlinkAway"})
	require.ErrorContains(t, err, "exec path is empty")
}

func TestLaunchCommandDoesNotAliasArgs(t *testing.T) {
	args := make([]string, 2, 4)
	args[0], args[1] = "-log-level", "warn"
	launch := Launch{AppName: "BlinkAway", ExecPath: "/bin/blinkaway", Args: args}

	command := launch.Command()
	command[1] = "-debug"
	require.Equal(t, "-log-level", launch.Args[0])
}

func TestAppConfigDir(t *testing.T) {
	dir, err := AppConfigDir(&fakeService{configDir: "/home/u/.config"}, "Blink Away")
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/home/u/.config", "blink-away"), dir)

	_, err = AppConfigDir(&fakeService{}, "BlinkAway")
	require.Error(t, err)
}
