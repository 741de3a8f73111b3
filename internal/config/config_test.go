package config

import (
	"errors"
	"testing"

	"blinkaway/internal/logger"

	"github.com/stretchr/testify/require"
)

func fixedDir(dir string) func() (string, error) {
	return func() (string, error) { return dir, nil }
}

func clearEnv(t *testing.T) {
	t.Setenv("BLINKAWAY_CONFIG_DIR", "")
	t.Setenv("BLINKAWAY_DEBUG", "")
	t.Setenv("BLINKAWAY_LOG_LEVEL", "")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(nil, fixedDir("/tmp/blinkaway"))
	require.NoError(t, err)
	require.Equal(t, &Config{ConfigDir: "/tmp/blinkaway", LogLevel: logger.LevelInfo}, cfg)
}

func TestLoadEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("BLINKAWAY_CONFIG_DIR", "/env/dir")
	t.Setenv("BLINKAWAY_LOG_LEVEL", "warn")

	cfg, err := Load(nil, func() (string, error) { return "", errors.New("must not be called") })
	require.NoError(t, err)
	require.Equal(t, "/env/dir", cfg.ConfigDir)
	require.Equal(t, logger.LevelWarn, cfg.LogLevel)

	t.Setenv("BLINKAWAY_DEBUG", "true")
	cfg, err = Load(nil, nil)
	require.NoError(t, err)
	require.True(t, cfg.Debug)
	require.Equal(t, logger.LevelDebug, cfg.LogLevel)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("BLINKAWAY_CONFIG_DIR", "/env/dir")
	t.Setenv("BLINKAWAY_LOG_LEVEL", "warn")

	cfg, err := Load([]string{"-config-dir", "/flag/dir", "-log-level", "error", "-autostart", "enable"}, nil)
	require.NoError(t, err)
	require.Equal(t, "/flag/dir", cfg.ConfigDir)
	require.Equal(t, logger.LevelError, cfg.LogLevel)
	require.Equal(t, "enable", cfg.Autostart)
}

func TestPositionalCommand(t *testing.T) {
	clearEnv(t)
	cfg, err := Load([]string{"-debug", "toggle-pause"}, fixedDir("/d"))
	require.NoError(t, err)
	require.Equal(t, "toggle-pause", cfg.Command)
	require.True(t, cfg.Debug)

	_, err = Load([]string{"pause", "resume"}, fixedDir("/d"))
	require.ErrorIs(t, err, ErrUsage)
}

func TestLoadRejectsBadInput(t *testing.T) {
	clearEnv(t)
	_, err := Load([]string{"-log-level", "loud"}, fixedDir("/d"))
	require.ErrorIs(t, err, ErrUsage)

	_, err = Load([]string{"-no-such-flag"}, fixedDir("/d"))
	require.ErrorIs(t, err, ErrUsage)

	_, err = Load(nil, func() (string, error) { return "", errors.New("no home") })
	require.Error(t, err)
}

func TestLaunchArgsRoundTrip(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(nil, fixedDir("/home/u/.config/blinkaway"))
	require.NoError(t, err)
	require.Equal(t, []string{"-config-dir", "/home/u/.config/blinkaway"}, cfg.LaunchArgs())

	cfg, err = Load([]string{"-config-dir", "/srv/blink away", "-debug", "-autostart", "enable"}, nil)
	require.NoError(t, err)
	args := cfg.LaunchArgs()
	require.Equal(t, []string{"-config-dir", "/srv/blink away", "-log-level", "debug"}, args)
	require.NotContains(t, args, "-autostart")

	relaunched, err := Load(args, nil)
	require.NoError(t, err)
	require.Equal(t, cfg.ConfigDir, relaunched.ConfigDir)
	require.Equal(t, cfg.LogLevel, relaunched.LogLevel)
	require.Empty(t, relaunched.Autostart)
}
