package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"blinkaway/internal/logger"
)

// ErrUsage indicates invalid command-line arguments.
var ErrUsage = errors.New("usage")

// Config holds process configuration.
type Config struct {
	// ConfigDir is where settings.yaml lives.
	ConfigDir string
	// Debug forces debug logging.
	Debug bool
	// LogLevel is the minimum level logged.
	LogLevel logger.Level
	// Autostart is "enable", "disable" or empty.
	Autostart string
	// Command, when set, is forwarded to the running instance instead of
	// starting a new one.
	Command string
}

// Load reads environment variables, then lets flags in args override them.
// defaultDir is consulted only when neither names a config directory.
func Load(args []string, defaultDir func() (string, error)) (*Config, error) {
	cfg := &Config{
		ConfigDir: os.Getenv("BLINKAWAY_CONFIG_DIR"),
		Debug:     envBool("BLINKAWAY_DEBUG"),
	}
	levelName := os.Getenv("BLINKAWAY_LOG_LEVEL")

	flags := flag.NewFlagSet("blinkaway", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.StringVar(&cfg.ConfigDir, "config-dir", cfg.ConfigDir, "directory holding settings.yaml")
	flags.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging")
	flags.StringVar(&levelName, "log-level", levelName, "log level (debug|info|warn|error)")
	flags.StringVar(&cfg.Autostart, "autostart", "", "enable or disable launch at login, then exit")
	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	switch flags.NArg() {
	case 0:
	case 1:
		cfg.Command = strings.TrimSpace(flags.Arg(0))
	default:
		return nil, fmt.Errorf("%w: expected at most one command, got %d", ErrUsage, flags.NArg())
	}

	level, err := logger.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	cfg.LogLevel = level
	if cfg.Debug {
		cfg.LogLevel = logger.LevelDebug
	}

	if cfg.ConfigDir == "" && defaultDir != nil {
		dir, err := defaultDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		cfg.ConfigDir = dir
	}
	return cfg, nil
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// LaunchArgs returns the flags a login item must pass so the instance it
// starts uses this process's settings directory and log level.
func (cfg *Config) LaunchArgs() []string {
	var args []string
	if cfg.ConfigDir != "" {
		args = append(args, "-config-dir", cfg.ConfigDir)
	}
	if cfg.LogLevel != logger.LevelInfo {
		args = append(args, "-log-level", cfg.LogLevel.String())
	}
	return args
}
