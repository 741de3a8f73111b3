// Package storage persists the timer configuration.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"blinkaway/internal/core/model"
	"blinkaway/internal/logger"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

const (
	settingsFileName       = "settings.yaml"
	legacySettingsFileName = "settings.json"
)

type yamlSettings struct {
	WorkDurationSeconds  int `yaml:"work_duration_seconds"`
	BreakDurationSeconds int `yaml:"break_duration_seconds"`
}

type legacySettings struct {
	WorkDuration  int `json:"workDuration"`
	BreakDuration int `json:"breakDuration"`
}

// Store reads and writes settings.yaml inside one directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the settings file path.
func (store *Store) Path() string {
	return filepath.Join(store.dir, settingsFileName)
}

// Read loads the settings file. A missing file yields defaults, falling back
// to a legacy settings.json when one exists. Fields that are missing or not
// positive keep their defaults.
func (store *Store) Read() (model.TimerConfig, error) {
	config := model.DefaultTimerConfig()

	rawData, err := os.ReadFile(store.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store.readLegacy()
		}
		return config, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return config, fmt.Errorf("parse settings yaml: %w", err)
	}
	applySettings(&config, fileData.WorkDurationSeconds, fileData.BreakDurationSeconds)
	return config, nil
}

// Load is Read without the error: problems are logged and defaults used.
func (store *Store) Load() model.TimerConfig {
	config, err := store.Read()
	if err != nil {
		logger.Warnf("storage: %v; using defaults", err)
	}
	return config
}

// Save validates config and writes it atomically.
func (store *Store) Save(config model.TimerConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(store.dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	serialized, err := yaml.Marshal(yamlSettings{
		WorkDurationSeconds:  config.WorkDurationSeconds,
		BreakDurationSeconds: config.BreakDurationSeconds,
	})
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	temp, err := os.CreateTemp(store.dir, settingsFileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp settings file: %w", err)
	}
	tempPath := temp.Name()
	if _, err := temp.Write(serialized); err != nil {
		temp.Close()
		os.Remove(tempPath)
		return fmt.Errorf("write settings file: %w", err)
	}
	if err := temp.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("write settings file: %w", err)
	}
	if err := os.Rename(tempPath, store.Path()); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("replace settings file: %w", err)
	}
	return nil
}

func (store *Store) readLegacy() (model.TimerConfig, error) {
	config := model.DefaultTimerConfig()
	rawData, err := os.ReadFile(filepath.Join(store.dir, legacySettingsFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return config, fmt.Errorf("read legacy settings file: %w", err)
	}

	var fileData legacySettings
	if err := json.Unmarshal(rawData, &fileData); err != nil {
		return config, fmt.Errorf("parse legacy settings json: %w", err)
	}
	applySettings(&config, fileData.WorkDuration, fileData.BreakDuration)
	logger.Infof("storage: imported %s", legacySettingsFileName)
	return config, nil
}

func applySettings(config *model.TimerConfig, workSeconds, breakSeconds int) {
	if workSeconds > 0 {
		config.WorkDurationSeconds = workSeconds
	}
	if breakSeconds > 0 {
		config.BreakDurationSeconds = breakSeconds
	}
}
