package preferences

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"blinkaway/internal/core/model"
)

// ErrInvalidMinutes indicates a form field that is not a positive whole number.
var ErrInvalidMinutes = errors.New("enter a whole number of minutes greater than zero")

// FormValues are the editable fields of the settings window, in minutes.
type FormValues struct {
	WorkMinutes  string
	BreakMinutes string
}

// ValuesFromConfig renders a config into form fields. Durations that are not
// whole minutes round down, with a floor of one minute.
func ValuesFromConfig(config model.TimerConfig) FormValues {
	return FormValues{
		WorkMinutes:  strconv.Itoa(wholeMinutes(config.WorkDurationSeconds)),
		BreakMinutes: strconv.Itoa(wholeMinutes(config.BreakDurationSeconds)),
	}
}

// ParseForm converts form fields to a config stored in seconds.
func ParseForm(values FormValues) (model.TimerConfig, error) {
	workMinutes, err := parsePositiveInt(values.WorkMinutes)
	if err != nil {
		return model.TimerConfig{}, fmt.Errorf("work duration: %w", err)
	}
	breakMinutes, err := parsePositiveInt(values.BreakMinutes)
	if err != nil {
		return model.TimerConfig{}, fmt.Errorf("break duration: %w", err)
	}
	return model.TimerConfig{
		WorkDurationSeconds:  workMinutes * 60,
		BreakDurationSeconds: breakMinutes * 60,
	}, nil
}

func wholeMinutes(seconds int) int {
	if seconds < 60 {
		return 1
	}
	return seconds / 60
}

func parsePositiveInt(value string) (int, error) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, ErrInvalidMinutes
	}
	return parsed, nil
}
