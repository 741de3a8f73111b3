package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultTimerConfigIsValid(t *testing.T) {
	config := DefaultTimerConfig()
	require.NoError(t, config.Validate())
	require.Equal(t, 1500, config.WorkDurationSeconds)
	require.Equal(t, 120, config.BreakDurationSeconds)
	require.Equal(t, 25*time.Minute, config.WorkDuration())
	require.Equal(t, 2*time.Minute, config.BreakDuration())
}

func TestValidateRejectsNonPositiveDurations(t *testing.T) {
	cases := []TimerConfig{
		{WorkDurationSeconds: 0, BreakDurationSeconds: 60},
		{WorkDurationSeconds: 60, BreakDurationSeconds: 0},
		{WorkDurationSeconds: -5, BreakDurationSeconds: 60},
	}
	for _, config := range cases {
		err := config.Validate()
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrInvalidDuration))
	}
}

func TestIdleSecondsTruncatesAndClamps(t *testing.T) {
	require.Equal(t, 0, IdleSeconds(-time.Second))
	require.Equal(t, 0, IdleSeconds(999*time.Millisecond))
	require.Equal(t, 130, IdleSeconds(130500*time.Millisecond))
}
