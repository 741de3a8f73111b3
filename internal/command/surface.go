// Package command maps external triggers onto timekeeper commands.
package command

import (
	"context"
	"fmt"

	"blinkaway/internal/actor"
	"blinkaway/internal/core/model"
	"blinkaway/internal/core/timekeeper"
	"blinkaway/internal/logger"

	"github.com/goccy/go-json"
)

// Target accepts timekeeper inputs.
type Target interface {
	Enqueue(input actor.Input) bool
}

// Surface is the single entry point for tray, settings window and IPC commands.
type Surface struct {
	target Target
}

// New creates a command surface that forwards to target.
func New(target Target) *Surface {
	return &Surface{target: target}
}

func (surface *Surface) send(name Name, input actor.Input) error {
	if !surface.target.Enqueue(input) {
		return fmt.Errorf("%s: %w", name, ErrNotRunning)
	}
	return nil
}

// Start begins a fresh work phase.
func (surface *Surface) Start() error { return surface.send(Start, timekeeper.CmdStart{}) }

// Stop halts the timer.
func (surface *Surface) Stop() error { return surface.send(Stop, timekeeper.CmdStop{}) }

// Pause freezes the active phase.
func (surface *Surface) Pause() error { return surface.send(Pause, timekeeper.CmdPause{}) }

// Resume continues a paused phase.
func (surface *Surface) Resume() error { return surface.send(Resume, timekeeper.CmdResume{}) }

// TogglePause pauses or resumes depending on the current state.
func (surface *Surface) TogglePause() error {
	return surface.send(TogglePause, timekeeper.CmdTogglePause{})
}

// SkipBreak ends the current break.
func (surface *Surface) SkipBreak() error { return surface.send(SkipBreak, timekeeper.CmdSkipBreak{}) }

// StartBreak ends the current work phase.
func (surface *Surface) StartBreak() error {
	return surface.send(StartBreak, timekeeper.CmdStartBreak{})
}

// SaveSettings applies config and waits for it to be persisted. An invalid
// config is rejected before it reaches the timekeeper.
func (surface *Surface) SaveSettings(ctx context.Context, config model.TimerConfig) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	reply := make(chan error, 1)
	if err := surface.send(SaveSettings, timekeeper.CmdSaveSettings{Config: config, Reply: reply}); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetSettings returns the configuration the timekeeper is running with.
func (surface *Surface) GetSettings(ctx context.Context) (model.TimerConfig, error) {
	reply := make(chan model.TimerConfig, 1)
	if err := surface.send(GetSettings, timekeeper.CmdGetSettings{Reply: reply}); err != nil {
		return model.TimerConfig{}, err
	}
	select {
	case config := <-reply:
		return config, nil
	case <-ctx.Done():
		return model.TimerConfig{}, ctx.Err()
	}
}

// Execute runs a validated request and returns its response.
func (surface *Surface) Execute(ctx context.Context, request Request) Response {
	var err error
	switch request.Type {
	case Start:
		err = surface.Start()
	case Stop:
		err = surface.Stop()
	case Pause:
		err = surface.Pause()
	case Resume:
		err = surface.Resume()
	case TogglePause:
		err = surface.TogglePause()
	case SkipBreak:
		err = surface.SkipBreak()
	case StartBreak:
		err = surface.StartBreak()
	case SaveSettings:
		var payload SettingsPayload
		payload, err = request.Settings()
		if err == nil {
			err = surface.SaveSettings(ctx, model.TimerConfig{
				WorkDurationSeconds:  payload.WorkDuration,
				BreakDurationSeconds: payload.BreakDuration,
			})
		}
	case GetSettings:
		config, getErr := surface.GetSettings(ctx)
		if getErr != nil {
			err = getErr
			break
		}
		return settingsResponse(SettingsPayload{
			WorkDuration:  config.WorkDurationSeconds,
			BreakDuration: config.BreakDurationSeconds,
		})
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownCommand, request.Type)
	}
	if err != nil {
		logger.Debugf("command: %s rejected: %v", request.Type, err)
		return errorResponse(err)
	}
	return okResponse()
}

// HandleLine decodes one request line, executes it and encodes the response.
func (surface *Surface) HandleLine(ctx context.Context, line []byte) []byte {
	var response Response
	if request, err := ParseRequest(line); err != nil {
		logger.Debugf("command: %v", err)
		response = errorResponse(err)
	} else {
		response = surface.Execute(ctx, request)
	}
	data, err := json.Marshal(response)
	if err != nil {
		return []byte(`{"type":"error","error":"marshal response"}`)
	}
	return data
}
