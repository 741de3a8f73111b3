package command

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// Name identifies a command.
type Name string

const (
	Start        Name = "start"
	Stop         Name = "stop"
	Pause        Name = "pause"
	Resume       Name = "resume"
	TogglePause  Name = "toggle-pause"
	SkipBreak    Name = "skip-break"
	StartBreak   Name = "start-break"
	SaveSettings Name = "save-settings"
	GetSettings  Name = "get-settings"
)

// Response types.
const (
	ResponseOK       = "ok"
	ResponseSettings = "settings-data"
	ResponseError    = "error"
)

var (
	// ErrUnknownCommand indicates a request type that maps to no command.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrInvalidPayload indicates a malformed or out-of-range payload.
	ErrInvalidPayload = errors.New("invalid payload")
	// ErrNotRunning indicates the timekeeper no longer accepts commands.
	ErrNotRunning = errors.New("timekeeper not running")
)

var knownNames = map[Name]bool{
	Start:        true,
	Stop:         true,
	Pause:        true,
	Resume:       true,
	TogglePause:  true,
	SkipBreak:    true,
	StartBreak:   true,
	SaveSettings: true,
	GetSettings:  true,
}

// Known reports whether name is a command.
func Known(name Name) bool {
	return knownNames[name]
}

// Request is the envelope for one command.
type Request struct {
	Type    Name            `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response answers one Request.
type Response struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// SettingsPayload carries durations in seconds.
type SettingsPayload struct {
	WorkDuration  int `json:"workDuration"`
	BreakDuration int `json:"breakDuration"`
}

// NewRequest builds a request, marshaling payload when it is not nil.
func NewRequest(name Name, payload any) (Request, error) {
	request := Request{Type: name}
	if payload == nil {
		return request, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Request{}, fmt.Errorf("marshal payload: %w", err)
	}
	request.Payload = data
	return request, nil
}

// ParseRequest decodes and validates a raw request.
func ParseRequest(raw []byte) (Request, error) {
	var request Request
	if err := json.Unmarshal(raw, &request); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if request.Type == "" {
		return Request{}, fmt.Errorf("%w: missing 'type' field", ErrInvalidPayload)
	}
	if !Known(request.Type) {
		return Request{}, fmt.Errorf("%w: %s", ErrUnknownCommand, request.Type)
	}
	if request.Type == SaveSettings {
		if _, err := request.Settings(); err != nil {
			return Request{}, err
		}
	}
	return request, nil
}

// Settings decodes a save-settings payload. Both durations must be positive.
func (request Request) Settings() (SettingsPayload, error) {
	if len(request.Payload) == 0 {
		return SettingsPayload{}, fmt.Errorf("%w: missing 'payload' field in %s", ErrInvalidPayload, request.Type)
	}
	var payload SettingsPayload
	if err := json.Unmarshal(request.Payload, &payload); err != nil {
		return SettingsPayload{}, fmt.Errorf("%w for %s: %v", ErrInvalidPayload, request.Type, err)
	}
	if payload.WorkDuration <= 0 {
		return SettingsPayload{}, fmt.Errorf("%w: 'workDuration' must be a positive integer", ErrInvalidPayload)
	}
	if payload.BreakDuration <= 0 {
		return SettingsPayload{}, fmt.Errorf("%w: 'breakDuration' must be a positive integer", ErrInvalidPayload)
	}
	return payload, nil
}

func okResponse() Response {
	return Response{Type: ResponseOK}
}

func errorResponse(err error) Response {
	return Response{Type: ResponseError, Error: err.Error()}
}

func settingsResponse(payload SettingsPayload) Response {
	data, err := json.Marshal(payload)
	if err != nil {
		return errorResponse(fmt.Errorf("marshal settings: %w", err))
	}
	return Response{Type: ResponseSettings, Payload: data}
}
