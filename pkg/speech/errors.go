package speech

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	// ErrEngineUnavailable is returned when no narration binary exists.
	// Callers treat this as "narration skipped", never as fatal.
	ErrEngineUnavailable = errors.New("speech: no narration engine available")

	// ErrNoPlayer is returned when a rendered WAV cannot be played
	// because neither paplay nor aplay is installed.
	ErrNoPlayer = errors.New("speech: no audio player available")
)

// ProcessError wraps a narration or playback subprocess failure.
// Policy is best-effort fire-and-forget: these are logged and counted but
// never surfaced to the joke-telling flow.
type ProcessError struct {
	Cmd string
	Err error
}

// Error implements the error interface.
func (e *ProcessError) Error() string {
	return fmt.Sprintf("speech [%s]: %v", e.Cmd, e.Err)
}

// Unwrap returns the underlying error.
func (e *ProcessError) Unwrap() error {
	return e.Err
}

// wrapProcess wraps an error with the failing command's name.
func wrapProcess(cmd string, err error) error {
	if err == nil {
		return nil
	}
	return &ProcessError{Cmd: cmd, Err: err}
}
