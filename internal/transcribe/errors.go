package transcribe

import "errors"

var (
	// ErrNotRunning is returned by operations that require an active
	// session.
	ErrNotRunning = errors.New("transcribe: not running")
	// ErrAlreadyRunning is returned by Start on an already-active session.
	ErrAlreadyRunning = errors.New("transcribe: already running")
)

// AudioError wraps a failure originating in capture, resampling, or the
// pipeline loop (C2-C4).
type AudioError struct{ Cause error }

func (e *AudioError) Error() string { return "transcribe: audio error: " + e.Cause.Error() }
func (e *AudioError) Unwrap() error  { return e.Cause }

// NetworkError wraps a failure originating in the connection, sender, or
// receiver tasks (C5-C7).
type NetworkError struct{ Cause error }

func (e *NetworkError) Error() string { return "transcribe: network error: " + e.Cause.Error() }
func (e *NetworkError) Unwrap() error { return e.Cause }
