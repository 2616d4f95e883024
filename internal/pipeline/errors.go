package pipeline

import "errors"

var (
	// ErrAlreadyRunning is returned by Start when the pipeline is already
	// capturing and processing audio.
	ErrAlreadyRunning = errors.New("pipeline: already running")
	// ErrNotRunning is returned by operations that require a running
	// pipeline.
	ErrNotRunning = errors.New("pipeline: not running")
)
