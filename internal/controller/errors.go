package controller

import "errors"

var (
	// ErrAPIKeyNotSet is returned by Start when called with an empty key.
	ErrAPIKeyNotSet = errors.New("controller: api key not set")
	// ErrSessionAlreadyActive is returned by Start when a session is
	// already starting or running.
	ErrSessionAlreadyActive = errors.New("controller: session already active")
	// ErrNoActiveSession is returned by Stop when no session is running.
	ErrNoActiveSession = errors.New("controller: no active session")
	// ErrChannelClosed is returned by any command sent after Close.
	ErrChannelClosed = errors.New("controller: command channel closed")
)

// StartFailedError wraps the underlying session.Start failure.
type StartFailedError struct{ Cause error }

func (e *StartFailedError) Error() string { return "controller: start failed: " + e.Cause.Error() }
func (e *StartFailedError) Unwrap() error { return e.Cause }

// StopFailedError wraps the underlying session.Stop failure.
type StopFailedError struct{ Cause error }

func (e *StopFailedError) Error() string { return "controller: stop failed: " + e.Cause.Error() }
func (e *StopFailedError) Unwrap() error { return e.Cause }
