// Package controller owns at most one live transcription session on a
// dedicated OS thread, since the capture stream handle it drives is not
// transportable across threads. Callers interact with it exclusively
// through a bounded command channel.
package controller

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/dictate-sh/dictate/internal/events"
	"github.com/dictate-sh/dictate/internal/fsm"
	"github.com/dictate-sh/dictate/internal/transcribe"
)

// cmdChanCap bounds the controller's command queue.
const cmdChanCap = 16

type internalState int

const (
	stateIdle internalState = iota
	stateStarting
	stateRunning
	stateStopping
)

// SessionFactory builds a new transcription session for one Start call.
// Production code passes transcribe.New; tests inject a fake.
type SessionFactory func(transcribe.Options) (Session, error)

// Session is the subset of transcribe.Session the controller drives.
type Session interface {
	Start(ctx context.Context, onEvent events.TranscriptHandler) error
	Stop(ctx context.Context) error
}

// DefaultSessionFactory builds a real PortAudio-and-websocket-backed
// transcribe.Session for production wiring.
var DefaultSessionFactory SessionFactory = func(opts transcribe.Options) (Session, error) {
	return transcribe.New(opts)
}

// Controller serializes Start/Stop/Cancel requests through a dedicated
// goroutine locked to one OS thread.
type Controller struct {
	cmds   chan command
	closed atomic.Bool

	appFSM         *fsm.Machine
	newSession     SessionFactory
	baseOpts       transcribe.Options
	onSessionEvent events.SessionHandler

	// Touched only by the run loop goroutine.
	state         internalState
	session       Session
	lastCommitted *string
}

// New builds a Controller and starts its dedicated-thread command loop.
// baseOpts supplies every session option except APIKey, which Start
// provides per call.
func New(appFSM *fsm.Machine, newSession SessionFactory, baseOpts transcribe.Options, onSessionEvent events.SessionHandler) *Controller {
	if onSessionEvent == nil {
		onSessionEvent = func(events.SessionEvent) {}
	}
	c := &Controller{
		cmds:           make(chan command, cmdChanCap),
		appFSM:         appFSM,
		newSession:     newSession,
		baseOpts:       baseOpts,
		onSessionEvent: onSessionEvent,
		state:          stateIdle,
	}
	go c.run()
	return c
}

// run is the dedicated-thread command loop. It never touches the capture
// stream from any other goroutine.
func (c *Controller) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	for cmd := range c.cmds {
		switch cmd := cmd.(type) {
		case startCmd:
			c.handleStart(cmd)
		case stopCmd:
			c.handleStop(cmd)
		case cancelCmd:
			c.handleCancel(cmd)
		}
	}
}

func (c *Controller) handleStart(cmd startCmd) {
	if cmd.apiKey == "" {
		cmd.reply <- ErrAPIKeyNotSet
		return
	}
	if c.state != stateIdle {
		cmd.reply <- ErrSessionAlreadyActive
		return
	}

	c.state = stateStarting
	// Callers that gate the hotkey edge (internal/hotkey.Binder) already move
	// the app state to Connecting before dispatching here; only attempt the
	// transition ourselves when starting from Idle directly, so the two
	// call sites don't race over the same Idle -> Connecting edge.
	if !c.appFSM.Current().IsConnecting() {
		if _, err := c.appFSM.Transition(fsm.Connecting()); err != nil {
			c.state = stateIdle
			cmd.reply <- &StartFailedError{Cause: err}
			return
		}
	}

	opts := c.baseOpts
	opts.APIKey = cmd.apiKey

	sess, err := c.newSession(opts)
	if err != nil {
		c.failStart(err, cmd.reply)
		return
	}

	if err := sess.Start(context.Background(), c.handleTranscriptEvent); err != nil {
		c.failStart(err, cmd.reply)
		return
	}

	c.session = sess
	c.state = stateRunning
	cmd.reply <- nil
}

func (c *Controller) failStart(err error, reply chan<- error) {
	c.state = stateIdle
	c.appFSM.ForceSet(fsm.Error(err.Error()))
	reply <- &StartFailedError{Cause: err}
}

// handleTranscriptEvent is passed to Session.Start as the mapping closure:
// it mutates the app state machine, stashes the last Committed text, and
// forwards a session event to the UI listener.
func (c *Controller) handleTranscriptEvent(evt events.TranscriptEvent) {
	switch evt.Kind {
	case events.TranscriptSessionStarted:
		_, _ = c.appFSM.Transition(fsm.RecordingListening())
		c.onSessionEvent(events.SessionEvent{Kind: events.SessionStarted, Payload: evt.SessionID})
	case events.TranscriptPartial:
		_, _ = c.appFSM.Transition(fsm.RecordingTranscribing(evt.Text))
		c.onSessionEvent(events.SessionEvent{Kind: events.SessionPartialTranscript, Payload: evt.Text})
	case events.TranscriptCommitted:
		text := evt.Text
		c.lastCommitted = &text
		c.onSessionEvent(events.SessionEvent{Kind: events.SessionCommittedTranscript, Payload: evt.Text})
	case events.TranscriptError:
		c.appFSM.ForceSet(fsm.Error(evt.Message))
		c.onSessionEvent(events.SessionEvent{Kind: events.SessionError, Payload: evt.Message})
	case events.TranscriptClosed:
		// No state change; Stop (or Cancel) drives the transition back to Idle.
	}
}

func (c *Controller) handleStop(cmd stopCmd) {
	if c.state != stateRunning {
		cmd.reply <- StopOutcome{Err: ErrNoActiveSession}
		return
	}

	c.state = stateStopping
	err := c.session.Stop(context.Background())

	var text string
	if c.lastCommitted != nil {
		text = *c.lastCommitted
	}
	c.lastCommitted = nil
	c.session = nil

	c.appFSM.Reset()
	c.state = stateIdle

	if err != nil {
		cmd.reply <- StopOutcome{Text: text, Err: &StopFailedError{Cause: err}}
		return
	}
	cmd.reply <- StopOutcome{Text: text}
}

func (c *Controller) handleCancel(cmd cancelCmd) {
	if c.state == stateIdle {
		cmd.reply <- nil
		return
	}

	if c.session != nil {
		_ = c.session.Stop(context.Background())
	}
	c.lastCommitted = nil
	c.session = nil
	c.state = stateIdle
	c.appFSM.Reset()
	cmd.reply <- nil
}

// Start requests a new session using apiKey. It blocks until the command
// loop replies.
func (c *Controller) Start(apiKey string) error {
	if c.closed.Load() {
		return ErrChannelClosed
	}
	reply := make(chan error, 1)
	c.cmds <- startCmd{apiKey: apiKey, reply: reply}
	return <-reply
}

// Stop requests the active session stop and returns the stashed
// last-committed text, if any.
func (c *Controller) Stop() StopOutcome {
	if c.closed.Load() {
		return StopOutcome{Err: ErrChannelClosed}
	}
	reply := make(chan StopOutcome, 1)
	c.cmds <- stopCmd{reply: reply}
	return <-reply
}

// Cancel requests a best-effort abort of any in-flight session.
func (c *Controller) Cancel() error {
	if c.closed.Load() {
		return ErrChannelClosed
	}
	reply := make(chan error, 1)
	c.cmds <- cancelCmd{reply: reply}
	return <-reply
}

// Close stops the command loop. Further Start/Stop/Cancel calls return
// ErrChannelClosed.
func (c *Controller) Close() {
	if c.closed.CompareAndSwap(false, true) {
		close(c.cmds)
	}
}
