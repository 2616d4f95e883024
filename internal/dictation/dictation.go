// Package dictation is the top-level façade: it combines the session
// controller, the app state machine, and the text injector into the one
// object the hotkey binder and the IPC surface drive.
package dictation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dictate-sh/dictate/internal/controller"
	"github.com/dictate-sh/dictate/internal/events"
	"github.com/dictate-sh/dictate/internal/fsm"
	"github.com/dictate-sh/dictate/internal/inject"
	"github.com/dictate-sh/dictate/internal/transcribe"
)

// injectionChanCap bounds the pending auto-inject queue; a session only
// ever has one committed transcript in flight at a time in practice.
const injectionChanCap = 4

// Config carries the top-level session's own fields from the immutable
// session configuration (spec §3): whether a committed transcript is
// injected automatically, and how long to wait before the first
// keystroke/paste so the target window can regain focus after the hotkey
// release.
type Config struct {
	AutoInject        bool
	PreInjectionDelay time.Duration
}

// Session is the C13 façade. It implements hotkey.Dispatcher so a Binder
// can drive it directly.
type Session struct {
	appFSM   *fsm.Machine
	ctrl     *controller.Controller
	injector *inject.Injector
	cfg      Config
	onEvent  events.SessionHandler

	mu            sync.Mutex
	lastCommitted string
	hasCommitted  bool

	injectCh chan string
	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// New builds a Session, its owned Controller, and starts the background
// injection-draining task. newSession and baseOpts are passed straight
// through to controller.New.
func New(appFSM *fsm.Machine, newSession controller.SessionFactory, baseOpts transcribe.Options, injector *inject.Injector, cfg Config, onEvent events.SessionHandler) *Session {
	if onEvent == nil {
		onEvent = func(events.SessionEvent) {}
	}
	s := &Session{
		appFSM:   appFSM,
		injector: injector,
		cfg:      cfg,
		onEvent:  onEvent,
		injectCh: make(chan string, injectionChanCap),
		stopCh:   make(chan struct{}),
	}
	s.ctrl = controller.New(appFSM, newSession, baseOpts, s.onControllerEvent)

	s.wg.Add(1)
	go s.drainInjections()
	return s
}

// onControllerEvent is passed to controller.New as the UI-facing session
// event sink. It implements the Committed-transcript half of the §4.13
// lifecycle (stash, move to Processing, optionally queue auto-inject) and
// then forwards every event unchanged to the caller's handler.
func (s *Session) onControllerEvent(evt events.SessionEvent) {
	if evt.Kind == events.SessionCommittedTranscript {
		s.mu.Lock()
		s.lastCommitted = evt.Payload
		s.hasCommitted = true
		s.mu.Unlock()

		if cur := s.appFSM.Current(); cur.IsRecording() {
			if _, err := s.appFSM.Transition(fsm.Processing()); err != nil {
				slog.Warn("dictation: could not enter processing on committed transcript", "error", err)
			}
		}

		if s.cfg.AutoInject && evt.Payload != "" {
			select {
			case s.injectCh <- evt.Payload:
			default:
				slog.Warn("dictation: injection channel full, dropping auto-inject")
			}
		}
	}

	s.onEvent(evt)
}

// drainInjections is the background task draining the injection channel
// per spec §4.13: move to Injecting, optionally sleep, invoke the
// strategy, broadcast the outcome, return to Idle.
func (s *Session) drainInjections() {
	defer s.wg.Done()
	for {
		select {
		case <-s.stopCh:
			return
		case text := <-s.injectCh:
			s.runInjection(context.Background(), text)
		}
	}
}

func (s *Session) runInjection(ctx context.Context, text string) {
	s.appFSM.ForceSet(fsm.Injecting())

	if s.cfg.PreInjectionDelay > 0 {
		time.Sleep(s.cfg.PreInjectionDelay)
	}

	outcome, err := s.injector.Inject(ctx, text)
	if err != nil {
		s.appFSM.ForceSet(fsm.Error(err.Error()))
		s.onEvent(events.SessionEvent{Kind: events.SessionError, Payload: err.Error()})
		return
	}

	kind := events.SessionTextInjected
	if outcome == inject.OutcomeCopied {
		kind = events.SessionTextCopied
	}
	s.onEvent(events.SessionEvent{Kind: kind, Payload: text})
	s.appFSM.Reset()
}

// Start implements hotkey.Dispatcher: it requests a new session using
// apiKey. The caller (Binder) is expected to have already moved the app
// state to Connecting.
func (s *Session) Start(apiKey string) error {
	return s.ctrl.Start(apiKey)
}

// Stop implements hotkey.Dispatcher: it stops the active session and resets
// the state machine. Auto-inject of the last committed transcript, if any,
// was already queued by onControllerEvent when the Committed transcript
// event arrived — Stop does not queue it again.
func (s *Session) Stop() error {
	outcome := s.ctrl.Stop()
	if outcome.Err != nil {
		s.onEvent(events.SessionEvent{Kind: events.SessionError, Payload: outcome.Err.Error()})
		return outcome.Err
	}

	if outcome.Text != "" {
		s.mu.Lock()
		s.lastCommitted = outcome.Text
		s.hasCommitted = true
		s.mu.Unlock()
	}

	s.onEvent(events.SessionEvent{Kind: events.SessionStopped})
	return nil
}

// Cancel implements hotkey.Dispatcher: best-effort abort of any in-flight
// session, without touching the stashed committed text.
func (s *Session) Cancel() error {
	err := s.ctrl.Cancel()
	if err == nil {
		s.onEvent(events.SessionEvent{Kind: events.SessionCancelled})
	}
	return err
}

// InjectLastCommitted re-runs injection for the most recently stashed
// committed transcript. It returns ErrNoTextToInject if nothing has been
// committed yet; the stashed text is kept, so repeated calls inject it again.
func (s *Session) InjectLastCommitted(ctx context.Context) error {
	s.mu.Lock()
	text, ok := s.lastCommitted, s.hasCommitted
	s.mu.Unlock()
	if !ok {
		return ErrNoTextToInject
	}

	s.appFSM.ForceSet(fsm.Injecting())
	if s.cfg.PreInjectionDelay > 0 {
		time.Sleep(s.cfg.PreInjectionDelay)
	}

	outcome, err := s.injector.Inject(ctx, text)
	if err != nil {
		s.appFSM.ForceSet(fsm.Error(err.Error()))
		wrapped := &InjectionError{Cause: err}
		s.onEvent(events.SessionEvent{Kind: events.SessionError, Payload: wrapped.Error()})
		return wrapped
	}

	kind := events.SessionTextInjected
	if outcome == inject.OutcomeCopied {
		kind = events.SessionTextCopied
	}
	s.onEvent(events.SessionEvent{Kind: kind, Payload: text})
	s.appFSM.Reset()
	return nil
}

// Close stops the background injection task and the underlying controller.
func (s *Session) Close() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
	s.ctrl.Close()
}
