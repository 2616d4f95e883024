// Package hotkey binds OS-global push-to-talk and cancel shortcuts to
// controller commands, gating each edge on the current app state so a
// stray key edge can never start a second overlapping session.
package hotkey

import (
	"context"
	"log/slog"
	"sync"

	hk "golang.design/x/hotkey"

	"github.com/dictate-sh/dictate/internal/fsm"
)

// DefaultPushToTalk and DefaultCancel are the hotkey strings used when a
// Config leaves its fields empty.
const (
	DefaultPushToTalk = "CommandOrControl+Shift+."
	DefaultCancel     = "Escape"
)

// Config names the two shortcuts a Binder registers.
type Config struct {
	PushToTalk string
	Cancel     string
}

func (c Config) withDefaults() Config {
	if c.PushToTalk == "" {
		c.PushToTalk = DefaultPushToTalk
	}
	if c.Cancel == "" {
		c.Cancel = DefaultCancel
	}
	return c
}

// Dispatcher is the session surface a Binder drives (implemented by
// dictation.Session). Stop
// and Cancel outcomes are reported separately through the session event
// stream, so the Binder only needs pass/fail here.
type Dispatcher interface {
	Start(apiKey string) error
	Stop() error
	Cancel() error
}

// APIKeyFunc supplies the API key to use for the next Start dispatch.
type APIKeyFunc func() string

// Binder owns the registered OS hotkeys and the goroutines translating
// their press/release edges into controller commands.
type Binder struct {
	appFSM     *fsm.Machine
	dispatch   Dispatcher
	apiKey     APIKeyFunc
	cfg        Config
	pushToTalk Binding
	cancelKey  Binding

	ptt    *hk.Hotkey
	cancel *hk.Hotkey

	mu      sync.Mutex
	started bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// New parses cfg's hotkey strings and constructs a Binder. It does not
// touch the OS; call Register to claim the shortcuts.
func New(appFSM *fsm.Machine, dispatch Dispatcher, apiKey APIKeyFunc, cfg Config) (*Binder, error) {
	cfg = cfg.withDefaults()

	ptt, err := ParseBinding(cfg.PushToTalk)
	if err != nil {
		return nil, err
	}
	cancelBinding, err := ParseBinding(cfg.Cancel)
	if err != nil {
		return nil, err
	}

	return &Binder{
		appFSM:     appFSM,
		dispatch:   dispatch,
		apiKey:     apiKey,
		cfg:        cfg,
		pushToTalk: ptt,
		cancelKey:  cancelBinding,
	}, nil
}

// Register claims both shortcuts with the OS. It returns
// RegistrationFailedError if either is already held by another
// application.
func (b *Binder) Register() error {
	ptt := hk.New(b.pushToTalk.Mods, b.pushToTalk.Key)
	if err := ptt.Register(); err != nil {
		return &RegistrationFailedError{Hotkey: b.cfg.PushToTalk, Reason: err}
	}

	cancel := hk.New(b.cancelKey.Mods, b.cancelKey.Key)
	if err := cancel.Register(); err != nil {
		_ = ptt.Unregister()
		return &RegistrationFailedError{Hotkey: b.cfg.Cancel, Reason: err}
	}

	b.ptt = ptt
	b.cancel = cancel
	return nil
}

// Run starts the edge-handling goroutines. It blocks until ctx is
// canceled, then unregisters both shortcuts before returning.
func (b *Binder) Run(ctx context.Context) {
	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		return
	}
	b.started = true
	b.stopCh = make(chan struct{})
	b.mu.Unlock()

	b.wg.Add(3)
	go b.watchPushToTalkPressed(ctx)
	go b.watchPushToTalkReleased(ctx)
	go b.watchCancel(ctx)

	<-ctx.Done()
	close(b.stopCh)
	b.wg.Wait()

	if b.ptt != nil {
		_ = b.ptt.Unregister()
	}
	if b.cancel != nil {
		_ = b.cancel.Unregister()
	}
}

func (b *Binder) watchPushToTalkPressed(ctx context.Context) {
	defer b.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.stopCh:
			return
		case <-b.ptt.Keydown():
			b.onPushToTalkPressed()
		}
	}
}

func (b *Binder) watchPushToTalkReleased(ctx context.Context) {
	defer b.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.stopCh:
			return
		case <-b.ptt.Keyup():
			b.onPushToTalkReleased()
		}
	}
}

func (b *Binder) watchCancel(ctx context.Context) {
	defer b.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.stopCh:
			return
		case <-b.cancel.Keydown():
			b.onCancelPressed()
		}
	}
}

// onPushToTalkPressed implements the pressed edge: only Idle reacts, by
// moving to Connecting and dispatching Start.
func (b *Binder) onPushToTalkPressed() {
	if !b.appFSM.Current().IsIdle() {
		return
	}
	if _, err := b.appFSM.Transition(fsm.Connecting()); err != nil {
		slog.Warn("hotkey: rejected push-to-talk press", "err", err)
		return
	}
	key := b.apiKey()
	if err := b.dispatch.Start(key); err != nil {
		slog.Error("hotkey: start dispatch failed", "err", err)
		b.appFSM.ForceSet(fsm.Error(err.Error()))
	}
}

// onPushToTalkReleased implements the released edge: Recording(_) and
// Processing both react by dispatching Stop. Processing is already reached
// here when a mid-utterance server commit (vad_commit_strategy) advanced
// the state machine before the key was released; in that case the
// Recording -> Processing edge was already taken, so only dispatch.
func (b *Binder) onPushToTalkReleased() {
	cur := b.appFSM.Current()
	if !(cur.IsRecording() || cur.IsProcessing()) {
		return
	}
	if cur.IsRecording() {
		if _, err := b.appFSM.Transition(fsm.Processing()); err != nil {
			slog.Warn("hotkey: rejected push-to-talk release", "err", err)
			return
		}
	}
	if err := b.dispatch.Stop(); err != nil {
		slog.Error("hotkey: stop dispatch failed", "err", err)
		b.appFSM.ForceSet(fsm.Error(err.Error()))
	}
}

// onCancelPressed implements the cancel edge: active in Connecting,
// Recording(_), and Processing.
func (b *Binder) onCancelPressed() {
	cur := b.appFSM.Current()
	if !(cur.IsConnecting() || cur.IsRecording() || cur.IsProcessing()) {
		return
	}
	if err := b.dispatch.Cancel(); err != nil {
		slog.Error("hotkey: cancel dispatch failed", "err", err)
	}
}
