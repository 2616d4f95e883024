// Package transcribe wires the audio pipeline to the transcription
// connection: independent sender, receiver, and event-handler tasks pump
// payloads and server messages between them, and Session is the end-to-end
// façade that starts and stops all of it together.
package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dictate-sh/dictate/internal/events"
	"github.com/dictate-sh/dictate/internal/pipeline"
	"github.com/dictate-sh/dictate/internal/transport"
	"github.com/dictate-sh/dictate/internal/wire"
)

const (
	audioChanCap = 100
	msgChanCap   = 100
)

// Options configures one Session: which device to capture from, which
// transcription endpoint to connect to, and how.
type Options struct {
	DeviceID        string
	EnableAudioDump bool

	APIKey            string
	ModelID           string
	LanguageCode      string
	IncludeTimestamps bool
	VadCommitStrategy string
	TimeoutMs         int
}

// Pipeline abstracts the audio capture/resample/framing component a
// Session drives, so tests can inject a fake in place of the real
// PortAudio-backed pipeline.Pipeline.
type Pipeline interface {
	Start(output chan<- string) error
	Stop() error
	OutputSampleRate() int
}

// Session is the end-to-end capture -> ASR -> event pipeline described by
// the Transcription Session component: it owns one Pipeline and one
// Connection and sequences their shutdown.
type Session struct {
	opts Options

	pipe Pipeline

	mu      sync.Mutex
	running atomic.Bool

	conn     *transport.Connection
	audioTx  chan string
	msgRx    chan wire.ServerMessage
	senderWG sync.WaitGroup
	recvDone chan error
	evtDone  chan struct{}
}

// New resolves the capture device and builds the underlying Pipeline
// without connecting to the network yet.
func New(opts Options) (*Session, error) {
	p, err := pipeline.New(pipeline.Config{
		DeviceID:        opts.DeviceID,
		EnableAudioDump: opts.EnableAudioDump,
	})
	if err != nil {
		return nil, &AudioError{Cause: err}
	}
	return NewWithPipeline(p, opts), nil
}

// NewWithPipeline builds a Session around an already-constructed Pipeline,
// letting callers (chiefly tests) substitute a fake for the real
// PortAudio-backed one.
func NewWithPipeline(pipe Pipeline, opts Options) *Session {
	return &Session{opts: opts, pipe: pipe}
}

// Start connects to the transcription endpoint using the pipeline's fixed
// 16kHz output rate, starts the pipeline, and spawns the sender, receiver,
// and event-handler tasks. onEvent is invoked (from the event-handler
// goroutine) for every mapped TranscriptEvent, ending with exactly one
// TranscriptClosed when the connection's message stream ends.
func (s *Session) Start(ctx context.Context, onEvent events.TranscriptHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running.Load() {
		return ErrAlreadyRunning
	}

	conn, err := transport.Connect(ctx, s.opts.APIKey, transport.Config{
		SampleRate:        s.pipe.OutputSampleRate(),
		ModelID:           s.opts.ModelID,
		LanguageCode:      s.opts.LanguageCode,
		IncludeTimestamps: s.opts.IncludeTimestamps,
		VadCommitStrategy: s.opts.VadCommitStrategy,
		TimeoutMs:         s.opts.TimeoutMs,
	})
	if err != nil {
		return &NetworkError{Cause: err}
	}
	s.conn = conn

	reader, writer := conn.Split()

	s.audioTx = make(chan string, audioChanCap)
	s.msgRx = make(chan wire.ServerMessage, msgChanCap)
	s.recvDone = make(chan error, 1)
	s.evtDone = make(chan struct{})

	if err := s.pipe.Start(s.audioTx); err != nil {
		_ = conn.Close()
		return &AudioError{Cause: err}
	}

	s.senderWG.Add(1)
	go func() {
		defer s.senderWG.Done()
		if err := senderTask(context.Background(), conn, writer, s.audioTx); err != nil {
			slog.Warn("transcribe: sender task ended with error", "err", err)
		}
	}()

	go func() {
		err := receiverTask(context.Background(), reader, s.msgRx)
		s.recvDone <- err
	}()

	go s.eventHandler(onEvent)

	s.running.Store(true)
	return nil
}

// eventHandler consumes msgRx, maps every server message to a
// TranscriptEvent, and invokes onEvent. It emits exactly one TranscriptClosed
// event when msgRx closes, then exits.
func (s *Session) eventHandler(onEvent events.TranscriptHandler) {
	defer close(s.evtDone)

	for msg := range s.msgRx {
		onEvent(mapServerMessage(msg))
	}
	onEvent(events.Closed())
}

// mapServerMessage implements the C8 mapping rules: session_started maps to
// SessionStarted, partial_transcript to Partial, both committed variants to
// Committed, input_error to Error.
func mapServerMessage(msg wire.ServerMessage) events.TranscriptEvent {
	switch {
	case msg.Type == wire.TypeSessionStarted:
		return events.SessionStarted(msg.SessionID())
	case msg.IsPartial():
		return events.Partial(msg.Text())
	case msg.IsCommitted():
		return events.Committed(msg.Text())
	case msg.IsError():
		return events.Error(msg.ErrorMessage())
	default:
		return events.Error(fmt.Sprintf("unrecognized server message type %q", msg.Type))
	}
}

// Stop sequences pipeline stop (closing the audio channel) first, then
// joins the sender, receiver, and event-handler tasks in order. Each join
// outcome is logged but does not abort the sequence. Double-stop is a
// no-op.
func (s *Session) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running.CompareAndSwap(true, false) {
		s.mu.Unlock()
		return nil
	}
	pipe := s.pipe
	senderWG := &s.senderWG
	recvDone := s.recvDone
	evtDone := s.evtDone
	conn := s.conn
	s.mu.Unlock()

	if err := pipe.Stop(); err != nil {
		slog.Warn("transcribe: pipeline stop reported an error", "err", err)
	}

	senderWG.Wait()

	if err := <-recvDone; err != nil {
		slog.Warn("transcribe: receiver task reported an error", "err", err)
	}

	<-evtDone

	_ = conn.Close()
	return nil
}

// IsRunning reports whether the session is currently active.
func (s *Session) IsRunning() bool { return s.running.Load() }
