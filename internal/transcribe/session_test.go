package transcribe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/require"

	"github.com/dictate-sh/dictate/internal/events"
	"github.com/dictate-sh/dictate/internal/transport"
)

// fakePipeline stands in for the real PortAudio-backed pipeline.Pipeline,
// emitting no audio of its own but exercising Start/Stop lifecycle calls.
type fakePipeline struct {
	mu      sync.Mutex
	output  chan<- string
	started bool
}

func (f *fakePipeline) Start(output chan<- string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.output = output
	f.started = true
	return nil
}

func (f *fakePipeline) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.started {
		return nil
	}
	f.started = false
	close(f.output)
	return nil
}

func (f *fakePipeline) OutputSampleRate() int { return 16000 }

func TestSessionStartStopEmitsSessionStartedAndClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		require.NoError(t, err)
		defer c.Close(websocket.StatusNormalClosure, "")

		require.NoError(t, c.Write(r.Context(), websocket.MessageText, []byte(`{"message_type":"session_started","session_id":"sess-7"}`)))

		ctx := r.Context()
		for {
			if _, _, err := c.Read(ctx); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	restore := transport.OverrideBaseURLForTesting("ws://" + srv.URL[len("http://"):])
	defer restore()

	pipe := &fakePipeline{}
	sess := NewWithPipeline(pipe, Options{APIKey: "test-key"})

	var mu sync.Mutex
	var received []events.TranscriptEvent
	onEvent := func(evt events.TranscriptEvent) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, evt)
	}

	require.NoError(t, sess.Start(context.Background(), onEvent))
	require.True(t, sess.IsRunning())

	require.ErrorIs(t, sess.Start(context.Background(), onEvent), ErrAlreadyRunning)

	waitForEvents(t, &mu, &received, 1)

	require.NoError(t, sess.Stop(context.Background()))
	require.False(t, sess.IsRunning())
	require.NoError(t, sess.Stop(context.Background()))

	waitForEvents(t, &mu, &received, 2)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, events.TranscriptSessionStarted, received[0].Kind)
	require.Equal(t, "sess-7", received[0].SessionID)
	require.Equal(t, events.TranscriptClosed, received[len(received)-1].Kind)
}

func waitForEvents(t *testing.T, mu *sync.Mutex, received *[]events.TranscriptEvent, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		count := len(*received)
		mu.Unlock()
		if count >= n {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events", n)
}
