package fsm

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dictate-sh/dictate/internal/events"
)

func TestRunEmitterPublishesGenericAndVariantEvents(t *testing.T) {
	m := New()
	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	var received []events.AppEvent
	handler := func(evt events.AppEvent) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, evt)
	}

	go RunEmitter(ctx, m, handler)
	time.Sleep(20 * time.Millisecond) // let the subscription register

	_, err := m.Transition(Connecting())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) >= 2
	}, time.Second, 10*time.Millisecond)

	cancel()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, events.AppStateChanged, received[0].Kind)
	require.Equal(t, events.AppConnecting, received[1].Kind)
}

func TestRunEmitterCarriesPartialText(t *testing.T) {
	m := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var received []events.AppEvent
	handler := func(evt events.AppEvent) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, evt)
	}

	go RunEmitter(ctx, m, handler)
	time.Sleep(20 * time.Millisecond)

	m.ForceSet(RecordingTranscribing("hello wor"))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, evt := range received {
			if evt.Kind == events.AppRecording && evt.PartialText == "hello wor" {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}
