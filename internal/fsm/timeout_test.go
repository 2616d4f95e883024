package fsm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dictate-sh/dictate/internal/events"
)

func TestRunTimeoutHandlerForcesIdleOnExpiry(t *testing.T) {
	m := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan events.AppEvent, 1)
	go RunTimeoutHandler(ctx, m, 30*time.Millisecond, func(evt events.AppEvent) {
		fired <- evt
	})
	time.Sleep(10 * time.Millisecond)

	m.ForceSet(Processing())

	select {
	case evt := <-fired:
		require.Equal(t, events.AppProcessingTimeout, evt.Kind)
	case <-time.After(time.Second):
		t.Fatal("timeout handler never fired")
	}

	require.True(t, m.Current().IsIdle())
}

func TestRunTimeoutHandlerCancelsOnLeavingProcessing(t *testing.T) {
	m := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan events.AppEvent, 1)
	go RunTimeoutHandler(ctx, m, 40*time.Millisecond, func(evt events.AppEvent) {
		fired <- evt
	})
	time.Sleep(10 * time.Millisecond)

	m.ForceSet(Processing())
	time.Sleep(10 * time.Millisecond)
	m.ForceSet(Injecting())

	select {
	case evt := <-fired:
		t.Fatalf("timeout handler fired after leaving Processing: %+v", evt)
	case <-time.After(100 * time.Millisecond):
	}
}
