package fsm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewMachineStartsIdle(t *testing.T) {
	m := New()
	require.True(t, m.Current().IsIdle())
}

func TestTransitionAppliesValidMoveAndRejectsInvalid(t *testing.T) {
	m := New()

	next, err := m.Transition(Connecting())
	require.NoError(t, err)
	require.True(t, next.IsConnecting())
	require.True(t, m.Current().IsConnecting())

	_, err = m.Transition(Processing())
	require.Error(t, err)
	var invalidErr *InvalidTransitionError
	require.ErrorAs(t, err, &invalidErr)
	require.True(t, m.Current().IsConnecting(), "rejected transition must not change current state")
}

func TestForceSetBypassesValidation(t *testing.T) {
	m := New()
	forced := m.ForceSet(Processing())
	require.True(t, forced.IsProcessing())
	require.True(t, m.Current().IsProcessing())
}

func TestResetForcesIdle(t *testing.T) {
	m := New()
	m.ForceSet(Error("boom"))
	m.Reset()
	require.True(t, m.Current().IsIdle())
}

func TestSubscribeReceivesTransitions(t *testing.T) {
	m := New()
	ch, cancel := m.Subscribe()
	defer cancel()

	_, err := m.Transition(Connecting())
	require.NoError(t, err)

	select {
	case s := <-ch:
		require.True(t, s.IsConnecting())
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive transition")
	}
}

func TestSubscribeCancelClosesChannel(t *testing.T) {
	m := New()
	ch, cancel := m.Subscribe()
	cancel()

	_, ok := <-ch
	require.False(t, ok)
}

func TestNotifyNeverBlocksOnFullSubscriberQueue(t *testing.T) {
	m := New()
	_, cancel := m.Subscribe() // never drained
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		state := Idle()
		for i := 0; i < subscriberCap+10; i++ {
			if state.IsIdle() {
				state = Connecting()
			} else {
				state = Idle()
			}
			// Use ForceSet to avoid needing alternating valid transitions to fail.
			m.ForceSet(state)
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("notify blocked on a full subscriber channel")
	}
}
