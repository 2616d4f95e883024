package fsm

import (
	"sync"
	"sync/atomic"
)

// subscriberCap is the bounded capacity of every subscriber channel; a slow
// subscriber drops updates rather than stalling the writer.
const subscriberCap = 32

// Machine is the single-writer, many-readers lifecycle state holder.
// Current is lock-free; Transition and ForceSet are the only writers and
// serialize against each other via an internal compare-and-swap loop, so
// concurrent callers always observe a consistent Current.
type Machine struct {
	cell atomic.Value // always holds a State

	mu     sync.Mutex
	nextID int
	subs   map[int]chan State
}

// New builds a Machine starting in Idle with no subscribers.
func New() *Machine {
	m := &Machine{subs: make(map[int]chan State)}
	m.cell.Store(Idle())
	return m
}

// Current returns the current state snapshot without blocking.
func (m *Machine) Current() State {
	return m.cell.Load().(State)
}

// Transition attempts to move to `to`. It fails with *InvalidTransitionError
// if the table in transition.go does not allow it from the current state.
// On success, every subscriber is best-effort notified via a non-blocking
// send.
func (m *Machine) Transition(to State) (State, error) {
	for {
		cur := m.Current()
		if !ValidTransition(cur, to) {
			return cur, &InvalidTransitionError{From: cur, To: to}
		}
		if m.cell.CompareAndSwap(cur, to) {
			m.notify(to)
			return to, nil
		}
	}
}

// ForceSet bypasses validation entirely, reserved for recovery paths.
func (m *Machine) ForceSet(to State) State {
	m.cell.Store(to)
	m.notify(to)
	return to
}

// Reset is ForceSet(Idle()).
func (m *Machine) Reset() State { return m.ForceSet(Idle()) }

// Subscribe registers a new bounded receiver of state snapshots. The
// returned cancel func must be called once the subscriber is done; it
// closes and drops the channel, the "cleanup operation" that removes
// abandoned receivers.
func (m *Machine) Subscribe() (<-chan State, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	ch := make(chan State, subscriberCap)
	m.subs[id] = ch

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if c, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// notify best-effort delivers s to every live subscriber, dropping on a
// full channel rather than blocking the writer.
func (m *Machine) notify(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subs {
		select {
		case ch <- s:
		default:
		}
	}
}
