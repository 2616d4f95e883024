package fsm

import (
	"context"
	"time"

	"github.com/dictate-sh/dictate/internal/events"
)

// RunTimeoutHandler subscribes to m and, until ctx is canceled, enforces
// processingTimeout: a monotonic timer starts on entry to Processing and is
// canceled immediately if Processing is left for any reason. If the timer
// fires first, the machine is force-set to Idle and onTimeout is invoked.
func RunTimeoutHandler(ctx context.Context, m *Machine, processingTimeout time.Duration, onTimeout events.AppHandler) {
	ch, cancel := m.Subscribe()
	defer cancel()

	var timer *time.Timer
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
			timer = nil
		}
	}
	defer stopTimer()

	for {
		var fired <-chan time.Time
		if timer != nil {
			fired = timer.C
		}

		select {
		case <-ctx.Done():
			return
		case state, ok := <-ch:
			if !ok {
				return
			}
			if state.IsProcessing() {
				stopTimer()
				timer = time.NewTimer(processingTimeout)
			} else {
				stopTimer()
			}
		case <-fired:
			timer = nil
			if m.Current().IsProcessing() {
				forced := m.ForceSet(Idle())
				evt := baseEvent(forced)
				evt.Kind = events.AppProcessingTimeout
				onTimeout(evt)
			}
		}
	}
}
