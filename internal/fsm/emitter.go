package fsm

import (
	"context"

	"github.com/dictate-sh/dictate/internal/events"
)

// RunEmitter subscribes to m and, for every state change until ctx is
// canceled, invokes handler once with a generic AppStateChanged event and
// once more with the variant-specific event for that state (including
// partial transcript text when present). It returns once ctx is done or
// the subscription is canceled elsewhere.
func RunEmitter(ctx context.Context, m *Machine, handler events.AppHandler) {
	ch, cancel := m.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case state, ok := <-ch:
			if !ok {
				return
			}
			handler(stateChangedEvent(state))
			handler(variantEvent(state))
		}
	}
}

func stateChangedEvent(s State) events.AppEvent {
	evt := baseEvent(s)
	evt.Kind = events.AppStateChanged
	return evt
}

func variantEvent(s State) events.AppEvent {
	evt := baseEvent(s)
	switch s.Kind {
	case KindIdle:
		evt.Kind = events.AppIdle
	case KindConnecting:
		evt.Kind = events.AppConnecting
	case KindRecording:
		evt.Kind = events.AppRecording
	case KindProcessing:
		evt.Kind = events.AppProcessing
	case KindInjecting:
		evt.Kind = events.AppInjecting
	case KindError:
		evt.Kind = events.AppError
	}
	return evt
}

func baseEvent(s State) events.AppEvent {
	return events.AppEvent{
		State:          string(s.Kind),
		IsIdle:         s.IsIdle(),
		IsConnecting:   s.IsConnecting(),
		IsRecording:    s.IsRecording(),
		IsTranscribing: s.Kind == KindRecording && s.Substate == SubstateTranscribing,
		IsProcessing:   s.IsProcessing(),
		IsInjecting:    s.IsInjecting(),
		IsError:        s.IsError(),
		ErrorMessage:   s.ErrorMessage,
		PartialText:    s.PartialText,
	}
}
