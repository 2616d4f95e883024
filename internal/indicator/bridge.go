package indicator

import (
	"context"

	"github.com/dictate-sh/dictate/internal/events"
)

// Bridge adapts the AppEvent/SessionEvent streams emitted by internal/fsm
// and internal/dictation into calls against Controller, so neither of those
// packages needs to know about indicator/sound specifics.
type Bridge struct {
	ctrl Controller
}

// NewBridge wraps ctrl (ordinarily a *HyprNotify) as an events.AppHandler/
// events.SessionHandler pair.
func NewBridge(ctrl Controller) *Bridge {
	return &Bridge{ctrl: ctrl}
}

// HandleApp reacts to the variant-specific app:* events: showing the
// recording/transcribing/error indicator and hiding it on return to idle.
func (b *Bridge) HandleApp(evt events.AppEvent) {
	ctx := context.Background()
	switch evt.Kind {
	case events.AppRecording:
		if evt.IsTranscribing {
			b.ctrl.ShowTranscribing(ctx)
			return
		}
		b.ctrl.ShowRecording(ctx)
	case events.AppProcessing:
		b.ctrl.ShowTranscribing(ctx)
	case events.AppError:
		b.ctrl.ShowError(ctx, evt.ErrorMessage)
	case events.AppIdle:
		b.ctrl.Hide(ctx)
	}
}

// HandleSession reacts to session:event notifications, playing the
// matching audio cue. Errors are surfaced through the app:error indicator
// state instead (see HandleApp), not an audio cue.
func (b *Bridge) HandleSession(evt events.SessionEvent) {
	ctx := context.Background()
	switch evt.Kind {
	case events.SessionStopped:
		b.ctrl.CueStop(ctx)
	case events.SessionTextInjected, events.SessionTextCopied:
		b.ctrl.CueComplete(ctx)
	case events.SessionCancelled:
		b.ctrl.CueCancel(ctx)
	}
}
