// Package fsm implements the dictation lifecycle state machine: a single
// atomically-swapped current state with many bounded subscriber channels,
// the valid transition table, and the event-emitter and processing-timeout
// tasks that watch it.
package fsm

// Kind identifies the coarse lifecycle state, independent of any substate
// or payload it carries.
type Kind string

const (
	KindIdle       Kind = "idle"
	KindConnecting Kind = "connecting"
	KindRecording  Kind = "recording"
	KindProcessing Kind = "processing"
	KindInjecting  Kind = "injecting"
	KindError      Kind = "error"
)

// Substate distinguishes the two phases of Recording.
type Substate string

const (
	SubstateListening    Substate = "listening"
	SubstateTranscribing Substate = "transcribing"
)

// transcribingConfidence is the constant confidence value attached to every
// Recording(Transcribing) state. Its provenance upstream is unclear; treat
// it as advisory, not as a gating signal.
const transcribingConfidence = 0.5

// State is one immutable lifecycle snapshot. Substate is only meaningful
// when Kind == KindRecording; PartialText and Confidence only with
// SubstateTranscribing; ErrorMessage only when Kind == KindError.
type State struct {
	Kind         Kind
	Substate     Substate
	PartialText  string
	Confidence   float64
	ErrorMessage string
}

// Idle builds the initial/resting state.
func Idle() State { return State{Kind: KindIdle} }

// Connecting builds the state entered while a transcription session dials.
func Connecting() State { return State{Kind: KindConnecting} }

// RecordingListening builds the Recording substate entered once the
// transcription session has started but no partial text has arrived yet.
func RecordingListening() State {
	return State{Kind: KindRecording, Substate: SubstateListening}
}

// RecordingTranscribing builds the Recording substate carrying the latest
// partial transcript text.
func RecordingTranscribing(text string) State {
	return State{
		Kind:        KindRecording,
		Substate:    SubstateTranscribing,
		PartialText: text,
		Confidence:  transcribingConfidence,
	}
}

// Processing builds the state entered once recording stops and the final
// transcript is awaited.
func Processing() State { return State{Kind: KindProcessing} }

// Injecting builds the state entered while committed text is being typed
// or pasted into the focused window.
func Injecting() State { return State{Kind: KindInjecting} }

// Error builds a terminal-until-reset failure state carrying a
// user-facing message.
func Error(message string) State { return State{Kind: KindError, ErrorMessage: message} }

// IsIdle reports whether s is the Idle state.
func (s State) IsIdle() bool { return s.Kind == KindIdle }

// IsConnecting reports whether s is the Connecting state.
func (s State) IsConnecting() bool { return s.Kind == KindConnecting }

// IsRecording reports whether s is any Recording substate.
func (s State) IsRecording() bool { return s.Kind == KindRecording }

// IsProcessing reports whether s is the Processing state.
func (s State) IsProcessing() bool { return s.Kind == KindProcessing }

// IsInjecting reports whether s is the Injecting state.
func (s State) IsInjecting() bool { return s.Kind == KindInjecting }

// IsError reports whether s is the Error state.
func (s State) IsError() bool { return s.Kind == KindError }
