package events

// AppKind tags the variant carried by an AppEvent, mirroring the UI
// boundary's app:* event family.
type AppKind string

const (
	AppStateChanged     AppKind = "state_changed"
	AppIdle             AppKind = "idle"
	AppConnecting       AppKind = "connecting"
	AppRecording        AppKind = "recording"
	AppProcessing       AppKind = "processing"
	AppInjecting        AppKind = "injecting"
	AppError            AppKind = "error"
	AppProcessingTimeout AppKind = "processing_timeout"
)

// AppEvent is one state-machine notification destined for the UI boundary.
type AppEvent struct {
	Kind           AppKind
	State          string // the fsm.State.Kind this event describes, as a string
	IsIdle         bool
	IsConnecting   bool
	IsRecording    bool
	IsTranscribing bool
	IsProcessing   bool
	IsInjecting    bool
	IsError        bool
	ErrorMessage   string
	PartialText    string
}

// AppHandler receives each AppEvent as the emitter task republishes a state
// change. Implementations must return quickly.
type AppHandler func(AppEvent)
