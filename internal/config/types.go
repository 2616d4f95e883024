// Package config resolves, parses, validates, and defaults dictate's
// runtime configuration.
package config

// Config is the fully materialized runtime configuration used by dictate.
// It is treated as immutable once loaded: Load returns one value, and each
// session clones the Session sub-struct at start.
type Config struct {
	Session   SessionConfig
	Hotkey    HotkeyConfig
	Injection InjectionConfig
	Indicator IndicatorConfig
	Debug     DebugConfig
}

// SessionConfig carries the per-session transcription fields enumerated in
// spec §3. APIKey is usually left empty in the file and supplied via
// ELEVENLABS_API_KEY instead.
type SessionConfig struct {
	APIKey            string
	ModelID           string
	LanguageCode      string
	IncludeTimestamps bool
	VadCommitStrategy string
	SampleRateOut     int
	ConnectTimeoutMS  int
	ProcessingTimeoutS int
	AudioInput        string
}

// HotkeyConfig names the two global shortcuts internal/hotkey registers.
type HotkeyConfig struct {
	PushToTalk string
	Cancel     string
}

// InjectionConfig controls how committed text reaches the focused window.
type InjectionConfig struct {
	Strategy          string
	AutoThreshold      int
	PasteDelayMS       int
	PreInjectionDelayMS int
	AutoInject         bool
}

// IndicatorConfig controls visual indicator and audio cue behavior.
type IndicatorConfig struct {
	Enable            bool
	Backend           string
	DesktopAppName    string
	SoundEnable       bool
	SoundStartFile    string
	SoundStopFile     string
	SoundCompleteFile string
	SoundCancelFile   string
	Height            int
	TextRecording     string
	TextProcessing    string
	TextError         string
	ErrorTimeoutMS    int
}

// DebugConfig controls optional debug artifact output.
type DebugConfig struct {
	EnableAudioDump bool
	EnableGRPCDump  bool
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}
