package config

// Default returns the canonical runtime configuration used when no file is
// present, matching the field defaults enumerated in spec §3.
func Default() Config {
	return Config{
		Session: SessionConfig{
			ModelID:            "scribe_v2_realtime",
			LanguageCode:       "",
			IncludeTimestamps:  false,
			VadCommitStrategy:  "",
			SampleRateOut:      16000,
			ConnectTimeoutMS:   10000,
			ProcessingTimeoutS: 30,
			AudioInput:         "default",
		},
		Hotkey: HotkeyConfig{
			PushToTalk: "CommandOrControl+Shift+.",
			Cancel:     "Escape",
		},
		Injection: InjectionConfig{
			Strategy:            "auto",
			AutoThreshold:       20,
			PasteDelayMS:        100,
			PreInjectionDelayMS: 50,
			AutoInject:          true,
		},
		Indicator: IndicatorConfig{
			Enable:         true,
			Backend:        "hypr",
			DesktopAppName: "dictate-indicator",
			SoundEnable:    true,
			Height:         28,
			ErrorTimeoutMS: 1600,
		},
		Debug: DebugConfig{},
	}
}
