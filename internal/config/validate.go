package config

import (
	"fmt"
	"strings"
)

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if strings.TrimSpace(cfg.Session.ModelID) == "" {
		return nil, fmt.Errorf("session.model_id must not be empty")
	}
	if cfg.Session.SampleRateOut <= 0 {
		return nil, fmt.Errorf("session.sample_rate_out must be > 0")
	}
	if cfg.Session.ConnectTimeoutMS <= 0 {
		return nil, fmt.Errorf("session.connect_timeout_ms must be > 0")
	}
	if cfg.Session.ProcessingTimeoutS <= 0 {
		return nil, fmt.Errorf("session.processing_timeout_secs must be > 0")
	}
	if strings.TrimSpace(cfg.Session.AudioInput) == "" {
		return nil, fmt.Errorf("session.audio_input must not be empty")
	}

	if strings.TrimSpace(cfg.Hotkey.PushToTalk) == "" {
		return nil, fmt.Errorf("hotkey.push_to_talk must not be empty")
	}
	if strings.TrimSpace(cfg.Hotkey.Cancel) == "" {
		return nil, fmt.Errorf("hotkey.cancel must not be empty")
	}

	strategy := strings.ToLower(strings.TrimSpace(cfg.Injection.Strategy))
	switch strategy {
	case "auto", "keyboard", "clipboard", "clipboard_only":
	default:
		return nil, fmt.Errorf("injection.strategy must be one of: auto, keyboard, clipboard, clipboard_only")
	}
	if cfg.Injection.AutoThreshold <= 0 {
		return nil, fmt.Errorf("injection.auto_threshold must be > 0")
	}
	if cfg.Injection.PasteDelayMS < 0 {
		return nil, fmt.Errorf("injection.paste_delay_ms must be >= 0")
	}
	if cfg.Injection.PreInjectionDelayMS < 0 {
		return nil, fmt.Errorf("injection.pre_injection_delay_ms must be >= 0")
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.Indicator.Backend))
	if backend == "" {
		return nil, fmt.Errorf("indicator.backend must not be empty")
	}
	if backend != "hypr" && backend != "desktop" {
		return nil, fmt.Errorf("indicator.backend must be one of: hypr, desktop")
	}
	if backend == "desktop" && strings.TrimSpace(cfg.Indicator.DesktopAppName) == "" {
		return nil, fmt.Errorf("indicator.desktop_app_name must not be empty when indicator.backend=desktop")
	}
	if cfg.Indicator.Height <= 0 {
		return nil, fmt.Errorf("indicator.height must be > 0")
	}
	if cfg.Indicator.ErrorTimeoutMS < 0 {
		return nil, fmt.Errorf("indicator.error_timeout_ms must be >= 0")
	}

	return warnings, nil
}
