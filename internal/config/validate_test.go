package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsDefaults(t *testing.T) {
	_, err := Validate(Default())
	require.NoError(t, err)
}

func TestValidateRejectsInvalidCoreFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "empty model id", mutate: func(c *Config) { c.Session.ModelID = "" }, wantErr: "model_id"},
		{name: "bad sample rate", mutate: func(c *Config) { c.Session.SampleRateOut = 0 }, wantErr: "sample_rate_out"},
		{name: "bad connect timeout", mutate: func(c *Config) { c.Session.ConnectTimeoutMS = 0 }, wantErr: "connect_timeout_ms"},
		{name: "bad processing timeout", mutate: func(c *Config) { c.Session.ProcessingTimeoutS = 0 }, wantErr: "processing_timeout_secs"},
		{name: "empty audio input", mutate: func(c *Config) { c.Session.AudioInput = "" }, wantErr: "audio_input"},
		{name: "empty push to talk", mutate: func(c *Config) { c.Hotkey.PushToTalk = "" }, wantErr: "push_to_talk"},
		{name: "empty cancel hotkey", mutate: func(c *Config) { c.Hotkey.Cancel = "" }, wantErr: "cancel"},
		{name: "invalid injection strategy", mutate: func(c *Config) { c.Injection.Strategy = "nope" }, wantErr: "injection.strategy"},
		{name: "invalid auto threshold", mutate: func(c *Config) { c.Injection.AutoThreshold = 0 }, wantErr: "auto_threshold"},
		{name: "negative paste delay", mutate: func(c *Config) { c.Injection.PasteDelayMS = -1 }, wantErr: "paste_delay_ms"},
		{name: "negative pre-injection delay", mutate: func(c *Config) { c.Injection.PreInjectionDelayMS = -1 }, wantErr: "pre_injection_delay_ms"},
		{name: "empty indicator backend", mutate: func(c *Config) { c.Indicator.Backend = "" }, wantErr: "indicator.backend"},
		{name: "invalid indicator backend", mutate: func(c *Config) { c.Indicator.Backend = "bogus" }, wantErr: "indicator.backend"},
		{name: "desktop backend missing app name", mutate: func(c *Config) {
			c.Indicator.Backend = "desktop"
			c.Indicator.DesktopAppName = ""
		}, wantErr: "desktop_app_name"},
		{name: "invalid indicator height", mutate: func(c *Config) { c.Indicator.Height = 0 }, wantErr: "indicator.height"},
		{name: "negative error timeout", mutate: func(c *Config) { c.Indicator.ErrorTimeoutMS = -1 }, wantErr: "error_timeout_ms"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)

			_, err := Validate(cfg)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidateInjectionStrategyAcceptsAllKnownValues(t *testing.T) {
	for _, strategy := range []string{"auto", "keyboard", "clipboard", "clipboard_only"} {
		cfg := Default()
		cfg.Injection.Strategy = strategy
		_, err := Validate(cfg)
		require.NoError(t, err, "strategy %q should be valid", strategy)
	}
}
