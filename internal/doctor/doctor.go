// Package doctor runs runtime readiness diagnostics for config, hotkeys,
// the clipboard, and audio capture.
package doctor

import (
	"fmt"
	"os"
	"strings"

	"github.com/dictate-sh/dictate/internal/audiocap"
	"github.com/dictate-sh/dictate/internal/config"
	"github.com/dictate-sh/dictate/internal/hotkey"
	"github.com/dictate-sh/dictate/internal/inject"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/runtime checks for a loaded config.
func Run(cfg config.Loaded) Report {
	checks := []Check{}

	checks = append(checks, Check{
		Name:    "config",
		Pass:    true,
		Message: fmt.Sprintf("loaded %q", cfg.Path),
	})

	checks = append(checks, checkAPIKey(cfg.Config))
	checks = append(checks, checkHotkeys(cfg.Config))
	checks = append(checks, checkClipboard())
	checks = append(checks, checkAudioDevice(cfg.Config))

	return Report{Checks: checks}
}

// checkAPIKey confirms an ElevenLabs API key is reachable from config or
// the environment; the runtime itself prefers the configured value.
func checkAPIKey(cfg config.Config) Check {
	if strings.TrimSpace(cfg.Session.APIKey) != "" {
		return Check{Name: "session.api_key", Pass: true, Message: "configured"}
	}
	if strings.TrimSpace(os.Getenv("ELEVENLABS_API_KEY")) != "" {
		return Check{Name: "session.api_key", Pass: true, Message: "found in ELEVENLABS_API_KEY"}
	}
	return Check{Name: "session.api_key", Pass: false, Message: "not set in config or ELEVENLABS_API_KEY"}
}

// checkHotkeys verifies both shortcut strings parse under the hotkey
// grammar without attempting to register them with the OS.
func checkHotkeys(cfg config.Config) Check {
	if _, err := hotkey.ParseBinding(cfg.Hotkey.PushToTalk); err != nil {
		return Check{Name: "hotkey.push_to_talk", Pass: false, Message: err.Error()}
	}
	if _, err := hotkey.ParseBinding(cfg.Hotkey.Cancel); err != nil {
		return Check{Name: "hotkey.cancel", Pass: false, Message: err.Error()}
	}
	return Check{Name: "hotkey", Pass: true, Message: "push-to-talk and cancel bindings parse"}
}

// checkClipboard reads the clipboard via Save on the same
// atotto/clipboard-backed manager the injector uses; nothing is restored.
func checkClipboard() Check {
	mgr := inject.NewClipboardManager()
	if err := mgr.Save(); err != nil {
		return Check{Name: "clipboard", Pass: false, Message: err.Error()}
	}
	return Check{Name: "clipboard", Pass: true, Message: "system clipboard reachable"}
}

// checkAudioDevice runs live device selection to surface missing
// PortAudio backends or a misconfigured input device name.
func checkAudioDevice(cfg config.Config) Check {
	device, err := audiocap.FindDevice(cfg.Session.AudioInput)
	if err != nil {
		return Check{Name: "audio.device", Pass: false, Message: err.Error()}
	}
	return Check{Name: "audio.device", Pass: true, Message: fmt.Sprintf("selected %q", device.ID)}
}
