package inject

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"
)

// Strategy selects how injected text reaches the focused window.
type Strategy string

const (
	// StrategyKeyboard types the text character by character.
	StrategyKeyboard Strategy = "keyboard"
	// StrategyClipboard saves the clipboard, writes the text, pastes, then
	// restores the clipboard.
	StrategyClipboard Strategy = "clipboard"
	// StrategyClipboardOnly writes the text to the clipboard and leaves
	// pasting to the user.
	StrategyClipboardOnly Strategy = "clipboard_only"
	// StrategyAuto picks Keyboard for short text and Clipboard otherwise.
	StrategyAuto Strategy = "auto"
)

// Outcome reports how an Injector's strategy actually delivered the text,
// since Auto and ClipboardOnly don't always do what Strategy names.
type Outcome int

const (
	// OutcomeTyped means the text was typed via the keyboard simulator.
	OutcomeTyped Outcome = iota
	// OutcomeInjected means the text was pasted after a clipboard round trip.
	OutcomeInjected
	// OutcomeCopied means the text was left on the clipboard for the user
	// to paste manually.
	OutcomeCopied
)

// Config controls the Clipboard strategy's paste timing and Auto's
// keyboard/clipboard threshold.
type Config struct {
	Strategy      Strategy
	AutoThreshold int
	PasteDelay    time.Duration
}

// DefaultAutoThreshold matches the original implementation's recommended
// keyboard/clipboard crossover: short text types faster than a clipboard
// round trip, long text is faster pasted.
const DefaultAutoThreshold = 20

// DefaultPasteDelay is how long Clipboard waits after sending paste before
// restoring the clipboard, giving the target app time to read it.
const DefaultPasteDelay = 100 * time.Millisecond

func (c Config) withDefaults() Config {
	if c.AutoThreshold <= 0 {
		c.AutoThreshold = DefaultAutoThreshold
	}
	if c.PasteDelay <= 0 {
		c.PasteDelay = DefaultPasteDelay
	}
	if c.Strategy == "" {
		c.Strategy = StrategyAuto
	}
	return c
}

// Injector delivers transcript text to the focused window using one of
// the Strategy variants.
type Injector struct {
	cfg       Config
	keyboard  KeyboardSimulator
	clipboard *ClipboardManager
}

// NewInjector builds an Injector. clipboard must not be nil.
func NewInjector(keyboard KeyboardSimulator, clipboard *ClipboardManager, cfg Config) *Injector {
	return &Injector{keyboard: keyboard, clipboard: clipboard, cfg: cfg.withDefaults()}
}

// Inject delivers text using the configured strategy. Empty text is
// always a no-op success.
func (inj *Injector) Inject(ctx context.Context, text string) (Outcome, error) {
	if text == "" {
		return OutcomeTyped, nil
	}

	strategy := inj.cfg.Strategy
	if strategy == StrategyAuto {
		if utf8.RuneCountInString(text) < inj.cfg.AutoThreshold {
			strategy = StrategyKeyboard
		} else {
			strategy = StrategyClipboard
		}
	}

	switch strategy {
	case StrategyKeyboard:
		if err := inj.keyboard.TypeText(ctx, text); err != nil {
			return 0, &InjectionFailedError{Cause: err}
		}
		return OutcomeTyped, nil

	case StrategyClipboard:
		if err := inj.viaClipboard(ctx, text); err != nil {
			return 0, &InjectionFailedError{Cause: err}
		}
		return OutcomeInjected, nil

	case StrategyClipboardOnly:
		if err := inj.clipboard.Write(text); err != nil {
			return 0, &InjectionFailedError{Cause: err}
		}
		return OutcomeCopied, nil

	default:
		return 0, &InjectionFailedError{Cause: fmt.Errorf("unknown injection strategy %q", strategy)}
	}
}

func (inj *Injector) viaClipboard(ctx context.Context, text string) error {
	if err := inj.clipboard.Save(); err != nil {
		return err
	}
	if err := inj.clipboard.Write(text); err != nil {
		return err
	}
	if err := inj.keyboard.Paste(ctx); err != nil {
		_ = inj.clipboard.Restore()
		return err
	}

	select {
	case <-ctx.Done():
	case <-time.After(inj.cfg.PasteDelay):
	}

	return inj.clipboard.Restore()
}
