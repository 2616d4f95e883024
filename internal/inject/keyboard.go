package inject

import (
	"context"
	"os/exec"
)

// KeyboardSimulator issues synthetic key events to whatever window
// currently holds input focus.
type KeyboardSimulator interface {
	TypeText(ctx context.Context, text string) error
	Paste(ctx context.Context) error
	Copy(ctx context.Context) error
	SelectAll(ctx context.Context) error
	PressEnter(ctx context.Context) error
	PressEscape(ctx context.Context) error
	PressTab(ctx context.Context) error
	PressBackspace(ctx context.Context) error
	PressDelete(ctx context.Context) error
	PressKey(ctx context.Context, key string) error
	ReleaseKey(ctx context.Context, key string) error
	ClickKey(ctx context.Context, key string) error
}

// WtypeSimulator drives the `wtype` Wayland virtual-keyboard tool. Every
// primitive is a single exec, matching how the rest of this system shells
// out to small Wayland/Hyprland CLI tools instead of linking a platform
// input-simulation library.
type WtypeSimulator struct {
	// Bin overrides the wtype binary path; empty uses "wtype" from PATH.
	Bin string
}

func (w WtypeSimulator) bin() string {
	if w.Bin == "" {
		return "wtype"
	}
	return w.Bin
}

func (w WtypeSimulator) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, w.bin(), args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return &KeyboardSimulationFailedError{Cause: wrapExecOutput(err, out)}
	}
	return nil
}

// TypeText implements KeyboardSimulator. Empty text is a no-op success.
func (w WtypeSimulator) TypeText(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	return w.run(ctx, text)
}

// Paste sends Ctrl+V. The target environment is Wayland/Hyprland only, so
// there is no macOS Cmd+V branch to maintain here.
func (w WtypeSimulator) Paste(ctx context.Context) error { return w.comboClick(ctx, "ctrl", "v") }

// Copy sends Ctrl+C.
func (w WtypeSimulator) Copy(ctx context.Context) error { return w.comboClick(ctx, "ctrl", "c") }

// SelectAll sends Ctrl+A.
func (w WtypeSimulator) SelectAll(ctx context.Context) error { return w.comboClick(ctx, "ctrl", "a") }

func (w WtypeSimulator) comboClick(ctx context.Context, modifier, key string) error {
	return w.run(ctx, "-M", modifier, "-k", key, "-m", modifier)
}

func (w WtypeSimulator) PressEnter(ctx context.Context) error     { return w.ClickKey(ctx, "Return") }
func (w WtypeSimulator) PressEscape(ctx context.Context) error    { return w.ClickKey(ctx, "Escape") }
func (w WtypeSimulator) PressTab(ctx context.Context) error       { return w.ClickKey(ctx, "Tab") }
func (w WtypeSimulator) PressBackspace(ctx context.Context) error { return w.ClickKey(ctx, "BackSpace") }
func (w WtypeSimulator) PressDelete(ctx context.Context) error    { return w.ClickKey(ctx, "Delete") }

func (w WtypeSimulator) PressKey(ctx context.Context, key string) error {
	return w.run(ctx, "-P", key)
}

func (w WtypeSimulator) ReleaseKey(ctx context.Context, key string) error {
	return w.run(ctx, "-p", key)
}

func (w WtypeSimulator) ClickKey(ctx context.Context, key string) error {
	return w.run(ctx, "-k", key)
}

func wrapExecOutput(err error, out []byte) error {
	if len(out) == 0 {
		return err
	}
	return &execOutputError{cause: err, output: string(out)}
}

type execOutputError struct {
	cause  error
	output string
}

func (e *execOutputError) Error() string { return e.cause.Error() + ": " + e.output }
func (e *execOutputError) Unwrap() error { return e.cause }
