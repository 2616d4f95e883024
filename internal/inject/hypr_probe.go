package inject

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// HyprWindowProber queries hyprctl's JSON activewindow dispatch, the same
// mechanism the rest of the system uses for submap/notification control.
// It is the one WindowProber backend this system ships: the target
// environment is always a Hyprland session.
type HyprWindowProber struct {
	// Bin overrides the hyprctl binary name; defaults to "hyprctl".
	Bin string
}

type hyprActiveWindow struct {
	Address string `json:"address"`
	Class   string `json:"class"`
	Title   string `json:"title"`
	Pid     int    `json:"pid"`
}

func (p HyprWindowProber) bin() string {
	if p.Bin != "" {
		return p.Bin
	}
	return "hyprctl"
}

// Focused implements WindowProber.
func (p HyprWindowProber) Focused(ctx context.Context) (Descriptor, error) {
	cmd := exec.CommandContext(ctx, p.bin(), "-j", "activewindow")
	out, err := cmd.Output()
	if err != nil {
		return Descriptor{}, &WindowDetectionFailedError{Cause: fmt.Errorf("hyprctl activewindow: %w", err)}
	}

	var win hyprActiveWindow
	if err := json.Unmarshal(out, &win); err != nil {
		return Descriptor{}, &WindowDetectionFailedError{Cause: fmt.Errorf("decode activewindow json: %w", err)}
	}
	win.Address = strings.TrimSpace(win.Address)
	if win.Address == "" {
		return Descriptor{}, ErrNoFocusedWindow
	}

	windowID, _ := parseHexAddress(win.Address)
	execPath := resolveExecPath(win.Pid)
	execName := filepath.Base(execPath)
	if execName == "." || execName == "/" {
		execName = strings.TrimSpace(win.Class)
	}

	return Descriptor{
		AppName:   strings.TrimSpace(win.Class),
		Title:     strings.TrimSpace(win.Title),
		ProcessID: uint32(win.Pid),
		ExecName:  execName,
		ExecPath:  execPath,
		WindowID:  windowID,
	}, nil
}

func parseHexAddress(address string) (uint64, error) {
	return strconv.ParseUint(strings.TrimPrefix(address, "0x"), 16, 64)
}

// resolveExecPath reads the /proc/<pid>/exe symlink. It returns "" rather
// than an error since the executable path is best-effort metadata, not a
// correctness requirement for injection.
func resolveExecPath(pid int) string {
	if pid <= 0 {
		return ""
	}
	path, err := os.Readlink(fmt.Sprintf("/proc/%d/exe", pid))
	if err != nil {
		return ""
	}
	return path
}

// HasFocusedWindow reports whether prober currently resolves a focused
// window.
func HasFocusedWindow(ctx context.Context, prober WindowProber) bool {
	_, err := prober.Focused(ctx)
	return err == nil
}

// GetFocusedAppName returns the focused window's app name, if any.
func GetFocusedAppName(ctx context.Context, prober WindowProber) (string, bool) {
	d, err := prober.Focused(ctx)
	if err != nil {
		return "", false
	}
	return d.AppName, true
}

// GetFocusedWindowTitle returns the focused window's title, if any.
func GetFocusedWindowTitle(ctx context.Context, prober WindowProber) (string, bool) {
	d, err := prober.Focused(ctx)
	if err != nil {
		return "", false
	}
	return d.Title, true
}
