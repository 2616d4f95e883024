package inject

import (
	"context"
	"strings"
)

// Descriptor identifies the window currently holding input focus.
type Descriptor struct {
	AppName   string
	Title     string
	ProcessID uint32
	ExecName  string
	ExecPath  string
	WindowID  uint64
}

// IsApp reports whether the descriptor's app name contains any of names,
// matched case-insensitively.
func (d Descriptor) IsApp(names ...string) bool {
	app := strings.ToLower(d.AppName)
	for _, name := range names {
		if strings.Contains(app, strings.ToLower(name)) {
			return true
		}
	}
	return false
}

// TitleContains reports whether the descriptor's title contains text,
// matched case-insensitively.
func (d Descriptor) TitleContains(text string) bool {
	return strings.Contains(strings.ToLower(d.Title), strings.ToLower(text))
}

// textInputApps is a curated allowlist of apps where typed or pasted text
// is expected to land in an editable field: editors, browsers, chat
// clients, terminals, note-taking apps, mail clients, and IDEs.
var textInputApps = []string{
	"code", "visual studio code", "sublime", "vim", "nvim", "emacs", "atom",
	"gedit", "kate", "notepad",
	"word", "excel", "powerpoint", "libreoffice", "pages", "numbers", "keynote",
	"chrome", "firefox", "safari", "edge", "brave", "opera", "vivaldi", "arc",
	"slack", "discord", "teams", "telegram", "whatsapp", "signal", "zoom", "skype",
	"terminal", "iterm", "konsole", "gnome-terminal", "alacritty", "warp", "kitty", "wezterm",
	"obsidian", "notion", "typora", "bear", "evernote",
	"idea", "intellij", "pycharm", "webstorm", "goland", "rider", "android studio", "xcode", "eclipse",
	"mail", "thunderbird", "outlook",
}

// IsTextInputContext applies the curated-allowlist heuristic to d.
func (d Descriptor) IsTextInputContext() bool {
	return d.IsApp(textInputApps...)
}

// WindowProber returns the descriptor of whatever window currently holds
// focus.
type WindowProber interface {
	Focused(ctx context.Context) (Descriptor, error)
}
