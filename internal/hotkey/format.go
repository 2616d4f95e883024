package hotkey

import (
	"runtime"
	"strconv"
	"strings"

	hk "golang.design/x/hotkey"
)

// Binding is a parsed hotkey: a set of modifiers plus exactly one
// non-modifier key.
type Binding struct {
	Raw  string
	Mods []hk.Modifier
	Key  hk.Key
}

// ParseBinding parses a platform-agnostic hotkey string such as
// "CommandOrControl+Shift+." into a Binding. Tokens are separated by "+"
// and matched case-insensitively. Recognized modifiers are Ctrl, Cmd, Alt,
// Shift, and CommandOrControl (which resolves to Cmd on darwin and Ctrl
// elsewhere). Exactly one token must resolve to a non-modifier key.
func ParseBinding(raw string) (Binding, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Binding{}, &InvalidFormatError{Raw: raw}
	}

	// A literal "+" key is spelled with a doubled trailing "+", e.g.
	// "Ctrl++": drop one "+" so the key becomes the trailing empty token.
	plusKey := strings.HasSuffix(s, "++")
	if plusKey {
		s = strings.TrimSuffix(s, "+")
	}

	tokens := strings.Split(s, "+")
	var mods []hk.Modifier
	var key *hk.Key

	for i, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			// Only the trailing empty token of a "++" suffix is accepted.
			if plusKey && i == len(tokens)-1 && len(tokens) > 1 {
				if key != nil {
					return Binding{}, &InvalidFormatError{Raw: raw}
				}
				k := hk.KeyEqual
				key = &k
				continue
			}
			return Binding{}, &InvalidFormatError{Raw: raw}
		}

		if mod, ok := parseModifier(tok); ok {
			mods = append(mods, mod)
			continue
		}

		k, ok := parseKey(tok)
		if !ok {
			return Binding{}, &InvalidFormatError{Raw: raw}
		}
		if key != nil {
			return Binding{}, &InvalidFormatError{Raw: raw}
		}
		key = &k
	}

	if key == nil {
		return Binding{}, &InvalidFormatError{Raw: raw}
	}
	return Binding{Raw: raw, Mods: mods, Key: *key}, nil
}

func parseModifier(tok string) (hk.Modifier, bool) {
	switch strings.ToLower(tok) {
	case "ctrl", "control":
		return hk.ModCtrl, true
	case "cmd", "command", "super", "win", "windows":
		return hk.ModCmd, true
	case "alt", "option":
		return hk.ModOption, true
	case "shift":
		return hk.ModShift, true
	case "commandorcontrol", "cmdorctrl":
		if runtime.GOOS == "darwin" {
			return hk.ModCmd, true
		}
		return hk.ModCtrl, true
	default:
		return 0, false
	}
}

// keyTable covers letters, digits, function keys, and the punctuation and
// named keys the grammar's non-modifier tokens may reference.
var keyTable = buildKeyTable()

func buildKeyTable() map[string]hk.Key {
	t := map[string]hk.Key{
		"escape":    hk.KeyEscape,
		"esc":       hk.KeyEscape,
		"space":     hk.KeySpace,
		"enter":     hk.KeyReturn,
		"return":    hk.KeyReturn,
		"tab":       hk.KeyTab,
		"backspace": hk.KeyDelete,
		"delete":    hk.KeyDelete,
		"capslock":  hk.KeyCapsLock,
		"up":        hk.KeyUp,
		"down":      hk.KeyDown,
		"left":      hk.KeyLeft,
		"right":     hk.KeyRight,
		".":         hk.KeyPeriod,
		",":         hk.KeyComma,
		"/":         hk.KeySlash,
		";":         hk.KeySemicolon,
		"'":         hk.KeyQuote,
		"[":         hk.KeyLeftBracket,
		"]":         hk.KeyRightBracket,
		"-":         hk.KeyMinus,
		"`":         hk.KeyGrave,
	}

	letters := "abcdefghijklmnopqrstuvwxyz"
	letterKeys := []hk.Key{
		hk.KeyA, hk.KeyB, hk.KeyC, hk.KeyD, hk.KeyE, hk.KeyF, hk.KeyG, hk.KeyH,
		hk.KeyI, hk.KeyJ, hk.KeyK, hk.KeyL, hk.KeyM, hk.KeyN, hk.KeyO, hk.KeyP,
		hk.KeyQ, hk.KeyR, hk.KeyS, hk.KeyT, hk.KeyU, hk.KeyV, hk.KeyW, hk.KeyX,
		hk.KeyY, hk.KeyZ,
	}
	for i, ch := range letters {
		t[string(ch)] = letterKeys[i]
	}

	digitKeys := []hk.Key{
		hk.Key0, hk.Key1, hk.Key2, hk.Key3, hk.Key4,
		hk.Key5, hk.Key6, hk.Key7, hk.Key8, hk.Key9,
	}
	for i, k := range digitKeys {
		t[string(rune('0'+i))] = k
	}

	fKeys := []hk.Key{
		hk.KeyF1, hk.KeyF2, hk.KeyF3, hk.KeyF4, hk.KeyF5, hk.KeyF6,
		hk.KeyF7, hk.KeyF8, hk.KeyF9, hk.KeyF10, hk.KeyF11, hk.KeyF12,
	}
	for i, k := range fKeys {
		t["f"+strconv.Itoa(i+1)] = k
	}

	return t
}

func parseKey(tok string) (hk.Key, bool) {
	k, ok := keyTable[strings.ToLower(tok)]
	return k, ok
}
