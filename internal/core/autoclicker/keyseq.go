package autoclicker

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultToggleKey is bound when an empty sequence is assigned.
const DefaultToggleKey = "F1"

type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModShift
	ModAlt
	ModMeta
)

var modifierOrder = []struct {
	mod  Modifier
	name string
}{
	{ModCtrl, "Ctrl"},
	{ModAlt, "Alt"},
	{ModShift, "Shift"},
	{ModMeta, "Meta"},
}

var modifierAliases = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"ctl":     ModCtrl,
	"shift":   ModShift,
	"alt":     ModAlt,
	"option":  ModAlt,
	"meta":    ModMeta,
	"super":   ModMeta,
	"win":     ModMeta,
	"cmd":     ModMeta,
}

// namedKeys maps lower-case aliases to canonical key names.
var namedKeys = map[string]string{
	"space":        "Space",
	"spacebar":     "Space",
	"enter":        "Enter",
	"return":       "Enter",
	"tab":          "Tab",
	"esc":          "Esc",
	"escape":       "Esc",
	"backspace":    "Backspace",
	"insert":       "Insert",
	"ins":          "Insert",
	"delete":       "Delete",
	"del":          "Delete",
	"home":         "Home",
	"end":          "End",
	"pageup":       "PageUp",
	"pgup":         "PageUp",
	"pagedown":     "PageDown",
	"pgdown":       "PageDown",
	"pgdn":         "PageDown",
	"up":           "Up",
	"down":         "Down",
	"left":         "Left",
	"right":        "Right",
	"pause":        "Pause",
	"scrolllock":   "ScrollLock",
	"capslock":     "CapsLock",
	"numlock":      "NumLock",
	"minus":        "Minus",
	"equal":        "Equal",
	"comma":        "Comma",
	"period":       "Period",
	"dot":          "Period",
	"slash":        "Slash",
	"semicolon":    "Semicolon",
	"apostrophe":   "Apostrophe",
	"grave":        "Grave",
	"backslash":    "Backslash",
	"leftbracket":  "LeftBracket",
	"rightbracket": "RightBracket",
}

// KeySequence is one key plus held modifiers, e.g. "Ctrl+Shift+F6".
type KeySequence struct {
	Mods Modifier
	Key  string
}

func (s KeySequence) IsZero() bool {
	return s.Key == ""
}

func (s KeySequence) Has(mod Modifier) bool {
	return s.Mods&mod != 0
}

func (s KeySequence) String() string {
	if s.Key == "" {
		return ""
	}
	parts := make([]string, 0, 5)
	for _, m := range modifierOrder {
		if s.Mods&m.mod != 0 {
			parts = append(parts, m.name)
		}
	}
	return strings.Join(append(parts, s.Key), "+")
}

// ParseKeySequence accepts "+"-separated, case-insensitive sequences with at
// most one non-modifier key.
func ParseKeySequence(value string) (KeySequence, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return KeySequence{}, fmt.Errorf("%w: empty", ErrInvalidKeySequence)
	}

	var seq KeySequence
	for _, part := range strings.Split(raw, "+") {
		token := strings.ToLower(strings.TrimSpace(part))
		if token == "" {
			return KeySequence{}, fmt.Errorf("%w: %q has an empty component", ErrInvalidKeySequence, value)
		}
		if mod, ok := modifierAliases[token]; ok {
			seq.Mods |= mod
			continue
		}
		if seq.Key != "" {
			return KeySequence{}, fmt.Errorf("%w: %q names more than one key", ErrInvalidKeySequence, value)
		}
		name, ok := canonicalKeyName(token)
		if !ok {
			return KeySequence{}, fmt.Errorf("%w: unknown key %q", ErrInvalidKeySequence, part)
		}
		seq.Key = name
	}
	if seq.Key == "" {
		return KeySequence{}, fmt.Errorf("%w: %q has no key besides modifiers", ErrInvalidKeySequence, value)
	}
	return seq, nil
}

func MustParseKeySequence(value string) KeySequence {
	seq, err := ParseKeySequence(value)
	if err != nil {
		panic(err)
	}
	return seq
}

func canonicalKeyName(token string) (string, bool) {
	if len(token) == 1 {
		c := token[0]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			return strings.ToUpper(token), true
		}
		switch c {
		case '-':
			return "Minus", true
		case '=':
			return "Equal", true
		case ',':
			return "Comma", true
		case '.':
			return "Period", true
		case '/':
			return "Slash", true
		case ';':
			return "Semicolon", true
		case '\'':
			return "Apostrophe", true
		case '`':
			return "Grave", true
		case '\\':
			return "Backslash", true
		case '[':
			return "LeftBracket", true
		case ']':
			return "RightBracket", true
		}
		return "", false
	}
	if token[0] == 'f' && isDigits(token[1:]) {
		n := 0
		for _, r := range token[1:] {
			n = n*10 + int(r-'0')
		}
		if n >= 1 && n <= 24 {
			return fmt.Sprintf("F%d", n), true
		}
		return "", false
	}
	name, ok := namedKeys[token]
	return name, ok
}

// TermKey renders the sequence in the form terminal key events use
// ("ctrl+f1", "shift+tab", " "). Meta has no terminal form and yields "".
func (s KeySequence) TermKey() string {
	if s.Key == "" || s.Has(ModMeta) {
		return ""
	}
	var key string
	switch s.Key {
	case "Space":
		key = " "
	case "Enter":
		key = "enter"
	case "Tab":
		key = "tab"
	case "Esc":
		key = "esc"
	case "Backspace":
		key = "backspace"
	case "PageUp":
		key = "pgup"
	case "PageDown":
		key = "pgdown"
	case "Insert", "Delete", "Home", "End", "Up", "Down", "Left", "Right":
		key = strings.ToLower(s.Key)
	default:
		if len(s.Key) == 1 {
			if s.Has(ModShift) && !s.Has(ModCtrl) && s.Key[0] >= 'A' && s.Key[0] <= 'Z' {
				return prefixMods(s.Mods&^ModShift, s.Key)
			}
			key = strings.ToLower(s.Key)
		} else if s.Key[0] == 'F' {
			key = strings.ToLower(s.Key)
		} else {
			return ""
		}
	}
	return prefixMods(s.Mods, key)
}

func prefixMods(mods Modifier, key string) string {
	var b strings.Builder
	if mods&ModCtrl != 0 {
		b.WriteString("ctrl+")
	}
	if mods&ModAlt != 0 {
		b.WriteString("alt+")
	}
	if mods&ModShift != 0 {
		b.WriteString("shift+")
	}
	b.WriteString(key)
	return b.String()
}

// ParseTermKey is the inverse of TermKey. An upper-case single letter is
// read as Shift plus that letter.
func ParseTermKey(value string) (KeySequence, bool) {
	if value == " " {
		return KeySequence{Key: "Space"}, true
	}
	var mods Modifier
	rest := value
	for {
		switch {
		case strings.HasPrefix(rest, "ctrl+"):
			mods |= ModCtrl
			rest = rest[len("ctrl+"):]
			continue
		case strings.HasPrefix(rest, "alt+"):
			mods |= ModAlt
			rest = rest[len("alt+"):]
			continue
		case strings.HasPrefix(rest, "shift+"):
			mods |= ModShift
			rest = rest[len("shift+"):]
			continue
		}
		break
	}
	switch rest {
	case "":
		return KeySequence{}, false
	case " ":
		return KeySequence{Mods: mods, Key: "Space"}, true
	}
	if len(rest) == 1 && rest[0] >= 'A' && rest[0] <= 'Z' {
		mods |= ModShift
	}
	name, ok := canonicalKeyName(strings.ToLower(rest))
	if !ok {
		return KeySequence{}, false
	}
	return KeySequence{Mods: mods, Key: name}, true
}

// KnownKeyNames lists canonical key names accepted by ParseKeySequence.
func KnownKeyNames() []string {
	seen := make(map[string]struct{}, len(namedKeys)+60)
	for _, name := range namedKeys {
		seen[name] = struct{}{}
	}
	for c := 'A'; c <= 'Z'; c++ {
		seen[string(c)] = struct{}{}
	}
	for c := '0'; c <= '9'; c++ {
		seen[string(c)] = struct{}{}
	}
	for i := 1; i <= 24; i++ {
		seen[fmt.Sprintf("F%d", i)] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
