//go:build linux

package linuxinput

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"autoclick/internal/core/autoclicker"

	evdev "github.com/holoplot/go-evdev"
)

var modifierCodes = map[evdev.EvCode]autoclicker.Modifier{
	evdev.KEY_LEFTCTRL:   autoclicker.ModCtrl,
	evdev.KEY_RIGHTCTRL:  autoclicker.ModCtrl,
	evdev.KEY_LEFTSHIFT:  autoclicker.ModShift,
	evdev.KEY_RIGHTSHIFT: autoclicker.ModShift,
	evdev.KEY_LEFTALT:    autoclicker.ModAlt,
	evdev.KEY_RIGHTALT:   autoclicker.ModAlt,
	evdev.KEY_LEFTMETA:   autoclicker.ModMeta,
	evdev.KEY_RIGHTMETA:  autoclicker.ModMeta,
}

// codeKeys maps evdev key codes back to canonical key names.
var codeKeys = sync.OnceValue(func() map[evdev.EvCode]string {
	names := autoclicker.KnownKeyNames()
	keys := make(map[evdev.EvCode]string, len(names))
	for _, name := range names {
		if code, err := KeyCode(name); err == nil {
			keys[code] = name
		}
	}
	return keys
})

// KeyCode resolves a canonical key name ("F1", "PageUp", "A") to its evdev code.
func KeyCode(key string) (evdev.EvCode, error) {
	raw := evdevKeyName(key)
	code, ok := evdev.KEYFromString[raw]
	if !ok {
		return 0, fmt.Errorf("%w: no evdev code for %q", autoclicker.ErrUnsupported, key)
	}
	return code, nil
}

// KeyName is the inverse of KeyCode.
func KeyName(code evdev.EvCode) (string, bool) {
	name, ok := codeKeys()[code]
	return name, ok
}

func evdevKeyName(key string) string {
	switch key {
	case "Period":
		return "KEY_DOT"
	case "LeftBracket":
		return "KEY_LEFTBRACE"
	case "RightBracket":
		return "KEY_RIGHTBRACE"
	}
	return "KEY_" + strings.ToUpper(key)
}

func FormatCodeName(code evdev.EvCode) string {
	name := evdev.CodeName(evdev.EV_KEY, code)
	if name != "" {
		return name
	}
	return strconv.Itoa(int(code))
}
