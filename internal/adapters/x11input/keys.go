package x11input

import (
	"fmt"
	"strings"

	"autoclick/internal/core/autoclicker"

	"github.com/BurntSushi/xgb/xproto"
)

// lockMasks are modifier states a grab must tolerate: none, CapsLock,
// NumLock (Mod2) and both.
var lockMasks = []uint16{
	0,
	xproto.ModMaskLock,
	xproto.ModMask2,
	xproto.ModMaskLock | xproto.ModMask2,
}

// relevantMods are the modifier bits compared when matching a key press.
const relevantMods = xproto.ModMaskShift | xproto.ModMaskControl | xproto.ModMask1 | xproto.ModMask4

func modMask(seq autoclicker.KeySequence) uint16 {
	var mask uint16
	if seq.Has(autoclicker.ModShift) {
		mask |= xproto.ModMaskShift
	}
	if seq.Has(autoclicker.ModCtrl) {
		mask |= xproto.ModMaskControl
	}
	if seq.Has(autoclicker.ModAlt) {
		mask |= xproto.ModMask1
	}
	if seq.Has(autoclicker.ModMeta) {
		mask |= xproto.ModMask4
	}
	return mask
}

func buttonIndex(button autoclicker.Button) (byte, error) {
	switch button {
	case autoclicker.ButtonLeft:
		return xproto.ButtonIndex1, nil
	case autoclicker.ButtonRight:
		return xproto.ButtonIndex3, nil
	default:
		return 0, fmt.Errorf("unsupported button %s", button)
	}
}

// keysymName maps a canonical key name to the X keysym string keybind
// resolves.
func keysymName(key string) (string, bool) {
	switch key {
	case "Esc":
		return "Escape", true
	case "Enter":
		return "Return", true
	case "Tab":
		return "Tab", true
	case "Space":
		return "space", true
	case "Backspace":
		return "BackSpace", true
	case "CapsLock":
		return "Caps_Lock", true
	case "NumLock":
		return "Num_Lock", true
	case "ScrollLock":
		return "Scroll_Lock", true
	case "PageUp":
		return "Prior", true
	case "PageDown":
		return "Next", true
	case "Insert", "Delete", "Home", "End", "Up", "Down", "Left", "Right", "Pause":
		return key, true
	case "Minus":
		return "minus", true
	case "Equal":
		return "equal", true
	case "LeftBracket":
		return "bracketleft", true
	case "RightBracket":
		return "bracketright", true
	case "Semicolon":
		return "semicolon", true
	case "Apostrophe":
		return "apostrophe", true
	case "Grave":
		return "grave", true
	case "Backslash":
		return "backslash", true
	case "Comma":
		return "comma", true
	case "Period":
		return "period", true
	case "Slash":
		return "slash", true
	}

	if len(key) == 1 && key[0] >= 'A' && key[0] <= 'Z' {
		return strings.ToLower(key), true
	}
	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
		return key, true
	}
	if strings.HasPrefix(key, "F") && isDigits(key[1:]) {
		return key, true
	}
	return "", false
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

func clampToInt16(value int) int16 {
	if value < -32768 {
		return -32768
	}
	if value > 32767 {
		return 32767
	}
	return int16(value)
}
