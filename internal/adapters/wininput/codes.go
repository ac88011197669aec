package wininput

import (
	"fmt"
	"strconv"
	"strings"

	"autoclick/internal/core/autoclicker"
)

const (
	vkBACK     uint32 = 0x08
	vkTAB      uint32 = 0x09
	vkRETURN   uint32 = 0x0D
	vkPAUSE    uint32 = 0x13
	vkCAPITAL  uint32 = 0x14
	vkESCAPE   uint32 = 0x1B
	vkSPACE    uint32 = 0x20
	vkPRIOR    uint32 = 0x21
	vkNEXT     uint32 = 0x22
	vkEND      uint32 = 0x23
	vkHOME     uint32 = 0x24
	vkLEFT     uint32 = 0x25
	vkUP       uint32 = 0x26
	vkRIGHT    uint32 = 0x27
	vkDOWN     uint32 = 0x28
	vkINSERT   uint32 = 0x2D
	vkDELETE   uint32 = 0x2E
	vk0        uint32 = 0x30
	vkA        uint32 = 0x41
	vkF1       uint32 = 0x70
	vkF8       uint32 = 0x77
	vkF24      uint32 = 0x87
	vkNUMLOCK  uint32 = 0x90
	vkSCROLL   uint32 = 0x91
	vkOEM1     uint32 = 0xBA
	vkOEMPLUS  uint32 = 0xBB
	vkOEMCOMMA uint32 = 0xBC
	vkOEMMINUS uint32 = 0xBD
	vkOEMDOT   uint32 = 0xBE
	vkOEM2     uint32 = 0xBF
	vkOEM3     uint32 = 0xC0
	vkOEM4     uint32 = 0xDB
	vkOEM5     uint32 = 0xDC
	vkOEM6     uint32 = 0xDD
	vkOEM7     uint32 = 0xDE
)

// RegisterHotKey modifier flags.
const (
	modAlt      uint32 = 0x0001
	modControl  uint32 = 0x0002
	modShift    uint32 = 0x0004
	modWin      uint32 = 0x0008
	modNoRepeat uint32 = 0x4000
)

const (
	mouseeventfLeftDown  uint32 = 0x0002
	mouseeventfLeftUp    uint32 = 0x0004
	mouseeventfRightDown uint32 = 0x0008
	mouseeventfRightUp   uint32 = 0x0010
)

var namedVK = map[string]uint32{
	"Esc":          vkESCAPE,
	"Enter":        vkRETURN,
	"Tab":          vkTAB,
	"Space":        vkSPACE,
	"Backspace":    vkBACK,
	"Insert":       vkINSERT,
	"Delete":       vkDELETE,
	"Home":         vkHOME,
	"End":          vkEND,
	"PageUp":       vkPRIOR,
	"PageDown":     vkNEXT,
	"Up":           vkUP,
	"Down":         vkDOWN,
	"Left":         vkLEFT,
	"Right":        vkRIGHT,
	"Pause":        vkPAUSE,
	"ScrollLock":   vkSCROLL,
	"CapsLock":     vkCAPITAL,
	"NumLock":      vkNUMLOCK,
	"Minus":        vkOEMMINUS,
	"Equal":        vkOEMPLUS,
	"Comma":        vkOEMCOMMA,
	"Period":       vkOEMDOT,
	"Slash":        vkOEM2,
	"Semicolon":    vkOEM1,
	"Apostrophe":   vkOEM7,
	"Grave":        vkOEM3,
	"Backslash":    vkOEM5,
	"LeftBracket":  vkOEM4,
	"RightBracket": vkOEM6,
}

// VirtualKey maps a canonical key name to its Windows virtual-key code.
func VirtualKey(key string) (uint32, bool) {
	if vk, ok := namedVK[key]; ok {
		return vk, true
	}
	if len(key) == 1 {
		c := key[0]
		switch {
		case c >= 'A' && c <= 'Z':
			return vkA + uint32(c-'A'), true
		case c >= '0' && c <= '9':
			return vk0 + uint32(c-'0'), true
		}
		return 0, false
	}
	if strings.HasPrefix(key, "F") {
		n, err := strconv.Atoi(key[1:])
		if err == nil && n >= 1 && n <= 24 && strconv.Itoa(n) == key[1:] {
			return vkF1 + uint32(n-1), true
		}
	}
	return 0, false
}

// hotkeyModifiers builds RegisterHotKey flags. Auto-repeat is suppressed
// so a held key toggles once.
func hotkeyModifiers(seq autoclicker.KeySequence) uint32 {
	mods := modNoRepeat
	if seq.Has(autoclicker.ModAlt) {
		mods |= modAlt
	}
	if seq.Has(autoclicker.ModCtrl) {
		mods |= modControl
	}
	if seq.Has(autoclicker.ModShift) {
		mods |= modShift
	}
	if seq.Has(autoclicker.ModMeta) {
		mods |= modWin
	}
	return mods
}

func buttonFlags(button autoclicker.Button) (down, up uint32, err error) {
	switch button {
	case autoclicker.ButtonLeft:
		return mouseeventfLeftDown, mouseeventfLeftUp, nil
	case autoclicker.ButtonRight:
		return mouseeventfRightDown, mouseeventfRightUp, nil
	default:
		return 0, 0, fmt.Errorf("unsupported button %s", button)
	}
}
