package x11input

import (
	"testing"

	"autoclick/internal/core/autoclicker"

	"github.com/BurntSushi/xgb/xproto"
)

func TestKeysymNameCoversKnownKeys(t *testing.T) {
	for _, name := range autoclicker.KnownKeyNames() {
		if _, ok := keysymName(name); !ok {
			t.Fatalf("keysymName(%q) has no mapping", name)
		}
	}
}

func TestKeysymNameForms(t *testing.T) {
	tests := map[string]string{
		"F1":        "F1",
		"A":         "a",
		"7":         "7",
		"Esc":       "Escape",
		"PageUp":    "Prior",
		"Space":     "space",
		"Backslash": "backslash",
	}
	for key, want := range tests {
		got, ok := keysymName(key)
		if !ok || got != want {
			t.Fatalf("keysymName(%q) = %q, %v; want %q", key, got, ok, want)
		}
	}
	if _, ok := keysymName("Hyper"); ok {
		t.Fatalf("keysymName(Hyper) should not resolve")
	}
}

func TestModMask(t *testing.T) {
	seq := autoclicker.MustParseKeySequence("ctrl+alt+shift+meta+f6")
	want := uint16(xproto.ModMaskControl | xproto.ModMask1 | xproto.ModMaskShift | xproto.ModMask4)
	if got := modMask(seq); got != want {
		t.Fatalf("modMask() = %#x, want %#x", got, want)
	}
	if got := modMask(autoclicker.MustParseKeySequence("F1")); got != 0 {
		t.Fatalf("modMask(F1) = %#x, want 0", got)
	}
	if modMask(seq)&^uint16(relevantMods) != 0 {
		t.Fatalf("modMask sets bits outside relevantMods")
	}
}

func TestButtonIndex(t *testing.T) {
	if got, err := buttonIndex(autoclicker.ButtonLeft); err != nil || got != xproto.ButtonIndex1 {
		t.Fatalf("left = %d, %v", got, err)
	}
	if got, err := buttonIndex(autoclicker.ButtonRight); err != nil || got != xproto.ButtonIndex3 {
		t.Fatalf("right = %d, %v", got, err)
	}
	if _, err := buttonIndex(autoclicker.Button(9)); err == nil {
		t.Fatalf("expected error for unknown button")
	}
}

func TestClampToInt16(t *testing.T) {
	if clampToInt16(40000) != 32767 || clampToInt16(-40000) != -32768 || clampToInt16(12) != 12 {
		t.Fatalf("clampToInt16 out of range handling is wrong")
	}
}
