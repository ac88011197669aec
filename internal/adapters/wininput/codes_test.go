package wininput

import (
	"testing"

	"autoclick/internal/core/autoclicker"
)

func TestVirtualKeyCoversKnownKeys(t *testing.T) {
	seen := make(map[uint32]string)
	for _, name := range autoclicker.KnownKeyNames() {
		vk, ok := VirtualKey(name)
		if !ok {
			t.Fatalf("VirtualKey(%q) has no mapping", name)
		}
		if prev, dup := seen[vk]; dup {
			t.Fatalf("VirtualKey(%q) = %#x, already used by %q", name, vk, prev)
		}
		seen[vk] = name
	}
}

func TestVirtualKeyMappings(t *testing.T) {
	tests := []struct {
		key  string
		want uint32
	}{
		{key: "F1", want: vkF1},
		{key: "F8", want: vkF8},
		{key: "F24", want: vkF24},
		{key: "A", want: vkA},
		{key: "Z", want: 0x5A},
		{key: "0", want: vk0},
		{key: "Enter", want: vkRETURN},
		{key: "PageDown", want: vkNEXT},
		{key: "LeftBracket", want: vkOEM4},
	}
	for _, tc := range tests {
		got, ok := VirtualKey(tc.key)
		if !ok || got != tc.want {
			t.Fatalf("VirtualKey(%q)=%#x,%v, want %#x,true", tc.key, got, ok, tc.want)
		}
	}

	for _, bad := range []string{"F0", "F25", "F01", "Hyper", "a", ""} {
		if _, ok := VirtualKey(bad); ok {
			t.Fatalf("VirtualKey(%q) should not resolve", bad)
		}
	}
}

func TestHotkeyModifiers(t *testing.T) {
	seq := autoclicker.MustParseKeySequence("Ctrl+Alt+Shift+Meta+F6")
	want := modNoRepeat | modAlt | modControl | modShift | modWin
	if got := hotkeyModifiers(seq); got != want {
		t.Fatalf("hotkeyModifiers()=%#x, want %#x", got, want)
	}
	if got := hotkeyModifiers(autoclicker.MustParseKeySequence("F1")); got != modNoRepeat {
		t.Fatalf("hotkeyModifiers(F1)=%#x, want %#x", got, modNoRepeat)
	}
}

func TestButtonFlags(t *testing.T) {
	down, up, err := buttonFlags(autoclicker.ButtonRight)
	if err != nil || down != mouseeventfRightDown || up != mouseeventfRightUp {
		t.Fatalf("buttonFlags(right)=%#x,%#x,%v", down, up, err)
	}
	if _, _, err := buttonFlags(autoclicker.Button(7)); err == nil {
		t.Fatalf("expected error for unknown button")
	}
}
