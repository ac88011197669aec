package tui

import (
	"autoclick/internal/core/autoclicker"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Toggle key.Binding
	Button key.Binding
	Reload key.Binding
	Help   key.Binding
	Quit   key.Binding

	ResetToggle key.Binding
}

func newKeyMap(binding autoclicker.KeySequence) keyMap {
	return keyMap{
		Toggle: toggleBinding(binding),
		Button: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "flip button")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload config")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		ResetToggle: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "reset toggle to "+autoclicker.DefaultToggleKey),
		),
	}
}

// toggleBinding is display-only; matching goes through ParseTermKey so
// modifiers compare structurally.
func toggleBinding(binding autoclicker.KeySequence) key.Binding {
	termKey := binding.TermKey()
	if termKey == "" {
		return key.NewBinding(key.WithDisabled())
	}
	return key.NewBinding(key.WithKeys(termKey), key.WithHelp(binding.String(), "start/stop"))
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Button, k.Reload, k.ResetToggle},
		{k.Help, k.Quit},
	}
}
