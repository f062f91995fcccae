package tui

import (
	"github.com/adcue/adcue/color"
	"github.com/adcue/adcue/style"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
)

type keymap struct {
	quit, forceQuit, play, remove key.Binding
}

func newKeymap() *keymap {
	return &keymap{
		quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		play: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp(style.Fg(color.Orange)("enter"), style.Fg(color.Orange)("resume")),
		),
		remove: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "forget"),
		),
	}
}

func (k *keymap) ShortHelp() []key.Binding {
	return []key.Binding{k.play, k.remove}
}

// forList drops the list's own quit bindings, the bubble handles them.
func (k *keymap) forList() list.KeyMap {
	keys := list.DefaultKeyMap()
	keys.Quit.SetEnabled(false)
	keys.ForceQuit.SetEnabled(false)
	return keys
}
