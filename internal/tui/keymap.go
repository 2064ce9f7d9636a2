package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/pders01/chronos/internal/config"
)

type keyMap struct {
	Quit   key.Binding
	Search key.Binding
	Clear  key.Binding
	Back   key.Binding
	Submit key.Binding
	Next   key.Binding
	Prev   key.Binding
	Up     key.Binding
	Down   key.Binding
}

func newKeyMap(cfg config.KeyConfig) keyMap {
	mod := cfg.Modifier + "+"
	back := cfg.Bindings.Back
	if back == "" {
		back = "esc"
	}

	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys(mod+cfg.Bindings.Quit),
			key.WithHelp(mod+cfg.Bindings.Quit, "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys(mod+cfg.Bindings.Search),
			key.WithHelp(mod+cfg.Bindings.Search, "search"),
		),
		Clear: key.NewBinding(
			key.WithKeys(mod+cfg.Bindings.Clear),
			key.WithHelp(mod+cfg.Bindings.Clear, "clear"),
		),
		Back: key.NewBinding(
			key.WithKeys(back),
			key.WithHelp(back, "back"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Next, k.Clear, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Search, k.Clear},
		{k.Next, k.Prev, k.Up, k.Down},
		{k.Back, k.Quit},
	}
}
