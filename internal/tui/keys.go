package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Pair       key.Binding
	Ping       key.Binding
	Disconnect key.Binding
	Broadcast  key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Pair: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pair/unpair"),
	),
	Ping: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "ping"),
	),
	Disconnect: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "disconnect"),
	),
	Broadcast: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "broadcast"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
