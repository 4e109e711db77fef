package tui

import "github.com/charmbracelet/bubbles/key"

// FollowerKeys are the bindings of the log follower.
type FollowerKeys struct {
	Quit   key.Binding
	Follow key.Binding
	Top    key.Binding
	Bottom key.Binding
	Up     key.Binding
}

var followerKeys = FollowerKeys{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
	Follow: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "follow"),
	),
	Top: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k", "pgup", "ctrl+u"),
	),
}
