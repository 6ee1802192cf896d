package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the swipe client.
type KeyMap struct {
	// Deck.
	Like       key.Binding
	Pass       key.Binding
	ToggleMode key.Binding
	ActiveOnly key.Binding
	Rewind     key.Binding

	// Tabs.
	TabDiscover key.Binding
	TabMatches  key.Binding
	EditProfile key.Binding
	ViewProfile key.Binding

	// Lists and forms.
	Up     key.Binding
	Down   key.Binding
	Next   key.Binding
	Submit key.Binding
	Back   key.Binding

	Logout key.Binding
	Quit   key.Binding
}

// DefaultKeyMap uses vim-style letters alongside arrow keys.
var DefaultKeyMap = KeyMap{
	Like: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "like"),
	),
	Pass: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "pass"),
	),
	ToggleMode: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "browse/ai"),
	),
	ActiveOnly: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "online only"),
	),
	Rewind: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "rewind"),
	),
	TabDiscover: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "discover"),
	),
	TabMatches: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "matches"),
	),
	EditProfile: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit profile"),
	),
	ViewProfile: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "public profile"),
	),
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Logout: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("ctrl+o", "log out"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q"),
		key.WithHelp("q", "quit"),
	),
}
