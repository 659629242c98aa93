package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the preview key bindings.
type keyMap struct {
	Send     key.Binding
	Abort    key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Down     key.Binding
	Up       key.Binding
	PageDown key.Binding
	PageUp   key.Binding
	Top      key.Binding
}

var keys = keyMap{
	Send: key.NewBinding(
		key.WithKeys("enter", "y"),
		key.WithHelp("enter", "send"),
	),
	Abort: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "abort"),
	),
	NextTab: key.NewBinding(
		key.WithKeys("tab", "right", "l"),
		key.WithHelp("tab/←/→", "switch"),
	),
	PrevTab: key.NewBinding(
		key.WithKeys("shift+tab", "left", "h"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↑/↓", "scroll"),
	),
	Up:       key.NewBinding(key.WithKeys("up", "k")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", " ")),
	PageUp:   key.NewBinding(key.WithKeys("pgup")),
	Top:      key.NewBinding(key.WithKeys("home", "g")),
}

// ShortHelp returns the bindings shown in the help bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Down, k.Send, k.Abort}
}
