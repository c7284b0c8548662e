package kiosk

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the kiosk key bindings
type KeyMap struct {
	NextCategory key.Binding
	PrevCategory key.Binding
	More         key.Binding
	Less         key.Binding
	Toggle       key.Binding
	Up           key.Binding
	Down         key.Binding
	Open         key.Binding
	Previous     key.Binding
	Next         key.Binding
	Close        key.Binding
	News         key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextCategory: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next category")),
		PrevCategory: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous category")),
		More:         key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "see more")),
		Less:         key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "show less")),
		Toggle:       key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "see more / show less")),
		Up:           key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "gallery up")),
		Down:         key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "gallery down")),
		Open:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Previous:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "previous")),
		Next:         key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next")),
		Close:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		News:         key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "more news")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// browsing returns the bindings active while the lightbox is closed
func (k KeyMap) browsing() []key.Binding {
	return []key.Binding{k.NextCategory, k.More, k.Less, k.Down, k.Up, k.Open, k.News, k.Quit}
}

// lightbox returns the bindings active while the lightbox is open
func (k KeyMap) lightbox() []key.Binding {
	return []key.Binding{k.Previous, k.Next, k.Close, k.Quit}
}
