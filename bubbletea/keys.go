package bubbletea

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the key bindings of both screens.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	LoadMore key.Binding
	NextLine key.Binding
	PrevLine key.Binding
	PageDown key.Binding
	PageUp   key.Binding
	Swap     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "prev")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "next")),
		Toggle:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "expand")),
		LoadMore: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "more")),
		NextLine: key.NewBinding(key.WithKeys("n"), key.WithHelp("n/p", "line")),
		PrevLine: key.NewBinding(key.WithKeys("p")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("^d", "page down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("^u", "page up")),
		Swap:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "swap")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// hints renders the key help shown in the status bar.
func hints(bindings ...key.Binding) string {
	var parts []string
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, "  ")
}
