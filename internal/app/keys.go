package app

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the bindings handled by the root model. Tabs bring their own.
type KeyMap struct {
	// Jump has one binding per tab, "1" for the first.
	Jump  []key.Binding
	Next  key.Binding
	Prev  key.Binding
	Rerun key.Binding
	Help  key.Binding
	Close key.Binding
	Quit  key.Binding
}

// DefaultKeyMap returns the bindings listed in the help overlay.
func DefaultKeyMap() KeyMap {
	k := KeyMap{
		Next:  key.NewBinding(key.WithKeys("tab", "l", "right"), key.WithHelp("tab/→", "next tab")),
		Prev:  key.NewBinding(key.WithKeys("shift+tab", "h", "left"), key.WithHelp("shift+tab/←", "previous tab")),
		Rerun: key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "re-run analysis")),
		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Close: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close help")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
	for i, name := range tabNames {
		n := strconv.Itoa(i + 1)
		k.Jump = append(k.Jump, key.NewBinding(key.WithKeys(n), key.WithHelp(n, strings.ToLower(name))))
	}
	return k
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Rerun, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.Jump, {k.Next, k.Prev}, {k.Rerun, k.Help, k.Close, k.Quit}}
}
