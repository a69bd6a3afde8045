package main

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap lists the play bindings.
type keyMap struct {
	Animate     key.Binding
	Reset       key.Binding
	FastForward key.Binding
	Highlight   key.Binding
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	NextStep    key.Binding
	PrevStep    key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Animate:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "animate")),
		Reset:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		FastForward: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "skip")),
		Highlight:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "highlight")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll")),
		PageUp:      key.NewBinding(key.WithKeys("pgup", "b")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown", " ")),
		NextStep:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n/p", "step")),
		PrevStep:    key.NewBinding(key.WithKeys("p")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.NextStep, k.Animate, k.Reset, k.FastForward, k.Highlight, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
