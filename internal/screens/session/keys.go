package session

import (
	"charm.land/bubbles/v2/key"

	"github.com/abhisek/fretiz/internal/ui/layout"
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Answer  key.Binding
	Next    key.Binding
	Pause   key.Binding
	Quit    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑↓←→", "Move")),
	Down:    key.NewBinding(key.WithKeys("down", "j")),
	Left:    key.NewBinding(key.WithKeys("left", "h")),
	Right:   key.NewBinding(key.WithKeys("right", "l")),
	Answer:  key.NewBinding(key.WithKeys("enter", "space", " "), key.WithHelp("Enter", "Answer")),
	Next:    key.NewBinding(key.WithKeys("n", "tab"), key.WithHelp("N", "Next")),
	Pause:   key.NewBinding(key.WithKeys("p"), key.WithHelp("P", "Pause")),
	Quit:    key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("Esc", "Quit")),
	Confirm: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("Y", "End session")),
	Cancel:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("N", "Keep going")),
}

func hints(bindings ...key.Binding) []layout.KeyHint {
	out := make([]layout.KeyHint, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, layout.KeyHint{Key: h.Key, Description: h.Desc})
	}
	return out
}
