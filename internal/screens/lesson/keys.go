package lesson

import (
	"charm.land/bubbles/v2/key"
)

// KeyMap lists the lesson screen bindings. It implements help.KeyMap so the
// shortcuts panel can render it.
type KeyMap struct {
	Run        key.Binding
	ResetCode  key.Binding
	Next       key.Binding
	Prev       key.Binding
	Category   key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Edit       key.Binding
	LeaveEdit  key.Binding
	Answer     key.Binding
	TryAgain   key.Binding
	AskTutor   key.Binding
}

// Keys is the lesson screen key map.
var Keys = KeyMap{
	Run:        key.NewBinding(key.WithKeys("ctrl+enter", "f5"), key.WithHelp("ctrl+enter/F5", "Run code")),
	ResetCode:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "Reset code")),
	Next:       key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "Next lesson")),
	Prev:       key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "Previous lesson")),
	Category:   key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "Category")),
	ScrollUp:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "Scroll up")),
	ScrollDown: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "Scroll down")),
	PageUp:     key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "Page up")),
	PageDown:   key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "Page down")),
	Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "Edit code")),
	LeaveEdit:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "Leave editor")),
	Answer:     key.NewBinding(key.WithKeys("a", "b", "c", "d"), key.WithHelp("a-d", "Answer quiz")),
	TryAgain:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "Try quiz again")),
	AskTutor:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "Ask the tutor")),
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Run, k.Prev, k.Next, k.Edit}
}

// FullHelp returns the bindings shown in the shortcuts panel.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Run, k.ResetCode, k.Next, k.Prev, k.Category},
		{k.ScrollUp, k.ScrollDown, k.PageUp, k.PageDown},
		{k.Edit, k.LeaveEdit, k.Answer, k.TryAgain, k.AskTutor},
	}
}
