package app

import (
	"charm.land/bubbles/v2/key"

	"github.com/pywebdev/academy/internal/screens/lesson"
)

// globalKeyMap holds the bindings handled by the app root.
type globalKeyMap struct {
	Search     key.Binding
	Shortcuts  key.Binding
	Close      key.Binding
	ResetAll   key.Binding
	Activity   key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
	ResultUp   key.Binding
	ResultDown key.Binding
	Open       key.Binding
	Confirm    key.Binding
}

var globalKeys = globalKeyMap{
	Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "Focus search")),
	Shortcuts:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "Keyboard shortcuts")),
	Close:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "Close modals")),
	ResetAll:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "Reset progress")),
	Activity:   key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "Activity")),
	Quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "Quit")),
	ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c")),
	ResultUp:   key.NewBinding(key.WithKeys("up")),
	ResultDown: key.NewBinding(key.WithKeys("down")),
	Open:       key.NewBinding(key.WithKeys("enter")),
	Confirm:    key.NewBinding(key.WithKeys("y", "Y")),
}

// shortcutGroups returns the columns of the shortcuts panel. The first
// column lists the shortcuts of the web edition.
func shortcutGroups(k lesson.KeyMap) [][]key.Binding {
	return [][]key.Binding{
		{k.Run, k.ResetCode, k.Next, k.Prev, globalKeys.Search, globalKeys.Close},
		{k.Category, k.ScrollUp, k.ScrollDown, k.PageUp, k.PageDown},
		{k.Edit, k.LeaveEdit, k.Answer, k.TryAgain, k.AskTutor},
		{globalKeys.Shortcuts, globalKeys.ResetAll, globalKeys.Activity, globalKeys.Quit},
	}
}
