package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// SearchBox wraps bubbles/textinput as the header search field.
type SearchBox struct {
	Model textinput.Model
}

// NewSearchBox creates an unfocused search box.
func NewSearchBox(width int) SearchBox {
	ti := textinput.New()
	ti.Placeholder = "Search lessons... (/)"
	ti.Prompt = "🔍 "
	ti.CharLimit = 64
	ti.SetWidth(width)
	return SearchBox{Model: ti}
}

// Focus gives the box keyboard focus.
func (s *SearchBox) Focus() tea.Cmd {
	return s.Model.Focus()
}

// Blur releases keyboard focus.
func (s *SearchBox) Blur() {
	s.Model.Blur()
}

// Focused reports whether the box has keyboard focus.
func (s SearchBox) Focused() bool {
	return s.Model.Focused()
}

// SetValue replaces the query text.
func (s *SearchBox) SetValue(v string) {
	s.Model.SetValue(v)
	s.Model.CursorEnd()
}

// Value returns the query text.
func (s SearchBox) Value() string {
	return s.Model.Value()
}

// Update forwards a message to the text input.
func (s SearchBox) Update(msg tea.Msg) (SearchBox, tea.Cmd) {
	var cmd tea.Cmd
	s.Model, cmd = s.Model.Update(msg)
	return s, cmd
}

// View renders the search box.
func (s SearchBox) View() string {
	return s.Model.View()
}
