package components

import (
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
)

// Editor is the try-it code box: a bubbles textarea that remembers the
// code it was loaded with.
type Editor struct {
	Model       textarea.Model
	defaultCode string
}

// NewEditor creates an unfocused editor holding code.
func NewEditor(code string) Editor {
	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.SetValue(code)
	ta.MoveToBegin()
	return Editor{Model: ta, defaultCode: code}
}

// Load replaces both the code and the default it resets to.
func (e *Editor) Load(code string) {
	e.defaultCode = code
	e.Model.SetValue(code)
	e.Model.MoveToBegin()
}

// ResetToDefault restores the code the editor was loaded with.
func (e *Editor) ResetToDefault() {
	e.Model.SetValue(e.defaultCode)
	e.Model.MoveToBegin()
}

// Value returns the current code.
func (e Editor) Value() string {
	return e.Model.Value()
}

// Modified reports whether the code differs from its default.
func (e Editor) Modified() bool {
	return e.Model.Value() != e.defaultCode
}

// SetSize sizes the text area.
func (e *Editor) SetSize(width, height int) {
	e.Model.SetWidth(width)
	e.Model.SetHeight(height)
}

// Focus gives the editor keyboard focus.
func (e *Editor) Focus() tea.Cmd {
	return e.Model.Focus()
}

// Blur releases keyboard focus.
func (e *Editor) Blur() {
	e.Model.Blur()
}

// Focused reports whether the editor has keyboard focus.
func (e Editor) Focused() bool {
	return e.Model.Focused()
}

// Update forwards a message to the text area.
func (e Editor) Update(msg tea.Msg) (Editor, tea.Cmd) {
	var cmd tea.Cmd
	e.Model, cmd = e.Model.Update(msg)
	return e, cmd
}

// View renders the text area.
func (e Editor) View() string {
	return e.Model.View()
}
