package components

import (
	"charm.land/lipgloss/v2"

	"github.com/pywebdev/academy/internal/ui/theme"
)

// Button is a styled, keyboard-labelled button.
type Button struct {
	Label  string
	Key    string
	Active bool
}

// NewButton creates a new button.
func NewButton(label, key string, active bool) Button {
	return Button{
		Label:  label,
		Key:    key,
		Active: active,
	}
}

// View renders the button.
func (b Button) View() string {
	label := "▸ " + b.Label
	if b.Key != "" {
		label += lipgloss.NewStyle().Faint(true).Render(" " + b.Key)
	}
	if b.Active {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}
