package components

import (
	"charm.land/lipgloss/v2"

	"github.com/pywebdev/academy/internal/ui/theme"
)

// ContentWidth returns the inner width used for lesson sections so that
// every box lines up. Wide terminals are capped for readability.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 4
	if w > 100 {
		w = 100
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Panel wraps content in a rounded card with an optional heading line.
func Panel(heading, content string, width int) string {
	body := content
	if heading != "" {
		body = theme.SectionHeading.Render(heading) + "\n" + content
	}
	return theme.Card.
		Width(width).
		Render(body)
}

// Modal renders content inside the double-bordered dialog frame.
func Modal(title, content string, width int) string {
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.Primary).
		Render(title)
	return theme.Modal.
		Width(width).
		Render(head + "\n\n" + content)
}
