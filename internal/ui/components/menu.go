package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/pywebdev/academy/internal/ui/theme"
)

// ListItem is one row of a List.
type ListItem struct {
	Label  string
	Detail string
}

// List is a vertical selectable list with wrap-free cursor movement.
type List struct {
	Items    []ListItem
	Selected int
}

// NewList creates a list with the cursor on the first item.
func NewList(items []ListItem) List {
	return List{Items: items}
}

// Up moves the cursor up, stopping at the first item.
func (l List) Up() List {
	if l.Selected > 0 {
		l.Selected--
	}
	return l
}

// Down moves the cursor down, stopping at the last item.
func (l List) Down() List {
	if l.Selected < len(l.Items)-1 {
		l.Selected++
	}
	return l
}

// Current returns the selected index, or -1 for an empty list.
func (l List) Current() int {
	if len(l.Items) == 0 {
		return -1
	}
	if l.Selected >= len(l.Items) {
		return len(l.Items) - 1
	}
	return l.Selected
}

// View renders at most maxRows items, scrolled so the cursor stays visible.
func (l List) View(maxRows int) string {
	if maxRows <= 0 || maxRows > len(l.Items) {
		maxRows = len(l.Items)
	}
	cur := l.Current()
	start := 0
	if cur >= maxRows {
		start = cur - maxRows + 1
	}

	var b strings.Builder
	for i := start; i < start+maxRows; i++ {
		item := l.Items[i]
		detail := ""
		if item.Detail != "" {
			detail = lipgloss.NewStyle().Foreground(theme.TextDim).Render("  " + item.Detail)
		}
		if i == cur {
			b.WriteString(theme.Selected.Render("▸ "+item.Label) + detail)
		} else {
			b.WriteString(theme.Unselected.Render("  "+item.Label) + detail)
		}
		if i < start+maxRows-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
