package components

import (
	"fmt"
	"strings"

	"github.com/pywebdev/academy/internal/ui/theme"
)

// Tab is one category tab.
type Tab struct {
	ID    string
	Label string
}

// RenderTabs renders a numbered tab strip with the active tab highlighted.
func RenderTabs(tabs []Tab, activeID string) string {
	parts := make([]string, 0, len(tabs))
	for i, t := range tabs {
		label := fmt.Sprintf("%d %s", i+1, t.Label)
		if t.ID == activeID {
			parts = append(parts, theme.TabActive.Render(label))
		} else {
			parts = append(parts, theme.TabInactive.Render(label))
		}
	}
	return strings.Join(parts, " ")
}
