package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/alecthomas/chroma/v2/quick"

	"github.com/pywebdev/academy/internal/ui/theme"
)

const (
	highlightFormatter = "terminal256"
	highlightStyle     = "monokai"
)

// Highlight colours source with chroma. Unknown languages fall back to
// chroma's content analysis; on failure the plain source is returned.
func Highlight(source, language string) string {
	var b strings.Builder
	if err := quick.Highlight(&b, source, language, highlightFormatter, highlightStyle); err != nil {
		return source
	}
	return b.String()
}

// NumberLines prefixes each line with a right-aligned line number.
func NumberLines(text string) string {
	lines := strings.Split(text, "\n")
	digits := len(fmt.Sprint(len(lines)))
	gutter := lipgloss.NewStyle().Foreground(theme.TextDim)
	for i, line := range lines {
		lines[i] = gutter.Render(fmt.Sprintf("%*d │ ", digits, i+1)) + line
	}
	return strings.Join(lines, "\n")
}

// CodeWindow renders a read-only code sample: a title bar with the file
// name and highlighted, numbered source.
func CodeWindow(filename, source, language string, width int) string {
	source = strings.TrimRight(source, "\n")
	dots := lipgloss.NewStyle().Foreground(theme.Error).Render("●") + " " +
		lipgloss.NewStyle().Foreground(theme.Secondary).Render("●") + " " +
		lipgloss.NewStyle().Foreground(theme.Success).Render("●")
	title := dots + "  " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(filename)

	body := NumberLines(strings.TrimRight(Highlight(source, language), "\n"))
	return theme.Card.
		Width(width).
		Render(title + "\n" + body)
}
