package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/pywebdev/academy/internal/catalog"
	"github.com/pywebdev/academy/internal/ui/theme"
)

// Quiz is a single-answer quiz. Choosing an option locks it until Reset.
type Quiz struct {
	quiz   *catalog.Quiz
	chosen int
}

// NewQuiz creates an unanswered quiz. A nil quiz renders nothing.
func NewQuiz(q *catalog.Quiz) Quiz {
	return Quiz{quiz: q, chosen: -1}
}

// OptionKey returns the key that answers option i ("a", "b", ...).
func OptionKey(i int) string {
	return string(rune('a' + i))
}

// OptionIndex maps an answer key to an option index, or -1.
func (q Quiz) OptionIndex(key string) int {
	if q.quiz == nil || len(key) != 1 {
		return -1
	}
	i := int(key[0]) - 'a'
	if i < 0 || i >= len(q.quiz.Options) {
		return -1
	}
	return i
}

// Present reports whether there is a quiz to show.
func (q Quiz) Present() bool { return q.quiz != nil }

// Answered reports whether an option has been chosen.
func (q Quiz) Answered() bool { return q.chosen >= 0 }

// Chosen returns the chosen option index, or -1.
func (q Quiz) Chosen() int { return q.chosen }

// Choose selects option i. It reports false, leaving q unchanged, when the
// quiz is already answered or i is out of range.
func (q Quiz) Choose(i int) (Quiz, bool) {
	if q.quiz == nil || q.Answered() || i < 0 || i >= len(q.quiz.Options) {
		return q, false
	}
	q.chosen = i
	return q, true
}

// IsCorrect reports whether the chosen option is the correct one.
func (q Quiz) IsCorrect() bool {
	return q.Answered() && q.quiz.Options[q.chosen].IsCorrect
}

// Reset clears the answer.
func (q Quiz) Reset() Quiz {
	q.chosen = -1
	return q
}

// View renders the question, the options and, once answered, the chosen
// option's explanation.
func (q Quiz) View(width int) string {
	if q.quiz == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(width).Render(q.quiz.Question))
	b.WriteString("\n\n")

	for i, opt := range q.quiz.Options {
		line := fmt.Sprintf("%s)  %s", strings.ToUpper(OptionKey(i)), opt.Text)
		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case !q.Answered():
		case i == q.chosen && opt.IsCorrect:
			line += "  ✓"
			style = theme.Correct
		case i == q.chosen:
			line += "  ✗"
			style = theme.Incorrect
		default:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		}
		b.WriteString(style.Width(width).Render(line))
		b.WriteString("\n")
	}

	if q.Answered() {
		opt := q.quiz.Options[q.chosen]
		verdict := theme.Incorrect.Render("Not quite.")
		if opt.IsCorrect {
			verdict = theme.Correct.Render("Correct!")
		}
		b.WriteString("\n")
		b.WriteString(verdict + " ")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Width(width).Render(opt.Explanation))
	}
	return strings.TrimRight(b.String(), "\n")
}
