package lesson

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/pywebdev/academy/internal/catalog"
	"github.com/pywebdev/academy/internal/state"
	"github.com/pywebdev/academy/internal/tryit"
	"github.com/pywebdev/academy/internal/ui/components"
	"github.com/pywebdev/academy/internal/ui/layout"
	"github.com/pywebdev/academy/internal/ui/theme"
)

const (
	sidebarWidth    = 30
	sectionGap      = "\n\n"
	minEditorHeight = 4
	maxEditorHeight = 16
)

// NotFoundText is shown when the current lesson id matches no lesson.
const NotFoundText = "Lesson not found"

func (s *Screen) View(width, height int) string {
	st := s.store.State()

	tabs := s.renderTabs(st.CurrentCategoryID)
	bodyHeight := height - lipgloss.Height(tabs) - 1
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	mainWidth := width
	var sidebar string
	if !layout.IsCompactWidth(width) {
		sidebar = s.renderSidebar(st, bodyHeight)
		mainWidth = width - sidebarWidth - 2
	}

	s.vp.SetWidth(mainWidth)
	s.vp.SetHeight(bodyHeight)
	s.vp.SetContent(s.renderContent(components.ContentWidth(mainWidth)))

	body := s.vp.View()
	if sidebar != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, "  ", body)
	}
	return tabs + "\n" + body
}

func (s *Screen) renderTabs(activeID string) string {
	cats := s.store.Catalog().Categories()
	tabs := make([]components.Tab, 0, len(cats))
	for _, c := range cats {
		tabs = append(tabs, components.Tab{ID: c.ID, Label: c.Icon + " " + c.Name})
	}
	return " " + components.RenderTabs(tabs, activeID)
}

func (s *Screen) renderSidebar(st state.State, height int) string {
	cat, ok := s.store.Catalog().Category(st.CurrentCategoryID)
	if !ok {
		return lipgloss.NewStyle().Width(sidebarWidth).Height(height).Render("")
	}

	var b strings.Builder
	b.WriteString(theme.SectionHeading.Render(cat.Icon + " " + cat.Name))
	b.WriteString("\n\n")
	for i, l := range cat.Lessons {
		mark := fmt.Sprintf("%d", i+1)
		if st.Completed.Has(l.ID) {
			mark = "✓"
		}
		title := truncate(l.Title, sidebarWidth-6)
		var line string
		switch {
		case l.ID == st.CurrentLessonID:
			line = theme.Selected.Render(fmt.Sprintf("▸ %s %s", mark, title))
		case st.Completed.Has(l.ID):
			line = theme.Correct.UnsetBold().Render(fmt.Sprintf("  %s %s", mark, title))
		default:
			line = theme.Unselected.Render(fmt.Sprintf("  %s %s", mark, title))
		}
		b.WriteString(line + "\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("    "+l.Meta.Duration) + "\n")
	}

	return lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(height).
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(theme.Border).
		Render(b.String())
}

// renderContent renders the scrollable lesson body and records where the
// try-it panel starts.
func (s *Screen) renderContent(width int) string {
	ref, ok := s.store.CurrentLesson()
	if !ok {
		s.tryItLine = 0
		return lipgloss.NewStyle().
			Width(width).
			Foreground(theme.TextDim).
			Italic(true).
			Render("\n" + NotFoundText)
	}

	sections := []string{s.renderLessonHeader(ref, width)}
	if ref.Content.Explanation != "" {
		sections = append(sections, components.Markdown(ref.Content.Explanation, width))
	}
	if ex := ref.Content.CodeExample; ex != nil {
		sections = append(sections, components.CodeWindow(ex.DisplayFilename(), ex.Code, ex.Language, width))
	}

	above := strings.Join(sections, sectionGap)
	s.tryItLine = lipgloss.Height(above) + 1

	sections = append(sections, s.renderTryIt(width))
	if s.quiz.Present() {
		sections = append(sections, s.renderQuiz(width))
	}
	return strings.Join(sections, sectionGap)
}

func (s *Screen) renderLessonHeader(ref catalog.LessonRef, width int) string {
	title := theme.Title.Render(ref.Title)
	if s.store.State().Completed.Has(ref.ID) {
		title += "  " + theme.Correct.Render("✓ Completed")
	}
	subtitle := theme.Subtitle.Width(width).Render(ref.Subtitle)
	meta := lipgloss.NewStyle().Foreground(theme.TextDim).Render("⏱ "+ref.Meta.Duration) +
		"  " + lipgloss.NewStyle().Foreground(difficultyColor(ref.Meta.Difficulty)).Bold(true).Render(string(ref.Meta.Difficulty))
	return title + "\n" + subtitle + "\n" + meta
}

func (s *Screen) renderTryIt(width int) string {
	inner := width - 4
	lines := strings.Count(s.editor.Value(), "\n") + 2
	s.editor.SetSize(inner, clamp(lines, minEditorHeight, maxEditorHeight))

	running := s.runner.Phase() == tryit.Running
	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		components.NewButton("Run", "ctrl+enter", !running).View(), " ",
		components.NewButton("Reset", "ctrl+r", false).View(), " ",
		components.NewButton("Edit", "e", s.editor.Focused()).View(),
	)

	parts := []string{s.editor.View(), buttons}
	switch {
	case running:
		parts = append(parts, s.spin.View()+" "+theme.Hint.Render(tryit.RunningText))
	case s.runner.Output() != "":
		style := theme.OutputOK
		if s.runner.IsError() {
			style = theme.OutputError
		}
		parts = append(parts, theme.SectionHeading.Render("Output")+"\n"+style.Width(inner).Render(s.runner.Output()))
	}
	return components.Panel("⚡ Try it Yourself!", strings.Join(parts, "\n"), width)
}

func (s *Screen) renderQuiz(width int) string {
	inner := width - 4
	parts := []string{s.quiz.View(inner)}

	switch {
	case s.tutorPending:
		parts = append(parts, s.spin.View()+" "+theme.Hint.Render("Asking the tutor..."))
	case s.tutorErr != "":
		parts = append(parts, theme.Incorrect.UnsetBold().Render(s.tutorErr))
	case s.explanation != nil:
		exp := s.explanation
		parts = append(parts,
			theme.SectionHeading.Render("🎓 "+exp.Title),
			lipgloss.NewStyle().Foreground(theme.Text).Width(inner).Render(exp.Explanation),
			lipgloss.NewStyle().Foreground(theme.Secondary).Width(inner).Render("Key point: "+exp.KeyPoint),
		)
	case s.canAskTutor():
		parts = append(parts, theme.Hint.Render("Press x to ask the tutor why."))
	}
	if s.quiz.Answered() {
		parts = append(parts, theme.Hint.Render("Press t to try again."))
	}
	return components.Panel("🧠 Quick Quiz", strings.Join(parts, "\n\n"), width)
}

func difficultyColor(d catalog.Difficulty) color.Color {
	switch d {
	case catalog.Beginner:
		return theme.Beginner
	case catalog.Intermediate:
		return theme.Intermediate
	case catalog.Advanced:
		return theme.Advanced
	default:
		return theme.TextDim
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
