// Package activity shows the activity journal: a summary and the most
// recent events.
package activity

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pywebdev/academy/internal/catalog"
	"github.com/pywebdev/academy/internal/router"
	"github.com/pywebdev/academy/internal/screen"
	"github.com/pywebdev/academy/internal/store"
	"github.com/pywebdev/academy/internal/ui/layout"
	"github.com/pywebdev/academy/internal/ui/theme"
)

// RecentLimit caps the number of timeline entries loaded.
const RecentLimit = 100

type activityLoadedMsg struct {
	Summary  store.Summary
	Activity []store.Activity
	Err      error
}

// ActivityScreen displays the journal summary and timeline.
type ActivityScreen struct {
	eventRepo store.EventRepo
	catalog   *catalog.Catalog
	summary   store.Summary
	entries   []store.Activity
	offset    int
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*ActivityScreen)(nil)
var _ screen.KeyHintProvider = (*ActivityScreen)(nil)

// New creates a new ActivityScreen. A nil eventRepo shows a notice that the
// journal is disabled.
func New(eventRepo store.EventRepo, c *catalog.Catalog) *ActivityScreen {
	return &ActivityScreen{
		eventRepo: eventRepo,
		catalog:   c,
	}
}

func (s *ActivityScreen) Init() tea.Cmd {
	if s.eventRepo == nil {
		return nil
	}
	repo := s.eventRepo
	return func() tea.Msg {
		ctx := context.Background()

		summary, err := repo.Summary(ctx)
		if err != nil {
			return activityLoadedMsg{Err: err}
		}
		entries, err := repo.RecentActivity(ctx, store.QueryOpts{Limit: RecentLimit})
		if err != nil {
			return activityLoadedMsg{Summary: summary, Err: err}
		}
		return activityLoadedMsg{Summary: summary, Activity: entries}
	}
}

func (s *ActivityScreen) Title() string {
	return "Activity"
}

func (s *ActivityScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ActivityScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case activityLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		}
		s.summary = msg.Summary
		s.entries = msg.Activity
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc", "h":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			if s.offset < len(s.entries)-1 {
				s.offset++
			}
		}
	}
	return s, nil
}

func (s *ActivityScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	switch {
	case s.eventRepo == nil:
		return center.Foreground(theme.TextDim).Italic(true).
			Render("\n\nThe activity journal is turned off.")
	case s.errMsg != "":
		return center.Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	case !s.loaded:
		return center.Foreground(theme.TextDim).
			Render("\n\nLoading activity...")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(s.renderSummary(width))
	b.WriteString("\n\n")

	if len(s.entries) == 0 {
		b.WriteString(center.Foreground(theme.TextDim).Italic(true).
			Render("No activity yet. Run some code!"))
		return b.String()
	}

	rows := height - lipgloss.Height(b.String()) - 1
	if rows < 1 {
		rows = 1
	}
	end := s.offset + rows
	if end > len(s.entries) {
		end = len(s.entries)
	}
	for _, a := range s.entries[s.offset:end] {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderEntry(a)))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *ActivityScreen) renderSummary(width int) string {
	sum := s.summary
	stat := func(label, value string) string {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render(label+" ") +
			lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(value)
	}
	line := strings.Join([]string{
		stat("Sessions", fmt.Sprint(sum.Sessions)),
		stat("Lessons completed", fmt.Sprintf("%d/%d", sum.DistinctLessons, s.catalog.TotalLessons())),
		stat("Quiz accuracy", fmt.Sprintf("%.0f%%", sum.QuizAccuracy()*100)),
		stat("Time spent", formatDuration(time.Duration(sum.TotalTimeSecs)*time.Second)),
	}, "   ")
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, line)
}

func (s *ActivityScreen) renderEntry(a store.Activity) string {
	when := a.Timestamp.Local().Format("Jan 02 15:04")
	var icon, text string
	style := lipgloss.NewStyle().Foreground(theme.Text)
	switch a.Kind {
	case store.ActivitySession:
		icon, text = "◷", "Session "+a.Detail
		style = style.Foreground(theme.TextDim)
	case store.ActivityCompleted:
		icon, text = "✓", "Completed "+s.lessonTitle(a.LessonID)
		style = style.Foreground(theme.Success)
	case store.ActivityQuiz:
		icon, text = "?", fmt.Sprintf("Quiz on %s: %s", s.lessonTitle(a.LessonID), a.Detail)
	case store.ActivityReset:
		icon, text = "↺", "Progress reset "+a.Detail
		style = style.Foreground(theme.Accent)
	default:
		icon, text = "·", string(a.Kind)
	}
	return style.Render(fmt.Sprintf("%s  %s  %s", when, icon, text))
}

func (s *ActivityScreen) lessonTitle(id string) string {
	if ref, ok := s.catalog.FindLessonByID(id); ok {
		return ref.Title
	}
	return id
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
