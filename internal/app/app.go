package app

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/log"

	"github.com/pywebdev/academy/internal/catalog"
	"github.com/pywebdev/academy/internal/router"
	"github.com/pywebdev/academy/internal/screen"
	"github.com/pywebdev/academy/internal/screens/activity"
	"github.com/pywebdev/academy/internal/screens/lesson"
	"github.com/pywebdev/academy/internal/screens/welcome"
	"github.com/pywebdev/academy/internal/state"
	"github.com/pywebdev/academy/internal/store"
	"github.com/pywebdev/academy/internal/tutor"
	"github.com/pywebdev/academy/internal/ui/components"
	"github.com/pywebdev/academy/internal/ui/layout"
	"github.com/pywebdev/academy/internal/ui/theme"
)

const (
	searchWidth   = 28
	meterWidth    = 12
	maxResultRows = 8
	popoverWidth  = 56
)

// Options configures the application.
type Options struct {
	Catalog *catalog.Catalog
	// EventRepo receives the activity journal. Nil disables the journal.
	EventRepo store.EventRepo
	// Tutor explains wrong quiz answers. Nil disables the tutor.
	Tutor    *tutor.Service
	Logger   *log.Logger
	RunDelay time.Duration
	// SkipWelcome opens the lesson screen directly.
	SkipWelcome bool
}

// AppModel is the root Bubble Tea model. It owns the selection store: screens
// request changes with screen.Dispatch and the root applies them in order.
type AppModel struct {
	store   *state.Store
	router  *router.Router
	journal *journal
	logger  *log.Logger
	events  store.EventRepo

	search       components.SearchBox
	results      components.List
	searchOpen   bool
	confirmReset bool
	meter        components.ProgressMeter
	help         help.Model

	width  int
	height int
}

// New creates the root model. It panics if opts.Catalog is nil.
func New(opts Options) AppModel {
	if opts.Catalog == nil {
		panic("app: New requires a catalog")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	st := state.NewStore(opts.Catalog)

	newLesson := func() screen.Screen {
		return lesson.New(st, lesson.Options{
			RunDelay: opts.RunDelay,
			Tutor:    opts.Tutor,
			Logger:   logger,
		})
	}
	var first screen.Screen
	if opts.SkipWelcome {
		first = newLesson()
	} else {
		first = welcome.New(newLesson)
	}

	h := help.New()
	h.Styles.FullKey = lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	h.Styles.FullDesc = lipgloss.NewStyle().Foreground(theme.Text)

	m := AppModel{
		store:   st,
		router:  router.New(first),
		journal: newJournal(opts.EventRepo),
		logger:  logger,
		events:  opts.EventRepo,
		search:  components.NewSearchBox(searchWidth),
		meter:   components.NewProgressMeter(meterWidth),
		help:    h,
	}
	p := st.Progress()
	m.meter, _ = m.meter.Set(p.Completed, p.Total, p.Percentage)
	return m
}

// Store returns the selection store.
func (m AppModel) Store() *state.Store {
	return m.store
}

func (m AppModel) Init() tea.Cmd {
	var cmd tea.Cmd
	if active := m.router.Active(); active != nil {
		cmd = active.Init()
	}
	return tea.Batch(cmd, m.journal.sessionStart())
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.router.Update(msg)

	case screen.DispatchMsg:
		return m.dispatch(msg.Commands)

	case lesson.QuizAnsweredMsg:
		return m, m.journal.quizAnswered(msg.LessonID, msg.Option, msg.Correct)

	case journalErrMsg:
		m.logger.Warn("journal write failed", "op", msg.op, "err", msg.err)
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	var meterCmd tea.Cmd
	m.meter, meterCmd = m.meter.Update(msg)
	return m, tea.Batch(meterCmd, m.router.Update(msg))
}

// dispatch applies cmds to the store, journals the transition and tells the
// stacked screens about it.
func (m AppModel) dispatch(cmds []state.Command) (tea.Model, tea.Cmd) {
	prev := m.store.Dispatch(cmds...)
	next := m.store.State()
	for _, c := range cmds {
		m.logger.Debug("dispatch", "command", state.Name(c))
	}

	if m.search.Value() != next.SearchQuery {
		m.search.SetValue(next.SearchQuery)
	}
	m.refreshResults()

	p := m.store.Progress()
	var meterCmd tea.Cmd
	m.meter, meterCmd = m.meter.Set(p.Completed, p.Total, p.Percentage)

	changed := m.router.Update(screen.StateChangedMsg{Prev: prev, Next: next})
	return m, tea.Batch(meterCmd, m.journal.dispatched(m.store.Catalog(), prev, cmds), changed)
}

func (m *AppModel) refreshResults() {
	sel := m.results.Selected
	items := make([]components.ListItem, 0)
	for _, r := range m.store.SearchResults() {
		items = append(items, components.ListItem{Label: r.Title, Detail: r.Category})
	}
	m.results = components.NewList(items)
	if sel < len(items) {
		m.results.Selected = sel
	}
}

func (m AppModel) quit() tea.Cmd {
	return tea.Sequence(m.journal.sessionEnd(), tea.Quit)
}

func (m AppModel) onWelcome() bool {
	_, ok := m.router.Active().(*welcome.WelcomeScreen)
	return ok
}

func (m AppModel) capturing() bool {
	c, ok := m.router.Active().(screen.InputCapturer)
	return ok && c.CapturesInput()
}

func (m AppModel) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, globalKeys.ForceQuit) {
		return m, m.quit()
	}
	if m.onWelcome() {
		return m, m.router.Update(msg)
	}
	if m.confirmReset {
		m.confirmReset = false
		if key.Matches(msg, globalKeys.Confirm) {
			return m, screen.Dispatch(state.ResetProgress{})
		}
		return m, nil
	}
	if m.search.Focused() {
		return m.handleSearchKey(msg)
	}
	if m.capturing() {
		return m, m.router.Update(msg)
	}

	switch {
	case key.Matches(msg, globalKeys.Search):
		m.searchOpen = true
		return m, m.search.Focus()
	case key.Matches(msg, globalKeys.Close):
		if m.store.State().ShowShortcuts {
			return m, screen.Dispatch(state.ToggleShortcuts{})
		}
		if m.router.Depth() > 1 {
			return m, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return m, nil
	case key.Matches(msg, globalKeys.Shortcuts):
		return m, screen.Dispatch(state.ToggleShortcuts{})
	case m.store.State().ShowShortcuts:
		return m, nil
	case key.Matches(msg, globalKeys.ResetAll):
		m.confirmReset = true
		return m, nil
	case key.Matches(msg, globalKeys.Activity):
		if m.router.Depth() > 1 {
			break
		}
		scr := activity.New(m.events, m.store.Catalog())
		return m, func() tea.Msg { return router.PushScreenMsg{Screen: scr} }
	case key.Matches(msg, globalKeys.Quit):
		return m, m.quit()
	}
	return m, m.router.Update(msg)
}

// handleSearchKey runs the header search. Escape hides the results and
// leaves the query in place.
func (m AppModel) handleSearchKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, globalKeys.Close):
		m.search.Blur()
		m.searchOpen = false
		if m.store.State().ShowShortcuts {
			return m, screen.Dispatch(state.ToggleShortcuts{})
		}
		return m, nil
	case key.Matches(msg, globalKeys.ResultUp):
		m.results = m.results.Up()
		return m, nil
	case key.Matches(msg, globalKeys.ResultDown):
		m.results = m.results.Down()
		return m, nil
	case key.Matches(msg, globalKeys.Open):
		results := m.store.SearchResults()
		i := m.results.Current()
		if !m.resultsVisible() || i < 0 || i >= len(results) {
			return m, nil
		}
		r := results[i]
		m.search.Blur()
		m.searchOpen = false
		m.results.Selected = 0
		return m, screen.Dispatch(
			state.SetCategory{CategoryID: r.CategoryID},
			state.SetLesson{LessonID: r.LessonID},
			state.SetSearchQuery{Query: ""},
		)
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	after := m.search.Value()
	if after == before {
		return m, cmd
	}
	m.results.Selected = 0
	m.searchOpen = utf8.RuneCountInString(after) >= state.MinQueryLength
	return m, tea.Batch(cmd, screen.Dispatch(state.SetSearchQuery{Query: after}))
}

func (m AppModel) resultsVisible() bool {
	return m.searchOpen && utf8.RuneCountInString(m.store.State().SearchQuery) >= state.MinQueryLength
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the whole frame.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}
	if m.onWelcome() {
		return m.router.View(m.width, m.height)
	}

	title := ""
	if active := m.router.Active(); active != nil {
		title = active.Title()
	}
	header := layout.RenderHeader(title, m.search.View(), m.meter.View(), m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	switch {
	case m.confirmReset:
		content = layout.CenterModal(m.renderResetConfirm(), m.width, contentHeight)
	case m.store.State().ShowShortcuts:
		content = layout.CenterModal(m.renderShortcuts(), m.width, contentHeight)
	case m.resultsVisible():
		left := max(0, m.width-popoverWidth-2)
		content = layout.Overlay(content, m.renderResults(), left, m.width, contentHeight)
	}

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints() []layout.KeyHint {
	if m.search.Focused() {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Results"},
			{Key: "Enter", Description: "Open"},
			{Key: "Esc", Description: "Close"},
		}
	}
	var hints []layout.KeyHint
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		hints = p.KeyHints()
	}
	if m.capturing() {
		return hints
	}
	return append(hints,
		layout.KeyHint{Key: "/", Description: "Search"},
		layout.KeyHint{Key: "?", Description: "Shortcuts"},
		layout.KeyHint{Key: "q", Description: "Quit"},
	)
}

func (m AppModel) renderResults() string {
	if len(m.results.Items) == 0 {
		body := theme.Hint.Render("No lessons match.")
		return components.Modal("Search", body, popoverWidth)
	}
	return components.Modal("Search", m.results.View(maxResultRows), popoverWidth)
}

func (m AppModel) renderShortcuts() string {
	width := min(m.width-4, 110)
	h := m.help
	h.SetWidth(width - 6)
	body := h.FullHelpView(shortcutGroups(lesson.Keys))
	body += "\n\n" + theme.Hint.Render("Press ? or Esc to close")
	return components.Modal("⌨  Keyboard Shortcuts", body, width)
}

func (m AppModel) renderResetConfirm() string {
	p := m.store.Progress()
	body := strings.Join([]string{
		fmt.Sprintf("Clear %d completed lessons?", p.Completed),
		"",
		theme.Hint.Render("y to confirm, any other key to cancel"),
	}, "\n")
	return components.Modal("Reset progress", body, 44)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
