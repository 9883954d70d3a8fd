package app

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pywebdev/academy/internal/catalog"
	"github.com/pywebdev/academy/internal/router"
	"github.com/pywebdev/academy/internal/screen"
	"github.com/pywebdev/academy/internal/screens/activity"
	"github.com/pywebdev/academy/internal/screens/lesson"
	"github.com/pywebdev/academy/internal/state"
	"github.com/pywebdev/academy/internal/store"
	"github.com/pywebdev/academy/internal/tryit"
)

func newTestApp(t *testing.T, repo store.EventRepo) AppModel {
	t.Helper()
	m := New(Options{
		Catalog:     catalog.MustLoad(),
		EventRepo:   repo,
		RunDelay:    time.Millisecond,
		SkipWelcome: true,
	})
	return send(m, tea.WindowSizeMsg{Width: 120, Height: 40})
}

func openRepo(t *testing.T) store.EventRepo {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	s, err := store.Open(fmt.Sprintf("file:app_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s.EventRepo()
}

func keyMsg(k string) tea.KeyPressMsg {
	switch k {
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "f5":
		return tea.KeyPressMsg{Code: tea.KeyF5}
	case "ctrl+c":
		return tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
	}
	r := []rune(k)[0]
	return tea.KeyPressMsg{Code: r, Text: k}
}

// send updates m with msg and plays the program loop for the messages the
// app root handles itself.
func send(m AppModel, msg tea.Msg) AppModel {
	next, cmd := m.Update(msg)
	m = next.(AppModel)
	for _, out := range collect(cmd) {
		switch out.(type) {
		case screen.DispatchMsg, lesson.QuizAnsweredMsg, router.PushScreenMsg, router.ReplaceScreenMsg, router.PopScreenMsg:
			m = send(m, out)
		}
	}
	return m
}

func typeText(m AppModel, text string) AppModel {
	for _, r := range text {
		m = send(m, tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return m
}

// collect runs cmd and any batched commands, returning every message.
// Focus and blink commands of the search box are skipped by the caller
// never feeding them back.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func view(m AppModel) string {
	return ansi.Strip(m.render())
}

func TestNewPanicsWithoutCatalog(t *testing.T) {
	assert.PanicsWithValue(t, "app: New requires a catalog", func() {
		New(Options{})
	})
}

func TestInitialView(t *testing.T) {
	m := newTestApp(t, nil)

	out := view(m)
	assert.Contains(t, out, "Python Web Dev Academy")
	assert.Contains(t, out, "0/17 lessons")
	assert.Contains(t, out, "Python Concepts")
	assert.Equal(t, state.DefaultLessonID, m.Store().State().CurrentLessonID)
}

func TestDispatchUpdatesProgress(t *testing.T) {
	m := newTestApp(t, nil)

	m = send(m, screen.DispatchMsg{Commands: []state.Command{state.CompleteLesson{LessonID: state.DefaultLessonID}}})

	assert.Equal(t, 1, m.Store().Progress().Completed)
	assert.Equal(t, "1/17 lessons", m.meter.Label())
	assert.Contains(t, view(m), "1/17 lessons")
}

func TestSearchSelectsLesson(t *testing.T) {
	m := newTestApp(t, nil)

	m = send(m, keyMsg("/"))
	require.True(t, m.search.Focused())

	m = typeText(m, "route")
	assert.Equal(t, "route", m.Store().State().SearchQuery)
	require.True(t, m.resultsVisible())
	assert.Contains(t, view(m), "Route Handling & HTTP Methods")

	m = send(m, keyMsg("enter"))
	st := m.Store().State()
	assert.Equal(t, "flask", st.CurrentCategoryID)
	assert.Equal(t, "flask-routing", st.CurrentLessonID)
	assert.Empty(t, st.SearchQuery)
	assert.Empty(t, m.search.Value())
	assert.False(t, m.search.Focused())
}

func TestSearchNeedsTwoCharacters(t *testing.T) {
	m := newTestApp(t, nil)

	m = send(m, keyMsg("/"))
	m = typeText(m, "r")
	assert.False(t, m.resultsVisible())

	m = send(m, keyMsg("enter"))
	assert.Equal(t, state.DefaultLessonID, m.Store().State().CurrentLessonID)
}

func TestSearchEscapeKeepsQuery(t *testing.T) {
	m := newTestApp(t, nil)

	m = send(m, keyMsg("/"))
	m = typeText(m, "flask")
	m = send(m, keyMsg("esc"))

	assert.False(t, m.search.Focused())
	assert.False(t, m.resultsVisible())
	assert.Equal(t, "flask", m.Store().State().SearchQuery)
}

func TestSearchResultNavigation(t *testing.T) {
	m := newTestApp(t, nil)

	m = send(m, keyMsg("/"))
	m = typeText(m, "flask")
	m = send(m, keyMsg("down"))
	m = send(m, keyMsg("enter"))

	results := state.Search(m.Store().Catalog(), "flask")
	require.GreaterOrEqual(t, len(results), 2)
	assert.Equal(t, results[1].LessonID, m.Store().State().CurrentLessonID)
}

func TestSearchCapturesGlobalKeys(t *testing.T) {
	m := newTestApp(t, nil)

	m = send(m, keyMsg("/"))
	m = typeText(m, "q?")

	assert.Equal(t, "q?", m.Store().State().SearchQuery)
	assert.False(t, m.Store().State().ShowShortcuts)
}

func TestShortcutsToggle(t *testing.T) {
	m := newTestApp(t, nil)

	m = send(m, keyMsg("?"))
	require.True(t, m.Store().State().ShowShortcuts)
	out := view(m)
	assert.Contains(t, out, "Keyboard Shortcuts")
	assert.Contains(t, out, "Focus search")

	m = send(m, keyMsg("esc"))
	assert.False(t, m.Store().State().ShowShortcuts)

	m = send(m, keyMsg("?"))
	m = send(m, keyMsg("?"))
	assert.False(t, m.Store().State().ShowShortcuts)
}

func TestResetNeedsConfirmation(t *testing.T) {
	m := newTestApp(t, nil)
	m = send(m, screen.DispatchMsg{Commands: []state.Command{state.CompleteLesson{LessonID: state.DefaultLessonID}}})

	m = send(m, keyMsg("R"))
	assert.Contains(t, view(m), "Clear 1 completed lessons?")
	m = send(m, keyMsg("n"))
	assert.Equal(t, 1, m.Store().Progress().Completed)

	m = send(m, keyMsg("R"))
	m = send(m, keyMsg("y"))
	assert.Equal(t, 0, m.Store().Progress().Completed)
}

func TestActivityKeyPushesScreen(t *testing.T) {
	m := newTestApp(t, nil)

	m = send(m, keyMsg("h"))
	_, ok := m.router.Active().(*activity.ActivityScreen)
	require.True(t, ok)
	assert.Contains(t, view(m), "The activity journal is turned off.")

	m = send(m, keyMsg("esc"))
	_, ok = m.router.Active().(*lesson.Screen)
	assert.True(t, ok)
}

func lessonScreen(t *testing.T, m AppModel) *lesson.Screen {
	t.Helper()
	ls, ok := m.router.Active().(*lesson.Screen)
	require.True(t, ok, "expected the lesson screen on top")
	return ls
}

func TestRunFinishesUnderActivityScreen(t *testing.T) {
	m := newTestApp(t, nil)

	next, cmd := m.Update(keyMsg("f5"))
	m = next.(AppModel)
	require.NotNil(t, cmd)
	pending := collect(cmd)

	m = send(m, keyMsg("h"))
	require.Equal(t, 2, m.router.Depth())
	for _, msg := range pending {
		if _, ok := msg.(tryit.FinishedMsg); ok {
			m = send(m, msg)
		}
	}
	m = send(m, keyMsg("esc"))

	require.Equal(t, 1, m.router.Depth())
	ls := lessonScreen(t, m)
	assert.Equal(t, tryit.Idle, ls.Runner().Phase())
	assert.NotEqual(t, tryit.RunningText, ls.Runner().Output())
	assert.Equal(t, 1, m.Store().Progress().Completed)
	assert.True(t, m.Store().State().Completed.Has(state.DefaultLessonID))

	_, cmd = m.Update(keyMsg("f5"))
	assert.NotNil(t, cmd, "a second run should start")
}

func TestSearchUnderActivityScreenReloadsLesson(t *testing.T) {
	m := newTestApp(t, nil)

	m = send(m, keyMsg("h"))
	m = send(m, keyMsg("/"))
	m = typeText(m, "pandas")
	m = send(m, keyMsg("enter"))
	m = send(m, keyMsg("esc"))

	require.Equal(t, 1, m.router.Depth())
	ls := lessonScreen(t, m)
	assert.Equal(t, "pandas-fundamentals", m.Store().State().CurrentLessonID)
	assert.Equal(t, "pandas-fundamentals", ls.LessonID())
	assert.Equal(t, "pandas-fundamentals", ls.Runner().LessonID())
}

func TestQuitWithoutJournal(t *testing.T) {
	m := newTestApp(t, nil)

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)

	_, cmd = m.Update(keyMsg("ctrl+c"))
	require.NotNil(t, cmd)
	_, ok = cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestWelcomeReplacedByLesson(t *testing.T) {
	m := New(Options{Catalog: catalog.MustLoad()})
	m = send(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	require.True(t, m.onWelcome())

	// Global keys are not handled on the welcome screen.
	m = send(m, keyMsg("?"))
	assert.False(t, m.Store().State().ShowShortcuts)
	_, ok := m.router.Active().(*lesson.Screen)
	assert.True(t, ok)
}

func TestJournalRecordsLearnerEvents(t *testing.T) {
	repo := openRepo(t)
	m := newTestApp(t, repo)
	ctx := context.Background()

	for _, msg := range collect(m.Init()) {
		m = send(m, msg)
	}
	complete := screen.DispatchMsg{Commands: []state.Command{state.CompleteLesson{LessonID: state.DefaultLessonID}}}
	m = send(m, complete)
	m = send(m, complete)
	m = send(m, lesson.QuizAnsweredMsg{LessonID: state.DefaultLessonID, Option: 1, Correct: true})
	m = send(m, keyMsg("R"))
	m = send(m, keyMsg("y"))
	for _, msg := range collect(m.journal.sessionEnd()) {
		m = send(m, msg)
	}

	sum, err := repo.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Sessions)
	assert.Equal(t, 1, sum.Completions)
	assert.Equal(t, 1, sum.QuizAnswers)
	assert.Equal(t, 1, sum.QuizCorrect)
	assert.Equal(t, 1, sum.Resets)

	recent, err := repo.RecentActivity(ctx, store.QueryOpts{Limit: 10})
	require.NoError(t, err)
	kinds := map[store.ActivityKind]int{}
	for _, a := range recent {
		kinds[a.Kind]++
		assert.Equal(t, m.journal.sessionID, a.SessionID)
	}
	assert.Equal(t, 2, kinds[store.ActivitySession])
	assert.Equal(t, 1, kinds[store.ActivityCompleted])
}

func TestJournalJudgesEachCommand(t *testing.T) {
	repo := openRepo(t)
	m := newTestApp(t, repo)
	ctx := context.Background()

	complete := state.CompleteLesson{LessonID: state.DefaultLessonID}
	m = send(m, screen.DispatchMsg{Commands: []state.Command{complete}})
	m = send(m, screen.DispatchMsg{Commands: []state.Command{state.ResetProgress{}, complete}})

	assert.Equal(t, 1, m.Store().Progress().Completed)
	sum, err := repo.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Completions)
	assert.Equal(t, 1, sum.Resets)
	assert.Equal(t, 2, m.journal.completed)
}

func TestJournalDisabledWritesNothing(t *testing.T) {
	j := newJournal(nil)
	assert.Nil(t, j.sessionStart())
	assert.Nil(t, j.quizAnswered("x", 0, false))
	assert.Nil(t, j.sessionEnd())
}
