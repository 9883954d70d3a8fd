package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pywebdev/academy/internal/catalog"
)

func sampleQuiz() *catalog.Quiz {
	return &catalog.Quiz{
		Question: "Which keyword defines a function?",
		Options: []catalog.QuizOption{
			{Text: "func", Explanation: "That is Go."},
			{Text: "def", IsCorrect: true, Explanation: "def starts a function."},
			{Text: "fn", Explanation: "That is Rust."},
			{Text: "lambda", Explanation: "Anonymous only."},
		},
	}
}

func TestQuizChooseLocks(t *testing.T) {
	q := NewQuiz(sampleQuiz())
	assert.False(t, q.Answered())

	q, ok := q.Choose(0)
	require.True(t, ok)
	assert.True(t, q.Answered())
	assert.False(t, q.IsCorrect())

	q, ok = q.Choose(1)
	assert.False(t, ok, "answered quiz is locked")
	assert.Equal(t, 0, q.Chosen())

	q = q.Reset()
	q, ok = q.Choose(1)
	require.True(t, ok)
	assert.True(t, q.IsCorrect())
}

func TestQuizOptionIndex(t *testing.T) {
	q := NewQuiz(sampleQuiz())
	assert.Equal(t, 0, q.OptionIndex("a"))
	assert.Equal(t, 3, q.OptionIndex("d"))
	assert.Equal(t, -1, q.OptionIndex("e"))
	assert.Equal(t, -1, q.OptionIndex("ab"))
	assert.Equal(t, -1, NewQuiz(nil).OptionIndex("a"))
}

func TestQuizView(t *testing.T) {
	q := NewQuiz(sampleQuiz())
	view := ansi.Strip(q.View(60))
	assert.Contains(t, view, "A)  func")
	assert.NotContains(t, view, "That is Go.")

	q, _ = q.Choose(0)
	view = ansi.Strip(q.View(60))
	assert.Contains(t, view, "Not quite.")
	assert.Contains(t, view, "That is Go.")
	assert.NotContains(t, view, "def starts a function.")

	assert.Empty(t, NewQuiz(nil).View(60))
}

func TestListCursor(t *testing.T) {
	l := NewList([]ListItem{{Label: "one"}, {Label: "two"}, {Label: "three"}})
	l = l.Up()
	assert.Equal(t, 0, l.Current())
	l = l.Down().Down().Down()
	assert.Equal(t, 2, l.Current())

	view := ansi.Strip(l.View(2))
	assert.NotContains(t, view, "one")
	assert.Contains(t, view, "▸ three")

	assert.Equal(t, -1, NewList(nil).Current())
}

func TestProgressMeterSettles(t *testing.T) {
	m := NewProgressMeter(10)
	m, cmd := m.Set(1, 17, 6)
	require.NotNil(t, cmd)
	assert.True(t, m.Animating())

	for i := 0; i < 600 && m.Animating(); i++ {
		m, _ = m.Update(meterFrameMsg{id: m.id})
	}
	assert.False(t, m.Animating())
	assert.InDelta(t, 0.06, m.Position(), 1e-9)
	assert.Equal(t, "1/17 lessons", m.Label())
	assert.Contains(t, ansi.Strip(m.View()), "6%")
}

func TestProgressMeterIgnoresOtherFrames(t *testing.T) {
	a := NewProgressMeter(10)
	b := NewProgressMeter(10)
	a, _ = a.Set(1, 2, 50)
	before := a.Position()
	a, cmd := a.Update(meterFrameMsg{id: b.id})
	assert.Nil(t, cmd)
	assert.Equal(t, before, a.Position())
}

func TestProgressMeterUnchangedNoCmd(t *testing.T) {
	m := NewProgressMeter(10)
	_, cmd := m.Set(0, 17, 0)
	assert.Nil(t, cmd)
}

func TestNumberLines(t *testing.T) {
	out := ansi.Strip(NumberLines(strings.Repeat("x\n", 9) + "y"))
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, " 1 │ x", lines[0])
	assert.Equal(t, "10 │ y", lines[9])
}

func TestCodeWindowKeepsSource(t *testing.T) {
	out := ansi.Strip(CodeWindow("app.py", "print('hi')\n", "python", 40))
	assert.Contains(t, out, "app.py")
	assert.Contains(t, out, "print('hi')")
}

func TestRenderTabs(t *testing.T) {
	out := ansi.Strip(RenderTabs([]Tab{{ID: "a", Label: "Alpha"}, {ID: "b", Label: "Beta"}}, "b"))
	assert.Contains(t, out, "1 Alpha")
	assert.Contains(t, out, "2 Beta")
}

func TestMarkdownFallsBackToText(t *testing.T) {
	out := ansi.Strip(Markdown("Variables hold **values**.", 40))
	assert.Contains(t, out, "Variables hold")
	assert.Contains(t, out, "values")
}

func TestEditorReset(t *testing.T) {
	e := NewEditor("x = 1")
	assert.False(t, e.Modified())
	e.Model.SetValue("x = 2")
	assert.True(t, e.Modified())
	e.ResetToDefault()
	assert.Equal(t, "x = 1", e.Value())

	e.Load("y = 3")
	assert.Equal(t, "y = 3", e.Value())
	assert.False(t, e.Modified())
}
