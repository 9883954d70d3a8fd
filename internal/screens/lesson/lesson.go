// Package lesson implements the main learning screen: category tabs, the
// lesson list, lesson content, the try-it editor and the quiz.
package lesson

import (
	"context"
	"io"
	"time"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/log"

	"github.com/pywebdev/academy/internal/llm"
	"github.com/pywebdev/academy/internal/screen"
	"github.com/pywebdev/academy/internal/state"
	"github.com/pywebdev/academy/internal/tryit"
	"github.com/pywebdev/academy/internal/tutor"
	"github.com/pywebdev/academy/internal/ui/components"
	"github.com/pywebdev/academy/internal/ui/layout"
	"github.com/pywebdev/academy/internal/ui/theme"
)

// Options configures a lesson Screen.
type Options struct {
	// RunDelay is the simulated run duration. Zero selects tryit.DefaultDelay.
	RunDelay time.Duration
	// Tutor explains wrong quiz answers. Nil disables the tutor.
	Tutor *tutor.Service
	// Logger receives debug output. Nil discards it.
	Logger *log.Logger
}

// Screen is the lesson screen. It reads the selection store but never
// writes it: every change is requested with screen.Dispatch and applied by
// the app root.
type Screen struct {
	store  *state.Store
	tutor  *tutor.Service
	logger *log.Logger

	runner   *tryit.Runner
	editor   components.Editor
	quiz     components.Quiz
	vp       viewport.Model
	spin     spinner.Model
	lessonID string // lesson loaded into runner, editor and quiz

	tryItLine int // first content line of the try-it panel, for "e"

	tutorReq     int
	tutorPending bool
	tutorCancel  context.CancelFunc
	explanation  *tutor.Explanation
	tutorErr     string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.InputCapturer = (*Screen)(nil)

// New creates the lesson screen over store. It panics if store is nil.
func New(store *state.Store, opts Options) *Screen {
	if store == nil {
		panic("lesson: New requires a non-nil *state.Store")
	}
	delay := opts.RunDelay
	if delay <= 0 {
		delay = tryit.DefaultDelay
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Screen{
		store:  store,
		tutor:  opts.Tutor,
		logger: logger,
		runner: tryit.New(delay),
		editor: components.NewEditor(""),
		vp:     viewport.New(),
		spin: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(theme.Hint),
		),
	}
	s.sync()
	return s
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return ""
}

// Close cancels a pending run and tutor request.
func (s *Screen) Close() {
	s.runner.Cancel()
	s.cancelTutor()
}

// Resume reloads the lesson if the store moved on while another screen was
// on top.
func (s *Screen) Resume() tea.Cmd {
	s.sync()
	return nil
}

// CapturesInput reports whether the code editor has keyboard focus.
func (s *Screen) CapturesInput() bool {
	return s.editor.Focused()
}

// Runner exposes the simulated runner for inspection.
func (s *Screen) Runner() *tryit.Runner {
	return s.runner
}

// LessonID returns the lesson currently loaded into the screen.
func (s *Screen) LessonID() string {
	return s.lessonID
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.editor.Focused() {
		return []layout.KeyHint{
			{Key: "Ctrl+Enter", Description: "Run"},
			{Key: "Ctrl+R", Description: "Reset"},
			{Key: "Esc", Description: "Leave editor"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "←→", Description: "Lesson"},
		{Key: "1-9", Description: "Category"},
		{Key: "F5", Description: "Run"},
		{Key: "e", Description: "Edit"},
	}
	if s.quiz.Present() {
		if s.quiz.Answered() {
			hints = append(hints, layout.KeyHint{Key: "t", Description: "Try again"})
			if s.canAskTutor() {
				hints = append(hints, layout.KeyHint{Key: "x", Description: "Ask tutor"})
			}
		} else {
			hints = append(hints, layout.KeyHint{Key: "a-d", Description: "Answer"})
		}
	}
	hints = append(hints,
		layout.KeyHint{Key: "/", Description: "Search"},
		layout.KeyHint{Key: "?", Description: "Shortcuts"},
	)
	return hints
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.StateChangedMsg:
		s.sync()
		return s, nil

	case tryit.FinishedMsg:
		if s.runner.Finish(msg) {
			s.logger.Debug("run finished", "lesson", msg.LessonID)
			return s, screen.Dispatch(state.CompleteLesson{LessonID: msg.LessonID})
		}
		return s, nil

	case tutorDoneMsg:
		if msg.reqID != s.tutorReq || !s.tutorPending {
			return s, nil
		}
		s.tutorPending = false
		s.tutorCancel = nil
		if msg.err != nil {
			s.logger.Warn("tutor request failed", "lesson", s.lessonID, "err", msg.err)
			s.tutorErr = tutorFailure(msg.err)
			return s, nil
		}
		s.explanation = msg.explanation
		return s, nil

	case spinner.TickMsg:
		if s.runner.Phase() != tryit.Running && !s.tutorPending {
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.editor.Focused() {
		var cmd tea.Cmd
		s.editor, cmd = s.editor.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Run):
		return s, s.run()
	case key.Matches(msg, Keys.ResetCode):
		s.editor.ResetToDefault()
		s.runner.Reset()
		return s, nil
	}

	if s.editor.Focused() {
		if key.Matches(msg, Keys.LeaveEdit) {
			s.editor.Blur()
			return s, nil
		}
		var cmd tea.Cmd
		s.editor, cmd = s.editor.Update(msg)
		return s, cmd
	}

	switch {
	case key.Matches(msg, Keys.Next):
		return s, s.step(1)
	case key.Matches(msg, Keys.Prev):
		return s, s.step(-1)
	case key.Matches(msg, Keys.Category):
		return s, s.selectCategory(msg.String())
	case key.Matches(msg, Keys.ScrollUp):
		s.vp.ScrollUp(1)
	case key.Matches(msg, Keys.ScrollDown):
		s.vp.ScrollDown(1)
	case key.Matches(msg, Keys.PageUp):
		s.vp.PageUp()
	case key.Matches(msg, Keys.PageDown):
		s.vp.PageDown()
	case key.Matches(msg, Keys.Edit):
		s.vp.SetYOffset(s.tryItLine)
		return s, s.editor.Focus()
	case key.Matches(msg, Keys.Answer):
		return s, s.answer(msg.String())
	case key.Matches(msg, Keys.TryAgain):
		s.quiz = s.quiz.Reset()
		s.clearTutor()
	case key.Matches(msg, Keys.AskTutor):
		return s, s.askTutor()
	}
	return s, nil
}

// sync reloads the per-lesson widgets when the store's current lesson
// differs from the loaded one. Changing lesson cancels a pending run.
func (s *Screen) sync() {
	id := s.store.State().CurrentLessonID
	if id == s.lessonID {
		return
	}
	s.lessonID = id
	s.editor.Blur()
	s.clearTutor()
	s.vp.GotoTop()

	ref, ok := s.store.CurrentLesson()
	if !ok {
		s.runner.Load(id, "")
		s.editor.Load("")
		s.quiz = components.NewQuiz(nil)
		return
	}
	ic := ref.Content.InteractiveCode
	s.runner.Load(id, ic.SimulatedOutput)
	s.editor.Load(ic.DefaultCode)
	s.quiz = components.NewQuiz(ref.Content.Quiz)
}

func (s *Screen) run() tea.Cmd {
	if _, ok := s.store.CurrentLesson(); !ok {
		return nil
	}
	cmd := s.runner.Start()
	if cmd == nil {
		return nil
	}
	s.logger.Debug("run started", "lesson", s.lessonID)
	return tea.Batch(cmd, s.spin.Tick)
}

func (s *Screen) step(offset int) tea.Cmd {
	id, ok := s.store.Catalog().Neighbor(s.lessonID, offset)
	if !ok {
		return nil
	}
	return screen.Dispatch(state.SetLesson{LessonID: id})
}

func (s *Screen) selectCategory(digit string) tea.Cmd {
	if len(digit) != 1 {
		return nil
	}
	idx := int(digit[0]) - '1'
	cats := s.store.Catalog().Categories()
	if idx < 0 || idx >= len(cats) {
		return nil
	}
	return screen.Dispatch(state.SetCategory{CategoryID: cats[idx].ID})
}

func (s *Screen) answer(k string) tea.Cmd {
	i := s.quiz.OptionIndex(k)
	q, ok := s.quiz.Choose(i)
	if !ok {
		return nil
	}
	s.quiz = q
	answered := QuizAnsweredMsg{LessonID: s.lessonID, Option: i, Correct: q.IsCorrect()}
	return func() tea.Msg { return answered }
}

func (s *Screen) canAskTutor() bool {
	return s.tutor != nil && s.quiz.Answered() && !s.quiz.IsCorrect()
}

func (s *Screen) askTutor() tea.Cmd {
	if !s.canAskTutor() || s.tutorPending || s.explanation != nil {
		return nil
	}
	ref, ok := s.store.CurrentLesson()
	if !ok {
		return nil
	}
	s.tutorReq++
	s.tutorPending = true
	s.tutorErr = ""
	ctx, cancel := context.WithCancel(context.Background())
	s.tutorCancel = cancel

	svc := s.tutor
	reqID := s.tutorReq
	in := tutor.Input{Lesson: ref, Chosen: s.quiz.Chosen()}
	return tea.Batch(
		func() tea.Msg {
			exp, err := svc.Explain(ctx, in)
			return tutorDoneMsg{reqID: reqID, explanation: exp, err: err}
		},
		s.spin.Tick,
	)
}

func (s *Screen) cancelTutor() {
	if s.tutorCancel != nil {
		s.tutorCancel()
		s.tutorCancel = nil
	}
	s.tutorPending = false
}

func (s *Screen) clearTutor() {
	s.cancelTutor()
	s.explanation = nil
	s.tutorErr = ""
}

// tutorFailure is the line shown in place of an explanation.
func tutorFailure(err error) string {
	kind, _ := llm.KindOf(err)
	switch kind {
	case llm.RateLimited:
		return "The tutor is busy. Try again in a minute."
	case llm.Malformed, llm.Truncated:
		return "The tutor's answer came back garbled. Press x to ask again."
	}
	return "The tutor is unavailable right now."
}
