package app

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/pywebdev/academy/internal/catalog"
	"github.com/pywebdev/academy/internal/state"
	"github.com/pywebdev/academy/internal/store"
)

// journalTimeout bounds a single journal write.
const journalTimeout = 5 * time.Second

// journalErrMsg reports a failed journal write. Failures are logged and
// never reach the learner.
type journalErrMsg struct {
	op  string
	err error
}

// journal appends learner events to the activity store. It only writes:
// nothing read back from it feeds the selection state. A journal with a
// nil repo records nothing.
type journal struct {
	repo      store.EventRepo
	sessionID string
	started   time.Time
	completed int
	quizzes   int
	now       func() time.Time
}

func newJournal(repo store.EventRepo) *journal {
	return &journal{
		repo:      repo,
		sessionID: uuid.New().String(),
		now:       time.Now,
	}
}

func (j *journal) write(op string, fn func(ctx context.Context, repo store.EventRepo) error) tea.Cmd {
	if j == nil || j.repo == nil {
		return nil
	}
	repo := j.repo
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), journalTimeout)
		defer cancel()
		if err := fn(ctx, repo); err != nil {
			return journalErrMsg{op: op, err: err}
		}
		return nil
	}
}

func (j *journal) sessionStart() tea.Cmd {
	if j == nil {
		return nil
	}
	j.started = j.now()
	data := store.SessionEventData{SessionID: j.sessionID, Action: store.SessionStart}
	return j.write("session start", func(ctx context.Context, repo store.EventRepo) error {
		return repo.AppendSessionEvent(ctx, data)
	})
}

func (j *journal) sessionEnd() tea.Cmd {
	if j == nil {
		return nil
	}
	data := store.SessionEventData{
		SessionID:        j.sessionID,
		Action:           store.SessionEnd,
		LessonsCompleted: j.completed,
		QuizzesAnswered:  j.quizzes,
		DurationSecs:     int(j.now().Sub(j.started).Seconds()),
	}
	return j.write("session end", func(ctx context.Context, repo store.EventRepo) error {
		return repo.AppendSessionEvent(ctx, data)
	})
}

// dispatched records the journal events implied by applying cmds to prev.
// Each command is judged against the state just before it.
func (j *journal) dispatched(c *catalog.Catalog, prev state.State, cmds []state.Command) tea.Cmd {
	if j == nil {
		return nil
	}
	var out []tea.Cmd
	before := prev
	for _, cmd := range cmds {
		after := state.Apply(c, before, cmd)
		switch cmd := cmd.(type) {
		case state.CompleteLesson:
			if before.Completed.Has(cmd.LessonID) || !after.Completed.Has(cmd.LessonID) {
				break
			}
			j.completed++
			data := store.LessonCompletedData{SessionID: j.sessionID, LessonID: cmd.LessonID}
			if ref, ok := c.FindLessonByID(cmd.LessonID); ok {
				data.CategoryID = ref.CategoryID
			}
			out = append(out, j.write("lesson completed", func(ctx context.Context, repo store.EventRepo) error {
				return repo.AppendLessonCompleted(ctx, data)
			}))
		case state.ResetProgress:
			data := store.ProgressResetData{SessionID: j.sessionID, Cleared: before.Completed.Len()}
			out = append(out, j.write("progress reset", func(ctx context.Context, repo store.EventRepo) error {
				return repo.AppendProgressReset(ctx, data)
			}))
		}
		before = after
	}
	return tea.Batch(out...)
}

func (j *journal) quizAnswered(lessonID string, option int, correct bool) tea.Cmd {
	if j == nil {
		return nil
	}
	j.quizzes++
	data := store.QuizAnswerData{
		SessionID:   j.sessionID,
		LessonID:    lessonID,
		OptionIndex: option,
		Correct:     correct,
	}
	return j.write("quiz answer", func(ctx context.Context, repo store.EventRepo) error {
		return repo.AppendQuizAnswer(ctx, data)
	})
}
