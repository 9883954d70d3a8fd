package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// sqlite builds statements in the SQLite dialect.
var sqlite = entsql.Dialect(dialect.SQLite)

// eventRepo implements EventRepo on top of ent's SQL builder and the global
// sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

// insert appends one row to table, stamping it with the next sequence
// number and the current time.
func (r *eventRepo) insert(ctx context.Context, table string, cols []string, vals ...any) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := sqlite.Insert(table).
		Columns(append([]string{"sequence", "timestamp"}, cols...)...).
		Values(append([]any{seqNum, time.Now().UTC()}, vals...)...).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	err := r.insert(ctx, sessionEventsTable,
		[]string{"session_id", "action", "lessons_completed", "quizzes_answered", "duration_secs"},
		data.SessionID, data.Action, data.LessonsCompleted, data.QuizzesAnswered, data.DurationSecs,
	)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendLessonCompleted(ctx context.Context, data LessonCompletedData) error {
	err := r.insert(ctx, lessonEventsTable,
		[]string{"session_id", "lesson_id", "category_id"},
		data.SessionID, data.LessonID, data.CategoryID,
	)
	if err != nil {
		return fmt.Errorf("save lesson completed event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendQuizAnswer(ctx context.Context, data QuizAnswerData) error {
	err := r.insert(ctx, quizEventsTable,
		[]string{"session_id", "lesson_id", "option_index", "correct"},
		data.SessionID, data.LessonID, data.OptionIndex, data.Correct,
	)
	if err != nil {
		return fmt.Errorf("save quiz answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendProgressReset(ctx context.Context, data ProgressResetData) error {
	err := r.insert(ctx, resetEventsTable,
		[]string{"session_id", "cleared"},
		data.SessionID, data.Cleared,
	)
	if err != nil {
		return fmt.Errorf("save progress reset event: %w", err)
	}
	return nil
}

// Clear deletes every journal row and restarts the sequence.
func (r *eventRepo) Clear(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, t := range Tables {
		query, args := sqlite.Delete(t.Name).Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("clear %s: %w", t.Name, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `UPDATE global_sequence SET next_val = 1 WHERE id = 1`); err != nil {
		return fmt.Errorf("reset sequence: %w", err)
	}
	return tx.Commit()
}

// applyOpts adds the generic QueryOpts filters to sel.
func applyOpts(sel *entsql.Selector, opts QueryOpts) *entsql.Selector {
	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", opts.From.UTC()))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	sel.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	return sel
}
