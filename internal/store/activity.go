package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"

	entsql "entgo.io/ent/dialect/sql"
)

// RecentActivity merges the learner event tables into one timeline.
func (r *eventRepo) RecentActivity(ctx context.Context, opts QueryOpts) ([]Activity, error) {
	sources := []struct {
		table string
		cols  []string
		scan  func(*sql.Rows) (Activity, error)
	}{
		{sessionEventsTable, []string{"sequence", "timestamp", "session_id", "action", "duration_secs"}, scanSessionActivity},
		{lessonEventsTable, []string{"sequence", "timestamp", "session_id", "lesson_id", "category_id"}, scanLessonActivity},
		{quizEventsTable, []string{"sequence", "timestamp", "session_id", "lesson_id", "correct"}, scanQuizActivity},
		{resetEventsTable, []string{"sequence", "timestamp", "session_id", "cleared"}, scanResetActivity},
	}

	var all []Activity
	for _, src := range sources {
		sel := sqlite.Select(src.cols...).From(sqlite.Table(src.table))
		query, args := applyOpts(sel, QueryOpts{Limit: opts.Limit, After: opts.After, From: opts.From}).Query()

		rows, err := r.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", src.table, err)
		}
		for rows.Next() {
			a, err := src.scan(rows)
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan %s: %w", src.table, err)
			}
			all = append(all, a)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Sequence > all[j].Sequence })
	if opts.Limit > 0 && len(all) > opts.Limit {
		all = all[:opts.Limit]
	}
	return all, nil
}

func scanSessionActivity(rows *sql.Rows) (Activity, error) {
	var (
		a        Activity
		action   string
		duration int
	)
	if err := rows.Scan(&a.Sequence, &a.Timestamp, &a.SessionID, &action, &duration); err != nil {
		return a, err
	}
	a.Kind = ActivitySession
	a.Detail = action
	if action == SessionEnd {
		a.Detail = fmt.Sprintf("end after %ds", duration)
	}
	return a, nil
}

func scanLessonActivity(rows *sql.Rows) (Activity, error) {
	var a Activity
	var category string
	if err := rows.Scan(&a.Sequence, &a.Timestamp, &a.SessionID, &a.LessonID, &category); err != nil {
		return a, err
	}
	a.Kind = ActivityCompleted
	a.Detail = category
	return a, nil
}

func scanQuizActivity(rows *sql.Rows) (Activity, error) {
	var a Activity
	var correct bool
	if err := rows.Scan(&a.Sequence, &a.Timestamp, &a.SessionID, &a.LessonID, &correct); err != nil {
		return a, err
	}
	a.Kind = ActivityQuiz
	a.Detail = "incorrect"
	if correct {
		a.Detail = "correct"
	}
	return a, nil
}

func scanResetActivity(rows *sql.Rows) (Activity, error) {
	var a Activity
	var cleared int
	if err := rows.Scan(&a.Sequence, &a.Timestamp, &a.SessionID, &cleared); err != nil {
		return a, err
	}
	a.Kind = ActivityReset
	a.Detail = strconv.Itoa(cleared) + " cleared"
	return a, nil
}

// Summary aggregates the whole journal.
func (r *eventRepo) Summary(ctx context.Context) (Summary, error) {
	var s Summary

	counts := []struct {
		dst   *int
		table string
		expr  string
		where *entsql.Predicate
	}{
		{&s.Sessions, sessionEventsTable, entsql.Count("*"), entsql.EQ("action", SessionStart)},
		{&s.TotalTimeSecs, sessionEventsTable, entsql.Sum("duration_secs"), entsql.EQ("action", SessionEnd)},
		{&s.Completions, lessonEventsTable, entsql.Count("*"), nil},
		{&s.QuizAnswers, quizEventsTable, entsql.Count("*"), nil},
		{&s.QuizCorrect, quizEventsTable, entsql.Count("*"), entsql.EQ("correct", true)},
		{&s.Resets, resetEventsTable, entsql.Count("*"), nil},
	}
	for _, c := range counts {
		sel := sqlite.Select(c.expr).From(sqlite.Table(c.table))
		if c.where != nil {
			sel.Where(c.where)
		}
		query, args := sel.Query()
		var n sql.NullInt64
		if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
			return s, fmt.Errorf("summarize %s: %w", c.table, err)
		}
		*c.dst = int(n.Int64)
	}

	query, args := sqlite.Select("lesson_id").
		From(sqlite.Table(lessonEventsTable)).
		Distinct().
		OrderBy("lesson_id").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return s, fmt.Errorf("query completed lessons: %w", err)
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return s, fmt.Errorf("scan completed lesson: %w", err)
		}
		s.CompletedLessons = append(s.CompletedLessons, id)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return s, err
	}
	s.DistinctLessons = len(s.CompletedLessons)

	latest, err := r.RecentActivity(ctx, QueryOpts{Limit: 1})
	if err != nil {
		return s, err
	}
	if len(latest) > 0 {
		s.LastActivity = latest[0].Timestamp
	}
	return s, nil
}
