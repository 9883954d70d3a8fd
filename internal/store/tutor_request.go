package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

var tutorRequestColumns = []string{
	"id", "sequence", "timestamp", "provider", "model", "purpose",
	"lesson_id", "option_index", "input_tokens", "output_tokens",
	"latency_ms", "success", "error_message", "prompt", "reply",
}

func (r *eventRepo) AppendTutorRequest(ctx context.Context, data TutorRequestData) error {
	err := r.insert(ctx, tutorRequestTable,
		[]string{
			"provider", "model", "purpose", "lesson_id", "option_index",
			"input_tokens", "output_tokens", "latency_ms", "success",
			"error_message", "prompt", "reply",
		},
		data.Provider, data.Model, data.Purpose, data.LessonID, data.OptionIndex,
		data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success,
		data.ErrorMessage, data.Prompt, data.Reply,
	)
	if err != nil {
		return fmt.Errorf("save tutor request: %w", err)
	}
	return nil
}

func (r *eventRepo) TutorRequests(ctx context.Context, opts QueryOpts) ([]TutorRequest, error) {
	sel := sqlite.Select(tutorRequestColumns...).From(sqlite.Table(tutorRequestTable))
	if opts.LessonID != "" {
		sel.Where(entsql.EQ("lesson_id", opts.LessonID))
	}
	query, args := applyOpts(sel, opts).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tutor requests: %w", err)
	}
	defer rows.Close()

	var out []TutorRequest
	for rows.Next() {
		tr, err := scanTutorRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}

func (r *eventRepo) TutorRequest(ctx context.Context, id int) (*TutorRequest, error) {
	query, args := sqlite.Select(tutorRequestColumns...).
		From(sqlite.Table(tutorRequestTable)).
		Where(entsql.EQ("id", id)).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get tutor request %d: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	tr, err := scanTutorRequest(rows)
	if err != nil {
		return nil, err
	}
	return &tr, nil
}

func scanTutorRequest(rows *sql.Rows) (TutorRequest, error) {
	var (
		tr                    TutorRequest
		errMsg, prompt, reply sql.NullString
	)
	err := rows.Scan(
		&tr.ID, &tr.Sequence, &tr.Timestamp, &tr.Provider, &tr.Model, &tr.Purpose,
		&tr.LessonID, &tr.OptionIndex, &tr.InputTokens, &tr.OutputTokens,
		&tr.LatencyMs, &tr.Success, &errMsg, &prompt, &reply,
	)
	if err != nil {
		return tr, fmt.Errorf("scan tutor request: %w", err)
	}
	tr.ErrorMessage = errMsg.String
	tr.Prompt = prompt.String
	tr.Reply = reply.String
	return tr, nil
}

// TutorUsage totals calls, failures and tokens per model.
func (r *eventRepo) TutorUsage(ctx context.Context) ([]TutorUsage, error) {
	query, args := sqlite.Select(
		"model",
		entsql.Count("*"),
		"SUM(CASE WHEN success THEN 0 ELSE 1 END)",
		entsql.Sum("input_tokens"),
		entsql.Sum("output_tokens"),
		entsql.Avg("latency_ms"),
	).
		From(sqlite.Table(tutorRequestTable)).
		GroupBy("model").
		OrderBy("model").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tutor usage: %w", err)
	}
	defer rows.Close()

	var out []TutorUsage
	for rows.Next() {
		var (
			u                   TutorUsage
			failed, in, outToks sql.NullInt64
			avg                 sql.NullFloat64
		)
		if err := rows.Scan(&u.Model, &u.Calls, &failed, &in, &outToks, &avg); err != nil {
			return nil, fmt.Errorf("scan tutor usage: %w", err)
		}
		u.Failures = int(failed.Int64)
		u.InputTokens = int(in.Int64)
		u.OutputTokens = int(outToks.Int64)
		u.AvgLatencyMs = int64(avg.Float64)
		out = append(out, u)
	}
	return out, rows.Err()
}
