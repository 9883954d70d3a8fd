package llm

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pywebdev/academy/internal/store"
)

// completeFunc is one link of the call chain.
type completeFunc func(ctx context.Context, p Prompt) (*Reply, error)

// chained is the Client handed out by New: the provider call wrapped, from
// the outside in, with a deadline, retries, the journal and a schema check.
type chained struct {
	model string
	call  completeFunc
}

func (c *chained) Complete(ctx context.Context, p Prompt) (*Reply, error) { return c.call(ctx, p) }
func (c *chained) Model() string                                        { return c.model }

// checked rejects replies that do not match the prompt's schema.
func checked(next completeFunc) completeFunc {
	return func(ctx context.Context, p Prompt) (*Reply, error) {
		r, err := next(ctx, p)
		if err != nil || p.Schema == nil {
			return r, err
		}
		if err := p.Schema.Check(r.JSON); err != nil {
			return nil, err
		}
		return r, nil
	}
}

// Sink stores journal rows for tutor calls.
type Sink interface {
	AppendTutorRequest(ctx context.Context, data store.TutorRequestData) error
}

// journaled records every attempt, failed or not, under the context's Tag.
// A journal failure is logged and never fails the call.
func journaled(next completeFunc, provider, model string, sink Sink, logger *log.Logger) completeFunc {
	return func(ctx context.Context, p Prompt) (*Reply, error) {
		start := time.Now()
		r, err := next(ctx, p)
		tag := TagFrom(ctx)

		row := store.TutorRequestData{
			Provider:    provider,
			Model:       model,
			Purpose:     tag.Purpose,
			LessonID:    tag.LessonID,
			OptionIndex: tag.Option,
			LatencyMs:   time.Since(start).Milliseconds(),
			Success:     err == nil,
			Prompt:      p.User,
		}
		if r != nil {
			row.Model = r.Model
			row.InputTokens = r.InputTokens
			row.OutputTokens = r.OutputTokens
			row.Reply = string(r.JSON)
		}
		if err != nil {
			row.ErrorMessage = err.Error()
			var e *Error
			if errors.As(err, &e) && len(e.Raw) > 0 {
				row.Reply = string(e.Raw)
			}
		}

		if logger != nil {
			if err != nil {
				logger.Warn("tutor call failed", "lesson", tag.LessonID, "model", row.Model, "ms", row.LatencyMs, "err", err)
			} else {
				logger.Debug("tutor call", "lesson", tag.LessonID, "model", row.Model,
					"in", row.InputTokens, "out", row.OutputTokens, "ms", row.LatencyMs)
			}
		}
		if sink != nil {
			if jerr := sink.AppendTutorRequest(context.WithoutCancel(ctx), row); jerr != nil && logger != nil {
				logger.Warn("journal tutor call", "err", jerr)
			}
		}
		return r, err
	}
}

// retried repeats transient failures. A malformed reply is retried once;
// truncated and rejected calls are not retried at all.
func retried(next completeFunc, cfg RetryConfig, sleep func(context.Context, time.Duration) error) completeFunc {
	return func(ctx context.Context, p Prompt) (*Reply, error) {
		malformedSeen := false
		var err error
		for attempt := 0; attempt < max(cfg.Attempts, 1); attempt++ {
			if attempt > 0 {
				if serr := sleep(ctx, cfg.wait(attempt, err)); serr != nil {
					return nil, serr
				}
			}
			var r *Reply
			r, err = next(ctx, p)
			if err == nil {
				return r, nil
			}
			if ctx.Err() != nil {
				return nil, err
			}
			kind, ok := KindOf(err)
			if !ok {
				return nil, err
			}
			switch kind {
			case Truncated, Rejected:
				return nil, err
			case Malformed:
				if malformedSeen {
					return nil, err
				}
				malformedSeen = true
			}
		}
		return nil, err
	}
}

// wait is the pause before the given retry: the server's Retry-After when
// it sent one, otherwise doubling from cfg.Wait up to cfg.MaxWait.
func (cfg RetryConfig) wait(attempt int, last error) time.Duration {
	var e *Error
	if errors.As(last, &e) && e.RetryAfter > 0 {
		return e.RetryAfter
	}
	d := cfg.Wait << (attempt - 1)
	if cfg.MaxWait > 0 && (d > cfg.MaxWait || d < 0) {
		d = cfg.MaxWait
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// bounded gives the whole call, retries included, a deadline.
func bounded(next completeFunc, d time.Duration) completeFunc {
	if d <= 0 {
		return next
	}
	return func(ctx context.Context, p Prompt) (*Reply, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return next(ctx, p)
	}
}
