package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pywebdev/academy/internal/store"
)

const goodReply = `{"title":"Lists","key_point":"append mutates"}`

type memSink struct {
	mu   sync.Mutex
	rows []store.TutorRequestData
	err  error
}

func (m *memSink) AppendTutorRequest(_ context.Context, d store.TutorRequestData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, d)
	return m.err
}

// sleeps records requested pauses without waiting.
type sleeps struct{ got []time.Duration }

func (s *sleeps) sleep(ctx context.Context, d time.Duration) error {
	s.got = append(s.got, d)
	return ctx.Err()
}

func testRetry() RetryConfig {
	return RetryConfig{Attempts: 3, Wait: time.Second, MaxWait: 3 * time.Second}
}

func prompt() Prompt {
	return Prompt{System: "tutor", User: "why is B wrong?", Schema: explanationSchema(), MaxTokens: 200}
}

func TestChainRetriesUntilSuccess(t *testing.T) {
	script := Script(
		Step{Err: &Error{Kind: Unavailable}},
		Step{Err: &Error{Kind: RateLimited, RetryAfter: 5 * time.Second}},
		Step{JSON: goodReply, InputTokens: 30, OutputTokens: 12},
	)
	sink := &memSink{}
	sl := &sleeps{}
	c := wrap(script, "anthropic", Config{Retry: testRetry()}, sink, nil, sl.sleep)

	ctx := WithTag(context.Background(), Tag{Purpose: "quiz-tutor", LessonID: "core-concepts", Option: 1})
	r, err := c.Complete(ctx, prompt())
	require.NoError(t, err)
	assert.Equal(t, goodReply, string(r.JSON))
	assert.Equal(t, []time.Duration{time.Second, 5 * time.Second}, sl.got)

	require.Len(t, sink.rows, 3, "every attempt is journaled")
	last := sink.rows[2]
	assert.True(t, last.Success)
	assert.Equal(t, "core-concepts", last.LessonID)
	assert.Equal(t, 1, last.OptionIndex)
	assert.Equal(t, "quiz-tutor", last.Purpose)
	assert.Equal(t, "anthropic", last.Provider)
	assert.Equal(t, 30, last.InputTokens)
	assert.Equal(t, "why is B wrong?", last.Prompt)
	assert.Equal(t, goodReply, last.Reply)
	assert.False(t, sink.rows[0].Success)
	assert.NotEmpty(t, sink.rows[0].ErrorMessage)
}

func TestChainRetriesMalformedOnce(t *testing.T) {
	script := Script(Step{JSON: `{"title":"x"}`}, Step{JSON: `nope`}, Step{JSON: goodReply})
	sink := &memSink{}
	c := wrap(script, "openai", Config{Retry: RetryConfig{Attempts: 5}}, sink, nil, (&sleeps{}).sleep)

	_, err := c.Complete(context.Background(), prompt())
	kind, _ := KindOf(err)
	assert.Equal(t, Malformed, kind)
	assert.Len(t, script.Prompts(), 2)
	assert.Equal(t, "nope", sink.rows[1].Reply, "the bad reply is kept for inspection")
}

func TestChainDoesNotRetryFinalFailures(t *testing.T) {
	for _, kind := range []Kind{Truncated, Rejected} {
		t.Run(kind.String(), func(t *testing.T) {
			script := Script(Step{Err: &Error{Kind: kind}}, Step{JSON: goodReply})
			c := wrap(script, "gemini", Config{Retry: testRetry()}, nil, nil, (&sleeps{}).sleep)

			_, err := c.Complete(context.Background(), prompt())
			got, _ := KindOf(err)
			assert.Equal(t, kind, got)
			assert.Len(t, script.Prompts(), 1)
		})
	}
}

func TestChainGivesUpAfterAttempts(t *testing.T) {
	script := Script()
	sl := &sleeps{}
	c := wrap(script, "openai", Config{Retry: RetryConfig{Attempts: 4, Wait: time.Second, MaxWait: 3 * time.Second}}, nil, nil, sl.sleep)

	_, err := c.Complete(context.Background(), prompt())
	require.Error(t, err)
	assert.Len(t, script.Prompts(), 4)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}, sl.got)
}

func TestChainStopsWhenCancelled(t *testing.T) {
	script := Script(Step{Err: &Error{Kind: Unavailable}}, Step{JSON: goodReply})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := wrap(script, "openai", Config{Retry: testRetry()}, nil, nil, (&sleeps{}).sleep)

	_, err := c.Complete(ctx, prompt())
	require.Error(t, err)
	assert.Len(t, script.Prompts(), 1)
}

func TestChainDeadline(t *testing.T) {
	slow := &chained{model: "slow", call: func(ctx context.Context, p Prompt) (*Reply, error) {
		<-ctx.Done()
		return nil, &Error{Kind: Unavailable, Err: ctx.Err()}
	}}
	c := wrap(slow, "openai", Config{Retry: RetryConfig{Attempts: 1}, Timeout: 10 * time.Millisecond}, nil, nil, sleepCtx)

	start := time.Now()
	_, err := c.Complete(context.Background(), prompt())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestJournalFailureDoesNotFailCall(t *testing.T) {
	sink := &memSink{err: errors.New("disk full")}
	c := wrap(Script(Step{JSON: goodReply}), "openai", Config{Retry: testRetry()}, sink, nil, (&sleeps{}).sleep)

	_, err := c.Complete(context.Background(), prompt())
	assert.NoError(t, err)
	require.Len(t, sink.rows, 1)
	assert.Equal(t, "untagged", sink.rows[0].Purpose)
	assert.Equal(t, -1, sink.rows[0].OptionIndex)
}

func TestChainWithoutSchemaPassesText(t *testing.T) {
	c := wrap(Script(Step{JSON: "plain words"}), "openai", Config{Retry: testRetry()}, nil, nil, (&sleeps{}).sleep)
	r, err := c.Complete(context.Background(), Prompt{User: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "plain words", string(r.JSON))
	assert.Equal(t, "scripted", c.Model())
}
