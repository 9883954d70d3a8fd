package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil database")
	}
}

func TestOpenFileCreatesTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	var mode string
	require.NoError(t, s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	for _, tbl := range Tables {
		var name string
		err := s.DB().QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name = ?`, tbl.Name).Scan(&name)
		assert.NoError(t, err, tbl.Name)
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is checked in TestOpenFileCreatesTables.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSequenceIsMonotonic(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var last int64 = -1
	for i := 0; i < 5; i++ {
		n, err := s.seq.Next(ctx)
		require.NoError(t, err)
		assert.Greater(t, n, last)
		last = n
	}
}

func TestTablesFollowEntSchemas(t *testing.T) {
	names := make([]string, 0, len(Tables))
	for _, tbl := range Tables {
		names = append(names, tbl.Name)
		require.NotEmpty(t, tbl.PrimaryKey, tbl.Name)
		assert.Equal(t, "id", tbl.PrimaryKey[0].Name)
		for _, col := range []string{"sequence", "timestamp"} {
			assert.True(t, tbl.HasColumn(col), "%s.%s", tbl.Name, col)
		}
	}
	assert.Equal(t, []string{
		"session_events", "lesson_completed_events", "quiz_answer_events",
		"progress_reset_events", "tutor_request_events",
	}, names)

	seq, ok := TutorRequestsTable.Column("sequence")
	require.True(t, ok)
	assert.True(t, seq.Unique)
	opt, ok := TutorRequestsTable.Column("option_index")
	require.True(t, ok)
	assert.EqualValues(t, -1, opt.Default)
	reply, ok := TutorRequestsTable.Column("reply")
	require.True(t, ok)
	assert.True(t, reply.Nullable)
}

func TestTutorRequestsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendTutorRequest(ctx, TutorRequestData{
		Provider: "anthropic", Model: "claude-haiku-4-5-20251001", Purpose: "quiz-tutor",
		LessonID: "core-concepts", OptionIndex: 2,
		InputTokens: 100, OutputTokens: 40, LatencyMs: 120, Success: true,
		Prompt: "The learner chose C)", Reply: `{"title":"t"}`,
	}))
	require.NoError(t, repo.AppendTutorRequest(ctx, TutorRequestData{
		Provider: "openai", Model: "gpt-4o-mini", Purpose: "quiz-tutor",
		LessonID: "flask-routing", OptionIndex: 0,
		InputTokens: 10, LatencyMs: 80, ErrorMessage: "rate limited",
	}))

	reqs, err := repo.TutorRequests(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, "flask-routing", reqs[0].LessonID, "newest first")
	assert.False(t, reqs[0].Success)
	assert.Equal(t, "rate limited", reqs[0].ErrorMessage)
	assert.Equal(t, 2, reqs[1].OptionIndex)
	assert.WithinDuration(t, time.Now(), reqs[1].Timestamp, time.Minute)

	got, err := repo.TutorRequest(ctx, reqs[1].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, `{"title":"t"}`, got.Reply)
	assert.Equal(t, "The learner chose C)", got.Prompt)

	missing, err := repo.TutorRequest(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	forLesson, err := repo.TutorRequests(ctx, QueryOpts{LessonID: "core-concepts"})
	require.NoError(t, err)
	require.Len(t, forLesson, 1)
	assert.Equal(t, "anthropic", forLesson[0].Provider)

	limited, err := repo.TutorRequests(ctx, QueryOpts{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestTutorUsage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.AppendTutorRequest(ctx, TutorRequestData{
			Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "quiz-tutor",
			InputTokens: 10, OutputTokens: 5, LatencyMs: int64(100 * (i + 1)), Success: i != 1,
		}))
	}

	usage, err := repo.TutorUsage(ctx)
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, TutorUsage{
		Model: "gemini-2.0-flash", Calls: 3, Failures: 1,
		InputTokens: 30, OutputTokens: 15, AvgLatencyMs: 200,
	}, usage[0])
}

func TestActivityAndSummary(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s1", Action: SessionStart}))
	require.NoError(t, repo.AppendLessonCompleted(ctx, LessonCompletedData{SessionID: "s1", LessonID: "core-concepts", CategoryID: "python"}))
	require.NoError(t, repo.AppendQuizAnswer(ctx, QuizAnswerData{SessionID: "s1", LessonID: "core-concepts", OptionIndex: 1, Correct: true}))
	require.NoError(t, repo.AppendQuizAnswer(ctx, QuizAnswerData{SessionID: "s1", LessonID: "flask-setup", OptionIndex: 0, Correct: false}))
	require.NoError(t, repo.AppendLessonCompleted(ctx, LessonCompletedData{SessionID: "s1", LessonID: "flask-setup", CategoryID: "flask"}))
	require.NoError(t, repo.AppendProgressReset(ctx, ProgressResetData{SessionID: "s1", Cleared: 2}))
	require.NoError(t, repo.AppendLessonCompleted(ctx, LessonCompletedData{SessionID: "s1", LessonID: "core-concepts", CategoryID: "python"}))
	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s1", Action: SessionEnd, LessonsCompleted: 3, QuizzesAnswered: 2, DurationSecs: 90}))

	acts, err := repo.RecentActivity(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, acts, 8)
	assert.Equal(t, ActivitySession, acts[0].Kind)
	assert.Equal(t, "end after 90s", acts[0].Detail)
	assert.Equal(t, ActivityReset, acts[2].Kind)
	assert.Equal(t, "2 cleared", acts[2].Detail)
	assert.Equal(t, ActivitySession, acts[7].Kind)
	for i := 1; i < len(acts); i++ {
		assert.Greater(t, acts[i-1].Sequence, acts[i].Sequence)
	}

	top, err := repo.RecentActivity(ctx, QueryOpts{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, top, 3)

	sum, err := repo.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Sessions)
	assert.Equal(t, 3, sum.Completions)
	assert.Equal(t, 2, sum.DistinctLessons)
	assert.Equal(t, []string{"core-concepts", "flask-setup"}, sum.CompletedLessons)
	assert.Equal(t, 2, sum.QuizAnswers)
	assert.Equal(t, 1, sum.QuizCorrect)
	assert.InDelta(t, 0.5, sum.QuizAccuracy(), 1e-9)
	assert.Equal(t, 1, sum.Resets)
	assert.Equal(t, 90, sum.TotalTimeSecs)
	assert.False(t, sum.LastActivity.IsZero())
}

func TestClear(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s1", Action: SessionStart}))
	require.NoError(t, repo.AppendTutorRequest(ctx, TutorRequestData{Provider: "openai", Model: "m", Purpose: "p", Success: true}))
	require.NoError(t, repo.Clear(ctx))

	acts, err := repo.RecentActivity(ctx, QueryOpts{})
	require.NoError(t, err)
	assert.Empty(t, acts)

	reqs, err := repo.TutorRequests(ctx, QueryOpts{})
	require.NoError(t, err)
	assert.Empty(t, reqs)

	n, err := s.seq.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSummaryEmpty(t *testing.T) {
	s := openTestStore(t)
	sum, err := s.EventRepo().Summary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sum.Sessions)
	assert.Zero(t, sum.QuizAccuracy())
	assert.True(t, sum.LastActivity.IsZero())
}

func TestDefaultDBPathFromEnv(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "journal.db")
	t.Setenv("ACADEMY_DB", p)
	got, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.DirExists(t, filepath.Dir(p))
}

func TestDefaultDBPathXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ACADEMY_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	got, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "academy", "journal.db"), got)
}
