package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit    int       // max results (0 = unlimited)
	After    int64     // sequence > After
	From     time.Time // timestamp >= From
	LessonID string    // tutor requests only; empty matches all
}

// Session actions.
const (
	SessionStart = "start"
	SessionEnd   = "end"
)

// SessionEventData captures an app launch or exit.
type SessionEventData struct {
	SessionID        string
	Action           string
	LessonsCompleted int
	QuizzesAnswered  int
	DurationSecs     int
}

// LessonCompletedData captures the first completion of a lesson in a session.
type LessonCompletedData struct {
	SessionID  string
	LessonID   string
	CategoryID string
}

// QuizAnswerData captures one quiz answer.
type QuizAnswerData struct {
	SessionID   string
	LessonID    string
	OptionIndex int
	Correct     bool
}

// ProgressResetData captures a progress reset.
type ProgressResetData struct {
	SessionID string
	Cleared   int
}

// TutorRequestData captures one call to the tutor's language model.
type TutorRequestData struct {
	Provider     string
	Model        string
	Purpose      string
	LessonID     string
	OptionIndex  int // -1 when the call was not about a quiz answer
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	Prompt       string
	Reply        string
}

// TutorRequest is a stored tutor call.
type TutorRequest struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	TutorRequestData
}

// TutorUsage aggregates tutor calls per model.
type TutorUsage struct {
	Model        string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ActivityKind names a journal entry type.
type ActivityKind string

const (
	ActivitySession   ActivityKind = "session"
	ActivityCompleted ActivityKind = "completed"
	ActivityQuiz      ActivityKind = "quiz"
	ActivityReset     ActivityKind = "reset"
)

// Activity is one row of the merged journal timeline.
type Activity struct {
	Sequence  int64
	Timestamp time.Time
	SessionID string
	Kind      ActivityKind
	LessonID  string
	Detail    string
}

// Summary aggregates the journal for display.
type Summary struct {
	Sessions         int
	Completions      int
	DistinctLessons  int
	QuizAnswers      int
	QuizCorrect      int
	Resets           int
	TotalTimeSecs    int
	LastActivity     time.Time
	CompletedLessons []string
}

// QuizAccuracy returns the share of correct quiz answers in [0, 1].
func (s Summary) QuizAccuracy() float64 {
	if s.QuizAnswers == 0 {
		return 0
	}
	return float64(s.QuizCorrect) / float64(s.QuizAnswers)
}

// EventRepo provides append and query access to journal events.
type EventRepo interface {
	AppendSessionEvent(ctx context.Context, data SessionEventData) error
	AppendLessonCompleted(ctx context.Context, data LessonCompletedData) error
	AppendQuizAnswer(ctx context.Context, data QuizAnswerData) error
	AppendProgressReset(ctx context.Context, data ProgressResetData) error

	AppendTutorRequest(ctx context.Context, data TutorRequestData) error
	TutorRequests(ctx context.Context, opts QueryOpts) ([]TutorRequest, error)
	// TutorRequest returns nil when no call has the given ID.
	TutorRequest(ctx context.Context, id int) (*TutorRequest, error)
	TutorUsage(ctx context.Context) ([]TutorUsage, error)

	// RecentActivity returns the newest journal entries across all
	// learner event tables, newest first.
	RecentActivity(ctx context.Context, opts QueryOpts) ([]Activity, error)
	Summary(ctx context.Context) (Summary, error)

	// Clear deletes every journal event.
	Clear(ctx context.Context) error
}
