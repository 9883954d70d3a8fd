package lesson

import (
	"github.com/pywebdev/academy/internal/tutor"
)

// QuizAnsweredMsg reports an accepted quiz answer. The app root records it
// in the activity journal.
type QuizAnsweredMsg struct {
	LessonID string
	Option   int
	Correct  bool
}

// tutorDoneMsg carries the tutor's reply for request reqID.
type tutorDoneMsg struct {
	reqID       int
	explanation *tutor.Explanation
	err         error
}
