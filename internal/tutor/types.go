// Package tutor asks an LLM to explain a wrong quiz answer.
package tutor

import "github.com/pywebdev/academy/internal/catalog"

// Purpose labels tutor requests in the LLM journal.
const Purpose = "quiz-tutor"

// Input is everything the tutor needs to explain one answer.
type Input struct {
	Lesson catalog.LessonRef
	Chosen int // index into Lesson.Content.Quiz.Options
}

// Explanation is the tutor's structured reply.
type Explanation struct {
	LessonID    string
	Title       string
	Explanation string
	KeyPoint    string
}

// Config holds tutor generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults for tutor requests.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   400,
		Temperature: 0.4,
	}
}
