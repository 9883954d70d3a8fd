// Package llm sends the quiz tutor's prompt to a hosted language model and
// journals every call. A prompt is always one system instruction plus one
// user turn, answered with JSON that must match a Schema.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Client answers a Prompt with schema-checked JSON.
type Client interface {
	Complete(ctx context.Context, p Prompt) (*Reply, error)
	// Model is the configured model ID.
	Model() string
}

// Prompt is a single-turn structured request.
type Prompt struct {
	System      string
	User        string
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

// Reply is a model's answer to a Prompt.
type Reply struct {
	JSON         json.RawMessage
	Model        string // model that served the call, which may be more specific than the configured one
	InputTokens  int
	OutputTokens int
}

// Decode unmarshals the reply into v.
func (r *Reply) Decode(v any) error {
	if err := json.Unmarshal(r.JSON, v); err != nil {
		return fmt.Errorf("decode %s reply: %w", r.Model, err)
	}
	return nil
}

// Tag says what a call is for. It rides on the context so the journal can
// file the call under the lesson and quiz answer that caused it.
type Tag struct {
	Purpose  string
	LessonID string
	Option   int // -1 when the call is not about a quiz answer
}

type tagKey struct{}

// WithTag attaches t to ctx.
func WithTag(ctx context.Context, t Tag) context.Context {
	return context.WithValue(ctx, tagKey{}, t)
}

// TagFrom returns the Tag on ctx, or an "untagged" one.
func TagFrom(ctx context.Context) Tag {
	if t, ok := ctx.Value(tagKey{}).(Tag); ok {
		return t
	}
	return Tag{Purpose: "untagged", Option: -1}
}
