package llm

import (
	"context"
	"errors"
	"sync"
)

// Step is one scripted outcome: a JSON reply, or an error when Err is set.
type Step struct {
	JSON         string
	Err          error
	InputTokens  int
	OutputTokens int
}

// Scripted is a Client that plays back Steps in order and keeps every
// prompt it receives. It stands in for a hosted model in tests.
type Scripted struct {
	mu      sync.Mutex
	steps   []Step
	prompts []Prompt
	tags    []Tag
}

// Script returns a Scripted client that will play steps.
func Script(steps ...Step) *Scripted {
	return &Scripted{steps: steps}
}

func (s *Scripted) Model() string { return "scripted" }

// Complete plays the next step. Once the script runs out every call fails
// as Unavailable.
func (s *Scripted) Complete(ctx context.Context, p Prompt) (*Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, p)
	s.tags = append(s.tags, TagFrom(ctx))

	if len(s.steps) == 0 {
		return nil, &Error{Kind: Unavailable, Err: errors.New("script exhausted")}
	}
	step := s.steps[0]
	s.steps = s.steps[1:]
	if step.Err != nil {
		return nil, step.Err
	}
	return &Reply{
		JSON:         []byte(step.JSON),
		Model:        "scripted",
		InputTokens:  step.InputTokens,
		OutputTokens: step.OutputTokens,
	}, nil
}

// Prompts returns the prompts received so far.
func (s *Scripted) Prompts() []Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Prompt(nil), s.prompts...)
}

// Tags returns the context Tag of each call so far.
func (s *Scripted) Tags() []Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Tag(nil), s.tags...)
}
