package tutor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pywebdev/academy/internal/llm"
)

// Service explains wrong quiz answers with an LLM.
type Service struct {
	client llm.Client
	cfg    Config
}

// NewService creates a tutor service.
func NewService(client llm.Client, cfg Config) *Service {
	return &Service{client: client, cfg: cfg}
}

type explanationOutput struct {
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
	KeyPoint    string `json:"key_point"`
}

// Explain blocks until the model answers or ctx is done.
func (s *Service) Explain(ctx context.Context, in Input) (*Explanation, error) {
	userMsg, err := buildUserMessage(in)
	if err != nil {
		return nil, err
	}

	ctx = llm.WithTag(ctx, llm.Tag{Purpose: Purpose, LessonID: in.Lesson.ID, Option: in.Chosen})
	reply, err := s.client.Complete(ctx, llm.Prompt{
		System:      systemPrompt,
		User:        userMsg,
		Schema:      ExplanationSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("quiz explanation: %w", err)
	}

	exp, err := ParseExplanation(reply.JSON)
	if err != nil {
		return nil, err
	}
	exp.LessonID = in.Lesson.ID
	return exp, nil
}

// ParseExplanation decodes a journaled or live tutor reply.
func ParseExplanation(raw json.RawMessage) (*Explanation, error) {
	var out explanationOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parse explanation: %w", err)
	}
	return &Explanation{
		Title:       out.Title,
		Explanation: out.Explanation,
		KeyPoint:    out.KeyPoint,
	}, nil
}
