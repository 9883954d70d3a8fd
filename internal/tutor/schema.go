package tutor

import "github.com/pywebdev/academy/internal/llm"

// ExplanationSchema defines the JSON reply for a quiz explanation.
var ExplanationSchema = &llm.Schema{
	Name:        "quiz-explanation",
	Description: "A short explanation of why a quiz answer is wrong and what the right answer teaches",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Short heading (3-8 words)",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Why the chosen answer is wrong and the correct one is right (2-4 sentences)",
			},
			"key_point": map[string]any{
				"type":        "string",
				"description": "One sentence the learner should remember",
			},
		},
		"required":             []any{"title", "explanation", "key_point"},
		"additionalProperties": false,
	},
}
