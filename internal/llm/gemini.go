package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

type geminiClient struct {
	api   *genai.Client
	model string
}

// newGemini builds a Gemini API client. baseURL overrides the endpoint.
func newGemini(ctx context.Context, key, model, baseURL string) (*geminiClient, error) {
	cfg := &genai.ClientConfig{APIKey: key, Backend: genai.BackendGeminiAPI}
	if baseURL != "" {
		cfg.HTTPOptions.BaseURL = baseURL
	}
	api, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &geminiClient{api: api, model: model}, nil
}

func (c *geminiClient) Model() string { return c.model }

func (c *geminiClient) Complete(ctx context.Context, p Prompt) (*Reply, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(p.System, genai.RoleUser),
		MaxOutputTokens:   int32(p.MaxTokens),
	}
	if p.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(p.Temperature))
	}
	if p.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseJsonSchema = p.Schema.Definition
	}

	res, err := c.api.Models.GenerateContent(ctx, c.model, genai.Text(p.User), cfg)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, classify(apiErr.Code, nil, err)
		}
		return nil, &Error{Kind: Unavailable, Err: err}
	}

	text := res.Text()
	if len(res.Candidates) > 0 && res.Candidates[0].FinishReason == genai.FinishReasonMaxTokens {
		return nil, &Error{Kind: Truncated, Raw: []byte(text)}
	}
	reply := &Reply{JSON: []byte(text), Model: c.model}
	if res.ModelVersion != "" {
		reply.Model = res.ModelVersion
	}
	if u := res.UsageMetadata; u != nil {
		reply.InputTokens = int(u.PromptTokenCount)
		reply.OutputTokens = int(u.CandidatesTokenCount)
	}
	return reply, nil
}
