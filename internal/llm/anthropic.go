package llm

import (
	"context"
	"errors"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type anthropicClient struct {
	api   anthropic.Client
	model string
}

// newAnthropic builds a client with the SDK's own retries off; the retry
// middleware owns that.
func newAnthropic(key, model string, opts ...option.RequestOption) *anthropicClient {
	opts = append([]option.RequestOption{option.WithAPIKey(key), option.WithMaxRetries(0)}, opts...)
	return &anthropicClient{api: anthropic.NewClient(opts...), model: model}
}

func (c *anthropicClient) Model() string { return c.model }

func (c *anthropicClient) Complete(ctx context.Context, p Prompt) (*Reply, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(p.MaxTokens),
		System:    []anthropic.TextBlockParam{{Text: p.System}},
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(p.User))},
	}
	if p.Temperature > 0 {
		params.Temperature = anthropic.Float(p.Temperature)
	}
	if p.Schema != nil {
		params.OutputConfig = anthropic.OutputConfigParam{
			Format: anthropic.JSONOutputFormatParam{Schema: p.Schema.Definition},
		}
	}

	msg, err := c.api.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			var h http.Header
			if apiErr.Response != nil {
				h = apiErr.Response.Header
			}
			return nil, classify(apiErr.StatusCode, h, err)
		}
		return nil, &Error{Kind: Unavailable, Err: err}
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if msg.StopReason == anthropic.StopReasonMaxTokens {
		return nil, &Error{Kind: Truncated, Raw: []byte(text)}
	}
	if text == "" {
		return nil, &Error{Kind: Malformed, Err: errors.New("no text block in reply")}
	}
	return &Reply{
		JSON:         []byte(text),
		Model:        string(msg.Model),
		InputTokens:  int(msg.Usage.InputTokens),
		OutputTokens: int(msg.Usage.OutputTokens),
	}, nil
}
