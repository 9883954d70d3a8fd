package llm

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// New builds the Client for cfg. sink and logger may be nil.
func New(ctx context.Context, cfg Config, sink Sink, logger *log.Logger) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ep := *cfg.endpoint(cfg.Provider)
	model := cfg.ModelID()

	var base Client
	switch cfg.Provider {
	case "anthropic":
		base = newAnthropic(ep.APIKey, model)
	case "openai":
		base = newOpenAI(ep.APIKey, model, ep.BaseURL)
	case "openrouter":
		url := ep.BaseURL
		if url == "" {
			url = openRouterURL
		}
		base = newOpenAI(ep.APIKey, model, url)
	case "gemini":
		g, err := newGemini(ctx, ep.APIKey, model, ep.BaseURL)
		if err != nil {
			return nil, err
		}
		base = g
	}
	return wrap(base, cfg.Provider, cfg, sink, logger, sleepCtx), nil
}

// FromEnv is New over ResolveConfig. It returns ErrNotConfigured when no
// provider is set up.
func FromEnv(ctx context.Context, sink Sink, logger *log.Logger) (Client, error) {
	cfg, err := ResolveConfig()
	if err != nil {
		return nil, err
	}
	return New(ctx, cfg, sink, logger)
}

func wrap(base Client, provider string, cfg Config, sink Sink, logger *log.Logger,
	sleep func(context.Context, time.Duration) error) *chained {
	call := checked(base.Complete)
	call = journaled(call, provider, base.Model(), sink, logger)
	call = retried(call, cfg.Retry, sleep)
	call = bounded(call, cfg.Timeout)
	return &chained{model: base.Model(), call: call}
}
