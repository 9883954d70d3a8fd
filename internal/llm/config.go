package llm

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every variable read by ConfigFromEnv.
const EnvPrefix = "ACADEMY_"

// Providers lists the accepted values of ACADEMY_LLM_PROVIDER.
var Providers = []string{"anthropic", "openai", "gemini", "openrouter"}

// Config selects and configures the tutor's model.
type Config struct {
	Provider string `env:"LLM_PROVIDER"`

	Anthropic  Endpoint `envPrefix:"ANTHROPIC_"`
	OpenAI     Endpoint `envPrefix:"OPENAI_"`
	Gemini     Endpoint `envPrefix:"GEMINI_"`
	OpenRouter Endpoint `envPrefix:"OPENROUTER_"`

	Retry   RetryConfig   `envPrefix:"LLM_RETRY_"`
	Timeout time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`
}

// Endpoint is one provider's credentials and model. Model may be an alias
// from Aliases or a raw model ID.
type Endpoint struct {
	APIKey  string `env:"API_KEY"`
	Model   string `env:"MODEL"`
	BaseURL string `env:"BASE_URL"`
}

// RetryConfig bounds retries of transient failures.
type RetryConfig struct {
	Attempts int           `env:"ATTEMPTS" envDefault:"3"`
	Wait     time.Duration `env:"WAIT" envDefault:"1s"`
	MaxWait  time.Duration `env:"MAX_WAIT" envDefault:"8s"`
}

// defaultModels is the model used when a provider's MODEL is unset.
var defaultModels = map[string]string{
	"anthropic":  "claude-haiku",
	"openai":     "gpt-4o-mini",
	"gemini":     "gemini-flash",
	"openrouter": "google/gemini-2.0-flash-001",
}

// Aliases maps the short names accepted in *_MODEL to model IDs.
var Aliases = map[string]string{
	"claude-haiku":  "claude-haiku-4-5-20251001",
	"claude-sonnet": "claude-sonnet-4-20250514",
	"gemini-flash":  "gemini-2.0-flash",
}

// ErrNotConfigured means neither ACADEMY_LLM_PROVIDER nor any known API key
// is set. The tutor is then simply turned off.
var ErrNotConfigured = errors.New("no LLM provider configured")

// ConfigFromEnv parses ACADEMY_* variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse LLM config: %w", err)
	}
	return cfg, nil
}

// ResolveConfig reads ACADEMY_* variables. Without an explicit provider it
// picks the first one with a key, checking gemini, openai, anthropic and
// openrouter in turn. The vendors' own variables such as OPENAI_API_KEY
// stand in for a missing ACADEMY_ key.
func ResolveConfig() (Config, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return Config{}, err
	}
	for _, name := range Providers {
		if ep := cfg.endpoint(name); ep.APIKey == "" {
			ep.APIKey = os.Getenv(vendorKeyVar(name))
		}
	}
	if cfg.Provider == "" {
		for _, name := range []string{"gemini", "openai", "anthropic", "openrouter"} {
			if cfg.endpoint(name).APIKey != "" {
				cfg.Provider = name
				break
			}
		}
	}
	if cfg.Provider == "" {
		return Config{}, ErrNotConfigured
	}
	return cfg, cfg.Validate()
}

func vendorKeyVar(provider string) string {
	switch provider {
	case "openai":
		return "OPENAI_API_KEY"
	case "gemini":
		return "GEMINI_API_KEY"
	case "openrouter":
		return "OPENROUTER_API_KEY"
	default:
		return "ANTHROPIC_API_KEY"
	}
}

// endpoint returns the Endpoint for provider, or nil when unknown.
func (c *Config) endpoint(provider string) *Endpoint {
	switch provider {
	case "anthropic":
		return &c.Anthropic
	case "openai":
		return &c.OpenAI
	case "gemini":
		return &c.Gemini
	case "openrouter":
		return &c.OpenRouter
	}
	return nil
}

// Validate checks that the selected provider is known and has a key.
func (c Config) Validate() error {
	ep := c.endpoint(c.Provider)
	if ep == nil {
		return fmt.Errorf("unknown LLM provider %q (want one of %v)", c.Provider, Providers)
	}
	if ep.APIKey == "" {
		return fmt.Errorf("%s%s_API_KEY is required for the %s provider", EnvPrefix, envName(c.Provider), c.Provider)
	}
	return nil
}

// ModelID resolves the selected provider's model to a model ID.
func (c Config) ModelID() string {
	m := defaultModels[c.Provider]
	if ep := c.endpoint(c.Provider); ep != nil && ep.Model != "" {
		m = ep.Model
	}
	if id, ok := Aliases[m]; ok {
		return id
	}
	return m
}

func envName(provider string) string {
	switch provider {
	case "openai":
		return "OPENAI"
	case "gemini":
		return "GEMINI"
	case "openrouter":
		return "OPENROUTER"
	default:
		return "ANTHROPIC"
	}
}
