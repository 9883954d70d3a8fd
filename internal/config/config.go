// Package config reads the application's ACADEMY_* environment settings.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
)

// EnvPrefix prefixes every variable read by Load.
const EnvPrefix = "ACADEMY_"

// Config is the process-wide configuration. LLM settings live in
// llm.Config and are read separately.
type Config struct {
	// DB is the journal database path. Empty selects the XDG default.
	DB string `env:"DB"`

	// Log names a file for the debug log. Empty discards log output,
	// since the TUI owns the terminal.
	Log      string `env:"LOG"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// NoJournal disables the activity journal entirely.
	NoJournal bool `env:"NO_JOURNAL"`

	// RunDelay is how long a simulated run takes before showing output.
	RunDelay time.Duration `env:"RUN_DELAY" envDefault:"1s"`
}

// Load parses Config from the process environment.
func Load() (Config, error) {
	return parse(env.Options{Prefix: EnvPrefix})
}

// LoadFrom parses Config from the given variables instead of the process
// environment. Keys carry the ACADEMY_ prefix.
func LoadFrom(environ map[string]string) (Config, error) {
	if environ == nil {
		environ = map[string]string{}
	}
	return parse(env.Options{Prefix: EnvPrefix, Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if c.RunDelay < 0 {
		return errors.New("ACADEMY_RUN_DELAY must not be negative")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("ACADEMY_LOG_LEVEL: %w", err)
	}
	return nil
}
