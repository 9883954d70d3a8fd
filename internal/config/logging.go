package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// NewLogger builds the application logger. With no log file configured
// output is discarded. The returned close function releases the file.
func (c Config) NewLogger() (*log.Logger, func() error, error) {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}

	if c.Log == "" {
		return log.NewWithOptions(io.Discard, log.Options{Level: level}), func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(c.Log), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(c.Log, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		Level:           level,
		Prefix:          "academy",
		ReportTimestamp: true,
	})
	return logger, f.Close, nil
}
