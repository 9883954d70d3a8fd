package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(nil)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.DB)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.NoJournal)
	assert.Equal(t, time.Second, cfg.RunDelay)
}

func TestLoadFromOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"ACADEMY_DB":         "/tmp/j.db",
		"ACADEMY_LOG":        "/tmp/a.log",
		"ACADEMY_LOG_LEVEL":  "debug",
		"ACADEMY_NO_JOURNAL": "true",
		"ACADEMY_RUN_DELAY":  "250ms",
	})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/j.db", cfg.DB)
	assert.Equal(t, "/tmp/a.log", cfg.Log)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.NoJournal)
	assert.Equal(t, 250*time.Millisecond, cfg.RunDelay)
}

func TestLoadFromInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad duration", map[string]string{"ACADEMY_RUN_DELAY": "soon"}},
		{"negative delay", map[string]string{"ACADEMY_RUN_DELAY": "-1s"}},
		{"bad bool", map[string]string{"ACADEMY_NO_JOURNAL": "maybe"}},
		{"bad level", map[string]string{"ACADEMY_LOG_LEVEL": "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.env)
			assert.Error(t, err)
		})
	}
}

func TestNewLoggerDiscardsWithoutFile(t *testing.T) {
	cfg, err := LoadFrom(nil)
	require.NoError(t, err)
	logger, closeFn, err := cfg.NewLogger()
	require.NoError(t, err)
	defer closeFn()
	assert.Equal(t, log.InfoLevel, logger.GetLevel())
}

func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "academy.log")
	cfg, err := LoadFrom(map[string]string{
		"ACADEMY_LOG":       path,
		"ACADEMY_LOG_LEVEL": "debug",
	})
	require.NoError(t, err)

	logger, closeFn, err := cfg.NewLogger()
	require.NoError(t, err)
	logger.Debug("run started", "lesson", "core-concepts")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "run started")
	assert.Contains(t, string(data), "lesson=core-concepts")
}
