package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pywebdev/academy/internal/config"
	"github.com/pywebdev/academy/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "academy",
	Short: "Python web development lessons in your terminal",
	Long:  "Python Web Dev Academy: lessons, code samples and quizzes on Python, Flask, FastAPI and data analysis.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to the activity journal (overrides ACADEMY_DB env var)")
	rootCmd.PersistentFlags().Bool("no-journal", false, "Do not record activity (overrides ACADEMY_NO_JOURNAL env var)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(lessonsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(tutorCmd)
}

// loadConfig reads ACADEMY_* variables and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DB = p
	}
	if cmd.Flags().Changed("no-journal") {
		cfg.NoJournal, _ = cmd.Flags().GetBool("no-journal")
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then ACADEMY_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return "", err
	}
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

// openStore opens the activity journal for a subcommand.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// newLogger builds the file logger named by the configuration.
func newLogger(cfg config.Config) (*log.Logger, func() error, error) {
	logger, closeLog, err := cfg.NewLogger()
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	return logger, closeLog, nil
}
