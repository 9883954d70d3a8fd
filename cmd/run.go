package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pywebdev/academy/internal/app"
	"github.com/pywebdev/academy/internal/catalog"
	"github.com/pywebdev/academy/internal/llm"
	"github.com/pywebdev/academy/internal/tutor"
)

// runApp loads the catalog, opens the optional journal and tutor, and
// launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	c, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	opts := app.Options{
		Catalog:  c,
		Logger:   logger,
		RunDelay: cfg.RunDelay,
	}

	var sink llm.Sink
	if !cfg.NoJournal {
		st, err := openStore(cmd)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Activity journal unavailable:", err)
		} else {
			defer st.Close()
			opts.EventRepo = st.EventRepo()
			sink = st.EventRepo()
		}
	}

	client, err := llm.FromEnv(ctx, sink, logger)
	if err != nil {
		logger.Info("tutor disabled", "err", err)
	} else {
		opts.Tutor = tutor.NewService(client, tutor.DefaultConfig())
	}

	logger.Info("starting", "version", version, "journal", opts.EventRepo != nil, "tutor", opts.Tutor != nil)
	return app.Run(opts)
}
