package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pywebdev/academy/internal/selfupdate"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update academy to the latest release",
	RunE: func(cmd *cobra.Command, args []string) error {
		checkOnly, _ := cmd.Flags().GetBool("check")
		target, _ := cmd.Flags().GetString("to")
		out := cmd.OutOrStdout()

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		u := selfupdate.NewUpdater(selfupdate.NewReleases(selfupdate.WithTimeout(2 * time.Minute)))
		plan, err := u.Plan(ctx, version, target)
		switch {
		case errors.Is(err, selfupdate.ErrDevBuild):
			fmt.Fprintln(out, "Cannot update a development build. Install a release build first.")
			return nil
		case errors.Is(err, selfupdate.ErrAlreadyLatest):
			fmt.Fprintf(out, "Already running the latest version (%s).\n", version)
			return nil
		case err != nil:
			return err
		}

		if checkOnly {
			fmt.Fprintf(out, "academy %s is available (running %s).\n%s\n", plan.Release.Tag, version, plan.Release.URL)
			return nil
		}

		err = u.Apply(ctx, plan, func(_ selfupdate.Stage, msg string) {
			fmt.Fprintln(out, msg)
		})
		if os.IsPermission(err) {
			return fmt.Errorf("%w\n\nTry running: sudo academy update", err)
		}
		return err
	},
}

func init() {
	updateCmd.Flags().Bool("check", false, "Only report whether a newer release exists")
	updateCmd.Flags().String("to", "", "Install this release tag instead of the latest (allows downgrades)")
}
