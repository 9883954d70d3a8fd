package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase the activity journal",
	Long:  "Erase every recorded session, completion, quiz answer and tutor request. Progress shown in the app is never stored, so this only affects stats and activity.",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return errors.New("refusing to erase the journal without --yes")
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.EventRepo().Clear(context.Background()); err != nil {
			return fmt.Errorf("clear journal: %w", err)
		}
		fmt.Println("Activity journal erased.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm erasing the journal")
}
