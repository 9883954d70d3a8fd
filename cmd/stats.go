package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pywebdev/academy/internal/catalog"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics from the activity journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		c, err := catalog.Load()
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}

		sum, err := s.EventRepo().Summary(context.Background())
		if err != nil {
			return fmt.Errorf("summarize journal: %w", err)
		}
		if sum.Sessions == 0 {
			fmt.Println("No activity recorded yet.")
			return nil
		}

		fmt.Println("Learning Statistics")
		fmt.Println(strings.Repeat("─", 40))
		fmt.Printf("%-22s %d\n", "Sessions", sum.Sessions)
		fmt.Printf("%-22s %s\n", "Time spent", (time.Duration(sum.TotalTimeSecs) * time.Second).String())
		fmt.Printf("%-22s %d/%d\n", "Lessons completed", sum.DistinctLessons, c.TotalLessons())
		fmt.Printf("%-22s %d\n", "Completions", sum.Completions)
		if sum.QuizAnswers > 0 {
			fmt.Printf("%-22s %d/%d (%.0f%%)\n", "Quiz answers correct", sum.QuizCorrect, sum.QuizAnswers, sum.QuizAccuracy()*100)
		}
		fmt.Printf("%-22s %d\n", "Progress resets", sum.Resets)
		if !sum.LastActivity.IsZero() {
			fmt.Printf("%-22s %s\n", "Last activity", sum.LastActivity.Local().Format("2006-01-02 15:04"))
		}

		if len(sum.CompletedLessons) > 0 {
			fmt.Println()
			fmt.Println("Completed lessons")
			fmt.Println(strings.Repeat("─", 40))
			for _, id := range sum.CompletedLessons {
				title := id
				if ref, ok := c.FindLessonByID(id); ok {
					title = ref.Title
				}
				fmt.Printf("  ✓ %s\n", title)
			}
		}
		return nil
	},
}
