package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pywebdev/academy/internal/catalog"
	"github.com/pywebdev/academy/internal/llm"
	"github.com/pywebdev/academy/internal/store"
	"github.com/pywebdev/academy/internal/tutor"
)

var tutorCmd = &cobra.Command{
	Use:   "tutor",
	Short: "Review quiz tutor requests from the activity journal",
}

var tutorLogCmd = &cobra.Command{
	Use:   "log",
	Short: "List recent tutor requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		lessonID, _ := cmd.Flags().GetString("lesson")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		c, err := catalog.Load()
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}

		reqs, err := s.EventRepo().TutorRequests(cmd.Context(), store.QueryOpts{Limit: limit, LessonID: lessonID})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(reqs) == 0 {
			fmt.Fprintln(out, "No tutor requests recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-16s  %-36s  %-3s  %-28s  %s\n", "ID", "Time", "Lesson", "Ans", "Model", "Result")
		fmt.Fprintln(out, strings.Repeat("─", 104))
		for _, r := range reqs {
			fmt.Fprintf(out, "%-5d  %-16s  %-36s  %-3s  %-28s  %s\n",
				r.ID,
				r.Timestamp.Local().Format("2006-01-02 15:04"),
				truncate(lessonTitle(c, r.LessonID), 36),
				optionLetter(r.OptionIndex),
				truncate(r.Model, 28),
				result(r),
			)
		}
		return nil
	},
}

var tutorShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the question, the chosen answer and the tutor's explanation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q", args[0])
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		c, err := catalog.Load()
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}

		r, err := s.EventRepo().TutorRequest(cmd.Context(), id)
		if err != nil {
			return err
		}
		if r == nil {
			return fmt.Errorf("tutor request %d not found", id)
		}
		printTutorRequest(cmd.OutOrStdout(), c, r)
		return nil
	},
}

func printTutorRequest(out io.Writer, c *catalog.Catalog, r *store.TutorRequest) {
	sep := strings.Repeat("─", 60)
	fmt.Fprintf(out, "Lesson:   %s (%s)\n", lessonTitle(c, r.LessonID), r.LessonID)
	fmt.Fprintf(out, "Time:     %s\n", r.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Model:    %s via %s, %d in / %d out, %dms\n",
		r.Model, r.Provider, r.InputTokens, r.OutputTokens, r.LatencyMs)

	if ref, ok := c.FindLessonByID(r.LessonID); ok && ref.Content.Quiz != nil {
		q := ref.Content.Quiz
		fmt.Fprintln(out)
		fmt.Fprintln(out, q.Question)
		for i, o := range q.Options {
			mark := " "
			switch {
			case i == r.OptionIndex:
				mark = ">"
			case o.IsCorrect:
				mark = "*"
			}
			fmt.Fprintf(out, "%s %c) %s\n", mark, 'a'+i, o.Text)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, sep)
	if !r.Success {
		fmt.Fprintf(out, "Failed: %s\n", r.ErrorMessage)
		if r.Reply != "" {
			fmt.Fprintf(out, "Reply:  %s\n", r.Reply)
		}
		return
	}
	exp, err := tutor.ParseExplanation([]byte(r.Reply))
	if err != nil {
		fmt.Fprintln(out, r.Reply)
		return
	}
	fmt.Fprintln(out, exp.Title)
	fmt.Fprintln(out)
	fmt.Fprintln(out, exp.Explanation)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Key point: %s\n", exp.KeyPoint)
}

var tutorUsageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show tutor token usage and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		usage, err := s.EventRepo().TutorUsage(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(usage) == 0 {
			fmt.Fprintln(out, "No tutor requests recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-32s  %6s  %6s  %10s  %10s  %8s  %9s\n", "Model", "Calls", "Failed", "Input", "Output", "Avg Ms", "Cost")
		fmt.Fprintln(out, strings.Repeat("─", 92))
		var total float64
		var unpriced []string
		for _, u := range usage {
			cost := "?"
			if usd, ok := llm.Cost(u.Model, u.InputTokens, u.OutputTokens); ok {
				total += usd
				cost = formatCost(usd)
			} else {
				unpriced = append(unpriced, u.Model)
			}
			fmt.Fprintf(out, "%-32s  %6d  %6d  %10d  %10d  %8d  %9s\n",
				truncate(u.Model, 32), u.Calls, u.Failures, u.InputTokens, u.OutputTokens, u.AvgLatencyMs, cost)
		}
		fmt.Fprintln(out, strings.Repeat("─", 92))
		label := "TOTAL"
		if len(unpriced) > 0 {
			label = "TOTAL (partial)"
		}
		fmt.Fprintf(out, "%-32s  %62s\n", label, formatCost(total))
		if len(unpriced) > 0 {
			fmt.Fprintf(out, "\nPricing unavailable for: %s\n", strings.Join(unpriced, ", "))
		}
		return nil
	},
}

func lessonTitle(c *catalog.Catalog, id string) string {
	if ref, ok := c.FindLessonByID(id); ok {
		return ref.Title
	}
	if id == "" {
		return "-"
	}
	return id
}

func optionLetter(i int) string {
	if i < 0 {
		return "-"
	}
	return string(rune('a' + i))
}

func result(r store.TutorRequest) string {
	if r.Success {
		return "ok"
	}
	kind, _, _ := strings.Cut(strings.TrimPrefix(r.ErrorMessage, "llm: "), ":")
	if kind == "" {
		return "failed"
	}
	return kind
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	tutorLogCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	tutorLogCmd.Flags().StringP("lesson", "l", "", "Only requests about this lesson ID")

	tutorCmd.AddCommand(tutorLogCmd)
	tutorCmd.AddCommand(tutorShowCmd)
	tutorCmd.AddCommand(tutorUsageCmd)
}
