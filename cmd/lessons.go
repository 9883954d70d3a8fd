package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pywebdev/academy/internal/catalog"
	"github.com/pywebdev/academy/internal/state"
)

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "Browse the lesson catalog without starting the TUI",
}

var lessonsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories and lessons",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := catalog.Load()
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		only, _ := cmd.Flags().GetString("category")
		if only != "" {
			if _, ok := c.Category(only); !ok {
				return fmt.Errorf("unknown category %q", only)
			}
		}
		out := cmd.OutOrStdout()
		for _, cat := range c.Categories() {
			if only != "" && cat.ID != only {
				continue
			}
			fmt.Fprintf(out, "%s %s (%s)\n", cat.Icon, cat.Name, cat.ID)
			for i, l := range cat.Lessons {
				fmt.Fprintf(out, "  %2d. %-44s %-28s %s\n", i+1, l.Title, l.ID, l.Meta.Duration)
			}
		}
		fmt.Fprintf(out, "\n%d lessons\n", c.TotalLessons())
		return nil
	},
}

var lessonsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one lesson",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := catalog.Load()
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		ref, ok := c.FindLessonByID(args[0])
		if !ok {
			return fmt.Errorf("lesson %q not found", args[0])
		}
		printLesson(cmd.OutOrStdout(), ref)
		return nil
	},
}

var lessonsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search lesson titles and category names",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := catalog.Load()
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		query := strings.Join(args, " ")
		results := state.Search(c, query)
		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintf(out, "No lessons match %q (queries need at least %d characters).\n", query, state.MinQueryLength)
			return nil
		}
		for _, r := range results {
			fmt.Fprintf(out, "%-28s %-44s %s\n", r.LessonID, r.Title, r.Category)
		}
		return nil
	},
}

func printLesson(w io.Writer, ref catalog.LessonRef) {
	sep := strings.Repeat("─", 60)
	fmt.Fprintln(w, ref.Title)
	fmt.Fprintln(w, ref.Subtitle)
	fmt.Fprintf(w, "%s · %s · %s\n", ref.CategoryName, ref.Meta.Duration, ref.Meta.Difficulty)
	if ref.Content.Explanation != "" {
		fmt.Fprintln(w, sep)
		fmt.Fprintln(w, strings.TrimSpace(ref.Content.Explanation))
	}
	if ex := ref.Content.CodeExample; ex != nil {
		fmt.Fprintln(w, sep)
		fmt.Fprintln(w, ex.DisplayFilename())
		fmt.Fprintln(w, strings.TrimRight(ex.Code, "\n"))
	}
	if q := ref.Content.Quiz; q != nil {
		fmt.Fprintln(w, sep)
		fmt.Fprintln(w, q.Question)
		for i, o := range q.Options {
			fmt.Fprintf(w, "  %c) %s\n", 'a'+i, o.Text)
		}
	}
}

func init() {
	lessonsListCmd.Flags().StringP("category", "c", "", "Only list lessons in this category")

	lessonsCmd.AddCommand(lessonsListCmd)
	lessonsCmd.AddCommand(lessonsShowCmd)
	lessonsCmd.AddCommand(lessonsSearchCmd)
}
