package tutor

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a friendly Python and web development tutor. A learner just answered a multiple-choice quiz question incorrectly. Explain the mistake briefly and concretely, referring to Python, Flask, FastAPI or data-analysis practice as appropriate.`

func buildUserMessage(in Input) (string, error) {
	q := in.Lesson.Content.Quiz
	if q == nil {
		return "", fmt.Errorf("lesson %q has no quiz", in.Lesson.ID)
	}
	if in.Chosen < 0 || in.Chosen >= len(q.Options) {
		return "", fmt.Errorf("option %d out of range for lesson %q", in.Chosen, in.Lesson.ID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Lesson: %s (%s)\n", in.Lesson.Title, in.Lesson.CategoryName)
	if in.Lesson.Content.Explanation != "" {
		fmt.Fprintf(&b, "Lesson summary: %s\n", in.Lesson.Content.Explanation)
	}
	fmt.Fprintf(&b, "\nQuestion: %s\n", q.Question)
	for i, o := range q.Options {
		marker := " "
		if o.IsCorrect {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %c) %s\n", marker, 'A'+i, o.Text)
	}
	fmt.Fprintf(&b, "\nThe learner chose %c) %s\n", 'A'+in.Chosen, q.Options[in.Chosen].Text)
	fmt.Fprintf(&b, "Authored feedback for that choice: %s\n", q.Options[in.Chosen].Explanation)

	b.WriteString(`
Instructions:
1. Explain in 2-4 sentences why the chosen answer is wrong and why the starred answer is right.
2. Use a tiny inline code fragment if it helps. No markdown headings.
3. End with one key point the learner should remember.`)

	return b.String(), nil
}
