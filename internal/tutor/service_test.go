package tutor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pywebdev/academy/internal/catalog"
	"github.com/pywebdev/academy/internal/llm"
)

const validExplanationJSON = `{
	"title": "Lists Are Mutable",
	"explanation": "Tuples cannot change after creation, so they are not the mutable choice. Lists can be changed in place with append.",
	"key_point": "Use a list when the collection must grow."
}`

func testLesson(t *testing.T) catalog.LessonRef {
	t.Helper()
	c, err := catalog.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	ref, ok := c.FindLessonByID("core-concepts")
	if !ok {
		t.Fatal("core-concepts missing from catalog")
	}
	return ref
}

func wrongOption(ref catalog.LessonRef) int {
	for i, o := range ref.Content.Quiz.Options {
		if !o.IsCorrect {
			return i
		}
	}
	return -1
}

func TestService_Explain(t *testing.T) {
	script := llm.Script(llm.Step{JSON: validExplanationJSON})
	svc := NewService(script, DefaultConfig())
	ref := testLesson(t)
	chosen := wrongOption(ref)

	exp, err := svc.Explain(context.Background(), Input{Lesson: ref, Chosen: chosen})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exp.Title != "Lists Are Mutable" {
		t.Errorf("title = %q", exp.Title)
	}
	if exp.KeyPoint == "" {
		t.Error("expected key point")
	}
	if exp.LessonID != "core-concepts" {
		t.Errorf("lesson = %q", exp.LessonID)
	}

	prompts := script.Prompts()
	if len(prompts) != 1 {
		t.Fatalf("expected 1 call, got %d", len(prompts))
	}
	p := prompts[0]
	if p.Schema != ExplanationSchema {
		t.Error("expected explanation schema on prompt")
	}
	if p.MaxTokens != DefaultConfig().MaxTokens {
		t.Errorf("max tokens = %d", p.MaxTokens)
	}
	if !strings.Contains(p.User, ref.Content.Quiz.Question) {
		t.Error("prompt should include the quiz question")
	}
	if !strings.Contains(p.User, "The learner chose") {
		t.Error("prompt should name the chosen option")
	}

	tag := script.Tags()[0]
	want := llm.Tag{Purpose: Purpose, LessonID: "core-concepts", Option: chosen}
	if tag != want {
		t.Errorf("tag = %+v, want %+v", tag, want)
	}
}

func TestService_ExplainClientError(t *testing.T) {
	script := llm.Script(llm.Step{Err: &llm.Error{Kind: llm.Unavailable, Err: errors.New("down")}})
	svc := NewService(script, DefaultConfig())
	ref := testLesson(t)

	_, err := svc.Explain(context.Background(), Input{Lesson: ref, Chosen: 0})
	kind, ok := llm.KindOf(err)
	if !ok || kind != llm.Unavailable {
		t.Fatalf("expected Unavailable, got %v", err)
	}
}

func TestService_ExplainBadJSON(t *testing.T) {
	svc := NewService(llm.Script(llm.Step{JSON: `not json`}), DefaultConfig())
	ref := testLesson(t)

	if _, err := svc.Explain(context.Background(), Input{Lesson: ref, Chosen: 0}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParseExplanation(t *testing.T) {
	exp, err := ParseExplanation([]byte(validExplanationJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exp.Title != "Lists Are Mutable" || exp.LessonID != "" {
		t.Errorf("got %+v", exp)
	}
}

func TestBuildUserMessageValidation(t *testing.T) {
	ref := testLesson(t)

	if _, err := buildUserMessage(Input{Lesson: ref, Chosen: 99}); err == nil {
		t.Error("expected out-of-range error")
	}

	noQuiz := ref
	noQuiz.Content.Quiz = nil
	if _, err := buildUserMessage(Input{Lesson: noQuiz}); err == nil {
		t.Error("expected no-quiz error")
	}
}
