package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// TutorRequestEvent records one call to the quiz tutor's language model,
// filed under the lesson and answer that prompted it.
type TutorRequestEvent struct {
	ent.Schema
}

func (TutorRequestEvent) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "tutor_request_events"}}
}

func (TutorRequestEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (TutorRequestEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("provider").
			Comment("anthropic, openai, gemini or openrouter"),
		field.String("model").
			Comment("Model that served the call"),
		field.String("purpose"),
		field.String("lesson_id").
			Default(""),
		field.Int("option_index").
			Default(-1).
			Comment("Chosen quiz option, -1 when not tied to an answer"),
		field.Int("input_tokens").
			Default(0),
		field.Int("output_tokens").
			Default(0),
		field.Int64("latency_ms").
			Default(0),
		field.Bool("success"),
		field.String("error_message").
			Optional(),
		field.Text("prompt").
			Optional().
			Comment("User turn sent to the model"),
		field.Text("reply").
			Optional().
			Comment("Raw JSON the model answered with"),
	}
}

func (TutorRequestEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("lesson_id"),
		index.Fields("purpose"),
	}
}
