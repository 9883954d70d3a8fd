package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// QuizAnswerEvent records every quiz answer, right or wrong.
type QuizAnswerEvent struct {
	ent.Schema
}

func (QuizAnswerEvent) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "quiz_answer_events"}}
}

func (QuizAnswerEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (QuizAnswerEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id"),
		field.String("lesson_id").
			NotEmpty(),
		field.Int("option_index").
			Comment("Zero-based index of the chosen option"),
		field.Bool("correct"),
	}
}

func (QuizAnswerEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("lesson_id", "correct"),
	}
}
