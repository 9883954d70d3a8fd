package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SessionEvent records an app launch or exit.
type SessionEvent struct {
	ent.Schema
}

func (SessionEvent) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "session_events"}}
}

func (SessionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (SessionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("UUID of the running app"),
		field.String("action").
			NotEmpty().
			Comment("start or end"),
		field.Int("lessons_completed").
			Default(0).
			Comment("First completions this session (end only)"),
		field.Int("quizzes_answered").
			Default(0).
			Comment("Quiz answers this session (end only)"),
		field.Int("duration_secs").
			Default(0).
			Comment("Session length (end only)"),
	}
}

func (SessionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
	}
}
