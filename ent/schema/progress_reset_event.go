package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
)

// ProgressResetEvent records the learner clearing their completed lessons.
type ProgressResetEvent struct {
	ent.Schema
}

func (ProgressResetEvent) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "progress_reset_events"}}
}

func (ProgressResetEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (ProgressResetEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id"),
		field.Int("cleared").
			Comment("Completed lessons before the reset"),
	}
}
