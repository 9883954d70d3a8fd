package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// LessonCompletedEvent records the first completion of a lesson in a session.
type LessonCompletedEvent struct {
	ent.Schema
}

func (LessonCompletedEvent) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "lesson_completed_events"}}
}

func (LessonCompletedEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (LessonCompletedEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id"),
		field.String("lesson_id").
			NotEmpty(),
		field.String("category_id").
			Comment("Category the lesson belonged to when completed"),
	}
}

func (LessonCompletedEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("lesson_id"),
	}
}
