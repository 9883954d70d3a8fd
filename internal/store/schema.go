package store

import (
	"fmt"
	"reflect"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/pywebdev/academy/ent/schema"
)

var (
	SessionEventsTable = tableOf(entschema.SessionEvent{})
	LessonEventsTable  = tableOf(entschema.LessonCompletedEvent{})
	QuizEventsTable    = tableOf(entschema.QuizAnswerEvent{})
	ResetEventsTable   = tableOf(entschema.ProgressResetEvent{})
	TutorRequestsTable = tableOf(entschema.TutorRequestEvent{})

	// Tables holds every journal table, in migration order.
	Tables = []*schema.Table{
		SessionEventsTable,
		LessonEventsTable,
		QuizEventsTable,
		ResetEventsTable,
		TutorRequestsTable,
	}

	sessionEventsTable = SessionEventsTable.Name
	lessonEventsTable  = LessonEventsTable.Name
	quizEventsTable    = QuizEventsTable.Name
	resetEventsTable   = ResetEventsTable.Name
	tutorRequestTable  = TutorRequestsTable.Name
)

// tableOf turns an ent schema declaration into the table the migrator
// creates: an auto-increment id, then mixin fields, then the schema's own.
func tableOf(s ent.Interface) *schema.Table {
	t := schema.NewTable(tableName(s))
	t.AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt, Increment: true})

	fields := make([]ent.Field, 0)
	indexes := make([]ent.Index, 0)
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	for _, f := range fields {
		t.AddColumn(columnOf(t.Name, f.Descriptor()))
	}
	for _, idx := range indexes {
		d := idx.Descriptor()
		name := t.Name + "_" + strings.Join(d.Fields, "_")
		t.AddIndex(name, d.Unique, d.Fields)
	}
	return t
}

func tableName(s ent.Interface) string {
	for _, a := range s.Annotations() {
		if ann, ok := a.(entsql.Annotation); ok && ann.Table != "" {
			return ann.Table
		}
	}
	panic(fmt.Sprintf("store: schema %T has no table annotation", s))
}

func columnOf(table string, d *field.Descriptor) *schema.Column {
	if d.Err != nil {
		panic(fmt.Sprintf("store: %s.%s: %v", table, d.Name, d.Err))
	}
	c := &schema.Column{
		Name:     d.Name,
		Type:     d.Info.Type,
		Unique:   d.Unique,
		Nullable: d.Optional,
		Size:     int64(d.Size),
	}
	// Function defaults are applied by the writer, not the database.
	if d.Default != nil && reflect.TypeOf(d.Default).Kind() != reflect.Func {
		c.Default = d.Default
	}
	return c
}
