package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// SessionEvent records session lifecycle events.
type SessionEvent struct {
	ent.Schema
}

func (SessionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (SessionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("UUID grouping events in a session"),
		field.Enum("action").
			Values("started", "completed", "abandoned"),
		field.String("zone").
			Default("").
			Comment("Zone name (on started, and completed when known)"),
		field.Int("questions_completed").Default(0),
		field.Int("correct_answers").Default(0),
		field.Int("hints_used").Default(0),
		field.Int("total_attempts").Default(0),
		field.Int("accuracy").
			Optional().
			Nillable().
			Comment("Rounded percentage, null when nothing was answered"),
	}
}
