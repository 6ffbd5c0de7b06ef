package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AnswerEvent records one judged click on the fretboard.
type AnswerEvent struct {
	ent.Schema
}

func (AnswerEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AnswerEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("Links to SessionEvent"),
		field.Int("question_number").
			Positive().
			Comment("1-based question index within the session"),
		field.Int("string_num").
			Range(1, 6).
			Comment("String of the target position, 1 is high E"),
		field.Int("fret").
			NonNegative().
			Comment("Fret of the target position"),
		field.String("target").
			NotEmpty().
			Comment("Target note with octave, e.g. E2"),
		field.String("clicked").
			NotEmpty().
			Comment("Note the player chose"),
		field.Bool("correct"),
		field.Int("attempt").
			Positive().
			Comment("Attempt number for this question"),
		field.Int("answer_ms").
			NonNegative().
			Comment("Milliseconds from question shown to answer"),
	}
}

func (AnswerEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("string_num", "fret"),
		index.Fields("session_id"),
	}
}
