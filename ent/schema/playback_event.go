package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// PlaybackEvent records one transition of a lesson playback session.
type PlaybackEvent struct {
	ent.Schema
}

func (PlaybackEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (PlaybackEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("UUID grouping the transitions of one playback"),
		field.String("script_title").
			Default(""),
		field.String("trigger").
			NotEmpty().
			Comment("complete, submit or restart"),
		field.String("from_event").
			Comment("Event id left"),
		field.String("to_event").
			Comment("Event id entered, END when finished"),
		field.String("choice_event").
			Default("").
			Comment("CHOICE event resolved on the way, if any"),
		field.JSON("selected", map[string][]string{}).
			Optional().
			Comment("Option keys submitted per MCQ element id"),
	}
}

func (PlaybackEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("trigger"),
	}
}
