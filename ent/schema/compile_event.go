package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// CompileEvent records every lesson script compilation.
type CompileEvent struct {
	ent.Schema
}

func (CompileEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (CompileEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("source").
			NotEmpty().
			Comment("Where the text came from: rag, llm, chat, adaptive, text, response"),
		field.String("title").
			Default("").
			Comment("Compiled script title"),
		field.String("topic").
			Default("").
			Comment("Requested topic key, e.g. quadratic_equations"),
		field.Int("grade").
			Default(0),
		field.String("board").
			Default(""),
		field.String("outcome").
			NotEmpty().
			Comment("compiled, not_appropriate, upstream_error or failed"),
		field.Int("event_count").
			Default(0),
		field.Int("quiz_count").
			Default(0).
			Comment("INTERACT events in the script"),
		field.Int64("latency_ms").
			Default(0).
			Comment("Upstream plus compile wall-clock time"),
		field.String("error_message").
			Default(""),
	}
}

func (CompileEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("topic"),
		index.Fields("outcome"),
	}
}
