package store

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	entschema "entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	"github.com/abhisek/lessonscript/ent/schema"
)

// Table names of the event log.
const (
	TableCompileEvents    = "compile_events"
	TablePlaybackEvents   = "playback_events"
	TableLLMRequestEvents = "llm_request_events"
)

// eventSchemas maps each table to the ent schema describing it.
var eventSchemas = []struct {
	table  string
	schema ent.Interface
}{
	{TableCompileEvents, schema.CompileEvent{}},
	{TablePlaybackEvents, schema.PlaybackEvent{}},
	{TableLLMRequestEvents, schema.LLMRequestEvent{}},
}

// Tables returns the migration tables built from the ent schema
// definitions: an auto-increment id, the mixin fields, the schema fields
// and every declared index.
func Tables() []*entschema.Table {
	tables := make([]*entschema.Table, 0, len(eventSchemas))
	for _, es := range eventSchemas {
		tables = append(tables, tableFor(es.table, es.schema))
	}
	return tables
}

func tableFor(name string, s ent.Interface) *entschema.Table {
	t := entschema.NewTable(name).
		AddPrimary(&entschema.Column{Name: "id", Type: field.TypeInt, Increment: true})

	var (
		fields  []ent.Field
		indexes []ent.Index
	)
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	for _, f := range fields {
		d := f.Descriptor()
		col := &entschema.Column{
			Name:     d.Name,
			Type:     d.Info.Type,
			Unique:   d.Unique,
			Nullable: d.Optional,
			Comment:  d.Comment,
		}
		if d.Default != nil && reflect.TypeOf(d.Default).Kind() != reflect.Func {
			col.Default = d.Default
		}
		t.AddColumn(col)
	}

	for _, idx := range indexes {
		d := idx.Descriptor()
		t.AddIndex(name+"_"+strings.Join(d.Fields, "_"), d.Unique, d.Fields)
	}
	return t
}

func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := entschema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	return m.Create(ctx, Tables()...)
}
