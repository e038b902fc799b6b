package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo with ent's SQL builders and the global
// sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequence
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// insert appends a row to table, prefixing the sequence and timestamp
// columns shared by every event.
func (r *eventRepo) insert(ctx context.Context, table string, columns []string, values ...any) error {
	seqNum, err := r.seq.next(ctx)
	if err != nil {
		return err
	}

	query, args := builder().Insert(table).
		Columns(append([]string{"sequence", "timestamp"}, columns...)...).
		Values(append([]any{seqNum, time.Now().UTC()}, values...)...).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

// selectEvents builds a newest-first query over table honoring opts. The
// id, sequence and timestamp columns come first.
func selectEvents(table string, opts QueryOpts, columns ...string) (string, []any) {
	sel := builder().
		Select(append([]string{"id", "sequence", "timestamp"}, columns...)...).
		From(entsql.Table(table))

	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", opts.To.UTC()))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}

	sel.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	return sel.Query()
}

func scanMeta(m *EventMeta) []any {
	return []any{&m.ID, &m.Sequence, &m.Timestamp}
}
