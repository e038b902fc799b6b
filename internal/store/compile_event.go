package store

import (
	"context"
	"fmt"
)

var compileColumns = []string{
	"source", "title", "topic", "grade", "board", "outcome",
	"event_count", "quiz_count", "latency_ms", "error_message",
}

func (r *eventRepo) AppendCompile(ctx context.Context, data CompileEventData) error {
	err := r.insert(ctx, TableCompileEvents, compileColumns,
		data.Source,
		data.Title,
		data.Topic,
		data.Grade,
		data.Board,
		data.Outcome,
		data.EventCount,
		data.QuizCount,
		data.LatencyMs,
		data.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("save compile event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryCompileEvents(ctx context.Context, opts QueryOpts) ([]CompileEventRecord, error) {
	query, args := selectEvents(TableCompileEvents, opts, compileColumns...)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query compile events: %w", err)
	}
	defer rows.Close()

	var out []CompileEventRecord
	for rows.Next() {
		var rec CompileEventRecord
		d := &rec.CompileEventData
		err := rows.Scan(append(scanMeta(&rec.EventMeta),
			&d.Source, &d.Title, &d.Topic, &d.Grade, &d.Board, &d.Outcome,
			&d.EventCount, &d.QuizCount, &d.LatencyMs, &d.ErrorMessage)...)
		if err != nil {
			return nil, fmt.Errorf("scan compile event: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
