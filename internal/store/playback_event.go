package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

var playbackColumns = []string{
	"session_id", "script_title", "trigger", "from_event", "to_event", "choice_event", "selected",
}

func (r *eventRepo) AppendPlayback(ctx context.Context, data PlaybackEventData) error {
	var selected any
	if len(data.Selected) > 0 {
		raw, err := json.Marshal(data.Selected)
		if err != nil {
			return fmt.Errorf("encode selection: %w", err)
		}
		selected = string(raw)
	}

	err := r.insert(ctx, TablePlaybackEvents, playbackColumns,
		data.SessionID,
		data.ScriptTitle,
		data.Trigger,
		data.FromEvent,
		data.ToEvent,
		data.ChoiceEvent,
		selected,
	)
	if err != nil {
		return fmt.Errorf("save playback event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryPlaybackEvents(ctx context.Context, opts QueryOpts) ([]PlaybackEventRecord, error) {
	query, args := selectEvents(TablePlaybackEvents, opts, playbackColumns...)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query playback events: %w", err)
	}
	defer rows.Close()

	var out []PlaybackEventRecord
	for rows.Next() {
		var (
			rec      PlaybackEventRecord
			selected sql.NullString
		)
		d := &rec.PlaybackEventData
		err := rows.Scan(append(scanMeta(&rec.EventMeta),
			&d.SessionID, &d.ScriptTitle, &d.Trigger, &d.FromEvent, &d.ToEvent, &d.ChoiceEvent, &selected)...)
		if err != nil {
			return nil, fmt.Errorf("scan playback event: %w", err)
		}
		if selected.Valid && selected.String != "" {
			if err := json.Unmarshal([]byte(selected.String), &d.Selected); err != nil {
				return nil, fmt.Errorf("decode selection of event %d: %w", rec.ID, err)
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
