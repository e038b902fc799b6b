package playback

import (
	"context"

	"github.com/google/uuid"

	"github.com/abhisek/lessonscript/internal/logging"
	"github.com/abhisek/lessonscript/internal/store"
)

// Appender persists playback events. store.EventRepo satisfies it.
type Appender interface {
	AppendPlayback(ctx context.Context, data store.PlaybackEventData) error
}

// NewSessionID returns a fresh playback session id.
func NewSessionID() string {
	return uuid.NewString()
}

// Recorder returns an observer that stores every transition of one
// session. Storage failures are logged and otherwise ignored.
func Recorder(ctx context.Context, app Appender, sessionID, title string, log *logging.Logger) func(Transition) {
	if log == nil {
		log = logging.Nop()
	}
	ctx = context.WithoutCancel(ctx)

	return func(tr Transition) {
		err := app.AppendPlayback(ctx, store.PlaybackEventData{
			SessionID:   sessionID,
			ScriptTitle: title,
			Trigger:     string(tr.Trigger),
			FromEvent:   tr.From,
			ToEvent:     tr.To,
			ChoiceEvent: tr.Choice,
			Selected:    tr.Selected,
		})
		if err != nil {
			log.Warn("record playback event", "session_id", sessionID, "error", err)
		}
	}
}
