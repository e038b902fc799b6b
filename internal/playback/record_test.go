package playback

import (
	"context"
	"errors"
	"testing"

	"github.com/abhisek/lessonscript/internal/store"
)

type memAppender struct {
	events []store.PlaybackEventData
	err    error
}

func (a *memAppender) AppendPlayback(_ context.Context, data store.PlaybackEventData) error {
	a.events = append(a.events, data)
	return a.err
}

func TestRecorderStoresTransitions(t *testing.T) {
	app := &memAppender{}
	observe := Recorder(t.Context(), app, "sess-1", "Counting - Grade 3 CBSE", nil)

	observe(Transition{Trigger: TriggerComplete, From: "intro", To: "content1"})
	observe(Transition{
		Trigger:  TriggerSubmit,
		From:     "content2",
		To:       "correct2",
		Choice:   "choice2",
		Selected: map[string][]string{"mcq_1": {"B"}},
	})

	if len(app.events) != 2 {
		t.Fatalf("recorded %d events, want 2", len(app.events))
	}
	got := app.events[1]
	if got.SessionID != "sess-1" || got.ScriptTitle != "Counting - Grade 3 CBSE" {
		t.Errorf("session/title = %q/%q", got.SessionID, got.ScriptTitle)
	}
	if got.Trigger != "submit" || got.FromEvent != "content2" || got.ToEvent != "correct2" || got.ChoiceEvent != "choice2" {
		t.Errorf("event = %+v", got)
	}
	if keys := got.Selected["mcq_1"]; len(keys) != 1 || keys[0] != "B" {
		t.Errorf("selected = %v", got.Selected)
	}
}

func TestRecorderIgnoresStorageErrors(t *testing.T) {
	app := &memAppender{err: errors.New("database is locked")}
	observe := Recorder(t.Context(), app, "sess-2", "t", nil)

	observe(Transition{Trigger: TriggerRestart, From: "content1", To: "intro"})

	if len(app.events) != 1 {
		t.Errorf("expected the append to be attempted once, got %d", len(app.events))
	}
}

func TestNewSessionIDUnique(t *testing.T) {
	if NewSessionID() == NewSessionID() {
		t.Error("session ids should differ")
	}
}
