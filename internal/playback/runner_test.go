package playback

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/abhisek/lessonscript/internal/script"
)

func fastConfig() Config {
	return Config{SpeechDuration: time.Millisecond}
}

func TestRunnerPlaysToEnd(t *testing.T) {
	m := newMachine(t, quizLesson(t))

	var visited []string
	r := NewRunner(fastConfig(), WithObserver(func(tr Transition) {
		visited = append(visited, tr.To)
	}))

	var asked []string
	answer := InteractorFunc(func(_ context.Context, id string, ev *script.Interact) (map[string][]string, error) {
		asked = append(asked, id)
		mcq, _ := ev.MCQ()
		return map[string][]string{mcq.ElementID: {"B"}}, nil
	})

	if err := r.Run(t.Context(), m, answer); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"content1", "correct1", "content4", script.End}
	if !slices.Equal(visited, want) {
		t.Errorf("visited = %v, want %v", visited, want)
	}
	if !slices.Equal(asked, []string{"content1"}) {
		t.Errorf("asked = %v, want [content1]", asked)
	}
}

func TestRunnerCancelDuringSpeech(t *testing.T) {
	m := newMachine(t, quizLesson(t))
	r := NewRunner(Config{SpeechDuration: time.Hour})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := r.Run(ctx, m, InteractorFunc(func(context.Context, string, *script.Interact) (map[string][]string, error) {
		t.Fatal("interactor should not be called")
		return nil, nil
	}))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if m.CurrentID() != "intro" {
		t.Errorf("current = %s, want intro", m.CurrentID())
	}
}

func TestRunnerCancelDuringInteraction(t *testing.T) {
	m := newMachine(t, quizLesson(t))
	r := NewRunner(fastConfig())

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	err := r.Run(ctx, m, InteractorFunc(func(ctx context.Context, _ string, _ *script.Interact) (map[string][]string, error) {
		cancel()
		return map[string][]string{quizElement: {"B"}}, nil
	}))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if m.CurrentID() != "content1" {
		t.Errorf("current = %s, want content1", m.CurrentID())
	}
	if len(m.Selected(quizElement)) != 0 {
		t.Error("selection from an abandoned interaction was applied")
	}
}

func TestRunnerInteractorError(t *testing.T) {
	m := newMachine(t, quizLesson(t))
	boom := errors.New("boom")

	err := NewRunner(fastConfig()).Run(t.Context(), m, InteractorFunc(
		func(context.Context, string, *script.Interact) (map[string][]string, error) {
			return nil, boom
		}))
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestRunnerRejectedSelectionRecordsNothing(t *testing.T) {
	m := newMachine(t, quizLesson(t))
	r := NewRunner(fastConfig())

	err := r.Run(t.Context(), m, InteractorFunc(func(context.Context, string, *script.Interact) (map[string][]string, error) {
		return map[string][]string{quizElement: {"B"}, "no_such_element": {"A"}}, nil
	}))
	if err == nil {
		t.Fatal("expected an error for the unknown element")
	}
	if m.CurrentID() != "content1" {
		t.Errorf("current = %s, want content1", m.CurrentID())
	}
	if got := m.Responses(); len(got) != 0 {
		t.Errorf("responses = %v, want none recorded", got)
	}
}
