package playback

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/lessonscript/internal/script"
)

// Interactor answers INTERACT events. Respond blocks until the learner
// submits and returns the selections keyed by element id.
type Interactor interface {
	Respond(ctx context.Context, eventID string, ev *script.Interact) (map[string][]string, error)
}

// InteractorFunc adapts a function to Interactor.
type InteractorFunc func(ctx context.Context, eventID string, ev *script.Interact) (map[string][]string, error)

func (f InteractorFunc) Respond(ctx context.Context, eventID string, ev *script.Interact) (map[string][]string, error) {
	return f(ctx, eventID, ev)
}

// Runner drives a Machine to END, sleeping through autoplay events and
// blocking on the Interactor for INTERACT events.
type Runner struct {
	cfg      Config
	observer func(Transition)
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithObserver registers fn to receive every transition.
func WithObserver(fn func(Transition)) RunnerOption {
	return func(r *Runner) { r.observer = fn }
}

// NewRunner returns a Runner with the given timing.
func NewRunner(cfg Config, opts ...RunnerOption) *Runner {
	r := &Runner{cfg: cfg}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run plays m until END. On cancellation it returns ctx.Err() and leaves
// the machine on the last fully applied event.
func (r *Runner) Run(ctx context.Context, m *Machine, in Interactor) error {
	for !m.Done() {
		var (
			tr  Transition
			err error
		)
		switch ev := m.Current().(type) {
		case *script.Interact:
			tr, err = r.interact(ctx, m, in, ev)
		default:
			if err := sleep(ctx, Duration(ev, r.cfg)); err != nil {
				return err
			}
			tr, err = m.Complete()
		}
		if err != nil {
			return err
		}
		if r.observer != nil {
			r.observer(tr)
		}
	}
	return nil
}

func (r *Runner) interact(ctx context.Context, m *Machine, in Interactor, ev *script.Interact) (Transition, error) {
	id := m.CurrentID()
	selections, err := in.Respond(ctx, id, ev)
	if err != nil {
		return Transition{}, fmt.Errorf("respond to %s: %w", id, err)
	}
	if err := ctx.Err(); err != nil {
		return Transition{}, err
	}
	if err := m.SetSelections(selections); err != nil {
		return Transition{}, err
	}
	return m.Submit()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
