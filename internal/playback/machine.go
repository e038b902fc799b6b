// Package playback walks a Lesson Script the way a player does: one event
// at a time, advancing on autoplay completion of TEACH and WAIT events and
// on submitted responses to INTERACT events.
package playback

import (
	"errors"
	"fmt"
	"slices"

	"github.com/abhisek/lessonscript/internal/script"
)

var (
	// ErrNotInteractive is returned when a response is given while the
	// current event is not an INTERACT event.
	ErrNotInteractive = errors.New("current event does not accept responses")

	// ErrFinished is returned for any transition attempted after END.
	ErrFinished = errors.New("playback finished")

	// ErrUnknownEvent is returned when a pointer names no event.
	ErrUnknownEvent = errors.New("unknown event")
)

// Phase is the externally visible state of a machine.
type Phase int

const (
	PhasePresenting Phase = iota // TEACH or WAIT content is playing
	PhaseAwaiting                // INTERACT waiting for a submission
	PhaseFinished                // END reached
)

func (p Phase) String() string {
	switch p {
	case PhasePresenting:
		return "presenting"
	case PhaseAwaiting:
		return "awaiting"
	default:
		return "finished"
	}
}

// Trigger names what caused a transition.
type Trigger string

const (
	TriggerComplete Trigger = "complete"
	TriggerSubmit   Trigger = "submit"
	TriggerRestart  Trigger = "restart"
)

// Transition records one step of the machine.
type Transition struct {
	Trigger Trigger
	From    string
	To      string

	// Choice is the CHOICE event resolved on the way to To, if any.
	Choice string

	// Selected holds the responses recorded for the submitted INTERACT.
	Selected map[string][]string
}

// Machine is a single playback session. It never mutates the script and is
// not safe for concurrent use.
type Machine struct {
	script    *script.Script
	currentID string
	responses map[string][]string
}

// New starts a session at the script's start event.
func New(s *script.Script) (*Machine, error) {
	m := &Machine{script: s, responses: make(map[string][]string)}
	id, _, err := m.settle(s.StartEvent)
	if err != nil {
		return nil, err
	}
	m.currentID = id
	return m, nil
}

// Script returns the script being played.
func (m *Machine) Script() *script.Script { return m.script }

// CurrentID returns the current event id, or script.End when finished.
func (m *Machine) CurrentID() string { return m.currentID }

// Current returns the current event, or nil when finished.
func (m *Machine) Current() script.Event {
	if m.Done() {
		return nil
	}
	return m.script.Events[m.currentID]
}

// Done reports whether playback reached END.
func (m *Machine) Done() bool { return m.currentID == script.End }

// Phase reports what the machine is waiting for.
func (m *Machine) Phase() Phase {
	switch m.Current().(type) {
	case nil:
		return PhaseFinished
	case *script.Interact:
		return PhaseAwaiting
	default:
		return PhasePresenting
	}
}

// Complete signals that the current TEACH or WAIT event finished playing
// and moves to its next event.
func (m *Machine) Complete() (Transition, error) {
	var next string
	switch ev := m.Current().(type) {
	case nil:
		return Transition{}, ErrFinished
	case *script.Teach:
		next = ev.Next
	case *script.Wait:
		next = ev.Next
	default:
		return Transition{}, fmt.Errorf("cannot complete %s event %q", ev.Type(), m.currentID)
	}
	return m.advance(TriggerComplete, next, nil)
}

// Select records a selection on an MCQ element of the current INTERACT
// event. For SINGLE questions the key replaces any earlier selection; for
// MULTIPLE questions it toggles.
func (m *Machine) Select(elementID, key string) error {
	mcq, err := m.mcq(elementID)
	if err != nil {
		return err
	}
	if !mcq.Options.Has(key) {
		return fmt.Errorf("element %q has no option %q", elementID, key)
	}

	if mcq.QuestionType != script.Multiple {
		m.responses[elementID] = []string{key}
		return nil
	}
	cur := m.responses[elementID]
	if i := slices.Index(cur, key); i >= 0 {
		m.responses[elementID] = slices.Delete(slices.Clone(cur), i, i+1)
		return nil
	}
	m.responses[elementID] = append(slices.Clone(cur), key)
	return nil
}

// SetSelection replaces the selection for an MCQ element of the current
// INTERACT event.
func (m *Machine) SetSelection(elementID string, keys []string) error {
	return m.SetSelections(map[string][]string{elementID: keys})
}

// SetSelections replaces the selections of several MCQ elements at once.
// Every selection is checked before any is recorded, so a rejected one
// leaves the responses untouched.
func (m *Machine) SetSelections(selections map[string][]string) error {
	for elementID, keys := range selections {
		if err := m.checkSelection(elementID, keys); err != nil {
			return err
		}
	}
	for elementID, keys := range selections {
		m.responses[elementID] = slices.Clone(keys)
	}
	return nil
}

func (m *Machine) checkSelection(elementID string, keys []string) error {
	mcq, err := m.mcq(elementID)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if !mcq.Options.Has(key) {
			return fmt.Errorf("element %q has no option %q", elementID, key)
		}
	}
	if mcq.QuestionType != script.Multiple && len(keys) > 1 {
		return fmt.Errorf("element %q accepts a single option", elementID)
	}
	return nil
}

// Selected returns the recorded selection for an element.
func (m *Machine) Selected(elementID string) []string {
	return slices.Clone(m.responses[elementID])
}

// Submit resolves the current INTERACT event. When its next event is a
// CHOICE, the first branch whose condition matches the recorded responses
// wins and the last branch is the default.
func (m *Machine) Submit() (Transition, error) {
	ev := m.Current()
	if ev == nil {
		return Transition{}, ErrFinished
	}
	interact, ok := ev.(*script.Interact)
	if !ok {
		return Transition{}, ErrNotInteractive
	}

	selected := make(map[string][]string)
	for _, el := range interact.Whiteboard.Elements {
		if keys, ok := m.responses[el.ID()]; ok {
			selected[el.ID()] = slices.Clone(keys)
		}
	}
	return m.advance(TriggerSubmit, interact.Next, selected)
}

// Restart returns to the start event and clears every response. It is
// legal in any state.
func (m *Machine) Restart() (Transition, error) {
	from := m.currentID
	clear(m.responses)
	id, choice, err := m.settle(m.script.StartEvent)
	if err != nil {
		return Transition{}, err
	}
	m.currentID = id
	return Transition{Trigger: TriggerRestart, From: from, To: id, Choice: choice}, nil
}

// Responses returns a copy of every recorded selection.
func (m *Machine) Responses() map[string][]string {
	out := make(map[string][]string, len(m.responses))
	for id, keys := range m.responses {
		out[id] = slices.Clone(keys)
	}
	return out
}

func (m *Machine) advance(trigger Trigger, next string, selected map[string][]string) (Transition, error) {
	id, choice, err := m.settle(next)
	if err != nil {
		return Transition{}, err
	}
	tr := Transition{Trigger: trigger, From: m.currentID, To: id, Choice: choice, Selected: selected}
	m.currentID = id
	return tr, nil
}

// settle resolves id to the event playback rests on. CHOICE events are
// never rested on; they resolve immediately against the recorded
// responses. Nothing is changed when an error is returned.
func (m *Machine) settle(id string) (string, string, error) {
	var choice string
	for range len(m.script.Events) + 1 {
		if id == script.End {
			return id, choice, nil
		}
		ev, ok := m.script.Events[id]
		if !ok {
			return "", "", fmt.Errorf("%w: %q", ErrUnknownEvent, id)
		}
		c, ok := ev.(*script.Choice)
		if !ok {
			return id, choice, nil
		}
		next, ok := c.Resolve(m.responses)
		if !ok {
			return "", "", fmt.Errorf("choice %q has no branches", id)
		}
		choice, id = id, next
	}
	return "", "", fmt.Errorf("choice events starting at %q never settle", id)
}

func (m *Machine) mcq(elementID string) (*script.MCQElement, error) {
	ev := m.Current()
	if ev == nil {
		return nil, ErrFinished
	}
	interact, ok := ev.(*script.Interact)
	if !ok {
		return nil, ErrNotInteractive
	}
	for _, el := range interact.Whiteboard.Elements {
		if mcq, ok := el.(*script.MCQElement); ok && mcq.ElementID == elementID {
			return mcq, nil
		}
	}
	return nil, fmt.Errorf("event %q has no MCQ element %q", m.currentID, elementID)
}
