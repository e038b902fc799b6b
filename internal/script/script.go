// Package script defines the Lesson Script: the compiled graph of typed,
// timed events consumed by lesson players.
//
// A Script is an immutable value once compiled. Every forward pointer of an
// event names either another key of Events or the terminal sentinel End.
package script

// End is the terminal event id. It is never a key of Script.Events.
const End = "END"

// Script is a compiled lesson.
type Script struct {
	Title      string
	StartEvent string
	Events     map[string]Event

	// Chapter and Subject are set by the lesson service and omitted from
	// the wire format when empty.
	Chapter string
	Subject string
}

// New returns an empty script with the given title and start event.
func New(title, start string) *Script {
	return &Script{
		Title:      title,
		StartEvent: start,
		Events:     make(map[string]Event),
	}
}

// Event returns the event with the given id.
func (s *Script) Event(id string) (Event, bool) {
	ev, ok := s.Events[id]
	return ev, ok
}

// Elements returns every whiteboard element of every event, keyed by
// element id. Later duplicates overwrite earlier ones.
func (s *Script) Elements() map[string]Element {
	out := make(map[string]Element)
	for _, ev := range s.Events {
		for _, el := range ElementsOf(ev) {
			out[el.ID()] = el
		}
	}
	return out
}

// Counts tallies events by type.
func (s *Script) Counts() map[EventType]int {
	out := make(map[EventType]int, 4)
	for _, ev := range s.Events {
		out[ev.Type()]++
	}
	return out
}
