package script

import "fmt"

// DefaultPath walks the script from its start event, following each
// event's next pointer and each CHOICE's default (last) branch, and returns
// the visited ids ending with End. It fails on a dangling pointer or when an
// event is visited twice.
func DefaultPath(s *Script) ([]string, error) {
	var path []string
	seen := make(map[string]bool)

	id := s.StartEvent
	for id != End {
		if seen[id] {
			return path, fmt.Errorf("default path revisits %q", id)
		}
		seen[id] = true

		ev, ok := s.Events[id]
		if !ok {
			return path, fmt.Errorf("default path reaches nonexistent event %q", id)
		}
		path = append(path, id)

		switch e := ev.(type) {
		case *Choice:
			next, ok := e.Default()
			if !ok {
				return path, fmt.Errorf("choice event %q has no branches", id)
			}
			id = next
		default:
			id = ev.Targets()[0]
		}
	}
	return append(path, End), nil
}
