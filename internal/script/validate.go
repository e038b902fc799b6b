package script

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError lists every structural problem found in a script.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("lesson script validation failed:\n  %s", strings.Join(e.Problems, "\n  "))
}

// Validate performs all structural checks on s. It returns a
// *ValidationError describing every problem found, or nil if s is valid.
func Validate(s *Script) error {
	var errs []string

	if s.StartEvent == "" {
		errs = append(errs, "start event is empty")
	} else if _, ok := s.Events[s.StartEvent]; !ok {
		errs = append(errs, fmt.Sprintf("start event %q is not a lesson event", s.StartEvent))
	}
	if _, ok := s.Events[End]; ok {
		errs = append(errs, fmt.Sprintf("%q is reserved and cannot be an event id", End))
	}

	ids := sortedIDs(s)

	// Check for dangling forward pointers
	for _, id := range ids {
		for _, target := range s.Events[id].Targets() {
			if target == "" {
				errs = append(errs, fmt.Sprintf("event %q has an empty forward pointer", id))
				continue
			}
			if target == End {
				continue
			}
			if _, ok := s.Events[target]; !ok {
				errs = append(errs, fmt.Sprintf("event %q references nonexistent event %q", id, target))
			}
		}
	}

	// Check element ids are unique across the script
	owner := make(map[string]string)
	for _, id := range ids {
		for _, el := range ElementsOf(s.Events[id]) {
			if el.ID() == "" {
				errs = append(errs, fmt.Sprintf("event %q has an element without an id", id))
				continue
			}
			if prev, dup := owner[el.ID()]; dup {
				errs = append(errs, fmt.Sprintf("element id %q used by both %q and %q", el.ID(), prev, id))
				continue
			}
			owner[el.ID()] = id
		}
	}

	// Check interactive checkpoints and their choices
	for _, id := range ids {
		switch ev := s.Events[id].(type) {
		case *Interact:
			next, ok := s.Events[ev.Next]
			if !ok {
				continue
			}
			choice, isChoice := next.(*Choice)
			if !isChoice {
				errs = append(errs, fmt.Sprintf("interact event %q must point to a CHOICE event, got %s", id, next.Type()))
				continue
			}
			errs = append(errs, checkConditions(id, ev, ev.Next, choice)...)
		case *Choice:
			if len(ev.Choices) == 0 {
				errs = append(errs, fmt.Sprintf("choice event %q has no branches", id))
			}
		case *Wait:
			if ev.WaitTime < 0 {
				errs = append(errs, fmt.Sprintf("wait event %q has negative waitTime %d", id, ev.WaitTime))
			}
		}
	}

	if cycle := findCycle(s); len(cycle) > 0 {
		errs = append(errs, fmt.Sprintf("cycle detected involving events: %s", strings.Join(cycle, ", ")))
	}

	if len(errs) > 0 {
		return &ValidationError{Problems: errs}
	}
	return nil
}

// checkConditions verifies that every membership test of choice refers to
// an MCQ shown by the interact event and to one of its options.
func checkConditions(interactID string, ev *Interact, choiceID string, choice *Choice) []string {
	mcqs := make(map[string]*MCQElement)
	for _, el := range ev.Whiteboard.Elements {
		if m, ok := el.(*MCQElement); ok {
			mcqs[m.ElementID] = m
		}
	}

	var errs []string
	for i, b := range choice.Choices {
		if b.Condition.Default {
			continue
		}
		m, ok := mcqs[b.Condition.ElementID]
		if !ok {
			errs = append(errs, fmt.Sprintf("choice %q branch %d tests element %q not shown by %q",
				choiceID, i, b.Condition.ElementID, interactID))
			continue
		}
		if !m.Options.Has(b.Condition.OptionKey) {
			errs = append(errs, fmt.Sprintf("choice %q branch %d tests unknown option %q of %q",
				choiceID, i, b.Condition.OptionKey, m.ElementID))
		}
	}
	return errs
}

// findCycle runs Kahn's algorithm over the events reachable from the start
// event and returns the ids left with incoming edges, i.e. those on or
// behind a cycle. It returns nil for an acyclic graph.
func findCycle(s *Script) []string {
	reachable := Reachable(s)
	if len(reachable) == 0 {
		return nil
	}

	inDegree := make(map[string]int, len(reachable))
	adjList := make(map[string][]string, len(reachable))
	for id := range reachable {
		for _, target := range s.Events[id].Targets() {
			if !reachable[target] {
				continue
			}
			inDegree[target]++
			adjList[id] = append(adjList[id], target)
		}
	}

	var queue []string
	for id := range reachable {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, next := range adjList[id] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if visited == len(reachable) {
		return nil
	}
	var cycle []string
	for id := range reachable {
		if inDegree[id] > 0 {
			cycle = append(cycle, id)
		}
	}
	slices.Sort(cycle)
	return cycle
}

// Reachable returns the set of event ids reachable from the start event,
// following every forward pointer. END and dangling ids are excluded.
func Reachable(s *Script) map[string]bool {
	seen := make(map[string]bool)
	if _, ok := s.Events[s.StartEvent]; !ok {
		return seen
	}
	stack := []string{s.StartEvent}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			continue
		}
		seen[id] = true
		for _, target := range s.Events[id].Targets() {
			if _, ok := s.Events[target]; ok && !seen[target] {
				stack = append(stack, target)
			}
		}
	}
	return seen
}

// Unreachable returns the sorted ids of events no walk from the start can
// reach.
func Unreachable(s *Script) []string {
	reachable := Reachable(s)
	var out []string
	for _, id := range sortedIDs(s) {
		if !reachable[id] {
			out = append(out, id)
		}
	}
	return out
}

func sortedIDs(s *Script) []string {
	ids := make([]string, 0, len(s.Events))
	for id := range s.Events {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
