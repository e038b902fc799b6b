package lessons

import (
	"github.com/abhisek/lessonscript/internal/retrieval"
	"github.com/abhisek/lessonscript/internal/script"
)

// AdaptiveResult is the adaptive content for a request, plus the compiled
// script when one was asked for.
type AdaptiveResult struct {
	Content *retrieval.AdaptiveResponse
	Script  *script.Script
}

// TextInput is raw lesson text with the metadata used for its title.
type TextInput struct {
	Text string
	Meta retrieval.Metadata
}

// Summary describes a compiled script for event logging and listings.
type Summary struct {
	Title      string
	EventCount int
	QuizCount  int
}

// Summarize counts the events and quizzes of s.
func Summarize(s *script.Script) Summary {
	counts := s.Counts()
	return Summary{
		Title:      s.Title,
		EventCount: len(s.Events),
		QuizCount:  counts[script.TypeInteract],
	}
}

// Result is the outcome of a background generation.
type Result struct {
	Script *script.Script
	Err    error
}
