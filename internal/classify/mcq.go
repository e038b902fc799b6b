package classify

import (
	"regexp"
	"strings"

	"github.com/abhisek/lessonscript/internal/script"
)

// MinOptions is the fewest options an extracted MCQ may have.
const MinOptions = 2

// MCQ is a multiple-choice question recovered from a segment.
type MCQ struct {
	Question       string
	Options        script.Options
	CorrectOptions []string
	QuestionType   script.QuestionType
}

var (
	optionCues  = []string{"A)", "a)", "option", "Options"}
	optionLine  = regexp.MustCompile(`^\(?([A-Da-d])\)?[\s.:)]+(.+)$`)
	correctMark = regexp.MustCompile(`(?i)\s*\(correct\)|\s*✓`)
)

// HasOptionCue reports whether segment mentions an option marker.
func HasOptionCue(segment string) bool {
	for _, cue := range optionCues {
		if strings.Contains(segment, cue) {
			return true
		}
	}
	return false
}

// ExtractMCQ recovers a multiple-choice question from a question-like
// segment with an option cue. The first line is the question; each later
// line of the form "(B) text", "B) text", "b. text" or "B: text" is an
// option keyed by its upper-case letter.
//
// A line containing "correct" (any case) or a check mark marks its option
// as the answer; the last marked line wins. When no line is marked the
// first option is assumed correct. Extraction fails when fewer than
// MinOptions options are found.
func ExtractMCQ(segment string) (*MCQ, bool) {
	if !HasOptionCue(segment) || !IsQuestion(segment) {
		return nil, false
	}

	lines := strings.Split(segment, "\n")
	mcq := &MCQ{
		Question:     strings.TrimSpace(lines[0]),
		QuestionType: script.Single,
	}

	var marked string
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		m := optionLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key := strings.ToUpper(m[1])
		if mcq.Options.Has(key) {
			continue
		}

		text := strings.TrimSpace(m[2])
		if strings.Contains(strings.ToLower(line), "correct") || strings.Contains(line, "✓") {
			marked = key
			if stripped := strings.TrimSpace(correctMark.ReplaceAllString(text, "")); stripped != "" {
				text = stripped
			}
		}
		mcq.Options = append(mcq.Options, script.Option{Key: key, Text: text})
	}

	if len(mcq.Options) < MinOptions {
		return nil, false
	}

	if marked == "" {
		marked = mcq.Options[0].Key
	}
	mcq.CorrectOptions = []string{marked}
	return mcq, true
}
