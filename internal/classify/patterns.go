package classify

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// equationPatterns are the triggers of ContainsEquation.
var equationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)[a-z]\^[0-9]`),
	regexp.MustCompile(`\\frac\{.*\}\{.*\}`),
	regexp.MustCompile(`(?i)\([a-z0-9 ]*[+\-*/^\\][a-z0-9+\-*/^\\ ]*\)`),
	regexp.MustCompile(`(?i)[a-z][0-9]=[0-9]`),
	regexp.MustCompile(`(?i)[a-z]²`),
	regexp.MustCompile(`[=<>≤≥]`),
	regexp.MustCompile(`(?i)\b\d+[a-z]\b`),
}

var (
	tryThis    = regexp.MustCompile(`(?i)try\s+this`)
	listMarker = regexp.MustCompile(`^\s*(\d+\.|\*|-)\s+`)
)

// questionCues are case-sensitive phrases that mark an exercise prompt.
var questionCues = []string{"calculate", "Find the", "Solve", "What is"}

// ContainsEquation reports whether segment contains exponent notation
// (x^2), a \frac, a parenthesized expression with an operator ((x+2)),
// a variable equality (x2=4), a unicode square (x²), a relational operator
// (= < > ≤ ≥) or a coefficient (2x).
func ContainsEquation(segment string) bool {
	for _, p := range equationPatterns {
		if p.MatchString(segment) {
			return true
		}
	}
	return false
}

// IsQuestion reports whether segment ends with "?" after trimming, contains
// one of "calculate", "Find the", "Solve" or "What is", or says "try this"
// in any case.
func IsQuestion(segment string) bool {
	if strings.HasSuffix(strings.TrimSpace(segment), "?") {
		return true
	}
	for _, cue := range questionCues {
		if strings.Contains(segment, cue) {
			return true
		}
	}
	return tryThis.MatchString(segment)
}

// ContainsList reports whether segment starts with a list marker (1. * -),
// mentions "Step 1" or "First", or is a short segment about "steps".
func ContainsList(segment string) bool {
	return listMarker.MatchString(segment) ||
		strings.Contains(segment, "Step 1") ||
		strings.Contains(segment, "First") ||
		(strings.Contains(segment, "steps") && utf8.RuneCountInString(segment) < 150)
}
