package script

import (
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
)

// defaultCondition is the wire form of the unconditional branch.
const defaultCondition = "true"

var includesPattern = regexp.MustCompile(`^\$includes\(\$([A-Za-z0-9_\-]+),\s*'([^']*)'\)$`)

// Condition is a CHOICE branch guard: either a membership test "the
// selection for ElementID contains OptionKey", or the unconditional default.
//
// On the wire a membership test is written $includes($<elementId>, '<key>')
// and the default is the literal true. No other expressions are accepted.
type Condition struct {
	ElementID string
	OptionKey string
	Default   bool
}

// Includes returns a membership condition.
func Includes(elementID, optionKey string) Condition {
	return Condition{ElementID: elementID, OptionKey: optionKey}
}

// Otherwise returns the unconditional default condition.
func Otherwise() Condition {
	return Condition{Default: true}
}

// Matches evaluates the condition against recorded selections keyed by
// element id.
func (c Condition) Matches(responses map[string][]string) bool {
	if c.Default {
		return true
	}
	return slices.Contains(responses[c.ElementID], c.OptionKey)
}

func (c Condition) String() string {
	if c.Default {
		return defaultCondition
	}
	return fmt.Sprintf("$includes($%s, '%s')", c.ElementID, c.OptionKey)
}

// ParseCondition parses the wire form of a condition.
func ParseCondition(s string) (Condition, error) {
	if s == defaultCondition {
		return Otherwise(), nil
	}
	m := includesPattern.FindStringSubmatch(s)
	if m == nil {
		return Condition{}, fmt.Errorf("unsupported condition %q", s)
	}
	return Includes(m[1], m[2]), nil
}

func (c Condition) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Condition) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("condition must be a string: %w", err)
	}
	parsed, err := ParseCondition(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
