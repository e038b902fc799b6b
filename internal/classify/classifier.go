// Package classify labels lesson segments with pure pattern heuristics and
// extracts multiple-choice questions from question-like segments.
package classify

// Kind is the classification of a segment.
type Kind int

const (
	Narrative Kind = iota
	Equation
	Question
)

func (k Kind) String() string {
	switch k {
	case Equation:
		return "equation"
	case Question:
		return "question"
	default:
		return "narrative"
	}
}

// Classifier is a rule-based segment predicate.
type Classifier interface {
	Name() string
	Kind() Kind
	Match(segment string) bool
}

// DefaultClassifiers returns classifiers in priority order. Equation
// detection runs first, so a question containing notation is shown as an
// equation.
func DefaultClassifiers() []Classifier {
	return []Classifier{
		&EquationClassifier{},
		&QuestionClassifier{},
	}
}

// Run executes classifiers in order and returns the kind of the first
// match, or Narrative with an empty name if none apply.
func Run(classifiers []Classifier, segment string) (Kind, string) {
	for _, c := range classifiers {
		if c.Match(segment) {
			return c.Kind(), c.Name()
		}
	}
	return Narrative, ""
}

// Classify labels a segment with the default classifiers.
func Classify(segment string) Kind {
	k, _ := Run(DefaultClassifiers(), segment)
	return k
}

// EquationClassifier matches segments containing mathematical notation.
type EquationClassifier struct{}

func (c *EquationClassifier) Name() string { return "equation" }

func (c *EquationClassifier) Kind() Kind { return Equation }

func (c *EquationClassifier) Match(segment string) bool {
	return ContainsEquation(segment)
}

// QuestionClassifier matches question or exercise prompts.
type QuestionClassifier struct{}

func (c *QuestionClassifier) Name() string { return "question" }

func (c *QuestionClassifier) Kind() Kind { return Question }

func (c *QuestionClassifier) Match(segment string) bool {
	return IsQuestion(segment)
}
