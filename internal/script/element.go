package script

// ElementType discriminates whiteboard element variants on the wire.
type ElementType string

const (
	ElementText     ElementType = "TEXT"
	ElementEquation ElementType = "EQUATION"
	ElementMCQ      ElementType = "MCQ"
	ElementTable2   ElementType = "TABLE2"
)

// QuestionType selects single or multiple selection for an MCQ.
type QuestionType string

const (
	Single   QuestionType = "SINGLE"
	Multiple QuestionType = "MULTIPLE"
)

// AnimationFadeIn is the entrance animation used for compiled content.
const AnimationFadeIn = "FADE_IN"

// Element is a visual unit on the whiteboard. Implementations are
// *TextElement, *EquationElement, *MCQElement and *Table2Element.
type Element interface {
	ElementType() ElementType
	ID() string
	isElement()
}

// Style holds rendering hints. Zero values are omitted.
type Style struct {
	FontSize   int    `json:"fontSize,omitempty"`
	FontWeight string `json:"fontWeight,omitempty"`
	TextAlign  string `json:"textAlign,omitempty"`
	Width      int    `json:"width,omitempty"`
}

// Animation describes an entrance effect.
type Animation struct {
	Type     string `json:"type"`
	Duration int    `json:"duration"`
}

// FadeIn returns the single fade-in animation of the given duration in ms.
func FadeIn(ms int) []Animation {
	return []Animation{{Type: AnimationFadeIn, Duration: ms}}
}

// TextElement shows text. Content may contain inline HTML line breaks.
type TextElement struct {
	ElementID string      `json:"elementId"`
	Content   string      `json:"content"`
	Style     Style       `json:"style"`
	Animation []Animation `json:"animation,omitempty"`
}

func (*TextElement) ElementType() ElementType { return ElementText }
func (e *TextElement) ID() string             { return e.ElementID }
func (*TextElement) isElement()               {}

// EquationElement shows KaTeX markup.
type EquationElement struct {
	ElementID    string      `json:"elementId"`
	KatexContent string      `json:"katexContent"`
	Style        Style       `json:"style"`
	Animation    []Animation `json:"animation,omitempty"`
}

func (*EquationElement) ElementType() ElementType { return ElementEquation }
func (e *EquationElement) ID() string             { return e.ElementID }
func (*EquationElement) isElement()               {}

// MCQElement is a multiple-choice question. CorrectOptions is a best-effort
// guess and may be wrong.
type MCQElement struct {
	ElementID      string       `json:"elementId"`
	QuestionType   QuestionType `json:"questionType"`
	Question       string       `json:"question"`
	Options        Options      `json:"options"`
	CorrectOptions []string     `json:"correctOptions"`
	Style          Style        `json:"style"`
}

func (*MCQElement) ElementType() ElementType { return ElementMCQ }
func (e *MCQElement) ID() string             { return e.ElementID }
func (*MCQElement) isElement()               {}

// CorrectText returns the display text of the correct options in order.
func (e *MCQElement) CorrectText() []string {
	out := make([]string, 0, len(e.CorrectOptions))
	for _, key := range e.CorrectOptions {
		if text, ok := e.Options.Get(key); ok {
			out = append(out, text)
		}
	}
	return out
}

// Table2Element is a simple table with an optional highlighted cell.
type Table2Element struct {
	ElementID    string     `json:"elementId"`
	Header       []string   `json:"header"`
	Content      [][]string `json:"content"`
	RenderBorder bool       `json:"renderBorder,omitempty"`
	HeaderStyle  *Style     `json:"headerStyle,omitempty"`
	ContentStyle *Style     `json:"contentStyle,omitempty"`
	RowIndex     *int       `json:"rowIndex,omitempty"`
	ColumnIndex  *int       `json:"columnIndex,omitempty"`
	Style        Style      `json:"style"`
}

func (*Table2Element) ElementType() ElementType { return ElementTable2 }
func (e *Table2Element) ID() string             { return e.ElementID }
func (*Table2Element) isElement()               {}

// Option is one MCQ answer.
type Option struct {
	Key  string
	Text string
}

// Options is the ordered set of MCQ answers. Slice order is display order;
// on the wire it is a JSON object whose key order is preserved.
type Options []Option

// Get returns the text for key.
func (o Options) Get(key string) (string, bool) {
	for _, opt := range o {
		if opt.Key == key {
			return opt.Text, true
		}
	}
	return "", false
}

// Has reports whether key is one of the options.
func (o Options) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Keys returns option keys in display order.
func (o Options) Keys() []string {
	out := make([]string, len(o))
	for i, opt := range o {
		out[i] = opt.Key
	}
	return out
}
