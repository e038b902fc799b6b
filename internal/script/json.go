package script

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type scriptWire struct {
	Title        string                     `json:"title"`
	StartEvent   string                     `json:"startEvent"`
	LessonEvents map[string]json.RawMessage `json:"lessonEvents"`
	Chapter      string                     `json:"chapter,omitempty"`
	Subject      string                     `json:"subject,omitempty"`
}

func (s *Script) MarshalJSON() ([]byte, error) {
	events := make(map[string]json.RawMessage, len(s.Events))
	for id, ev := range s.Events {
		raw, err := json.Marshal(ev)
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", id, err)
		}
		events[id] = raw
	}
	return json.Marshal(scriptWire{
		Title:        s.Title,
		StartEvent:   s.StartEvent,
		LessonEvents: events,
		Chapter:      s.Chapter,
		Subject:      s.Subject,
	})
}

func (s *Script) UnmarshalJSON(data []byte) error {
	var w scriptWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	events := make(map[string]Event, len(w.LessonEvents))
	for id, raw := range w.LessonEvents {
		ev, err := DecodeEvent(raw)
		if err != nil {
			return fmt.Errorf("event %q: %w", id, err)
		}
		events[id] = ev
	}
	*s = Script{
		Title:      w.Title,
		StartEvent: w.StartEvent,
		Events:     events,
		Chapter:    w.Chapter,
		Subject:    w.Subject,
	}
	return nil
}

// Parse decodes a Lesson Script document.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode lesson script: %w", err)
	}
	return &s, nil
}

type typeHeader struct {
	Type string `json:"type"`
}

type presenterWire struct {
	Type       EventType  `json:"type"`
	Next       string     `json:"next"`
	Avatar     Avatar     `json:"avatar"`
	Speech     Speech     `json:"speech"`
	Whiteboard Whiteboard `json:"whiteboard"`
}

type branchWire struct {
	Condition Condition `json:"condition"`
	Value     bool      `json:"value"`
	NextEvent string    `json:"nextEvent"`
}

type choiceWire struct {
	Type    EventType    `json:"type"`
	Choices []branchWire `json:"choices"`
}

type waitWire struct {
	Type     EventType `json:"type"`
	WaitTime int       `json:"waitTime"`
	Next     string    `json:"next"`
}

// DecodeEvent decodes a single event, dispatching on its type field.
func DecodeEvent(raw json.RawMessage) (Event, error) {
	var h typeHeader
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, err
	}

	switch EventType(h.Type) {
	case TypeTeach, TypeInteract:
		var w presenterWire
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		if w.Type == TypeInteract {
			return &Interact{Next: w.Next, Avatar: w.Avatar, Speech: w.Speech, Whiteboard: w.Whiteboard}, nil
		}
		return &Teach{Next: w.Next, Avatar: w.Avatar, Speech: w.Speech, Whiteboard: w.Whiteboard}, nil
	case TypeChoice:
		var w choiceWire
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		c := &Choice{Choices: make([]Branch, len(w.Choices))}
		for i, b := range w.Choices {
			c.Choices[i] = Branch{Condition: b.Condition, NextEvent: b.NextEvent}
		}
		return c, nil
	case TypeWait:
		var w waitWire
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return &Wait{WaitTime: w.WaitTime, Next: w.Next}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", h.Type)
	}
}

func (t *Teach) MarshalJSON() ([]byte, error) {
	return json.Marshal(presenterWire{
		Type: TypeTeach, Next: t.Next, Avatar: t.Avatar, Speech: t.Speech, Whiteboard: t.Whiteboard,
	})
}

func (i *Interact) MarshalJSON() ([]byte, error) {
	return json.Marshal(presenterWire{
		Type: TypeInteract, Next: i.Next, Avatar: i.Avatar, Speech: i.Speech, Whiteboard: i.Whiteboard,
	})
}

func (c *Choice) MarshalJSON() ([]byte, error) {
	w := choiceWire{Type: TypeChoice, Choices: make([]branchWire, len(c.Choices))}
	for i, b := range c.Choices {
		w.Choices[i] = branchWire{Condition: b.Condition, Value: true, NextEvent: b.NextEvent}
	}
	return json.Marshal(w)
}

func (w *Wait) MarshalJSON() ([]byte, error) {
	return json.Marshal(waitWire{Type: TypeWait, WaitTime: w.WaitTime, Next: w.Next})
}

func (wb Whiteboard) MarshalJSON() ([]byte, error) {
	elements := wb.Elements
	if elements == nil {
		elements = []Element{}
	}
	return json.Marshal(struct {
		Elements []Element `json:"elements"`
	}{elements})
}

func (wb *Whiteboard) UnmarshalJSON(data []byte) error {
	var w struct {
		Elements []json.RawMessage `json:"elements"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	wb.Elements = make([]Element, 0, len(w.Elements))
	for i, raw := range w.Elements {
		el, err := DecodeElement(raw)
		if err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		wb.Elements = append(wb.Elements, el)
	}
	return nil
}

// DecodeElement decodes a single whiteboard element, dispatching on its
// type field.
func DecodeElement(raw json.RawMessage) (Element, error) {
	var h typeHeader
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, err
	}

	var el Element
	switch ElementType(h.Type) {
	case ElementText:
		el = &TextElement{}
	case ElementEquation:
		el = &EquationElement{}
	case ElementMCQ:
		el = &MCQElement{}
	case ElementTable2:
		el = &Table2Element{}
	default:
		return nil, fmt.Errorf("unknown element type %q", h.Type)
	}
	if err := json.Unmarshal(raw, el); err != nil {
		return nil, err
	}
	return el, nil
}

func (e *TextElement) MarshalJSON() ([]byte, error) {
	type alias TextElement
	return json.Marshal(struct {
		Type ElementType `json:"type"`
		*alias
	}{ElementText, (*alias)(e)})
}

func (e *EquationElement) MarshalJSON() ([]byte, error) {
	type alias EquationElement
	return json.Marshal(struct {
		Type ElementType `json:"type"`
		*alias
	}{ElementEquation, (*alias)(e)})
}

func (e *MCQElement) MarshalJSON() ([]byte, error) {
	type alias MCQElement
	return json.Marshal(struct {
		Type ElementType `json:"type"`
		*alias
	}{ElementMCQ, (*alias)(e)})
}

func (e *Table2Element) MarshalJSON() ([]byte, error) {
	type alias Table2Element
	return json.Marshal(struct {
		Type ElementType `json:"type"`
		*alias
	}{ElementTable2, (*alias)(e)})
}

func (o Options) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, opt := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(opt.Key)
		if err != nil {
			return nil, err
		}
		text, err := json.Marshal(opt.Text)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(text)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON keeps the key order of the JSON object.
func (o *Options) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*o = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("options must be an object")
	}

	var out Options
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("option key must be a string")
		}
		var text string
		if err := dec.Decode(&text); err != nil {
			return fmt.Errorf("option %q: %w", key, err)
		}
		out = append(out, Option{Key: key, Text: text})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*o = out
	return nil
}
