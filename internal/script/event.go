package script

// EventType discriminates the Event variants on the wire.
type EventType string

const (
	TypeTeach    EventType = "TEACH"
	TypeInteract EventType = "INTERACT"
	TypeChoice   EventType = "CHOICE"
	TypeWait     EventType = "WAIT"
)

// Gesture is a symbolic avatar pose resolved to an asset by the renderer.
type Gesture string

const (
	GestureWelcome Gesture = "WELCOME"
	GestureExplain Gesture = "EXPLAIN"
	GesturePoint   Gesture = "POINT"
	GestureThink   Gesture = "THINK"
)

// Event is a node of the lesson graph. The set of implementations is
// closed: *Teach, *Interact, *Choice and *Wait.
type Event interface {
	Type() EventType
	// Targets returns the forward pointers of the event in order.
	Targets() []string
	isEvent()
}

// Avatar carries the gesture shown while an event plays.
type Avatar struct {
	Gesture Gesture `json:"gesture"`
}

// Speech carries SSML narration.
type Speech struct {
	Content string `json:"content"`
}

// Whiteboard is the ordered list of visual elements shown with an event.
type Whiteboard struct {
	Elements []Element `json:"elements"`
}

// Teach narrates content and then continues to Next.
type Teach struct {
	Next       string
	Avatar     Avatar
	Speech     Speech
	Whiteboard Whiteboard
}

func (*Teach) Type() EventType     { return TypeTeach }
func (t *Teach) Targets() []string { return []string{t.Next} }
func (*Teach) isEvent()            {}

// Interact poses a checkpoint and waits for a user response. Next names the
// CHOICE event that resolves the response.
type Interact struct {
	Next       string
	Avatar     Avatar
	Speech     Speech
	Whiteboard Whiteboard
}

func (*Interact) Type() EventType     { return TypeInteract }
func (i *Interact) Targets() []string { return []string{i.Next} }
func (*Interact) isEvent()            {}

// MCQ returns the first multiple-choice element on the whiteboard.
func (i *Interact) MCQ() (*MCQElement, bool) {
	for _, el := range i.Whiteboard.Elements {
		if m, ok := el.(*MCQElement); ok {
			return m, true
		}
	}
	return nil, false
}

// Branch is one entry of a CHOICE event.
type Branch struct {
	Condition Condition
	NextEvent string
}

// Choice routes to the first branch whose condition matches the recorded
// responses. The last branch is the default when none match.
type Choice struct {
	Choices []Branch
}

func (*Choice) Type() EventType { return TypeChoice }
func (*Choice) isEvent()        {}

func (c *Choice) Targets() []string {
	out := make([]string, len(c.Choices))
	for i, b := range c.Choices {
		out[i] = b.NextEvent
	}
	return out
}

// Resolve returns the next event id for the given responses: the first
// matching branch, else the last branch. ok is false for an empty choice.
func (c *Choice) Resolve(responses map[string][]string) (next string, ok bool) {
	if len(c.Choices) == 0 {
		return "", false
	}
	for _, b := range c.Choices {
		if b.Condition.Matches(responses) {
			return b.NextEvent, true
		}
	}
	return c.Choices[len(c.Choices)-1].NextEvent, true
}

// Default returns the target of the last branch.
func (c *Choice) Default() (string, bool) {
	if len(c.Choices) == 0 {
		return "", false
	}
	return c.Choices[len(c.Choices)-1].NextEvent, true
}

// Wait pauses for WaitTime milliseconds and continues to Next.
type Wait struct {
	WaitTime int
	Next     string
}

func (*Wait) Type() EventType     { return TypeWait }
func (w *Wait) Targets() []string { return []string{w.Next} }
func (*Wait) isEvent()            {}

// ElementsOf returns the whiteboard elements of TEACH and INTERACT events.
func ElementsOf(ev Event) []Element {
	switch e := ev.(type) {
	case *Teach:
		return e.Whiteboard.Elements
	case *Interact:
		return e.Whiteboard.Elements
	}
	return nil
}

// SpeechOf returns the speech markup of TEACH and INTERACT events.
func SpeechOf(ev Event) string {
	switch e := ev.(type) {
	case *Teach:
		return e.Speech.Content
	case *Interact:
		return e.Speech.Content
	}
	return ""
}

// GestureOf returns the avatar gesture of TEACH and INTERACT events.
func GestureOf(ev Event) Gesture {
	switch e := ev.(type) {
	case *Teach:
		return e.Avatar.Gesture
	case *Interact:
		return e.Avatar.Gesture
	}
	return ""
}
