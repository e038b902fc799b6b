// Package retrieval is the boundary to the upstream knowledge service that
// answers lesson and chat requests with raw text plus metadata.
package retrieval

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Defaults applied when the upstream omits metadata.
const (
	DefaultGrade    = 9
	DefaultBoard    = "CBSE"
	DefaultLanguage = "english"
	DefaultTopic    = "unknown_topic"
	DefaultMastery  = 0.5
)

// LessonRequest asks the upstream for lesson content. Message is the chat
// question; for lessons it may be empty.
type LessonRequest struct {
	Topic            string   `json:"topic"`
	Board            string   `json:"board"`
	Grade            int      `json:"grade"`
	Subtopic         string   `json:"subtopic,omitempty"`
	Message          string   `json:"message,omitempty"`
	Language         string   `json:"language,omitempty"`
	MethodPreference []string `json:"method_preference,omitempty"`
}

// Validate checks that topic, board and grade are present.
func (r LessonRequest) Validate() error {
	if missing := r.missing(); len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}

// ValidateChat additionally requires a message.
func (r LessonRequest) ValidateChat() error {
	missing := r.missing()
	if strings.TrimSpace(r.Message) == "" {
		missing = append([]string{"message"}, missing...)
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}

func (r LessonRequest) missing() []string {
	var out []string
	if strings.TrimSpace(r.Topic) == "" {
		out = append(out, "topic")
	}
	if strings.TrimSpace(r.Board) == "" {
		out = append(out, "board")
	}
	if r.Grade <= 0 {
		out = append(out, "grade")
	}
	return out
}

// WithDefaults returns a copy with the language defaulted.
func (r LessonRequest) WithDefaults() LessonRequest {
	if r.Language == "" {
		r.Language = DefaultLanguage
	}
	return r
}

// ContentMetadata describes one retrieved source chunk.
type ContentMetadata struct {
	Subtopic    string   `json:"subtopic,omitempty"`
	ContentType string   `json:"content_type,omitempty"`
	MethodTags  []string `json:"method_tags,omitempty"`
}

// FilterApplied echoes the metadata filter the upstream searched with.
type FilterApplied struct {
	Grade int    `json:"grade,omitempty"`
	Board string `json:"board,omitempty"`
}

// LessonResponse is the upstream answer. Every field is optional.
type LessonResponse struct {
	Answer           string            `json:"answer"`
	ContentMetadata  []ContentMetadata `json:"content_metadata,omitempty"`
	FilterApplied    FilterApplied     `json:"filter_applied"`
	Topic            string            `json:"topic,omitempty"`
	GradeAppropriate *bool             `json:"grade_appropriate,omitempty"`
	GradeMessage     string            `json:"grade_message,omitempty"`
	RecommendedGrade int               `json:"recommended_grade,omitempty"`
	CurrentGrade     int               `json:"current_grade,omitempty"`
	Chapter          string            `json:"chapter,omitempty"`
	Subject          string            `json:"subject,omitempty"`
	Error            string            `json:"error,omitempty"`
}

// Inappropriate reports whether the upstream flagged the topic as not
// suitable for the requested grade.
func (r *LessonResponse) Inappropriate() bool {
	return r.GradeAppropriate != nil && !*r.GradeAppropriate
}

// Metadata is the lesson metadata derived from a response with defaults
// applied.
type Metadata struct {
	Topic    string
	Subtopic string
	Grade    int
	Board    string
}

// Metadata returns the response metadata with defaults for absent fields.
func (r *LessonResponse) Metadata() Metadata {
	m := Metadata{
		Topic: r.Topic,
		Grade: r.FilterApplied.Grade,
		Board: r.FilterApplied.Board,
	}
	if m.Topic == "" {
		m.Topic = DefaultTopic
	}
	if len(r.ContentMetadata) > 0 {
		m.Subtopic = r.ContentMetadata[0].Subtopic
	}
	if m.Grade == 0 {
		m.Grade = DefaultGrade
	}
	if m.Board == "" {
		m.Board = DefaultBoard
	}
	return m
}

// ParseLessonResponse decodes an upstream response document.
func ParseLessonResponse(data []byte) (*LessonResponse, error) {
	var resp LessonResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AdaptiveRequest asks for content matched to the learner's level.
type AdaptiveRequest struct {
	Topic    string `json:"topic"`
	Board    string `json:"board"`
	Grade    int    `json:"grade"`
	Subtopic string `json:"subtopic,omitempty"`
	Language string `json:"language,omitempty"`
}

// Validate checks that topic, board and grade are present.
func (r AdaptiveRequest) Validate() error {
	return LessonRequest{Topic: r.Topic, Board: r.Board, Grade: r.Grade}.Validate()
}

// AdaptiveItem is one recommended piece of content.
type AdaptiveItem struct {
	Text        string `json:"text"`
	ContentType string `json:"content_type,omitempty"`
	Subtopic    string `json:"subtopic,omitempty"`
}

// AdaptiveResponse is the upstream adaptive-content answer.
type AdaptiveResponse struct {
	AdaptiveContent  []AdaptiveItem `json:"adaptive_content"`
	GradeAppropriate *bool          `json:"grade_appropriate,omitempty"`
	Message          string         `json:"message,omitempty"`
}

// PathRequest asks for a learning path through a topic. A nil
// MasteryLevel means DefaultMastery.
type PathRequest struct {
	Topic           string   `json:"topic"`
	Board           string   `json:"board"`
	Grade           int      `json:"grade"`
	CurrentSubtopic string   `json:"current_subtopic,omitempty"`
	MasteryLevel    *float64 `json:"mastery_level,omitempty"`
}

// Mastery returns the mastery level with the default applied.
func (r PathRequest) Mastery() float64 {
	if r.MasteryLevel == nil {
		return DefaultMastery
	}
	return *r.MasteryLevel
}

// Validate checks that topic, board and grade are present and that the
// mastery level is within [0, 1].
func (r PathRequest) Validate() error {
	if err := (LessonRequest{Topic: r.Topic, Board: r.Board, Grade: r.Grade}).Validate(); err != nil {
		return err
	}
	if m := r.Mastery(); m < 0 || m > 1 {
		return fmt.Errorf("%w: mastery_level must be between 0 and 1", ErrInvalidRequest)
	}
	return nil
}

// LearningPath is the upstream learning path. Its shape is owned by the
// upstream and passed through untouched.
type LearningPath = json.RawMessage
