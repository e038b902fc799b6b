package retrieval

import (
	"context"

	"github.com/abhisek/lessonscript/internal/llm"
	"github.com/abhisek/lessonscript/internal/logging"
)

// LLMSource answers lesson and chat requests by prompting a language model
// directly. It applies the topic grade table itself; adaptive content and
// learning paths need the RAG index and are not supported.
type LLMSource struct {
	provider llm.Provider
	log      *logging.Logger
}

// NewLLMSource creates a source backed by provider.
func NewLLMSource(provider llm.Provider, log *logging.Logger) *LLMSource {
	if log == nil {
		log = logging.Nop()
	}
	return &LLMSource{provider: provider, log: log}
}

func (s *LLMSource) Lesson(ctx context.Context, req LessonRequest) (*LessonResponse, error) {
	req = req.WithDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.generate(llm.WithPurpose(ctx, llm.PurposeLesson), "lesson", req)
}

func (s *LLMSource) Chat(ctx context.Context, req LessonRequest) (*LessonResponse, error) {
	req = req.WithDefaults()
	if err := req.ValidateChat(); err != nil {
		return nil, err
	}
	return s.generate(llm.WithPurpose(ctx, llm.PurposeChat), "chat", req)
}

func (s *LLMSource) generate(ctx context.Context, op string, req LessonRequest) (*LessonResponse, error) {
	ok, gradeMessage := CheckGrade(req.Topic, req.Grade)
	if !ok {
		s.log.Info("topic above grade", "topic", req.Topic, "grade", req.Grade)
		return NotAppropriate(req.Topic, req.Grade), nil
	}

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      systemPrompt(req),
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildLessonMessage(req)}},
		Schema:      answerSchema,
		MaxTokens:   2048,
		Temperature: 0.4,
	})
	if err != nil {
		return nil, &GenerationFailedError{Op: op, Err: err}
	}

	var out answer
	if err := resp.Decode(&out); err != nil {
		return nil, &GenerationFailedError{Op: op, Err: err}
	}
	if out.Answer == "" {
		return nil, &GenerationFailedError{Op: op, Detail: "model returned an empty answer"}
	}

	subtopic := out.Subtopic
	if req.Subtopic != "" {
		subtopic = req.Subtopic
	}
	appropriate := true
	chapter, subject := Curriculum(req.Topic)
	return &LessonResponse{
		Answer: out.Answer,
		ContentMetadata: []ContentMetadata{{
			Subtopic:    subtopic,
			ContentType: "explanation",
			MethodTags:  req.MethodPreference,
		}},
		FilterApplied:    FilterApplied{Grade: req.Grade, Board: req.Board},
		Topic:            req.Topic,
		GradeAppropriate: &appropriate,
		GradeMessage:     gradeMessage,
		Chapter:          chapter,
		Subject:          subject,
	}, nil
}

func (s *LLMSource) AdaptiveContent(context.Context, AdaptiveRequest) (*AdaptiveResponse, error) {
	return nil, &GenerationFailedError{Op: "adaptive-content", Detail: "adaptive content requires the RAG service"}
}

func (s *LLMSource) LearningPath(context.Context, PathRequest) (LearningPath, error) {
	return nil, &GenerationFailedError{Op: "learning-path", Detail: "learning paths require the RAG service"}
}
