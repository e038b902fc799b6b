package retrieval

import "context"

// Source answers lesson requests. The HTTP Client talks to the RAG
// service; LLMSource prompts a language model directly.
type Source interface {
	Lesson(ctx context.Context, req LessonRequest) (*LessonResponse, error)
	Chat(ctx context.Context, req LessonRequest) (*LessonResponse, error)
	AdaptiveContent(ctx context.Context, req AdaptiveRequest) (*AdaptiveResponse, error)
	LearningPath(ctx context.Context, req PathRequest) (LearningPath, error)
}

var (
	_ Source = (*Client)(nil)
	_ Source = (*LLMSource)(nil)
)
