package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// EventMeta is common to every stored event.
type EventMeta struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
}

// Compile outcomes.
const (
	OutcomeCompiled       = "compiled"
	OutcomeNotAppropriate = "not_appropriate"
	OutcomeUpstreamError  = "upstream_error"
	OutcomeFailed         = "failed"
)

// CompileEventData captures one lesson script compilation.
type CompileEventData struct {
	Source       string
	Title        string
	Topic        string
	Grade        int
	Board        string
	Outcome      string
	EventCount   int
	QuizCount    int
	LatencyMs    int64
	ErrorMessage string
}

// CompileEventRecord is a stored compile event.
type CompileEventRecord struct {
	EventMeta
	CompileEventData
}

// PlaybackEventData captures one playback transition.
type PlaybackEventData struct {
	SessionID   string
	ScriptTitle string
	Trigger     string
	FromEvent   string
	ToEvent     string
	ChoiceEvent string
	Selected    map[string][]string
}

// PlaybackEventRecord is a stored playback event.
type PlaybackEventRecord struct {
	EventMeta
	PlaybackEventData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	EventMeta
	LLMRequestEventData
}

// LLMUsageStats aggregates LLM usage for one purpose.
type LLMUsageStats struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates LLM token usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to domain events. Queries
// return newest events first.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendCompile records a lesson script compilation.
	AppendCompile(ctx context.Context, data CompileEventData) error

	// AppendPlayback records a playback transition.
	AppendPlayback(ctx context.Context, data PlaybackEventData) error

	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns the LLM event with the given id, or nil.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)

	QueryCompileEvents(ctx context.Context, opts QueryOpts) ([]CompileEventRecord, error)
	QueryPlaybackEvents(ctx context.Context, opts QueryOpts) ([]PlaybackEventRecord, error)
}
