package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/lessonscript/internal/logging"
	"github.com/abhisek/lessonscript/internal/store"
)

// Recorder persists LLM request events. store.EventRepo satisfies it.
type Recorder interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

// RecordingProvider is a decorator that records every LLM request as an
// event and logs its outcome.
type RecordingProvider struct {
	inner    Provider
	recorder Recorder
	log      *logging.Logger
}

// WithRecording wraps a Provider with event recording. A nil recorder only
// logs.
func WithRecording(p Provider, rec Recorder, log *logging.Logger) Provider {
	if log == nil {
		log = logging.Nop()
	}
	return &RecordingProvider{inner: p, recorder: rec, log: log}
}

func (r *RecordingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := r.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:    r.inner.Name(),
		Model:       r.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		data.ResponseBody = string(resp.Content)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		r.log.Warn("llm request failed",
			"provider", data.Provider, "model", data.Model, "purpose", data.Purpose,
			"latency_ms", data.LatencyMs, "error", err)
	} else {
		r.log.Debug("llm request",
			"provider", data.Provider, "model", data.Model, "purpose", data.Purpose,
			"latency_ms", data.LatencyMs, "input_tokens", data.InputTokens,
			"output_tokens", data.OutputTokens)
	}

	// Recording failures never fail the request.
	if r.recorder != nil {
		if recErr := r.recorder.AppendLLMRequest(context.WithoutCancel(ctx), data); recErr != nil {
			r.log.Warn("record llm request event", "error", recErr)
		}
	}

	return resp, err
}

func (r *RecordingProvider) Name() string {
	return r.inner.Name()
}

func (r *RecordingProvider) ModelID() string {
	return r.inner.ModelID()
}

// serializeRequest builds a readable transcript of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}

	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}

	return b.String()
}
