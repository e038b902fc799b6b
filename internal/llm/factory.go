package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/lessonscript/internal/logging"
)

// NewProvider creates a Provider from configuration, wrapped as
// caller → timeout → retry → recording → base.
func NewProvider(ctx context.Context, cfg Config, rec Recorder, log *logging.Logger) (Provider, error) {
	var (
		base Provider
		err  error
	)

	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	recorded := WithRecording(base, rec, log)
	retried := WithRetry(recorded, cfg.Retry)
	return WithTimeout(retried, cfg.Timeout), nil
}

// TimeoutProvider bounds every Generate call.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps p so each request is cancelled after d. A non-positive
// d returns p unchanged.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &TimeoutProvider{inner: p, timeout: d}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *TimeoutProvider) Name() string    { return t.inner.Name() }
func (t *TimeoutProvider) ModelID() string { return t.inner.ModelID() }
