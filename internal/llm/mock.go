package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// MockResponse is one queued reply of a MockProvider. A non-nil Err is
// returned instead of a response.
type MockResponse struct {
	Content    json.RawMessage
	Usage      Usage
	StopReason string
	Err        error
}

// MockProvider replays queued responses in order and keeps every request
// it was given. It is safe for concurrent use.
type MockProvider struct {
	mu    sync.Mutex
	queue []MockResponse
	calls []Request
}

func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{queue: responses}
}

func (m *MockProvider) Name() string    { return ProviderMock }
func (m *MockProvider) ModelID() string { return ProviderMock }

// Generate pops the next queued response. An empty queue reports the
// provider as unavailable.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)
	if len(m.queue) == 0 {
		return nil, &ErrProviderUnavailable{Err: errors.New("mock queue empty")}
	}
	next := m.queue[0]
	m.queue = m.queue[1:]
	if next.Err != nil {
		return nil, next.Err
	}

	stop := next.StopReason
	if stop == "" {
		stop = StopEnd
	}
	return &Response{Content: next.Content, Usage: next.Usage, Model: ProviderMock, StopReason: stop}, nil
}

func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	m.queue = append(m.queue, resp)
	m.mu.Unlock()
}

// AddJSON queues a successful reply with body as its content.
func (m *MockProvider) AddJSON(body string) {
	m.AddResponse(MockResponse{Content: json.RawMessage(body)})
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// LastCall returns the most recent request.
func (m *MockProvider) LastCall() (Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return Request{}, false
	}
	return m.calls[len(m.calls)-1], true
}
