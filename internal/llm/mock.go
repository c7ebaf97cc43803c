package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

var errMockDrained = errors.New("no canned responses left")

// MockResponse is one canned reply. A non-nil Err is returned instead.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Stop    StopReason
	Err     error
}

// MockProvider replays canned responses in order and records every
// request it was sent. It does no schema validation of its own.
type MockProvider struct {
	mu      sync.Mutex
	pending []MockResponse
	Calls   []Request
}

// NewMockProvider queues responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{pending: responses}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if len(m.pending) == 0 {
		return nil, &Error{Kind: KindUnavailable, Vendor: "mock", Err: errMockDrained}
	}
	next := m.pending[0]
	m.pending = m.pending[1:]
	if next.Err != nil {
		return nil, next.Err
	}

	stop := next.Stop
	if stop == "" {
		stop = StopEnd
	}
	return &Response{Content: next.Content, Usage: next.Usage, Model: "mock", StopReason: stop}, nil
}

func (m *MockProvider) ModelID() string { return "mock" }

// Push queues more responses.
func (m *MockProvider) Push(responses ...MockResponse) {
	m.mu.Lock()
	m.pending = append(m.pending, responses...)
	m.mu.Unlock()
}

// CallCount is the number of Generate calls so far.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
