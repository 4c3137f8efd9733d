package llm

import (
	"context"
	"sync"
)

// MockClient is a test double for Client. It replays queued completions
// in order and records every request it receives.
type MockClient struct {
	mu            sync.Mutex
	Requests      []Request
	Completions   []*Completion
	DefaultResult string
	Err           error
	nextResult    int
}

// NewMockClient creates a MockClient with a default canned answer.
func NewMockClient() *MockClient {
	return &MockClient{DefaultResult: "Mock LLM response"}
}

func (m *MockClient) ChatCompletion(_ context.Context, req Request) (*Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	m.Requests = append(m.Requests, req)
	if m.nextResult < len(m.Completions) {
		c := m.Completions[m.nextResult]
		m.nextResult++
		return c, nil
	}
	return &Completion{Content: m.DefaultResult}, nil
}

// QueueCompletion appends a canned completion to be returned by the next
// unserved call.
func (m *MockClient) QueueCompletion(c *Completion) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Completions = append(m.Completions, c)
}

// GetRequests returns a copy of all recorded requests.
func (m *MockClient) GetRequests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.Requests))
	copy(out, m.Requests)
	return out
}
