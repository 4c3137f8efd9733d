// Package llm abstracts chat-completion providers behind a single
// request/response contract so the pipeline never depends on a specific
// vendor SDK.
package llm

import "context"

// Chat message roles.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// ChatMessage is one entry of an ordered prompt sequence. Order is
// semantically meaningful: system priming first, context second,
// question last.
type ChatMessage struct {
	Role    string
	Content string
	Name    string
}

// Tool declares a callable function the model may choose to invoke.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToolCall is the model's request to invoke a declared tool.
type ToolCall struct {
	Name      string
	Arguments string
}

// Usage carries token accounting for a single completion call.
type Usage struct {
	Input  int
	Output int
	Total  int
}

// Request describes one chat-completion call.
type Request struct {
	Model       string
	Temperature float32
	Messages    []ChatMessage
	Tools       []Tool
}

// Completion is the normalized result of a chat-completion call.
type Completion struct {
	Content   string
	ToolCalls []ToolCall
	Usage     Usage
}

// Client abstracts a chat-completion provider for testability.
type Client interface {
	ChatCompletion(ctx context.Context, req Request) (*Completion, error)
}
