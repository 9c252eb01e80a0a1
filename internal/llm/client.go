package llm

import "context"

type Client interface {
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
	ChatStream(ctx context.Context, req *ChatRequest) (StreamReader, error)
	Provider() string
	Model() string
}

// Factory builds a client bound to one model. Capabilities call it once per
// request so no client is shared between calls.
type Factory func(model string) Client

type ChatRequest struct {
	Messages         []Message
	Tools            []*ToolDefinition
	Temperature      float32
	MaxTokens        int
	PresencePenalty  float32
	FrequencyPenalty float32
}

type ChatResponse struct {
	Message    Message
	StopReason StopReason
	Usage      Usage
}

type ToolDefinition struct {
	Type     string
	Function *FunctionDef
}

type FunctionDef struct {
	Name        string
	Description string
	Parameters  map[string]any
}

type StreamReader interface {
	Recv() (*Delta, error)
	Close() error
}

// Delta is one streamed chunk. The final delta has Done set and carries the
// assembled Message and StopReason.
type Delta struct {
	Role       Role
	Content    string
	ToolCalls  []*ToolCall
	Done       bool
	Message    *Message
	StopReason StopReason
}
