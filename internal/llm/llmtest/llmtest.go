// Package llmtest provides a scripted llm.Client for tests.
package llmtest

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"ihint/internal/llm"
)

// ErrExhausted is returned once every scripted response has been used.
var ErrExhausted = errors.New("llmtest: no scripted response left")

// Client replays Responses in order, one per Chat or ChatStream call, and
// records every request it receives. When Repeat is set the last response
// is served forever. Err, when set, fails every call.
type Client struct {
	Responses []*llm.ChatResponse
	Repeat    bool
	Err       error

	mu       sync.Mutex
	next     int
	requests []*llm.ChatRequest
	models   []string
}

func (c *Client) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	resp, err := c.take(req)
	if err != nil {
		return nil, err
	}
	copied := *resp
	return &copied, nil
}

// ChatStream splits the scripted content on spaces and replays it as
// deltas, followed by a Done delta carrying the tool calls.
func (c *Client) ChatStream(ctx context.Context, req *llm.ChatRequest) (llm.StreamReader, error) {
	resp, err := c.take(req)
	if err != nil {
		return nil, err
	}

	deltas := make([]*llm.Delta, 0)
	for _, token := range Tokens(resp.Message.Content) {
		deltas = append(deltas, &llm.Delta{Role: llm.RoleAssistant, Content: token})
	}
	msg := resp.Message
	deltas = append(deltas, &llm.Delta{Done: true, Message: &msg, StopReason: resp.StopReason})

	return &reader{deltas: deltas}, nil
}

func (c *Client) Provider() string {
	return "llmtest"
}

func (c *Client) Model() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.models) == 0 {
		return ""
	}
	return c.models[len(c.models)-1]
}

// Factory returns an llm.Factory that hands out c and records the model.
func (c *Client) Factory() llm.Factory {
	return func(model string) llm.Client {
		c.mu.Lock()
		c.models = append(c.models, model)
		c.mu.Unlock()
		return c
	}
}

// Requests returns the requests received so far.
func (c *Client) Requests() []*llm.ChatRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*llm.ChatRequest(nil), c.requests...)
}

// Models returns the model names passed to Factory.
func (c *Client) Models() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.models...)
}

func (c *Client) take(req *llm.ChatRequest) (*llm.ChatResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requests = append(c.requests, req)
	if c.Err != nil {
		return nil, c.Err
	}
	if c.next >= len(c.Responses) {
		if c.Repeat && len(c.Responses) > 0 {
			return c.Responses[len(c.Responses)-1], nil
		}
		return nil, ErrExhausted
	}
	resp := c.Responses[c.next]
	c.next++
	return resp, nil
}

// Tokens splits content the way ChatStream emits it.
func Tokens(content string) []string {
	if content == "" {
		return nil
	}
	return strings.SplitAfter(content, " ")
}

// Text is a final assistant answer.
func Text(content string) *llm.ChatResponse {
	return &llm.ChatResponse{
		Message:    llm.Message{Role: llm.RoleAssistant, Content: content},
		StopReason: llm.StopReasonStop,
	}
}

// ToolCall is an assistant turn that calls one function.
func ToolCall(id, name, arguments string) *llm.ChatResponse {
	return &llm.ChatResponse{
		Message: llm.Message{
			Role: llm.RoleAssistant,
			ToolCalls: []*llm.ToolCall{{
				ID:       id,
				Type:     "function",
				Function: &llm.FunctionCall{Name: name, Arguments: arguments},
			}},
		},
		StopReason: llm.StopReasonToolCalls,
	}
}

type reader struct {
	deltas []*llm.Delta
	pos    int
	closed bool
}

func (r *reader) Recv() (*llm.Delta, error) {
	if r.closed || r.pos >= len(r.deltas) {
		return nil, io.EOF
	}
	d := r.deltas[r.pos]
	r.pos++
	return d, nil
}

func (r *reader) Close() error {
	r.closed = true
	return nil
}
