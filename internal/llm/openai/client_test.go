package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	apperrors "ihint/internal/errors"
	"ihint/internal/llm"
)

// fakeAPI records chat completion requests and answers them either as a
// single JSON body or as server-sent events.
type fakeAPI struct {
	mu       sync.Mutex
	requests []map[string]any
	status   int
	body     string
	chunks   []string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/v1/chat/completions" {
		http.NotFound(w, r)
		return
	}

	var req map[string]any
	_ = json.NewDecoder(r.Body).Decode(&req)
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.status != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		fmt.Fprint(w, f.body)
		return
	}

	if stream, _ := req["stream"].(bool); stream {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, c := range f.chunks {
			fmt.Fprintf(w, "data: %s\n\n", c)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, f.body)
}

func (f *fakeAPI) lastRequest(t *testing.T) map[string]any {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		t.Fatal("no request recorded")
	}
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T, api *fakeAPI, model string) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return NewClient("test-key", model, srv.URL+"/v1")
}

func contentChunk(content string) string {
	return fmt.Sprintf(`{"id":"c","object":"chat.completion.chunk","model":"gpt-3.5-turbo","choices":[{"index":0,"delta":{"content":%q}}]}`, content)
}

func TestClient_ChatSendsSamplingParameters(t *testing.T) {
	api := &fakeAPI{body: `{"id":"1","object":"chat.completion","model":"gpt-3.5-turbo",
		"choices":[{"index":0,"message":{"role":"assistant","content":"鱼越大，鱼越小。"},"finish_reason":"stop"}],
		"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`}
	client := newTestClient(t, api, "gpt-3.5-turbo")

	resp, err := client.Chat(context.Background(), &llm.ChatRequest{
		Messages:    []llm.Message{llm.UserMessage("hello")},
		Temperature: 0.75,
		MaxTokens:   512,
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if resp.Message.Content != "鱼越大，鱼越小。" {
		t.Errorf("unexpected content: %s", resp.Message.Content)
	}
	if resp.StopReason != llm.StopReasonStop {
		t.Errorf("expected stop, got %s", resp.StopReason)
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("expected usage to be converted, got %+v", resp.Usage)
	}

	req := api.lastRequest(t)
	if req["model"] != "gpt-3.5-turbo" {
		t.Errorf("unexpected model: %v", req["model"])
	}
	if temp, _ := req["temperature"].(float64); fmt.Sprintf("%.2f", temp) != "0.75" {
		t.Errorf("unexpected temperature: %v", req["temperature"])
	}
	if req["max_tokens"] != float64(512) {
		t.Errorf("unexpected max_tokens: %v", req["max_tokens"])
	}
	if _, ok := req["presence_penalty"]; ok {
		t.Error("presence_penalty should be omitted when zero")
	}
}

func TestClient_ChatToolCalls(t *testing.T) {
	api := &fakeAPI{body: `{"id":"1","object":"chat.completion","model":"m",
		"choices":[{"index":0,"message":{"role":"assistant","content":"",
		"tool_calls":[{"id":"call_1","type":"function","function":{"name":"WebSearch","arguments":"{\"query\":\"weather\"}"}}]},
		"finish_reason":"tool_calls"}]}`}
	client := newTestClient(t, api, "m")

	resp, err := client.Chat(context.Background(), &llm.ChatRequest{
		Messages: []llm.Message{llm.UserMessage("weather?")},
		Tools: []*llm.ToolDefinition{{
			Type: "function",
			Function: &llm.FunctionDef{
				Name:        "WebSearch",
				Description: "search",
				Parameters:  map[string]any{"type": "object"},
			},
		}},
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if resp.StopReason != llm.StopReasonToolCalls {
		t.Errorf("expected tool_calls, got %s", resp.StopReason)
	}
	if len(resp.Message.ToolCalls) != 1 || resp.Message.ToolCalls[0].Function.Name != "WebSearch" {
		t.Fatalf("unexpected tool calls: %+v", resp.Message.ToolCalls)
	}

	req := api.lastRequest(t)
	tools, _ := req["tools"].([]any)
	if len(tools) != 1 {
		t.Errorf("expected one tool in request, got %v", req["tools"])
	}
}

func TestClient_ChatErrorIsProviderError(t *testing.T) {
	api := &fakeAPI{
		status: http.StatusUnauthorized,
		body:   `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`,
	}
	client := newTestClient(t, api, "gpt-3.5-turbo")

	_, err := client.Chat(context.Background(), &llm.ChatRequest{
		Messages: []llm.Message{llm.UserMessage("hi")},
	})
	if !apperrors.IsProvider(err) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
}

func TestClient_ChatStream(t *testing.T) {
	api := &fakeAPI{chunks: []string{
		contentChunk("鱼越大，"),
		contentChunk("鱼刺越多，"),
		`{"id":"c","object":"chat.completion.chunk","model":"m","choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`,
	}}
	client := newTestClient(t, api, "gpt-3.5-turbo")

	reader, err := client.ChatStream(context.Background(), &llm.ChatRequest{
		Messages:         []llm.Message{llm.UserMessage("hello")},
		Temperature:      0.75,
		PresencePenalty:  0.75,
		FrequencyPenalty: 1.25,
	})
	if err != nil {
		t.Fatalf("ChatStream failed: %v", err)
	}

	var tokens []string
	resp, err := llm.CollectStream(context.Background(), reader, llm.HandlerFunc(func(ctx context.Context, token string) error {
		tokens = append(tokens, token)
		return nil
	}))
	if err != nil {
		t.Fatalf("CollectStream failed: %v", err)
	}

	if strings.Join(tokens, "|") != "鱼越大，|鱼刺越多，" {
		t.Errorf("unexpected tokens: %v", tokens)
	}
	if resp.Message.Content != "鱼越大，鱼刺越多，" {
		t.Errorf("unexpected content: %s", resp.Message.Content)
	}
	if resp.StopReason != llm.StopReasonStop {
		t.Errorf("expected stop, got %s", resp.StopReason)
	}

	req := api.lastRequest(t)
	if req["stream"] != true {
		t.Error("expected stream=true")
	}
	if req["presence_penalty"] != 0.75 {
		t.Errorf("unexpected presence_penalty: %v", req["presence_penalty"])
	}
	if req["frequency_penalty"] != 1.25 {
		t.Errorf("unexpected frequency_penalty: %v", req["frequency_penalty"])
	}
}

func TestClient_ChatStreamAccumulatesToolCalls(t *testing.T) {
	api := &fakeAPI{chunks: []string{
		`{"id":"c","object":"chat.completion.chunk","model":"m","choices":[{"index":0,"delta":{"role":"assistant","tool_calls":[{"index":0,"id":"call_1","type":"function","function":{"name":"WebSearch","arguments":""}}]}}]}`,
		`{"id":"c","object":"chat.completion.chunk","model":"m","choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"function":{"arguments":"{\"query\":"}}]}}]}`,
		`{"id":"c","object":"chat.completion.chunk","model":"m","choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"function":{"arguments":"\"news\"}"}}]}}]}`,
		`{"id":"c","object":"chat.completion.chunk","model":"m","choices":[{"index":0,"delta":{},"finish_reason":"tool_calls"}]}`,
	}}
	client := newTestClient(t, api, "m")

	reader, err := client.ChatStream(context.Background(), &llm.ChatRequest{
		Messages: []llm.Message{llm.UserMessage("news?")},
	})
	if err != nil {
		t.Fatalf("ChatStream failed: %v", err)
	}

	resp, err := llm.CollectStream(context.Background(), reader, nil)
	if err != nil {
		t.Fatalf("CollectStream failed: %v", err)
	}

	if resp.StopReason != llm.StopReasonToolCalls {
		t.Fatalf("expected tool_calls, got %s", resp.StopReason)
	}
	if len(resp.Message.ToolCalls) != 1 {
		t.Fatalf("expected one tool call, got %d", len(resp.Message.ToolCalls))
	}
	call := resp.Message.ToolCalls[0]
	if call.ID != "call_1" || call.Function.Name != "WebSearch" || call.Function.Arguments != `{"query":"news"}` {
		t.Errorf("tool call not assembled: %+v %+v", call, call.Function)
	}
}
