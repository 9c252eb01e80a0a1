package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ihint/internal/search"
	"ihint/internal/tool"
)

// WebSearchName is the tool name the chat agent exposes to the model.
const WebSearchName = "WebSearch"

const webSearchDescription = "Do a web search, useful for when you need to answer questions about current events or " +
	"anything that you don't have enough information for sure to answer and need to do a web " +
	"search."

type WebSearchTool struct {
	provider search.Provider
}

func NewWebSearchTool(provider search.Provider) *WebSearchTool {
	return &WebSearchTool{provider: provider}
}

func (t *WebSearchTool) Name() string {
	return WebSearchName
}

func (t *WebSearchTool) Description() string {
	return webSearchDescription
}

func (t *WebSearchTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "The search query",
			},
		},
		"required": []string{"query"},
	}
}

// Execute forwards the query to the provider. Provider failures are returned
// as errors so they end the agent run.
func (t *WebSearchTool) Execute(ctx context.Context, params json.RawMessage) (*tool.Result, error) {
	var p struct {
		Query string `json:"query"`
	}

	if err := json.Unmarshal(params, &p); err != nil {
		return &tool.Result{
			Success: false,
			Error:   fmt.Sprintf("invalid parameters: %v", err),
		}, nil
	}

	query := strings.TrimSpace(p.Query)
	if query == "" {
		return &tool.Result{
			Success: false,
			Error:   "invalid parameters: query is required",
		}, nil
	}

	output, err := t.provider.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	return &tool.Result{
		Success: true,
		Output:  output,
	}, nil
}
