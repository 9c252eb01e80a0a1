package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ihint/internal/config"
	apperrors "ihint/internal/errors"
	"ihint/internal/search"
)

const defaultSearchTool = "search"

// SearchProvider answers WebSearch queries by calling a tool on an MCP
// server with {"query": q}.
type SearchProvider struct {
	client *Client
	tool   string
}

// NewSearchProvider launches the configured MCP server and checks that it
// offers the search tool.
func NewSearchProvider(ctx context.Context, cfg config.MCPSearchConfig) (*SearchProvider, error) {
	client, err := NewClient(ctx, cfg.Name, cfg.Command, cfg.Args, config.ExpandEnvMap(cfg.Env))
	if err != nil {
		return nil, apperrors.Provider("mcp", err)
	}

	provider, err := NewSearchProviderFromClient(client, cfg.Tool)
	if err != nil {
		client.Close()
		return nil, err
	}
	return provider, nil
}

// NewSearchProviderFromClient uses an existing session.
func NewSearchProviderFromClient(client *Client, tool string) (*SearchProvider, error) {
	if tool == "" {
		tool = defaultSearchTool
	}
	if !client.HasTool(tool) {
		return nil, fmt.Errorf("MCP server %s has no tool %q", client.Name(), tool)
	}
	return &SearchProvider{client: client, tool: tool}, nil
}

func (p *SearchProvider) Name() string {
	return "mcp"
}

func (p *SearchProvider) Search(ctx context.Context, query string) (string, error) {
	result, err := p.client.CallTool(ctx, p.tool, map[string]any{"query": query})
	if err != nil {
		return "", apperrors.Provider("mcp", err)
	}

	text := strings.TrimSpace(formatContent(result.Content))
	if result.IsError {
		if text == "" {
			text = "MCP tool returned an error"
		}
		return "", apperrors.Provider("mcp", errors.New(text))
	}
	if text == "" {
		return search.NoResult, nil
	}
	return text, nil
}

func (p *SearchProvider) Close() error {
	return p.client.Close()
}
