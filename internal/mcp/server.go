package mcp

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP peers.
const Version = "1.0.0"

type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

type Generator interface {
	Generate(ctx context.Context, fishBigger, fishSmaller string) (string, error)
}

type askArgs struct {
	Question string `json:"question" jsonschema:"The question to answer"`
}

type fbfsArgs struct {
	FishBigger  string `json:"fish_bigger" jsonschema:"The claim the chain starts from"`
	FishSmaller string `json:"fish_smaller" jsonschema:"The claim the chain must end with"`
}

// NewServer exposes the non-streaming capabilities as MCP tools.
func NewServer(asker Asker, gen Generator) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "ihint",
		Version: Version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question in character, searching the web when needed",
	}, func(ctx context.Context, req *mcp.CallToolRequest, a askArgs) (*mcp.CallToolResult, any, error) {
		answer, err := asker.Ask(ctx, a.Question)
		if err != nil {
			return nil, nil, err
		}
		return textResult(answer), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fbfs",
		Description: "Write a one-line logic chain from fish_bigger to fish_smaller",
	}, func(ctx context.Context, req *mcp.CallToolRequest, a fbfsArgs) (*mcp.CallToolResult, any, error) {
		chain, err := gen.Generate(ctx, a.FishBigger, a.FishSmaller)
		if err != nil {
			return nil, nil, err
		}
		return textResult(chain), nil, nil
	})

	return server
}

// HTTPHandler serves server over the streamable HTTP transport.
func HTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}

// ServeStdio runs server on the process's stdin and stdout until ctx ends
// or the peer disconnects.
func ServeStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
