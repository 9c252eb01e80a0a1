// Package search implements the backends behind the WebSearch tool.
package search

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"ihint/internal/config"
)

// NoResult is returned when a backend answers but has nothing useful.
const NoResult = "No good search result found"

// Provider forwards a free-text query to a search backend and returns the
// results as plain text.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) (string, error)
}

// New builds the HTTP based provider selected in cfg. The "mcp" provider
// needs a live session and is built by the mcp package instead.
func New(cfg config.SearchConfig, httpClient *http.Client) (Provider, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	switch cfg.Provider {
	case "serpapi":
		return NewSerpAPI(cfg.SerpAPI, httpClient), nil
	case "duckduckgo":
		return NewDuckDuckGo(cfg.DuckDuckGo, httpClient), nil
	default:
		return nil, fmt.Errorf("search provider %q is not an HTTP provider", cfg.Provider)
	}
}
