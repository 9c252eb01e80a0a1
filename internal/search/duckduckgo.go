package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"ihint/internal/config"
	apperrors "ihint/internal/errors"

	"github.com/PuerkitoBio/goquery"
)

// DuckDuckGo scrapes the key-less HTML endpoint.
type DuckDuckGo struct {
	baseURL    string
	maxResults int
	client     *http.Client
}

func NewDuckDuckGo(cfg config.DuckDuckGoConfig, client *http.Client) *DuckDuckGo {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://html.duckduckgo.com/html/"
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}
	return &DuckDuckGo{
		baseURL:    baseURL,
		maxResults: maxResults,
		client:     client,
	}
}

func (d *DuckDuckGo) Name() string {
	return "duckduckgo"
}

func (d *DuckDuckGo) Search(ctx context.Context, query string) (string, error) {
	form := url.Values{}
	form.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", apperrors.Provider(d.Name(), fmt.Errorf("new request: %w", err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; ihint/1.0)")

	resp, err := d.client.Do(req)
	if err != nil {
		return "", apperrors.Provider(d.Name(), fmt.Errorf("http request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", apperrors.Provider(d.Name(), fmt.Errorf("search failed: %s", resp.Status))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", apperrors.Provider(d.Name(), fmt.Errorf("parse html: %w", err))
	}

	var lines []string
	doc.Find(".result").EachWithBreak(func(i int, s *goquery.Selection) bool {
		title := strings.TrimSpace(s.Find(".result__a").First().Text())
		snippet := strings.TrimSpace(s.Find(".result__snippet").First().Text())
		if title == "" && snippet == "" {
			return true
		}

		line := title
		if snippet != "" {
			line = fmt.Sprintf("%s: %s", title, snippet)
		}
		if link := strings.TrimSpace(s.Find(".result__url").First().Text()); link != "" {
			line = fmt.Sprintf("%s (%s)", line, link)
		}
		lines = append(lines, line)
		return len(lines) < d.maxResults
	})

	if len(lines) == 0 {
		return NoResult, nil
	}
	return strings.Join(lines, "\n"), nil
}
