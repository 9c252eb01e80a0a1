package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"ihint/internal/config"
	apperrors "ihint/internal/errors"
)

// SerpAPI queries serpapi.com and reduces the response to the single most
// useful snippet.
type SerpAPI struct {
	apiKey  string
	engine  string
	baseURL string
	client  *http.Client
}

func NewSerpAPI(cfg config.SerpAPIConfig, client *http.Client) *SerpAPI {
	engine := cfg.Engine
	if engine == "" {
		engine = "google"
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://serpapi.com/search"
	}
	return &SerpAPI{
		apiKey:  cfg.APIKey,
		engine:  engine,
		baseURL: baseURL,
		client:  client,
	}
}

func (s *SerpAPI) Name() string {
	return "serpapi"
}

func (s *SerpAPI) Search(ctx context.Context, query string) (string, error) {
	if s.apiKey == "" {
		return "", apperrors.Provider(s.Name(), fmt.Errorf("api key not configured (set SERPAPI_API_KEY)"))
	}

	params := url.Values{}
	params.Set("engine", s.engine)
	params.Set("google_domain", "google.com")
	params.Set("gl", "us")
	params.Set("hl", "en")
	params.Set("q", query)
	params.Set("api_key", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", apperrors.Provider(s.Name(), fmt.Errorf("new request: %w", err))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", apperrors.Provider(s.Name(), fmt.Errorf("http request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.Provider(s.Name(), fmt.Errorf("read response: %w", err))
	}

	var res serpResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", apperrors.Provider(s.Name(), fmt.Errorf("decode response (%s): %w", resp.Status, err))
	}
	if res.Error != "" {
		return "", apperrors.Provider(s.Name(), fmt.Errorf("got error from SerpAPI: %s", res.Error))
	}
	if resp.StatusCode >= 300 {
		return "", apperrors.Provider(s.Name(), fmt.Errorf("search failed: %s", resp.Status))
	}

	return res.text(), nil
}

type serpResponse struct {
	Error          string          `json:"error"`
	AnswerBox      json.RawMessage `json:"answer_box"`
	KnowledgeGraph *struct {
		Description string `json:"description"`
	} `json:"knowledge_graph"`
	OrganicResults []struct {
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"organic_results"`
}

type serpAnswerBox struct {
	Answer                  string   `json:"answer"`
	Snippet                 string   `json:"snippet"`
	SnippetHighlightedWords []string `json:"snippet_highlighted_words"`
}

// answerBox handles SerpAPI returning either an object or a list
func (r *serpResponse) answerBox() *serpAnswerBox {
	raw := strings.TrimSpace(string(r.AnswerBox))
	if raw == "" || raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var boxes []serpAnswerBox
		if err := json.Unmarshal(r.AnswerBox, &boxes); err != nil || len(boxes) == 0 {
			return nil
		}
		return &boxes[0]
	}
	var box serpAnswerBox
	if err := json.Unmarshal(r.AnswerBox, &box); err != nil {
		return nil
	}
	return &box
}

func (r *serpResponse) text() string {
	if box := r.answerBox(); box != nil {
		switch {
		case box.Answer != "":
			return box.Answer
		case box.Snippet != "":
			return box.Snippet
		case len(box.SnippetHighlightedWords) > 0:
			return box.SnippetHighlightedWords[0]
		}
	}
	if r.KnowledgeGraph != nil && r.KnowledgeGraph.Description != "" {
		return r.KnowledgeGraph.Description
	}
	if len(r.OrganicResults) > 0 {
		if r.OrganicResults[0].Snippet != "" {
			return r.OrganicResults[0].Snippet
		}
		if r.OrganicResults[0].Link != "" {
			return r.OrganicResults[0].Link
		}
	}
	return NoResult
}
