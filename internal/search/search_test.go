package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ihint/internal/config"
	apperrors "ihint/internal/errors"
)

func serve(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestSerpAPI_SendsQueryAndPrefersAnswerBox(t *testing.T) {
	var gotQuery, gotKey, gotEngine string
	url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotKey = r.URL.Query().Get("api_key")
		gotEngine = r.URL.Query().Get("engine")
		fmt.Fprint(w, `{"answer_box":{"answer":"4"},"organic_results":[{"snippet":"ignored"}]}`)
	})

	s := NewSerpAPI(config.SerpAPIConfig{APIKey: "k", BaseURL: url}, http.DefaultClient)
	out, err := s.Search(context.Background(), "2+2")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if out != "4" {
		t.Errorf("expected answer box, got %q", out)
	}
	if gotQuery != "2+2" || gotKey != "k" || gotEngine != "google" {
		t.Errorf("unexpected params q=%q key=%q engine=%q", gotQuery, gotKey, gotEngine)
	}
}

func TestSerpAPI_Fallbacks(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"answer_box":[{"snippet":"list snippet"}]}`, "list snippet"},
		{`{"answer_box":{"snippet_highlighted_words":["Tokyo"]}}`, "Tokyo"},
		{`{"knowledge_graph":{"description":"A fictional scientist."}}`, "A fictional scientist."},
		{`{"organic_results":[{"snippet":"first"},{"snippet":"second"}]}`, "first"},
		{`{"organic_results":[{"link":"https://example.com"}]}`, "https://example.com"},
		{`{"search_metadata":{"status":"Success"}}`, NoResult},
	}

	for _, tc := range cases {
		body, want := tc.body, tc.want
		url := serve(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, body)
		})
		s := NewSerpAPI(config.SerpAPIConfig{APIKey: "k", BaseURL: url}, http.DefaultClient)

		got, err := s.Search(context.Background(), "q")
		if err != nil {
			t.Fatalf("Search(%s) failed: %v", body, err)
		}
		if got != want {
			t.Errorf("body %s: expected %q, got %q", body, want, got)
		}
	}
}

func TestSerpAPI_ErrorsAreProviderErrors(t *testing.T) {
	url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"Invalid API key."}`)
	})

	s := NewSerpAPI(config.SerpAPIConfig{APIKey: "bad", BaseURL: url}, http.DefaultClient)
	_, err := s.Search(context.Background(), "q")
	if !apperrors.IsProvider(err) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if !strings.Contains(err.Error(), "Invalid API key.") {
		t.Errorf("expected SerpAPI message in error, got %v", err)
	}

	noKey := NewSerpAPI(config.SerpAPIConfig{BaseURL: url}, http.DefaultClient)
	if _, err := noKey.Search(context.Background(), "q"); !apperrors.IsProvider(err) {
		t.Errorf("expected ProviderError without key, got %v", err)
	}
}

const ddgPage = `<html><body>
<div class="result">
  <a class="result__a" href="https://a.example">Rick Sanchez - Wikipedia</a>
  <a class="result__snippet">Rick Sanchez is a fictional character.</a>
  <a class="result__url">en.wikipedia.org</a>
</div>
<div class="result">
  <a class="result__a" href="https://b.example">Rick and Morty</a>
  <a class="result__snippet">Adult animated series.</a>
</div>
<div class="result">
  <a class="result__a" href="https://c.example">Third</a>
</div>
</body></html>`

func TestDuckDuckGo_ParsesResults(t *testing.T) {
	var gotQuery string
	url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		gotQuery = r.PostForm.Get("q")
		fmt.Fprint(w, ddgPage)
	})

	d := NewDuckDuckGo(config.DuckDuckGoConfig{BaseURL: url, MaxResults: 2}, http.DefaultClient)
	out, err := d.Search(context.Background(), "rick sanchez")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if gotQuery != "rick sanchez" {
		t.Errorf("unexpected query %q", gotQuery)
	}
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 results, got %d: %q", len(lines), out)
	}
	if lines[0] != "Rick Sanchez - Wikipedia: Rick Sanchez is a fictional character. (en.wikipedia.org)" {
		t.Errorf("unexpected first line: %q", lines[0])
	}
	if lines[1] != "Rick and Morty: Adult animated series." {
		t.Errorf("unexpected second line: %q", lines[1])
	}
}

func TestDuckDuckGo_EmptyAndFailure(t *testing.T) {
	empty := serve(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>nothing</p></body></html>`)
	})
	d := NewDuckDuckGo(config.DuckDuckGoConfig{BaseURL: empty}, http.DefaultClient)
	out, err := d.Search(context.Background(), "q")
	if err != nil || out != NoResult {
		t.Errorf("expected %q, got %q (%v)", NoResult, out, err)
	}

	failing := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	d = NewDuckDuckGo(config.DuckDuckGoConfig{BaseURL: failing}, http.DefaultClient)
	if _, err := d.Search(context.Background(), "q"); !apperrors.IsProvider(err) {
		t.Errorf("expected ProviderError, got %v", err)
	}
}

func TestNew_SelectsProvider(t *testing.T) {
	cfg := config.Default().Search

	p, err := New(cfg, nil)
	if err != nil || p.Name() != "serpapi" {
		t.Fatalf("expected serpapi, got %v (%v)", p, err)
	}

	cfg.Provider = "duckduckgo"
	if p, err = New(cfg, nil); err != nil || p.Name() != "duckduckgo" {
		t.Fatalf("expected duckduckgo, got %v (%v)", p, err)
	}

	cfg.Provider = "mcp"
	if _, err := New(cfg, nil); err == nil {
		t.Error("mcp provider should not be built here")
	}
}
