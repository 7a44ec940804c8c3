package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/velloreakash21/multi-agent-code-assistant/pkg/models"
)

// DefaultTavilyURL is the production Tavily endpoint.
const DefaultTavilyURL = "https://api.tavily.com"

// TavilyConfig configures a Tavily client.
type TavilyConfig struct {
	APIKey string
	// Depth is Tavily's search_depth parameter (basic or advanced).
	Depth string
	// MaxResults caps the number of returned results. Defaults to 5.
	MaxResults int
	// MaxRetries is how many times a 429 is retried before giving up.
	MaxRetries int
	// BaseURL overrides DefaultTavilyURL.
	BaseURL string
	// Timeout bounds each HTTP request. Defaults to 10s.
	Timeout time.Duration
	// InitialBackoff is the first 429 retry delay. Defaults to 1s.
	InitialBackoff time.Duration
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// Tavily calls the Tavily search API.
type Tavily struct {
	apiKey     string
	depth      string
	maxResults int
	maxRetries int
	baseURL    string
	backoff    time.Duration
	client     *http.Client
}

// NewTavily constructs a Tavily search provider.
func NewTavily(cfg TavilyConfig) *Tavily {
	if cfg.Depth == "" {
		cfg.Depth = "basic"
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 5
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultTavilyURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = time.Second
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Tavily{
		apiKey:     cfg.APIKey,
		depth:      cfg.Depth,
		maxResults: cfg.MaxResults,
		maxRetries: cfg.MaxRetries,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		backoff:    cfg.InitialBackoff,
		client:     client,
	}
}

// Search posts a query to Tavily.
func (t *Tavily) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	if strings.TrimSpace(t.apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	payload, err := json.Marshal(map[string]any{
		"query":        query,
		"api_key":      t.apiKey,
		"search_depth": t.depth,
		"max_results":  t.maxResults,
	})
	if err != nil {
		return nil, err
	}

	var resp *http.Response
	delay := t.backoff
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/search", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err = t.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("tavily request: %w", err)
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			break
		}
		resp.Body.Close()

		if attempt >= t.maxRetries {
			return nil, ErrRateLimited
		}

		// Back off and retry on 429, doubling the delay each time up to 30 s.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		if delay < 30*time.Second {
			delay *= 2
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily http %d", resp.StatusCode)
	}

	var response struct {
		Results []struct {
			Title   string  `json:"title"`
			URL     string  `json:"url"`
			Content string  `json:"content"`
			Score   float64 `json:"score"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode tavily response: %w", err)
	}

	results := make([]models.SearchResult, 0, len(response.Results))
	for _, r := range response.Results {
		results = append(results, models.SearchResult{Title: r.Title, URL: r.URL, Snippet: r.Content})
		if len(results) >= t.maxResults {
			break
		}
	}
	return results, nil
}
