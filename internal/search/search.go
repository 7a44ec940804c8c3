// Package search provides the web search tool used by the documentation agent.
package search

import (
	"context"
	"errors"

	"github.com/velloreakash21/multi-agent-code-assistant/pkg/models"
)

var (
	// ErrMissingAPIKey is returned when the provider has no credentials.
	ErrMissingAPIKey = errors.New("search: API key is missing")
	// ErrRateLimited is returned when the provider keeps answering 429.
	ErrRateLimited = errors.New("search: rate limited")
)

// Searcher runs a web query and returns ranked results.
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.SearchResult, error)
}

// SearcherFunc adapts a function to the Searcher interface.
type SearcherFunc func(ctx context.Context, query string) ([]models.SearchResult, error)

// Search calls f.
func (f SearcherFunc) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	return f(ctx, query)
}
