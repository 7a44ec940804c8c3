package models

import "time"

// Snippet is a stored code example.
type Snippet struct {
	ID          int64     `json:"id" yaml:"-"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Language    string    `json:"language" yaml:"language"`
	Framework   string    `json:"framework,omitempty" yaml:"framework"`
	Category    string    `json:"category" yaml:"category"`
	Difficulty  string    `json:"difficulty,omitempty" yaml:"difficulty"`
	Code        string    `json:"code" yaml:"code"`
	Tags        string    `json:"tags,omitempty" yaml:"tags"`
	CreatedAt   time.Time `json:"created_at" yaml:"-"`
}

// SnippetFilter narrows a snippet search. Empty fields are ignored and
// non-empty fields combine with AND.
type SnippetFilter struct {
	Language  string `json:"language,omitempty"`
	Category  string `json:"category,omitempty"`
	Framework string `json:"framework,omitempty"`
	Keyword   string `json:"keyword,omitempty"`
}

// IsEmpty returns true when no criteria are set.
func (f SnippetFilter) IsEmpty() bool {
	return f.Language == "" && f.Category == "" && f.Framework == "" && f.Keyword == ""
}

// FacetCount is a grouped count, e.g. snippets per language.
type FacetCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// SearchResult is one ranked web search hit.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}
