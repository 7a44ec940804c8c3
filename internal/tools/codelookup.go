package tools

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/velloreakash21/multi-agent-code-assistant/internal/llm"
	"github.com/velloreakash21/multi-agent-code-assistant/pkg/models"
)

// Code lookup tool names.
const (
	SearchCodeSnippets      = "search_code_snippets"
	GetSnippetByID          = "get_snippet_by_id"
	ListAvailableCategories = "list_available_categories"
	ListAvailableLanguages  = "list_available_languages"
)

// SnippetSource is the part of the snippet store the code lookup tools use.
type SnippetSource interface {
	Find(ctx context.Context, filter models.SnippetFilter, limit int) ([]models.Snippet, error)
	Get(ctx context.Context, id int64) (*models.Snippet, error)
	Categories(ctx context.Context) ([]models.FacetCount, error)
	Languages(ctx context.Context) ([]models.FacetCount, error)
}

// CodeLookupTools returns the tools available to the code lookup agent.
func CodeLookupTools(src SnippetSource) *Registry {
	return NewRegistry(
		Tool{
			Spec: llm.ToolSpec{
				Name:        SearchCodeSnippets,
				Description: "Search the code snippet database. All filters are optional and combine with AND. Returns at most 20 snippets.",
				Properties: map[string]any{
					"language":  map[string]any{"type": "string", "description": "Programming language, e.g. python, java, go"},
					"category":  map[string]any{"type": "string", "description": "Category, e.g. database, web, data"},
					"framework": map[string]any{"type": "string", "description": "Framework or library name, partial match"},
					"keyword":   map[string]any{"type": "string", "description": "Keyword matched against title, description and tags"},
					"limit":     map[string]any{"type": "integer", "description": "Maximum results (default 5, max 20)"},
				},
			},
			Run: func(ctx context.Context, input json.RawMessage) (string, error) {
				var params struct {
					models.SnippetFilter
					Limit int `json:"limit"`
				}
				if err := decode(input, &params); err != nil {
					return "", err
				}
				found, err := src.Find(ctx, params.SnippetFilter, params.Limit)
				if err != nil {
					return "", err
				}
				if len(found) == 0 {
					return "No code snippets found matching the criteria.", nil
				}
				return encode(found)
			},
		},
		Tool{
			Spec: llm.ToolSpec{
				Name:        GetSnippetByID,
				Description: "Fetch one code snippet by its numeric id.",
				Properties: map[string]any{
					"id": map[string]any{"type": "integer", "description": "Snippet id from a previous search"},
				},
				Required: []string{"id"},
			},
			Run: func(ctx context.Context, input json.RawMessage) (string, error) {
				var params struct {
					ID int64 `json:"id"`
				}
				if err := decode(input, &params); err != nil {
					return "", err
				}
				if params.ID <= 0 {
					return "", errors.New("id must be a positive integer")
				}
				sn, err := src.Get(ctx, params.ID)
				if err != nil {
					return "", err
				}
				return encode(sn)
			},
		},
		Tool{
			Spec: llm.ToolSpec{
				Name:        ListAvailableCategories,
				Description: "List snippet categories with the number of snippets in each.",
				Properties:  map[string]any{},
			},
			Run: func(ctx context.Context, _ json.RawMessage) (string, error) {
				cats, err := src.Categories(ctx)
				if err != nil {
					return "", err
				}
				return encode(cats)
			},
		},
		Tool{
			Spec: llm.ToolSpec{
				Name:        ListAvailableLanguages,
				Description: "List snippet languages with the number of snippets in each.",
				Properties:  map[string]any{},
			},
			Run: func(ctx context.Context, _ json.RawMessage) (string, error) {
				langs, err := src.Languages(ctx)
				if err != nil {
					return "", err
				}
				return encode(langs)
			},
		},
	)
}
