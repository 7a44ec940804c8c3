package tools

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/velloreakash21/multi-agent-code-assistant/internal/llm"
	"github.com/velloreakash21/multi-agent-code-assistant/internal/search"
)

// WebSearch is the name of the web search tool.
const WebSearch = "web_search"

// DocumentationTools returns the tools available to the documentation agent.
func DocumentationTools(searcher search.Searcher) *Registry {
	return NewRegistry(webSearchTool(searcher))
}

func webSearchTool(searcher search.Searcher) Tool {
	return Tool{
		Spec: llm.ToolSpec{
			Name:        WebSearch,
			Description: "Search the web for programming documentation, tutorials and best practices. Returns ranked results with title, url and snippet.",
			Properties: map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Search query, e.g. 'python oracledb connect example'",
				},
			},
			Required: []string{"query"},
		},
		Run: func(ctx context.Context, input json.RawMessage) (string, error) {
			var params struct {
				Query string `json:"query"`
			}
			if err := decode(input, &params); err != nil {
				return "", err
			}
			if params.Query == "" {
				return "", errors.New("query is required")
			}
			results, err := searcher.Search(ctx, params.Query)
			if err != nil {
				return "", err
			}
			if len(results) == 0 {
				return "No results found.", nil
			}
			return encode(results)
		},
	}
}
