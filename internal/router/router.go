// Package router maps a raw query to the agents that should answer it.
package router

import (
	"strings"

	"github.com/velloreakash21/multi-agent-code-assistant/pkg/models"
)

var (
	// DocumentationSpec describes the web documentation agent.
	DocumentationSpec = models.AgentSpec{
		Name:       "documentation",
		Kind:       models.AgentKindDocumentation,
		Capability: "explanations, concepts and tutorials from web documentation",
		Keywords:   DefaultKeywords.Explanatory,
	}

	// CodeLookupSpec describes the snippet store agent.
	CodeLookupSpec = models.AgentSpec{
		Name:       "code_lookup",
		Kind:       models.AgentKindCodeLookup,
		Capability: "code examples from the snippet database",
		Keywords:   DefaultKeywords.CodeRetrieval,
	}
)

// Specs returns every routable agent in routing order.
func Specs() []models.AgentSpec {
	return []models.AgentSpec{DocumentationSpec, CodeLookupSpec}
}

// Decision is a routing outcome together with the evidence behind it.
type Decision struct {
	Agents []models.AgentSpec
	// MatchedExplanatory is the first explanatory keyword found, if any.
	MatchedExplanatory string
	// MatchedCode is the first code-retrieval keyword found, if any.
	MatchedCode string
	// Fallback is true when nothing matched and every agent was selected.
	Fallback bool
}

// Classify routes a query and reports which keywords decided it.
// It performs no I/O and cannot fail. When neither keyword set matches,
// both agents are selected.
func Classify(query string) Decision {
	lower := strings.ToLower(query)

	d := Decision{
		MatchedExplanatory: firstMatch(lower, DefaultKeywords.Explanatory),
		MatchedCode:        firstMatch(lower, DefaultKeywords.CodeRetrieval),
	}

	needsDocs := d.MatchedExplanatory != ""
	needsCode := d.MatchedCode != ""
	if !needsDocs && !needsCode {
		needsDocs, needsCode = true, true
		d.Fallback = true
	}

	if needsDocs {
		d.Agents = append(d.Agents, DocumentationSpec)
	}
	if needsCode {
		d.Agents = append(d.Agents, CodeLookupSpec)
	}
	return d
}

// Route returns the agents to invoke for query, in fixed order.
func Route(query string) []models.AgentSpec {
	return Classify(query).Agents
}

// Names returns the agent names of specs, preserving order.
func Names(specs []models.AgentSpec) []string {
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	return names
}

func firstMatch(lower string, keywords []string) string {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return kw
		}
	}
	return ""
}
