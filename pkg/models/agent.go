// Package models defines the data types shared by the router, agents,
// aggregator and orchestrator.
package models

import (
	"encoding/json"
	"time"
)

// AgentKind tags one of the fixed agent variants.
type AgentKind string

const (
	// AgentKindDocumentation answers explanatory questions from web documentation.
	AgentKindDocumentation AgentKind = "documentation"
	// AgentKindCodeLookup answers code questions from the snippet store.
	AgentKindCodeLookup AgentKind = "code_lookup"
)

// Valid returns true if the kind is a known variant.
func (k AgentKind) Valid() bool {
	switch k {
	case AgentKindDocumentation, AgentKindCodeLookup:
		return true
	default:
		return false
	}
}

// AgentSpec is the static descriptor of an agent variant.
// One instance exists per variant and is never mutated.
type AgentSpec struct {
	// Name is the display name used in results, spans and metrics.
	Name string `json:"name"`
	// Kind selects the variant.
	Kind AgentKind `json:"kind"`
	// Capability is a short tag describing what the agent is good at.
	Capability string `json:"capability"`
	// Keywords are the triggers that route a query to this agent.
	Keywords []string `json:"keywords"`
}

// ToolCallRecord captures one tool invocation made during an agent's loop.
type ToolCallRecord struct {
	// Tool is the tool name requested by the model.
	Tool string `json:"tool"`
	// Input is the raw JSON input the model supplied.
	Input json.RawMessage `json:"input,omitempty"`
	// OutputSize is the length in bytes of the tool output.
	OutputSize int `json:"output_size"`
	// Summary is a truncated view of the output.
	Summary string `json:"summary,omitempty"`
	// Duration is how long the tool call took.
	Duration time.Duration `json:"duration"`
	// Success is false when the tool returned an error.
	Success bool `json:"success"`
	// Error holds the failure detail when Success is false.
	Error string `json:"error,omitempty"`
}

// AgentResult is the terminal output of one agent invocation.
type AgentResult struct {
	Agent     string           `json:"agent"`
	Kind      AgentKind        `json:"kind"`
	Text      string           `json:"text"`
	ToolCalls []ToolCallRecord `json:"tool_calls,omitempty"`
	Duration  time.Duration    `json:"duration"`
	// Iterations counts reasoning steps taken.
	Iterations int    `json:"iterations"`
	TokensIn   int64  `json:"tokens_in"`
	TokensOut  int64  `json:"tokens_out"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

// FailedToolCalls returns how many tool calls did not succeed.
func (r AgentResult) FailedToolCalls() int {
	n := 0
	for _, tc := range r.ToolCalls {
		if !tc.Success {
			n++
		}
	}
	return n
}
