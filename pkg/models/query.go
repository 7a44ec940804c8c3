package models

import "time"

// Role identifies the speaker of a history message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of prior conversation supplied by the caller.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Query is the immutable input of one orchestrator call.
type Query struct {
	Text    string    `json:"text"`
	TraceID string    `json:"trace_id"`
	History []Message `json:"history,omitempty"`
}

// QueryResult is the terminal artifact returned to the caller.
type QueryResult struct {
	Query    string `json:"query"`
	TraceID  string `json:"trace_id"`
	Response string `json:"response"`
	// AgentResults is ordered as the router selected the agents.
	AgentResults []AgentResult `json:"agent_results"`
	// Contributors names the agents whose output made it into Response.
	Contributors []string `json:"contributors"`

	TotalDuration     time.Duration `json:"total_duration"`
	RouteDuration     time.Duration `json:"route_duration"`
	AgentsDuration    time.Duration `json:"agents_duration"`
	AggregateDuration time.Duration `json:"aggregate_duration"`

	// Error is set when no agent succeeded. The result is still usable.
	Error string `json:"error,omitempty"`
}

// Succeeded returns the agent results that completed successfully.
func (r *QueryResult) Succeeded() []AgentResult {
	var out []AgentResult
	for _, ar := range r.AgentResults {
		if ar.Success {
			out = append(out, ar)
		}
	}
	return out
}

// Failed returns the agent results that did not complete.
func (r *QueryResult) Failed() []AgentResult {
	var out []AgentResult
	for _, ar := range r.AgentResults {
		if !ar.Success {
			out = append(out, ar)
		}
	}
	return out
}

// Degraded reports whether every agent failed.
func (r *QueryResult) Degraded() bool {
	return r.Error != ""
}
