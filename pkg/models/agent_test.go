package models

import (
	"testing"
	"time"
)

func TestAgentKind_Valid(t *testing.T) {
	tests := []struct {
		name string
		kind AgentKind
		want bool
	}{
		{"documentation is valid", AgentKindDocumentation, true},
		{"code_lookup is valid", AgentKindCodeLookup, true},
		{"empty string is invalid", AgentKind(""), false},
		{"unknown kind is invalid", AgentKind("planner"), false},
		{"wrong case is invalid", AgentKind("Documentation"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.kind.Valid(); got != tt.want {
				t.Errorf("AgentKind(%q).Valid() = %v, want %v", tt.kind, got, tt.want)
			}
		})
	}
}

func TestAgentResult_FailedToolCalls(t *testing.T) {
	r := AgentResult{
		ToolCalls: []ToolCallRecord{
			{Tool: "web_search", Success: true, Duration: time.Millisecond},
			{Tool: "web_search", Success: false, Error: "rate limited"},
			{Tool: "search_code_snippets", Success: false, Error: "db closed"},
		},
	}

	if got := r.FailedToolCalls(); got != 2 {
		t.Errorf("FailedToolCalls() = %d, want 2", got)
	}

	if got := (AgentResult{}).FailedToolCalls(); got != 0 {
		t.Errorf("FailedToolCalls() on empty result = %d, want 0", got)
	}
}

func TestQueryResult_SucceededAndFailed(t *testing.T) {
	qr := &QueryResult{
		AgentResults: []AgentResult{
			{Agent: "documentation", Success: true, Text: "docs"},
			{Agent: "code_lookup", Success: false, Error: "model unreachable"},
		},
	}

	ok := qr.Succeeded()
	if len(ok) != 1 || ok[0].Agent != "documentation" {
		t.Errorf("Succeeded() = %+v, want only documentation", ok)
	}

	failed := qr.Failed()
	if len(failed) != 1 || failed[0].Agent != "code_lookup" {
		t.Errorf("Failed() = %+v, want only code_lookup", failed)
	}

	if qr.Degraded() {
		t.Error("Degraded() should be false without an error detail")
	}

	qr.Error = "all agents failed"
	if !qr.Degraded() {
		t.Error("Degraded() should be true with an error detail")
	}
}

func TestSnippetFilter_IsEmpty(t *testing.T) {
	if !(SnippetFilter{}).IsEmpty() {
		t.Error("zero filter should be empty")
	}
	if (SnippetFilter{Keyword: "pool"}).IsEmpty() {
		t.Error("filter with keyword should not be empty")
	}
}
