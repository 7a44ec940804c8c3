package router

import (
	"reflect"
	"testing"

	"github.com/velloreakash21/multi-agent-code-assistant/pkg/models"
)

func kinds(specs []models.AgentSpec) []models.AgentKind {
	out := make([]models.AgentKind, len(specs))
	for i, s := range specs {
		out[i] = s.Kind
	}
	return out
}

var (
	docsOnly = []models.AgentKind{models.AgentKindDocumentation}
	codeOnly = []models.AgentKind{models.AgentKindCodeLookup}
	both     = []models.AgentKind{models.AgentKindDocumentation, models.AgentKindCodeLookup}
)

func TestRoute_ExplanatoryOnly(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"how", "How do I connect to Oracle database in Python?"},
		{"what", "What is connection pooling?"},
		{"why", "why is my query slow"},
		{"explain", "Explain dependency injection"},
		{"concept", "the concept of goroutines"},
		{"best practice", "Best practice for error wrapping"},
		{"documentation", "documentation for context package"},
		{"tutorial", "a tutorial on channels"},
		{"guide", "Guide to generics"},
		{"learn", "I want to learn Rust"},
		{"upper case", "WHY DOES THIS HAPPEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := kinds(Route(tt.query))
			if !reflect.DeepEqual(got, docsOnly) {
				t.Errorf("Route(%q) = %v, want %v", tt.query, got, docsOnly)
			}
		})
	}
}

func TestRoute_CodeRetrievalOnly(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"code", "code for reading a file"},
		{"example", "example"},
		{"examples plural", "FastAPI authentication examples"},
		{"snippet", "snippet for retry loop"},
		{"implement", "implement a linked list"},
		{"sample", "sample pytest fixture"},
		{"function", "function to reverse a string"},
		{"class", "Java class for a singleton"},
		{"script", "bash script to rotate logs"},
		{"mixed case", "Give me a SNIPPET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := kinds(Route(tt.query))
			if !reflect.DeepEqual(got, codeOnly) {
				t.Errorf("Route(%q) = %v, want %v", tt.query, got, codeOnly)
			}
		})
	}
}

func TestRoute_NeitherSelectsBoth(t *testing.T) {
	tests := []string{
		"",
		"oracle connection pooling",
		"FastAPI JWT",
		"!!!",
	}

	for _, q := range tests {
		t.Run(q, func(t *testing.T) {
			d := Classify(q)
			if !reflect.DeepEqual(kinds(d.Agents), both) {
				t.Errorf("Route(%q) = %v, want %v", q, kinds(d.Agents), both)
			}
			if !d.Fallback {
				t.Errorf("Classify(%q).Fallback = false, want true", q)
			}
		})
	}
}

func TestRoute_BothSetsMatch(t *testing.T) {
	d := Classify("How do I implement connection pooling?")
	if !reflect.DeepEqual(kinds(d.Agents), both) {
		t.Errorf("agents = %v, want %v", kinds(d.Agents), both)
	}
	if d.Fallback {
		t.Error("Fallback should be false when keywords matched")
	}
	if d.MatchedExplanatory != "how" || d.MatchedCode != "implement" {
		t.Errorf("matched = (%q, %q), want (how, implement)", d.MatchedExplanatory, d.MatchedCode)
	}
}

// "example" is in the code-retrieval list and nothing in the explanatory
// list is a substring of it.
func TestRoute_ExampleAgainstLiteralLists(t *testing.T) {
	if firstMatch("example", DefaultKeywords.Explanatory) != "" {
		t.Fatal("explanatory list unexpectedly matches \"example\"")
	}
	if firstMatch("example", DefaultKeywords.CodeRetrieval) != "example" {
		t.Fatal("code-retrieval list should contain \"example\"")
	}
	if got := kinds(Route("example")); !reflect.DeepEqual(got, codeOnly) {
		t.Errorf("Route(\"example\") = %v, want %v", got, codeOnly)
	}
}

// Substring matching means "show me" also contains "how".
func TestRoute_ShowMeContainsHow(t *testing.T) {
	if got := kinds(Route("show me")); !reflect.DeepEqual(got, both) {
		t.Errorf("Route(\"show me\") = %v, want %v", got, both)
	}
}

func TestRoute_Idempotent(t *testing.T) {
	queries := []string{"How do I connect?", "example", "nothing here", "How to implement X"}
	for _, q := range queries {
		first := Route(q)
		second := Route(q)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Route(%q) not idempotent: %v vs %v", q, first, second)
		}
	}
}

func TestSpecs_OrderAndNames(t *testing.T) {
	got := Names(Specs())
	want := []string{"documentation", "code_lookup"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Names(Specs()) = %v, want %v", got, want)
	}
	for _, s := range Specs() {
		if !s.Kind.Valid() {
			t.Errorf("spec %q has invalid kind %q", s.Name, s.Kind)
		}
	}
}
