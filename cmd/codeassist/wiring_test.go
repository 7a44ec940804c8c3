package main

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/velloreakash21/multi-agent-code-assistant/internal/config"
	"github.com/velloreakash21/multi-agent-code-assistant/internal/snippets"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Telemetry.Enabled = false
	cfg.Snippets.DBPath = filepath.Join(t.TempDir(), "snippets.db")
	return cfg
}

func TestNewAssistant(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "not-an-anthropic-key")
	t.Setenv("TAVILY_API_KEY", "")

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	ctx := context.Background()

	a, err := newAssistant(ctx, testConfig(t), logger, true)
	if err != nil {
		t.Fatalf("newAssistant() error = %v", err)
	}
	defer a.Close(ctx)

	if a.orch == nil || a.registry == nil {
		t.Fatalf("assistant = %+v, want orchestrator and registry", a)
	}
	n, err := a.store.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if want := len(snippets.DefaultSnippets()); n != want {
		t.Errorf("store count = %d, want %d built-in samples", n, want)
	}

	out := logs.String()
	for _, want := range []string{
		"API key looks malformed",
		"web search disabled",
		"assistant ready",
		"bedrock=false",
		"metrics=true",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("logs missing %q:\n%s", want, out)
		}
	}
}

func TestNewAssistant_NoAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	cfg := testConfig(t)
	_, err := newAssistant(context.Background(), cfg, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), false)
	if err == nil {
		t.Fatal("newAssistant() expected error without an API key")
	}
}

func TestNewLLMClient_WellFormedKeyIsQuiet(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-REDACTED")

	var logs bytes.Buffer
	client, err := newLLMClient(config.Default(), slog.New(slog.NewTextHandler(&logs, nil)))
	if err != nil {
		t.Fatalf("newLLMClient() error = %v", err)
	}
	if client.IsBedrock() {
		t.Error("IsBedrock() = true for an API key client")
	}
	if logs.Len() != 0 {
		t.Errorf("unexpected logs: %s", logs.String())
	}
}
