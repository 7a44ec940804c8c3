package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/velloreakash21/multi-agent-code-assistant/internal/config"
)

func TestSetConfigValue(t *testing.T) {
	tests := []struct {
		key   string
		value string
		check func(*config.Config) bool
	}{
		{"anthropic.model", "claude-3-5-haiku-latest", func(c *config.Config) bool { return c.Anthropic.Model == "claude-3-5-haiku-latest" }},
		{"agents.max_iterations", "3", func(c *config.Config) bool { return c.Agents.MaxIterations == 3 }},
		{"tavily.timeout", "5s", func(c *config.Config) bool { return c.Tavily.Timeout == 5*time.Second }},
		{"tavily.search_depth", "advanced", func(c *config.Config) bool { return c.Tavily.SearchDepth == "advanced" }},
		{"telemetry.enabled", "false", func(c *config.Config) bool { return !c.Telemetry.Enabled }},
		{"LOG.LEVEL", "debug", func(c *config.Config) bool { return c.Log.Level == "debug" }},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg := config.Default()
			if err := setConfigValue(cfg, tt.key, tt.value); err != nil {
				t.Fatalf("setConfigValue() error = %v", err)
			}
			if !tt.check(cfg) {
				t.Errorf("setConfigValue(%s, %s) did not apply", tt.key, tt.value)
			}
		})
	}
}

func TestSetConfigValue_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "nope.nope", "x"},
		{"secret", "anthropic.api_key", "sk-ant-123"},
		{"bad int", "tavily.max_results", "many"},
		{"bad duration", "tavily.timeout", "soon"},
		{"fails validation", "agents.max_iterations", "0"},
		{"bad depth", "tavily.search_depth", "deep"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			before := *cfg
			if err := setConfigValue(cfg, tt.key, tt.value); err == nil {
				t.Fatal("setConfigValue() expected error")
			}
			if *cfg != before {
				t.Error("setConfigValue() modified config on error")
			}
		})
	}
}

func TestGetConfigValue_MasksKeys(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-REDACTED")
	t.Setenv("TAVILY_API_KEY", "tvly-1234567890abcdef")

	cfg := config.Default()
	got, err := getConfigValue(cfg, "anthropic.api_key")
	if err != nil {
		t.Fatal(err)
	}
	if want := "sk-ant-...mnop (environment)"; got != want {
		t.Errorf("anthropic.api_key = %q, want %q", got, want)
	}

	got, _ = getConfigValue(cfg, "tavily.api_key")
	if want := "tvly-12...cdef"; got != want {
		t.Errorf("tavily.api_key = %q, want %q", got, want)
	}

	if _, err := getConfigValue(cfg, "bogus"); err == nil {
		t.Error("getConfigValue(bogus) expected error")
	}
}

func TestDisplayAllConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("TAVILY_API_KEY", "")

	var buf bytes.Buffer
	displayAllConfig(&buf, config.Default())
	out := buf.String()

	for _, key := range configKeys {
		if !strings.Contains(out, key+": ") {
			t.Errorf("displayAllConfig() missing %s", key)
		}
	}
	if !strings.Contains(out, "anthropic.api_key: (not set) (none)") {
		t.Errorf("displayAllConfig() should show unset key, got:\n%s", out)
	}
	if !strings.Contains(out, "user config: ") {
		t.Error("displayAllConfig() missing user config path")
	}
}
