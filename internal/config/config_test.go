package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv blanks variables that would override file values.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ANTHROPIC_API_KEY", "TAVILY_API_KEY", "OTEL_EXPORTER_OTLP_ENDPOINT",
		"OTEL_SERVICE_NAME", "AWS_REGION", "CODEASSIST_SERVER_ADDR", "CODEASSIST_LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Anthropic.Model != "claude-sonnet-4-20250514" {
		t.Errorf("expected default model, got %q", cfg.Anthropic.Model)
	}
	if cfg.Anthropic.MaxTokens != 4096 {
		t.Errorf("expected max tokens 4096, got %d", cfg.Anthropic.MaxTokens)
	}
	if cfg.Tavily.SearchDepth != "basic" || cfg.Tavily.MaxResults != 5 {
		t.Errorf("unexpected tavily defaults: %+v", cfg.Tavily)
	}
	if cfg.Tavily.Timeout != 10*time.Second {
		t.Errorf("expected tavily timeout 10s, got %v", cfg.Tavily.Timeout)
	}
	if cfg.Telemetry.Endpoint != "localhost:4317" || cfg.Telemetry.ServiceName != "code-assistant" {
		t.Errorf("unexpected telemetry defaults: %+v", cfg.Telemetry)
	}
	if !cfg.Telemetry.Enabled {
		t.Error("expected telemetry to be enabled by default")
	}
	if cfg.Agents.MaxIterations != 6 {
		t.Errorf("expected max iterations 6, got %d", cfg.Agents.MaxIterations)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected addr :8080, got %q", cfg.Server.Addr)
	}
	if !strings.HasSuffix(cfg.Snippets.DBPath, filepath.Join("codeassist", "snippets.db")) {
		t.Errorf("unexpected db path %q", cfg.Snippets.DBPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestDefault_XDGDataHome(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := Default().Snippets.DBPath; got != filepath.Join("/data", "codeassist", "snippets.db") {
		t.Errorf("DBPath = %q", got)
	}
}

func TestLoadFromPath(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, t.TempDir(), "config.yaml", `
anthropic:
  api_key: test-key
  model: claude-3-5-haiku-20241022
  max_tokens: 1024
tavily:
  search_depth: advanced
  max_results: 3
  timeout: 30s
telemetry:
  enabled: false
  endpoint: http://collector:4317
agents:
  max_iterations: 4
server:
  addr: 127.0.0.1:9000
log:
  level: debug
  format: json
`)

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}

	if cfg.Anthropic.APIKey != "test-key" || cfg.Anthropic.Model != "claude-3-5-haiku-20241022" || cfg.Anthropic.MaxTokens != 1024 {
		t.Errorf("anthropic = %+v", cfg.Anthropic)
	}
	if cfg.Tavily.SearchDepth != "advanced" || cfg.Tavily.MaxResults != 3 || cfg.Tavily.Timeout != 30*time.Second {
		t.Errorf("tavily = %+v", cfg.Tavily)
	}
	if cfg.Telemetry.Enabled || cfg.Telemetry.Endpoint != "http://collector:4317" {
		t.Errorf("telemetry = %+v", cfg.Telemetry)
	}
	// Unset keys keep their defaults.
	if cfg.Telemetry.ServiceName != "code-assistant" || cfg.Telemetry.DialTimeout != 2*time.Second {
		t.Errorf("telemetry defaults lost: %+v", cfg.Telemetry)
	}
	if cfg.Agents.MaxIterations != 4 || cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("agents/server = %+v %+v", cfg.Agents, cfg.Server)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestLoadFromPath_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, t.TempDir(), "config.yaml", `
anthropic:
  api_key: file-key
telemetry:
  endpoint: file:4317
server:
  addr: ":1"
`)
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-from-env")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://otel:4317")
	t.Setenv("OTEL_SERVICE_NAME", "svc")
	t.Setenv("CODEASSIST_SERVER_ADDR", ":2")

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.Anthropic.APIKey != "sk-ant-from-env" {
		t.Errorf("api key = %q, want env value", cfg.Anthropic.APIKey)
	}
	if cfg.Telemetry.Endpoint != "http://otel:4317" || cfg.Telemetry.ServiceName != "svc" {
		t.Errorf("telemetry = %+v", cfg.Telemetry)
	}
	if cfg.Server.Addr != ":2" {
		t.Errorf("addr = %q, want :2", cfg.Server.Addr)
	}
}

func TestLoadFromPath_ExpandsEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("MY_TAVILY", "tvly-secret")
	path := writeConfig(t, t.TempDir(), "config.yaml", "tavily:\n  api_key: ${MY_TAVILY}\n")

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.Tavily.APIKey != "tvly-secret" {
		t.Errorf("tavily key = %q", cfg.Tavily.APIKey)
	}
}

func TestLoadFromPath_Invalid(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name    string
		content string
	}{
		{"zero iterations", "agents:\n  max_iterations: 0\n"},
		{"bad depth", "tavily:\n  search_depth: deep\n"},
		{"bad log format", "log:\n  format: xml\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), "config.yaml", tt.content)
			if _, err := LoadFromPath(path); err == nil {
				t.Error("LoadFromPath() should fail")
			}
		})
	}
}

func TestLoadFromPath_Missing(t *testing.T) {
	if _, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadFromPath() with missing file should fail")
	}
}

func TestLoad_ProjectOverridesUser(t *testing.T) {
	clearEnv(t)
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	if err := os.MkdirAll(filepath.Join(xdg, "codeassist"), 0755); err != nil {
		t.Fatal(err)
	}
	writeConfig(t, filepath.Join(xdg, "codeassist"), "config.yaml", "server:\n  addr: \":7000\"\nlog:\n  level: warn\n")

	project := t.TempDir()
	nested := filepath.Join(project, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	writeConfig(t, project, ".codeassist.yaml", "server:\n  addr: \":7001\"\n")

	wd, _ := os.Getwd()
	defer os.Chdir(wd)
	if err := os.Chdir(nested); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":7001" {
		t.Errorf("addr = %q, want project value :7001", cfg.Server.Addr)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("level = %q, want user value warn", cfg.Log.Level)
	}
}

func TestSave(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Anthropic.APIKey = "sk-ant-REDACTED"
	cfg.Server.Addr = ":9999"

	path, err := Save(cfg)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if path != GetUserConfigPath() {
		t.Errorf("path = %q, want %q", path, GetUserConfigPath())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "should-not-be-written") {
		t.Error("Save() wrote a literal API key")
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if loaded.Server.Addr != ":9999" {
		t.Errorf("addr = %q after round trip", loaded.Server.Addr)
	}
}
