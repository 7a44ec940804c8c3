// Package config handles configuration loading for the code assistant.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	appName           = "codeassist"
	projectConfigName = ".codeassist.yaml"
	envPrefix         = "CODEASSIST"
)

// Config holds all configuration for the code assistant.
type Config struct {
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Tavily    TavilyConfig    `mapstructure:"tavily"`
	Snippets  SnippetsConfig  `mapstructure:"snippets"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Agents    AgentsConfig    `mapstructure:"agents"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
}

// AnthropicConfig holds language model settings.
type AnthropicConfig struct {
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	MaxTokens  int    `mapstructure:"max_tokens"`
	BaseURL    string `mapstructure:"base_url"`
	UseBedrock bool   `mapstructure:"use_bedrock"`
	AWSRegion  string `mapstructure:"aws_region"`
	AWSProfile string `mapstructure:"aws_profile"`
}

// TavilyConfig holds web search settings.
type TavilyConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	SearchDepth string        `mapstructure:"search_depth"`
	MaxResults  int           `mapstructure:"max_results"`
	MaxRetries  int           `mapstructure:"max_retries"`
	Timeout     time.Duration `mapstructure:"timeout"`
	BaseURL     string        `mapstructure:"base_url"`
}

// SnippetsConfig holds snippet store settings.
type SnippetsConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// TelemetryConfig holds tracing settings.
type TelemetryConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Endpoint    string        `mapstructure:"endpoint"`
	ServiceName string        `mapstructure:"service_name"`
	Insecure    bool          `mapstructure:"insecure"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// AgentsConfig holds agent loop settings.
type AgentsConfig struct {
	// MaxIterations bounds reasoning steps per agent invocation.
	MaxIterations int `mapstructure:"max_iterations"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY, TAVILY_API_KEY, OTEL_*, CODEASSIST_*)
// 2. Project config (.codeassist.yaml in current directory or parent)
// 3. User config (~/.config/codeassist/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading project config %s: %w", projectConfig, err)
		}
		if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	bindEnv(v)
	return unmarshal(v)
}

// LoadFromPath loads configuration from a specific file. Environment
// variables still take precedence.
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	bindEnv(v)
	return unmarshal(v)
}

// Save writes cfg to the user config file. Secrets are written as
// ${VAR} references, never as literal keys.
func Save(cfg *Config) (string, error) {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("anthropic.api_key", "${ANTHROPIC_API_KEY}")
	v.Set("anthropic.model", cfg.Anthropic.Model)
	v.Set("anthropic.max_tokens", cfg.Anthropic.MaxTokens)
	v.Set("anthropic.use_bedrock", cfg.Anthropic.UseBedrock)
	if cfg.Anthropic.AWSRegion != "" {
		v.Set("anthropic.aws_region", cfg.Anthropic.AWSRegion)
	}
	v.Set("tavily.api_key", "${TAVILY_API_KEY}")
	v.Set("tavily.search_depth", cfg.Tavily.SearchDepth)
	v.Set("tavily.max_results", cfg.Tavily.MaxResults)
	v.Set("tavily.max_retries", cfg.Tavily.MaxRetries)
	v.Set("tavily.timeout", cfg.Tavily.Timeout.String())
	v.Set("snippets.db_path", cfg.Snippets.DBPath)
	v.Set("telemetry.enabled", cfg.Telemetry.Enabled)
	v.Set("telemetry.endpoint", cfg.Telemetry.Endpoint)
	v.Set("telemetry.service_name", cfg.Telemetry.ServiceName)
	v.Set("agents.max_iterations", cfg.Agents.MaxIterations)
	v.Set("server.addr", cfg.Server.Addr)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)

	if err := v.WriteConfig(); err != nil {
		return "", fmt.Errorf("writing %s: %w", configPath, err)
	}
	return configPath, nil
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", d.Anthropic.Model)
	v.SetDefault("anthropic.max_tokens", d.Anthropic.MaxTokens)
	v.SetDefault("anthropic.base_url", "")
	v.SetDefault("anthropic.use_bedrock", false)
	v.SetDefault("anthropic.aws_region", "")
	v.SetDefault("anthropic.aws_profile", "")

	v.SetDefault("tavily.api_key", "")
	v.SetDefault("tavily.search_depth", d.Tavily.SearchDepth)
	v.SetDefault("tavily.max_results", d.Tavily.MaxResults)
	v.SetDefault("tavily.max_retries", d.Tavily.MaxRetries)
	v.SetDefault("tavily.timeout", d.Tavily.Timeout.String())
	v.SetDefault("tavily.base_url", d.Tavily.BaseURL)

	v.SetDefault("snippets.db_path", d.Snippets.DBPath)

	v.SetDefault("telemetry.enabled", d.Telemetry.Enabled)
	v.SetDefault("telemetry.endpoint", d.Telemetry.Endpoint)
	v.SetDefault("telemetry.service_name", d.Telemetry.ServiceName)
	v.SetDefault("telemetry.insecure", d.Telemetry.Insecure)
	v.SetDefault("telemetry.dial_timeout", d.Telemetry.DialTimeout.String())

	v.SetDefault("agents.max_iterations", d.Agents.MaxIterations)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// bindEnv maps the well-known variables and CODEASSIST_SECTION_KEY overrides.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY", envPrefix+"_ANTHROPIC_API_KEY")
	v.BindEnv("tavily.api_key", "TAVILY_API_KEY", envPrefix+"_TAVILY_API_KEY")
	v.BindEnv("telemetry.endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT", envPrefix+"_TELEMETRY_ENDPOINT")
	v.BindEnv("telemetry.service_name", "OTEL_SERVICE_NAME", envPrefix+"_TELEMETRY_SERVICE_NAME")
	v.BindEnv("anthropic.aws_region", "AWS_REGION", envPrefix+"_ANTHROPIC_AWS_REGION")
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)
	cfg.Tavily.APIKey = expandEnv(cfg.Tavily.APIKey)
	cfg.Snippets.DBPath = expandEnv(cfg.Snippets.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	if c.Agents.MaxIterations < 1 {
		return fmt.Errorf("agents.max_iterations must be at least 1, got %d", c.Agents.MaxIterations)
	}
	if c.Anthropic.MaxTokens < 1 {
		return fmt.Errorf("anthropic.max_tokens must be at least 1, got %d", c.Anthropic.MaxTokens)
	}
	switch c.Tavily.SearchDepth {
	case "basic", "advanced":
	default:
		return fmt.Errorf("tavily.search_depth must be basic or advanced, got %q", c.Tavily.SearchDepth)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// getUserConfigDir returns the XDG config directory for the assistant.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, appName)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", appName)
	}
	return filepath.Join(home, ".config", appName)
}

// defaultDBPath returns the XDG data path for the snippet database.
func defaultDBPath() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, appName, "snippets.db")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "snippets.db")
	}
	return filepath.Join(home, ".local", "share", appName, "snippets.db")
}

// findProjectConfig searches for .codeassist.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, projectConfigName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Anthropic: AnthropicConfig{
			Model:     "claude-sonnet-4-20250514",
			MaxTokens: 4096,
		},
		Tavily: TavilyConfig{
			SearchDepth: "basic",
			MaxResults:  5,
			MaxRetries:  3,
			Timeout:     10 * time.Second,
			BaseURL:     "https://api.tavily.com",
		},
		Snippets: SnippetsConfig{
			DBPath: defaultDBPath(),
		},
		Telemetry: TelemetryConfig{
			Enabled:     true,
			Endpoint:    "localhost:4317",
			ServiceName: "code-assistant",
			Insecure:    true,
			DialTimeout: 2 * time.Second,
		},
		Agents: AgentsConfig{
			MaxIterations: 6,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
