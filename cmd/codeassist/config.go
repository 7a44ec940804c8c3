package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/velloreakash21/multi-agent-code-assistant/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify codeassist configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the value and saves the user config.

Configuration is stored at ~/.config/codeassist/config.yaml
Project-specific overrides can be placed in .codeassist.yaml
API keys are read from ANTHROPIC_API_KEY and TAVILY_API_KEY.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch len(args) {
		case 0:
			displayAllConfig(os.Stdout, cfg)
			return nil
		case 1:
			value, err := getConfigValue(cfg, args[0])
			if err != nil {
				return err
			}
			fmt.Println(value)
			return nil
		default:
			if err := setConfigValue(cfg, args[0], args[1]); err != nil {
				return err
			}
			path, err := config.Save(cfg)
			if err != nil {
				return err
			}
			fmt.Printf("Set %s = %s in %s\n", args[0], args[1], path)
			return nil
		}
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the current configuration to the user config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Save(cfg)
		if err != nil {
			return err
		}
		printStatus("✓", "Wrote "+path, color.FgGreen)

		key, err := config.GetAPIKey(cfg)
		switch {
		case cfg.Anthropic.UseBedrock:
			printStatus("✓", "Using AWS Bedrock credentials", color.FgGreen)
		case err != nil:
			printStatus("⚠", "ANTHROPIC_API_KEY not set (you can set it later)", color.FgYellow)
		case config.ValidateAPIKey(key) != nil:
			printStatus("⚠", "ANTHROPIC_API_KEY looks malformed: "+config.ValidateAPIKey(key).Error(), color.FgYellow)
		default:
			printStatus("✓", "ANTHROPIC_API_KEY is set", color.FgGreen)
		}
		if _, err := config.GetTavilyKey(cfg); err != nil {
			printStatus("⚠", "TAVILY_API_KEY not set; web search will be unavailable", color.FgYellow)
		} else {
			printStatus("✓", "TAVILY_API_KEY is set", color.FgGreen)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
}

// configKeys lists the keys accepted by getConfigValue, in display order.
var configKeys = []string{
	"anthropic.api_key",
	"anthropic.model",
	"anthropic.max_tokens",
	"anthropic.use_bedrock",
	"anthropic.aws_region",
	"tavily.api_key",
	"tavily.search_depth",
	"tavily.max_results",
	"tavily.max_retries",
	"tavily.timeout",
	"snippets.db_path",
	"telemetry.enabled",
	"telemetry.endpoint",
	"telemetry.service_name",
	"agents.max_iterations",
	"server.addr",
	"log.level",
	"log.format",
}

// displayAllConfig prints all configuration values.
func displayAllConfig(w io.Writer, cfg *config.Config) {
	for _, key := range configKeys {
		value, _ := getConfigValue(cfg, key)
		fmt.Fprintf(w, "%s: %s\n", key, value)
	}
	fmt.Fprintf(w, "\nuser config: %s\n", config.GetUserConfigPath())
	if p := config.GetProjectConfigPath(); p != "" {
		fmt.Fprintf(w, "project config: %s\n", p)
	}
}

// getConfigValue retrieves a configuration value by dot-notation key.
// Secrets are masked.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		k, _ := config.GetAPIKey(cfg)
		return fmt.Sprintf("%s (%s)", config.MaskAPIKey(k), config.GetAPIKeySource(cfg)), nil
	case "anthropic.model":
		return cfg.Anthropic.Model, nil
	case "anthropic.max_tokens":
		return strconv.Itoa(cfg.Anthropic.MaxTokens), nil
	case "anthropic.use_bedrock":
		return strconv.FormatBool(cfg.Anthropic.UseBedrock), nil
	case "anthropic.aws_region":
		return cfg.Anthropic.AWSRegion, nil
	case "tavily.api_key":
		k, _ := config.GetTavilyKey(cfg)
		return config.MaskAPIKey(k), nil
	case "tavily.search_depth":
		return cfg.Tavily.SearchDepth, nil
	case "tavily.max_results":
		return strconv.Itoa(cfg.Tavily.MaxResults), nil
	case "tavily.max_retries":
		return strconv.Itoa(cfg.Tavily.MaxRetries), nil
	case "tavily.timeout":
		return cfg.Tavily.Timeout.String(), nil
	case "snippets.db_path":
		return cfg.Snippets.DBPath, nil
	case "telemetry.enabled":
		return strconv.FormatBool(cfg.Telemetry.Enabled), nil
	case "telemetry.endpoint":
		return cfg.Telemetry.Endpoint, nil
	case "telemetry.service_name":
		return cfg.Telemetry.ServiceName, nil
	case "agents.max_iterations":
		return strconv.Itoa(cfg.Agents.MaxIterations), nil
	case "server.addr":
		return cfg.Server.Addr, nil
	case "log.level":
		return cfg.Log.Level, nil
	case "log.format":
		return cfg.Log.Format, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key and
// validates the result. API keys cannot be set here.
func setConfigValue(cfg *config.Config, key, value string) error {
	next := *cfg
	switch strings.ToLower(key) {
	case "anthropic.api_key", "tavily.api_key":
		return fmt.Errorf("%s is read from the environment; export it instead", key)
	case "anthropic.model":
		next.Anthropic.Model = value
	case "anthropic.max_tokens":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_tokens: %w", err)
		}
		next.Anthropic.MaxTokens = n
	case "anthropic.use_bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for use_bedrock: %w", err)
		}
		next.Anthropic.UseBedrock = b
	case "anthropic.aws_region":
		next.Anthropic.AWSRegion = value
	case "tavily.search_depth":
		next.Tavily.SearchDepth = value
	case "tavily.max_results":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_results: %w", err)
		}
		next.Tavily.MaxResults = n
	case "tavily.max_retries":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_retries: %w", err)
		}
		next.Tavily.MaxRetries = n
	case "tavily.timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for tavily.timeout: %w", err)
		}
		next.Tavily.Timeout = d
	case "snippets.db_path":
		next.Snippets.DBPath = value
	case "telemetry.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for telemetry.enabled: %w", err)
		}
		next.Telemetry.Enabled = b
	case "telemetry.endpoint":
		next.Telemetry.Endpoint = value
	case "telemetry.service_name":
		next.Telemetry.ServiceName = value
	case "agents.max_iterations":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_iterations: %w", err)
		}
		next.Agents.MaxIterations = n
	case "server.addr":
		next.Server.Addr = value
	case "log.level":
		next.Log.Level = value
	case "log.format":
		next.Log.Format = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*cfg = next
	return nil
}
