package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/velloreakash21/multi-agent-code-assistant/internal/config"
	"github.com/velloreakash21/multi-agent-code-assistant/internal/logging"
)

var (
	cfgFile     string
	logLevel    string
	noTelemetry bool

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "codeassist",
	Short: "Multi-agent code assistant",
	Long: `codeassist answers developer questions with two cooperating agents:

- a documentation agent that searches the web for docs and tutorials
- a code lookup agent that searches a local database of code snippets

Each query is routed by keyword to the relevant agents, which run in
parallel. Their answers are combined and every step is traced with
OpenTelemetry.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgFile != "" {
			cfg, err = config.LoadFromPath(cfgFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		if noTelemetry {
			cfg.Telemetry.Enabled = false
		}
		logger = logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
		slog.SetDefault(logger)
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: .codeassist.yaml, then ~/.config/codeassist/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&noTelemetry, "no-telemetry", false, "Disable trace export")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(snippetsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
