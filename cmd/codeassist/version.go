package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/velloreakash21/multi-agent-code-assistant/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	// Skip config loading so version works with a broken config.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("codeassist version %s\n", version.String())
	},
}
