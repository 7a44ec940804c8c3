package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/velloreakash21/multi-agent-code-assistant/internal/orchestrator"
)

var (
	askJSON  bool
	askQuiet bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a developer question",
	Long: `Route a question to the documentation and code lookup agents and print
the combined answer.

Examples:
  codeassist ask "How do I connect to Oracle with Python?"
  codeassist ask --json "show me an example of errgroup in Go"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "Print the full result as JSON")
	askCmd.Flags().BoolVarP(&askQuiet, "quiet", "q", false, "Do not print progress")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	question := strings.Join(args, " ")

	a, err := newAssistant(ctx, cfg, logger, false)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	var opts []orchestrator.AnswerOption
	if !askQuiet && !askJSON {
		var mu sync.Mutex
		opts = append(opts, orchestrator.WithStatus(func(e orchestrator.StatusEvent) {
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintln(os.Stderr, statusLine(e))
		}))
	}

	res, err := a.orch.Answer(ctx, question, opts...)
	if err != nil {
		return err
	}

	if askJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Println()
	fmt.Println(res.Response)
	fmt.Println()
	fmt.Print(renderTimings(res))
	if tr := a.client.Tracker(); tr.Calls() > 0 {
		in, out := tr.Total()
		fmt.Printf("tokens %d in / %d out over %d calls · est. $%.4f\n", in, out, tr.Calls(), tr.Cost())
	}
	return nil
}
