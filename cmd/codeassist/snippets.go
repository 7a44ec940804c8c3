package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/velloreakash21/multi-agent-code-assistant/internal/snippets"
	"github.com/velloreakash21/multi-agent-code-assistant/pkg/models"
)

var (
	listFilter models.SnippetFilter
	listLimit  int
	listJSON   bool
)

var snippetsCmd = &cobra.Command{
	Use:   "snippets",
	Short: "Manage the code snippet database",
	Long: `Inspect and load the local code snippet database used by the code
lookup agent.

Seed files are YAML:

  snippets:
    - title: Connect to Oracle
      language: python
      framework: oracledb
      category: database
      code: |
        import oracledb`,
}

var snippetsSeedCmd = &cobra.Command{
	Use:   "seed [file.yaml]",
	Short: "Replace all snippets with a seed file or the built-in samples",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list := snippets.DefaultSnippets()
		source := "built-in samples"
		if len(args) == 1 {
			var err error
			if list, err = snippets.LoadSeedFile(args[0]); err != nil {
				return err
			}
			source = args[0]
		}

		return withStore(cmd, func(ctx context.Context, store *snippets.Store) error {
			if err := store.Seed(ctx, list); err != nil {
				return err
			}
			printStatus("✓", fmt.Sprintf("Loaded %d snippets from %s into %s", len(list), source, store.Path()), color.FgGreen)
			return nil
		})
	},
}

var snippetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Search snippets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store *snippets.Store) error {
			list, err := store.Find(ctx, listFilter, listLimit)
			if err != nil {
				return err
			}
			if listJSON {
				return printJSON(list)
			}
			fmt.Print(renderSnippetList(list))
			return nil
		})
	},
}

var snippetsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one snippet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid snippet id %q", args[0])
		}
		return withStore(cmd, func(ctx context.Context, store *snippets.Store) error {
			sn, err := store.Get(ctx, id)
			if err != nil {
				return err
			}
			if listJSON {
				return printJSON(sn)
			}
			fmt.Print(renderSnippet(sn))
			return nil
		})
	},
}

var snippetsCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories with snippet counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store *snippets.Store) error {
			facets, err := store.Categories(ctx)
			if err != nil {
				return err
			}
			fmt.Print(renderFacets("Category", facets))
			return nil
		})
	},
}

var snippetsLanguagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List languages with snippet counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store *snippets.Store) error {
			facets, err := store.Languages(ctx)
			if err != nil {
				return err
			}
			fmt.Print(renderFacets("Language", facets))
			return nil
		})
	},
}

var snippetsWatchCmd = &cobra.Command{
	Use:   "watch <file.yaml>",
	Short: "Reseed the database whenever a seed file changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		list, err := snippets.LoadSeedFile(args[0])
		if err != nil {
			return err
		}
		if err := store.Seed(ctx, list); err != nil {
			return err
		}
		printStatus("✓", fmt.Sprintf("Loaded %d snippets from %s", len(list), args[0]), color.FgGreen)
		printStatus("·", "Watching for changes (Ctrl+C to stop)", color.FgCyan)

		return store.Watch(ctx, args[0], func(n int, err error) {
			if err != nil {
				printStatus("✗", fmt.Sprintf("Reload failed: %v", err), color.FgRed)
				return
			}
			printStatus("✓", fmt.Sprintf("Reloaded %d snippets", n), color.FgGreen)
		})
	},
}

func init() {
	snippetsListCmd.Flags().StringVar(&listFilter.Language, "language", "", "Filter by language")
	snippetsListCmd.Flags().StringVar(&listFilter.Category, "category", "", "Filter by category")
	snippetsListCmd.Flags().StringVar(&listFilter.Framework, "framework", "", "Filter by framework (substring)")
	snippetsListCmd.Flags().StringVar(&listFilter.Keyword, "keyword", "", "Match title, description or tags")
	snippetsListCmd.Flags().IntVar(&listLimit, "limit", snippets.DefaultLimit, "Maximum results")
	snippetsListCmd.Flags().BoolVar(&listJSON, "json", false, "Print as JSON")
	snippetsGetCmd.Flags().BoolVar(&listJSON, "json", false, "Print as JSON")

	snippetsCmd.AddCommand(snippetsSeedCmd)
	snippetsCmd.AddCommand(snippetsListCmd)
	snippetsCmd.AddCommand(snippetsGetCmd)
	snippetsCmd.AddCommand(snippetsCategoriesCmd)
	snippetsCmd.AddCommand(snippetsLanguagesCmd)
	snippetsCmd.AddCommand(snippetsWatchCmd)
}

// withStore opens the configured store for the duration of fn.
func withStore(cmd *cobra.Command, fn func(context.Context, *snippets.Store) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(ctx, store)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printStatus prints a status line with color
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}
