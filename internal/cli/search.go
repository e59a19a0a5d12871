package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	searchLimit int
	searchHTML  bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search species",
	Long: `Search species by name and content.

Perspective keywords in the query ("edible", "toxic", "forest", ...) select
the fields shown on each card and are not searched for.

Examples:
  amorph search chanterelle
  amorph search "toxic amanita"
  amorph search "edible forest" --html`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "max results")
	searchCmd.Flags().BoolVar(&searchHTML, "html", false, "print the rendered grid")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := getApp(ctx)
	if err != nil {
		return err
	}

	grid, err := a.Species.SearchGrid(ctx, args[0], searchLimit)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	out := cmd.OutOrStdout()
	if searchHTML {
		fmt.Fprintln(out, grid.Markup)
		return nil
	}

	if len(grid.Cards) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}

	fmt.Fprintf(out, "Found %d results", len(grid.Cards))
	if len(grid.Perspectives) > 0 {
		fmt.Fprintf(out, " (%s)", strings.Join(grid.Perspectives, ", "))
	}
	fmt.Fprint(out, ":\n\n")
	for i, card := range grid.Cards {
		fmt.Fprintf(out, "%d. %s %s\n", i+1,
			defaultTheme.nameStyle().Render(card.Name),
			defaultTheme.hintStyle().Render(card.Slug))
	}
	return nil
}
