package cli

import (
	"context"
	"fmt"

	"github.com/Shadojus/amorph/internal/service"
	"github.com/spf13/cobra"
)

var (
	importDryRun      bool
	importConcurrency int
)

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Import species Markdown files into SurrealDB",
	Long: `Parse every .md file under a directory and upsert the species into
SurrealDB. Requires AMORPH_STORE=surreal.

Examples:
  amorph import data/species
  amorph import data/species --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "parse only, write nothing")
	importCmd.Flags().IntVarP(&importConcurrency, "concurrency", "c", 4, "parallel writes")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := getApp(ctx)
	if err != nil {
		return err
	}
	importer, err := a.Importer()
	if err != nil {
		return err
	}

	res, err := importer.ImportDirectory(ctx, args[0], service.ImportOptions{
		DryRun:      importDryRun,
		Concurrency: importConcurrency,
	})
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	out := cmd.OutOrStdout()
	if importDryRun {
		fmt.Fprintf(out, "Parsed %d species (dry run)\n", res.Species)
		return nil
	}
	fmt.Fprintf(out, "%s %d of %d species\n",
		defaultTheme.successStyle().Render("Imported"), res.Imported, res.Species)
	for _, e := range res.Errors {
		fmt.Fprintf(out, "  %s %s\n", defaultTheme.errorStyle().Render("✗"), e)
	}
	if len(res.Errors) > 0 {
		return fmt.Errorf("%d species failed to import", len(res.Errors))
	}
	return nil
}
