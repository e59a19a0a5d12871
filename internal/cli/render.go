package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/Shadojus/amorph/internal/web"
	"github.com/spf13/cobra"
)

var (
	renderPerspective string
	renderOutput      string
)

var renderCmd = &cobra.Command{
	Use:   "render <slug>",
	Short: "Render one species as HTML",
	Long: `Render a species detail page.

Without --output the fragment is printed. With --output a standalone HTML
page, stylesheet included, is written to the file.

Examples:
  amorph render amanita-muscaria
  amorph render amanita-muscaria --perspective safety
  amorph render amanita-muscaria -o fly-agaric.html`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderPerspective, "perspective", "p", "", "limit to one perspective's fields")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "write a standalone page to this file")
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := getApp(ctx)
	if err != nil {
		return err
	}

	page, err := a.Species.Render(ctx, args[0], renderPerspective)
	if err != nil {
		return fmt.Errorf("render %s: %w", args[0], err)
	}

	if renderOutput == "" {
		fmt.Fprintln(cmd.OutOrStdout(), page.Markup)
		return nil
	}
	doc := web.Document(page.Record.DisplayName(), page.Markup, true)
	if err := os.WriteFile(renderOutput, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", renderOutput, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s to %s\n",
		defaultTheme.successStyle().Render("Rendered"), page.Record.DisplayName(), renderOutput)
	return nil
}
