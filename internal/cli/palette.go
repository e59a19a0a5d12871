package cli

import (
	"fmt"

	"github.com/Shadojus/amorph/internal/compare"
	"github.com/Shadojus/amorph/internal/web"
	"github.com/spf13/cobra"
)

var paletteCSS bool

var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "Show the entity color order",
	Long: `Print the colors assigned to compared entities, in order. The first
selected species gets color 0, the second color 1, and so on.

Examples:
  amorph palette
  amorph palette --css > amorph.css`,
	Args: cobra.NoArgs,
	RunE: runPalette,
}

func init() {
	paletteCmd.Flags().BoolVar(&paletteCSS, "css", false, "print as CSS custom properties")
}

func runPalette(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if paletteCSS {
		fmt.Fprint(out, web.Stylesheet())
		return nil
	}
	for i, c := range compare.Palette {
		fmt.Fprintf(out, "%d %s %s\n", i, swatch(c), c)
	}
	return nil
}
