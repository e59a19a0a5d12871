package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Shadojus/amorph/internal/app"
	"github.com/Shadojus/amorph/internal/models"
	"github.com/Shadojus/amorph/internal/web"
	"github.com/spf13/cobra"
)

var (
	compareFields []string
	compareFill   bool
	compareOutput string
)

var compareCmd = &cobra.Command{
	Use:   "compare <slug[:field]>...",
	Short: "Compare fields across species",
	Long: `Compare species side by side.

Each argument is a species slug, optionally with one field ("slug:field").
--fields adds those fields for every species. Entities are colored in the
order they are given.

Examples:
  amorph compare amanita-muscaria cantharellus-cibarius --fields edibility,cap_size
  amorph compare amanita-muscaria:toxicity boletus-edulis:edibility --fill
  amorph compare amanita-muscaria boletus-edulis -f habitat -o compare.html`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringSliceVarP(&compareFields, "fields", "f", nil, "fields to compare for every species")
	compareCmd.Flags().BoolVar(&compareFill, "fill", false, "compare every selected field for every species")
	compareCmd.Flags().StringVarP(&compareOutput, "output", "o", "", "write a standalone page to this file")
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := getApp(ctx)
	if err != nil {
		return err
	}

	selections, err := buildSelections(ctx, a, args, compareFields)
	if err != nil {
		return err
	}

	resp, err := a.Compare.Compare(ctx, models.CompareRequest{Selections: selections, Fill: compareFill})
	if err != nil {
		return fmt.Errorf("compare: %w", err)
	}

	out := cmd.OutOrStdout()
	if compareOutput == "" {
		fmt.Fprintln(out, resp.Markup)
		return nil
	}
	if err := os.WriteFile(compareOutput, []byte(web.Document("Comparison", resp.Markup, true)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", compareOutput, err)
	}
	fmt.Fprintf(out, "%s %d species, %d fields to %s\n",
		defaultTheme.successStyle().Render("Compared"), resp.EntityCount, resp.FieldCount, compareOutput)
	return nil
}

// buildSelections turns "slug" and "slug:field" arguments into selections
// carrying the stored values. Fields a species does not have are skipped.
func buildSelections(ctx context.Context, a *app.App, args, fields []string) ([]models.Selection, error) {
	var selections []models.Selection
	for _, arg := range args {
		slug, field, _ := strings.Cut(arg, ":")
		names := append([]string(nil), fields...)
		if field != "" {
			names = append(names, field)
		}
		if len(names) == 0 {
			return nil, fmt.Errorf("%s: no field given, use slug:field or --fields", slug)
		}

		rec, err := a.Store.GetFields(ctx, slug, names)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, fmt.Errorf("species %q not found", slug)
			}
			return nil, fmt.Errorf("get %s: %w", slug, err)
		}
		for _, name := range names {
			v, ok := rec.Get(name)
			if !ok {
				continue
			}
			selections = append(selections, models.Selection{
				EntityID:   rec.Key(),
				EntityName: rec.DisplayName(),
				FieldName:  name,
				Value:      v,
			})
		}
	}
	if len(selections) == 0 {
		return nil, errors.New("none of the species have the requested fields")
	}
	return selections, nil
}
