package cli

import (
	"encoding/json"
	"fmt"

	"github.com/Shadojus/amorph/internal/app"
	"github.com/Shadojus/amorph/internal/config"
	"github.com/spf13/cobra"
)

var classifyField string

var classifyCmd = &cobra.Command{
	Use:   "classify <value>",
	Short: "Show how a value would be rendered",
	Long: `Classify a value and print the representation it renders as.

The value is parsed as JSON when possible, otherwise it is taken as a
plain string. The field name is used as a hint, like it is when rendering.

Examples:
  amorph classify '{"min": 8, "max": 20}'
  amorph classify 4.5 --field rating
  amorph classify '[{"date": "2024-05", "event": "fruiting"}]'
  amorph classify "https://example.org/cap.jpg"`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyField, "field", "f", "", "field name hint")
}

func runClassify(cmd *cobra.Command, args []string) error {
	schema, err := config.LoadSchema(cfg.SchemaFile)
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}
	eng := app.NewEngine(cfg, schema, nil, logger())

	var value any = args[0]
	var parsed any
	if err := json.Unmarshal([]byte(args[0]), &parsed); err == nil {
		value = parsed
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, defaultTheme.tagStyle().Render(eng.Classify(value, classifyField).String()))
	if classifyField != "" {
		label := eng.Label(classifyField)
		if label.Unit != "" {
			fmt.Fprintf(out, "Label: %s (%s)\n", label.Text, label.Unit)
		} else {
			fmt.Fprintf(out, "Label: %s\n", label.Text)
		}
	}
	return nil
}
