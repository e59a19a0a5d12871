// Package cli provides the command-line interface for amorph.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Shadojus/amorph/internal/app"
	"github.com/Shadojus/amorph/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Global config, loaded before every command
	cfg config.Config

	// Lazy-initialized store and services
	application *app.App
	closeLog    func() error
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "amorph",
	Short: "Render species data by the shape of its values",
	Long: `Amorph renders species records without per-field templates: every value
is classified by its shape (range, radar, timeline, badge, ...) and drawn
with a matching visual. Species can be compared field by field.

Species are read from Markdown files (AMORPH_DATA_DIR) or from SurrealDB
(AMORPH_STORE=surreal).`,
	Version:      Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if application != nil {
			if err := application.Close(context.Background()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close store: %v\n", err)
			}
			application = nil
		}
		if closeLog != nil {
			_ = closeLog()
			closeLog = nil
		}
	},
}

// getApp opens the configured store on first use. Commands that do not
// read species never pay for loading them.
func getApp(ctx context.Context) (*app.App, error) {
	if application != nil {
		return application, nil
	}
	a, err := app.New(ctx, cfg, logger())
	if err != nil {
		return nil, err
	}
	application = a
	return a, nil
}

// logger writes to stderr only; verbose lowers the level to DEBUG.
func logger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	l, cleanup := config.SetupLogger(config.LogOptions{Level: level})
	closeLog = cleanup
	return l
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(paletteCmd)
}
