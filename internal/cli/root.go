// Package cli implements the quotectl command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fieldquote/backend/internal/config"
)

func Execute(ctx context.Context, build BuildInfo, streams IOStreams, args []string) int {
	app := &AppContext{Build: build, IO: streams}
	root := newRootCommand(app)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(streams.ErrOut, "ERROR:", err)
		return mapExitCode(err)
	}
	return ExitSuccess
}

func newRootCommand(app *AppContext) *cobra.Command {
	root := &cobra.Command{
		Use:   "quotectl",
		Short: "Turn design PDFs into field quotes",
		Long: "quotectl runs the quote extraction pipeline locally and inspects the " +
			"catalog and project budgets it draws on.",
		SilenceErrors:     true,
		SilenceUsage:      true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}
	root.SetIn(app.IO.In)
	root.SetOut(app.IO.Out)
	root.SetErr(app.IO.ErrOut)

	root.PersistentFlags().StringVarP(&app.Opts.ConfigPath, "config", "c", "", "Path to the XML config file")
	root.PersistentFlags().BoolVar(&app.Opts.Debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&app.Opts.JSON, "json", false, "Print machine readable JSON")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withExitCode(ExitInvalidUsage, err)
	})

	root.AddCommand(newUploadCommand(app))
	root.AddCommand(newCatalogCommand(app))
	root.AddCommand(newBudgetCommand(app))
	root.AddCommand(newVersionCommand(app))

	return root
}

func loadConfig(app *AppContext) (*config.AppConfig, error) {
	cfg, err := config.Resolve(app.Opts.ConfigPath)
	if err != nil {
		return nil, withExitCode(ExitInvalidUsage, err)
	}
	if app.Opts.Debug {
		cfg.Advanced.LogLevel = "debug"
	}
	return cfg, nil
}
