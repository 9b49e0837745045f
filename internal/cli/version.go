package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCommand(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version/build metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printVersion(app)
		},
	}
}

func printVersion(app *AppContext) error {
	b := app.Build
	if b.Version == "" {
		b.Version = "dev"
	}
	if b.Commit == "" {
		b.Commit = "unknown"
	}
	if b.Date == "" {
		b.Date = "unknown"
	}

	if app.Opts.JSON {
		return json.NewEncoder(app.IO.Out).Encode(map[string]string{
			"version": b.Version, "commit": b.Commit, "buildDate": b.Date,
		})
	}
	fmt.Fprintf(app.IO.Out, "quotectl version %s\ncommit: %s\nbuild_date: %s\n", b.Version, b.Commit, b.Date)
	return nil
}
