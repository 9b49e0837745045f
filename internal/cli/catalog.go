package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fieldquote/backend/internal/models"
	"github.com/fieldquote/backend/internal/tui"
)

type catalogOptions struct {
	export bool
	match  string
}

type catalogRuleJSON struct {
	Keys  []string           `json:"keys"`
	Items []models.QuoteItem `json:"items"`
}

type catalogJSON struct {
	Rules    []catalogRuleJSON  `json:"rules"`
	Fallback []models.QuoteItem `json:"fallback"`
}

func newCatalogCommand(app *AppContext) *cobra.Command {
	opts := catalogOptions{}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Show the extraction catalog",
		Long: "catalog prints the substring rules used to extract items from file names. " +
			"Use --match to preview what a file name would extract, or --export to write " +
			"the catalog as YAML for editing.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog(app, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.export, "export", false, "Write the catalog as YAML")
	cmd.Flags().StringVar(&opts.match, "match", "", "Show the items a file name extracts")
	return cmd
}

func runCatalog(app *AppContext, opts catalogOptions) error {
	cfg, err := loadConfig(app)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	out := app.IO.Out
	switch {
	case opts.export:
		return cat.Encode(out)
	case opts.match != "":
		items := cat.Match(opts.match)
		if app.Opts.JSON {
			return writeJSON(out, items)
		}
		fmt.Fprint(out, tui.RenderItems(items))
		return nil
	}

	rules := cat.Rules()
	if app.Opts.JSON {
		doc := catalogJSON{Fallback: cat.Fallback()}
		for _, r := range rules {
			doc.Rules = append(doc.Rules, catalogRuleJSON{Keys: r.Keys, Items: r.QuoteItems()})
		}
		return writeJSON(out, doc)
	}

	for i, r := range rules {
		fmt.Fprintf(out, "rule %d: %s (%d items)\n", i+1, strings.Join(r.Keys, ", "), len(r.Items))
		for _, it := range r.Items {
			fmt.Fprintf(out, "  %-8s %-40s %4d x %s\n", it.ID, it.Name, it.Quantity, it.UnitCost.StringFixed(2))
		}
	}
	fmt.Fprintf(out, "fallback (%d items)\n", len(cat.Fallback()))
	for _, it := range cat.Fallback() {
		fmt.Fprintf(out, "  %-8s %-40s %4d x %s\n", it.ID, it.Name, it.Quantity, it.UnitCost.StringFixed(2))
	}
	return nil
}
