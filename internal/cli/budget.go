package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fieldquote/backend/internal/budget"
)

type budgetReport struct {
	budget.Overview
	StatusTotals budget.StatusTotals  `json:"statusTotals"`
	VendorTotals []budget.VendorTotal `json:"vendorTotals"`
}

func newBudgetCommand(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "budget <ngmr-code>",
		Short: "Show the budget overview for a project code",
		Long: "budget prints planned and actual spend for an NGMR project code along " +
			"with purchase order totals by payment status and vendor. The NGMR- prefix is optional.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return err
			}

			book := budget.Default()
			ov, err := book.Overview(args[0])
			if err != nil {
				var codeErr *budget.CodeError
				if errors.As(err, &codeErr) {
					return withExitCode(ExitInvalidUsage, err)
				}
				return err
			}

			ctx := cmd.Context()
			ledger, err := budget.NewLedger(ctx, book.All(), newLogger(app, cfg))
			if err != nil {
				return err
			}
			defer ledger.Close()

			report := budgetReport{Overview: ov}
			if report.StatusTotals, err = ledger.StatusTotals(ctx, ov.Code); err != nil {
				return err
			}
			if report.VendorTotals, err = ledger.VendorTotals(ctx, ov.Code); err != nil {
				return err
			}

			if app.Opts.JSON {
				return writeJSON(app.IO.Out, report)
			}
			printBudget(app, report)
			return nil
		},
	}
}

func printBudget(app *AppContext, r budgetReport) {
	out := app.IO.Out
	fmt.Fprintf(out, "NGMR-%s (%d units)\n", r.Code, r.Units)
	fmt.Fprintf(out, "  planned   %12s\n", r.PlannedCost.StringFixed(2))
	fmt.Fprintf(out, "  actual    %12s\n", r.ActualCost.StringFixed(2))
	fmt.Fprintf(out, "  variance  %12s", r.Variance.StringFixed(2))
	if r.OverBudget {
		fmt.Fprint(out, "  over budget")
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "\nPO lines")
	fmt.Fprintf(out, "  paid      %12s\n", r.StatusTotals.Paid.StringFixed(2))
	fmt.Fprintf(out, "  pending   %12s\n", r.StatusTotals.Pending.StringFixed(2))
	fmt.Fprintf(out, "  rejected  %12s\n", r.StatusTotals.Rejected.StringFixed(2))

	fmt.Fprintln(out, "\nVendors")
	for _, v := range r.VendorTotals {
		fmt.Fprintf(out, "  %-30s %2d POs %12s\n", v.Vendor, v.POs, v.Total.StringFixed(2))
	}

	if len(r.Alerts) > 0 {
		fmt.Fprintln(out, "\nAlerts")
		for _, a := range r.Alerts {
			fmt.Fprintf(out, "  [%s] %s\n", a.Type, a.Title)
		}
	}
}
