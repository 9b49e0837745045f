package tui

import (
	"fmt"
	"strings"

	"github.com/fieldquote/backend/internal/models"
	"github.com/fieldquote/backend/internal/quote"
)

const nameWidth = 24

// RenderItems formats items and their category subtotals as a fixed-width
// table. Styling is left to the caller.
func RenderItems(items []models.QuoteItem) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%-*s %6s %-4s %12s %12s\n", nameWidth, "Item", "Qty", "Type", "Unit", "Total")
	for _, it := range items {
		fmt.Fprintf(&b, "%-*s %6d %-4s %12s %12s\n",
			nameWidth, truncate(it.Name, nameWidth), it.Quantity, it.Type,
			it.UnitCost.StringFixed(2), it.TotalCost.StringFixed(2))
	}

	s := quote.Summarize(items)
	b.WriteString("\n")
	for _, row := range []struct {
		label string
		value string
	}{
		{"GPON", s.GPON.StringFixed(2)},
		{"Materials", s.Materials.StringFixed(2)},
		{"Civil", s.Civil.StringFixed(2)},
		{"Labor", s.Labor.StringFixed(2)},
		{"Total", s.Total.StringFixed(2)},
	} {
		fmt.Fprintf(&b, "%-*s %12s\n", nameWidth, row.label, row.value)
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
