package budget

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldquote/backend/internal/models"
)

func newTestLedger(t *testing.T, budgets []models.Budget) *Ledger {
	t.Helper()

	l, err := NewLedger(context.Background(), budgets, nil)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestLedgerStatusTotals(t *testing.T) {
	l := newTestLedger(t, Default().All())

	got, err := l.StatusTotals(context.Background(), "NGMR-4847")
	require.NoError(t, err)

	assert.Equal(t, "6000.00", got.Paid.StringFixed(2))
	assert.Equal(t, "5600.00", got.Pending.StringFixed(2))
	assert.Equal(t, "400.00", got.Rejected.StringFixed(2))
}

func TestLedgerStatusTotalsMatchBook(t *testing.T) {
	bud, err := Default().Lookup("4847")
	require.NoError(t, err)
	l := newTestLedger(t, []models.Budget{bud})

	want := map[models.POItemStatus]decimal.Decimal{}
	for _, po := range bud.PurchaseOrders {
		for _, it := range po.Items {
			want[it.Status] = want[it.Status].Add(it.TotalCost)
		}
	}

	got, err := l.StatusTotals(context.Background(), "4847")
	require.NoError(t, err)
	assert.True(t, want[models.POItemPaid].Equal(got.Paid))
	assert.True(t, want[models.POItemPending].Equal(got.Pending))
	assert.True(t, want[models.POItemRejected].Equal(got.Rejected))
}

func TestLedgerVendorTotals(t *testing.T) {
	l := newTestLedger(t, Default().All())

	got, err := l.VendorTotals(context.Background(), "4847")
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, "HTI", got[0].Vendor)
	assert.Equal(t, "12000", got[0].Total.String())
	assert.Equal(t, "Keyworks", got[1].Vendor)
	assert.Equal(t, 2, got[1].POs)
	assert.Equal(t, "7000", got[1].Total.String())
	assert.Equal(t, "Materials", got[2].Vendor)
	assert.Equal(t, "Materials TVC", got[3].Vendor)
	assert.Equal(t, "2000", got[3].Total.String())
}

func TestLedgerKeepsCents(t *testing.T) {
	l := newTestLedger(t, []models.Budget{{
		Code: "555555",
		PurchaseOrders: []models.PurchaseOrder{{
			ID: "po-1", Number: "PO 1", Vendor: "AFL", TotalAmount: decimal.RequireFromString("1545.87"),
			Items: []models.POItem{
				{ID: "a", Name: "2143887", Units: 3, UnitCost: decimal.RequireFromString("0.87"), Status: models.POItemPaid},
				{ID: "b", Name: "Hydrovac", Units: 1, UnitCost: decimal.RequireFromString("0.10"), Status: models.POItemPaid},
			},
		}},
	}})

	st, err := l.StatusTotals(context.Background(), "555555")
	require.NoError(t, err)
	assert.Equal(t, "2.71", st.Paid.StringFixed(2))
	assert.True(t, st.Pending.IsZero())

	vt, err := l.VendorTotals(context.Background(), "555555")
	require.NoError(t, err)
	require.Len(t, vt, 1)
	assert.Equal(t, "1545.87", vt[0].Total.StringFixed(2))
}

func TestLedgerErrors(t *testing.T) {
	l := newTestLedger(t, Default().All())

	_, err := l.StatusTotals(context.Background(), "1234")
	assert.True(t, errors.Is(err, models.ErrNotFound))

	_, err = l.VendorTotals(context.Background(), "abc")
	assert.True(t, errors.Is(err, models.ErrNotValid))
}

func TestLedgerBudgetWithoutPurchaseOrders(t *testing.T) {
	l := newTestLedger(t, []models.Budget{{
		Code:        "7777",
		PlannedCost: decimal.NewFromInt(1000),
	}})
	ctx := context.Background()

	totals, err := l.StatusTotals(ctx, "NGMR-7777")
	require.NoError(t, err)
	assert.True(t, totals.Paid.IsZero())
	assert.True(t, totals.Pending.IsZero())
	assert.True(t, totals.Rejected.IsZero())

	vendors, err := l.VendorTotals(ctx, "7777")
	require.NoError(t, err)
	assert.Empty(t, vendors)

	_, err = l.StatusTotals(ctx, "8888")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}
