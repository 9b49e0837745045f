package changeorder

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldquote/backend/internal/models"
)

func ids(cos []models.ChangeOrder) []string {
	out := make([]string, len(cos))
	for i, co := range cos {
		out[i] = co.ID
	}
	return out
}

func TestList(t *testing.T) {
	b := Default()

	tests := map[string]struct {
		filter Filter
		want   []string
	}{
		"default newest first": {
			want: []string{"co-afl-5658", "co-hti-11234", "co-telstar-4846", "co-hti-47181", "co-ketworks-73390"},
		},
		"all is no filter": {
			filter: Filter{Status: "all", Vendor: "all"},
			want:   []string{"co-afl-5658", "co-hti-11234", "co-telstar-4846", "co-hti-47181", "co-ketworks-73390"},
		},
		"pending": {
			filter: Filter{Status: "pending"},
			want:   []string{"co-hti-47181", "co-ketworks-73390"},
		},
		"vendor": {
			filter: Filter{Vendor: "HTI"},
			want:   []string{"co-hti-11234", "co-hti-47181"},
		},
		"search project code": {
			filter: Filter{Search: "4846"},
			want:   []string{"co-telstar-4846"},
		},
		"search vendor case insensitive": {
			filter: Filter{Search: "afl"},
			want:   []string{"co-afl-5658"},
		},
		"search location": {
			filter: Filter{Search: "new york", Status: "submitted"},
			want:   []string{"co-afl-5658", "co-hti-11234", "co-telstar-4846"},
		},
		"no match": {
			filter: Filter{Search: "vancouver"},
			want:   []string{},
		},
		"cost ascending": {
			filter: Filter{SortBy: SortTotalCost, Order: "asc"},
			want:   []string{"co-afl-5658", "co-hti-11234", "co-telstar-4846", "co-ketworks-73390", "co-hti-47181"},
		},
		"vendor descending": {
			filter: Filter{SortBy: SortVendor},
			want:   []string{"co-telstar-4846", "co-ketworks-73390", "co-hti-11234", "co-hti-47181", "co-afl-5658"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := b.List(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestListRejectsUnknownSort(t *testing.T) {
	b := Default()

	_, err := b.List(Filter{SortBy: "color"})
	assert.True(t, errors.Is(err, models.ErrNotValid))

	_, err = b.List(Filter{Order: "sideways"})
	assert.True(t, errors.Is(err, models.ErrNotValid))
}

func TestVendors(t *testing.T) {
	assert.Equal(t, []string{"AFL INTERNAL", "HTI", "KETWORKS", "TELSTAR"}, Default().Vendors())
}

func TestGet(t *testing.T) {
	b := Default()

	co, err := b.Get("co-telstar-4846")
	require.NoError(t, err)
	assert.Equal(t, "CO #3", co.Number)
	require.Len(t, co.Items, 3)
	assert.True(t, decimal.NewFromInt(6400).Equal(co.Items[0].TotalCost))

	for _, id := range []string{"co-5", "co-5-detail"} {
		detail, err := b.Get(id)
		require.NoError(t, err)
		assert.Equal(t, "NGMR-12345", detail.ProjectCode)
		assert.Equal(t, "1545.87", detail.TotalCost.StringFixed(2))
		assert.Equal(t, "0.87", detail.Items[2].TotalCost.StringFixed(2))
	}

	_, err = b.Get("co-404")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestDetailItemsAddUp(t *testing.T) {
	detail, err := Default().Get("co-5")
	require.NoError(t, err)

	sum := decimal.Zero
	for _, it := range detail.Items {
		sum = sum.Add(it.TotalCost)
	}
	assert.True(t, detail.TotalCost.Equal(sum), "sum %s", sum)
}

func TestGetReturnsCopy(t *testing.T) {
	b := Default()

	co, err := b.Get("co-hti-11234")
	require.NoError(t, err)
	co.Items[0].Name = "changed"

	again, err := b.Get("co-hti-11234")
	require.NoError(t, err)
	assert.Equal(t, "Fiber Splice", again.Items[0].Name)
}

func TestFilterItems(t *testing.T) {
	co, err := Default().Get("co-afl-5658")
	require.NoError(t, err)

	assert.Len(t, FilterItems(co, ""), 4)

	got := FilterItems(co, "CABLE")
	require.Len(t, got, 2)
	assert.Equal(t, "Fiber Optic Cable", got[0].Name)
	assert.Equal(t, "Cable Tray", got[1].Name)

	assert.Empty(t, FilterItems(co, "antenna"))
}

func TestProject(t *testing.T) {
	p := Default().Project()
	assert.Equal(t, "NGMR-12345", p.Code)
	assert.True(t, decimal.NewFromInt(34350).Equal(p.UsedBudget))
	assert.Equal(t, 4, p.Approved)
	assert.Equal(t, 1, p.Rejected)
}
