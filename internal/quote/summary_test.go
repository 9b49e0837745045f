package quote

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldquote/backend/internal/catalog"
	"github.com/fieldquote/backend/internal/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSummarize(t *testing.T) {
	tests := map[string]struct {
		items []models.QuoteItem
		want  map[string]string
	}{
		"empty": {
			want: map[string]string{"gpon": "0", "materials": "0", "civil": "0", "labor": "0", "total": "0"},
		},
		"ngmr set": {
			items: catalog.Default().Match("NGMR-12345.pdf"),
			want:  map[string]string{"gpon": "8259", "materials": "1380", "civil": "1500", "labor": "0", "total": "11139"},
		},
		"fallback set": {
			items: catalog.Default().Fallback(),
			want:  map[string]string{"gpon": "1750", "materials": "0", "civil": "0", "labor": "1250", "total": "3000"},
		},
		"missing category is materials": {
			items: []models.QuoteItem{{Quantity: 3, UnitCost: d("0.10")}},
			want:  map[string]string{"gpon": "0", "materials": "0.3", "civil": "0", "labor": "0", "total": "0.3"},
		},
		"stale total ignored": {
			items: []models.QuoteItem{{Quantity: 2, UnitCost: d("5"), TotalCost: d("999"), Category: models.CategoryLabor}},
			want:  map[string]string{"gpon": "0", "materials": "0", "civil": "0", "labor": "10", "total": "10"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := Summarize(tt.items)
			got := map[string]string{
				"gpon":      s.GPON.String(),
				"materials": s.Materials.String(),
				"civil":     s.Civil.String(),
				"labor":     s.Labor.String(),
				"total":     s.Total.String(),
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuild(t *testing.T) {
	items := catalog.Default().Match("a1.pdf")
	file := &models.FileInfo{ID: "f1", Name: "a1.pdf", Size: 10}

	q, err := Build(" NGMR-12345 ", "ELLE North Vancouver BC", 12, items, file)
	require.NoError(t, err)

	assert.Equal(t, "NGMR-12345", q.ProjectCode)
	assert.Equal(t, models.QuoteStatusDraft, q.Status)
	assert.True(t, d("5250").Equal(q.Subtotals.Total))
	assert.True(t, d("5250").Equal(q.Subtotals.GPON))
	require.NotNil(t, q.UploadedFile)

	file.Name = "changed.pdf"
	items[0].Quantity = 100
	assert.Equal(t, "a1.pdf", q.UploadedFile.Name)
	assert.Equal(t, 4, q.Items[0].Quantity)
}

func TestBuildValidation(t *testing.T) {
	_, err := Build("  ", "", 1, nil, nil)
	assert.True(t, errors.Is(err, models.ErrNotValid))

	_, err = Build("NGMR-1", "", -1, nil, nil)
	assert.True(t, errors.Is(err, models.ErrNotValid))
}
