// Package quote computes quote totals and keeps the quotes users submit.
package quote

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fieldquote/backend/internal/models"
)

// Summarize returns per-category subtotals and the grand total. Items without
// a category count as materials.
func Summarize(items []models.QuoteItem) models.Subtotals {
	s := models.Subtotals{
		GPON:      decimal.Zero,
		Materials: decimal.Zero,
		Civil:     decimal.Zero,
		Labor:     decimal.Zero,
		Total:     decimal.Zero,
	}

	for _, it := range items {
		total := models.LineTotal(it.Quantity, it.UnitCost)
		switch it.Category {
		case models.CategoryGPON:
			s.GPON = s.GPON.Add(total)
		case models.CategoryCivil:
			s.Civil = s.Civil.Add(total)
		case models.CategoryLabor:
			s.Labor = s.Labor.Add(total)
		default:
			s.Materials = s.Materials.Add(total)
		}
		s.Total = s.Total.Add(total)
	}
	return s
}

// Build assembles a draft quote from the current item list.
func Build(projectCode, location string, units int, items []models.QuoteItem, file *models.FileInfo) (models.Quote, error) {
	projectCode = strings.TrimSpace(projectCode)
	if projectCode == "" {
		return models.Quote{}, fmt.Errorf("project code is required: %w", models.ErrNotValid)
	}
	if units < 0 {
		return models.Quote{}, fmt.Errorf("units can't be negative: %w", models.ErrNotValid)
	}

	out := make([]models.QuoteItem, len(items))
	for i, it := range items {
		out[i] = it.WithTotal()
	}

	var f *models.FileInfo
	if file != nil {
		cp := *file
		f = &cp
	}

	now := time.Now()
	return models.Quote{
		ProjectCode:     projectCode,
		ProjectLocation: strings.TrimSpace(location),
		Units:           units,
		Items:           out,
		Subtotals:       Summarize(out),
		Status:          models.QuoteStatusDraft,
		UploadedFile:    f,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}
