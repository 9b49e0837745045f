package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups quote items for subtotaling.
type Category string

const (
	CategoryGPON      Category = "GPON"
	CategoryMaterials Category = "Materials"
	CategoryCivil     Category = "Civil"
	CategoryLabor     Category = "Labor"
)

// Valid reports whether c is a known category. The empty category is valid and
// is subtotaled as materials.
func (c Category) Valid() bool {
	switch c {
	case "", CategoryGPON, CategoryMaterials, CategoryCivil, CategoryLabor:
		return true
	}
	return false
}

// ItemType is the unit classification printed beside each item.
type ItemType string

const (
	ItemTypeA32 ItemType = "A32"
	ItemTypeA50 ItemType = "A50"
	ItemTypeA60 ItemType = "A60"
)

// QuoteItem is one row of a quote. TotalCost is always Quantity × UnitCost.
type QuoteItem struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Quantity         int             `json:"quantity"`
	Type             ItemType        `json:"type"`
	UnitCost         decimal.Decimal `json:"unitCost"`
	TotalCost        decimal.Decimal `json:"totalCost"`
	Category         Category        `json:"category,omitempty"`
	ExtractedFromPDF bool            `json:"extractedFromPdf"`
}

// LineTotal returns quantity × unitCost.
func LineTotal(quantity int, unitCost decimal.Decimal) decimal.Decimal {
	return unitCost.Mul(decimal.NewFromInt(int64(quantity)))
}

// NewQuoteItem returns an item with TotalCost filled in.
func NewQuoteItem(id, name string, quantity int, typ ItemType, unitCost decimal.Decimal, category Category) QuoteItem {
	return QuoteItem{
		ID:        id,
		Name:      name,
		Quantity:  quantity,
		Type:      typ,
		UnitCost:  unitCost,
		TotalCost: LineTotal(quantity, unitCost),
		Category:  category,
	}
}

// WithTotal returns a copy of the item with TotalCost recomputed.
func (i QuoteItem) WithTotal() QuoteItem {
	i.TotalCost = LineTotal(i.Quantity, i.UnitCost)
	return i
}

// NewItem holds the fields a caller supplies when adding an item.
type NewItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Type     ItemType        `json:"type,omitempty"`
	UnitCost decimal.Decimal `json:"unitCost"`
	Category Category        `json:"category,omitempty"`
}

// ItemUpdate is a partial update. Nil fields keep the item's current value.
type ItemUpdate struct {
	Quantity *int             `json:"quantity,omitempty"`
	UnitCost *decimal.Decimal `json:"unitCost,omitempty"`
	Category *Category        `json:"category,omitempty"`
}

// Subtotals are per-category sums plus the grand total.
type Subtotals struct {
	GPON      decimal.Decimal `json:"gpon"`
	Materials decimal.Decimal `json:"materials"`
	Civil     decimal.Decimal `json:"civil"`
	Labor     decimal.Decimal `json:"labor"`
	Total     decimal.Decimal `json:"total"`
}

// QuoteStatus is the review state of a quote.
type QuoteStatus string

const (
	QuoteStatusDraft     QuoteStatus = "draft"
	QuoteStatusReview    QuoteStatus = "review"
	QuoteStatusSubmitted QuoteStatus = "submitted"
	QuoteStatusApproved  QuoteStatus = "approved"
)

// Quote is an assembled estimate for a project.
type Quote struct {
	ID              string      `json:"id"`
	ProjectCode     string      `json:"projectCode"`
	ProjectLocation string      `json:"projectLocation"`
	Units           int         `json:"units"`
	Items           []QuoteItem `json:"items"`
	Subtotals       Subtotals   `json:"subtotals"`
	Status          QuoteStatus `json:"status"`
	UploadedFile    *FileInfo   `json:"uploadedFile,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}
