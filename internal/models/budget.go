package models

import "github.com/shopspring/decimal"

// AlertSeverity ranks budget and dashboard alerts.
type AlertSeverity string

const (
	SeverityCritical AlertSeverity = "critical"
	SeverityWarning  AlertSeverity = "warning"
	SeverityInfo     AlertSeverity = "info"
	SeveritySuccess  AlertSeverity = "success"
)

// BudgetAlert flags something on a project budget that needs action.
type BudgetAlert struct {
	ID          string           `json:"id"`
	Type        AlertSeverity    `json:"type"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	ActionLabel string           `json:"actionLabel"`
	ActionURL   string           `json:"actionUrl,omitempty"`
}

// POItemStatus is the payment state of a purchase order line.
type POItemStatus string

const (
	POItemPaid     POItemStatus = "paid"
	POItemPending  POItemStatus = "pending"
	POItemRejected POItemStatus = "rejected"
)

// POItem is one line of a purchase order.
type POItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Units     int             `json:"units"`
	UnitCost  decimal.Decimal `json:"unitCost"`
	TotalCost decimal.Decimal `json:"totalCost"`
	Status    POItemStatus    `json:"status"`
}

// PurchaseOrder groups vendor lines under a PO number.
type PurchaseOrder struct {
	ID          string          `json:"id"`
	Number      string          `json:"poNumber"`
	Vendor      string          `json:"vendor"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Items       []POItem        `json:"items"`
}

// VendorSummary compares planned and actual spend for one vendor.
type VendorSummary struct {
	Vendor      string          `json:"vendor"`
	Planned     decimal.Decimal `json:"planned"`
	Actual      decimal.Decimal `json:"actual"`
	Paid        decimal.Decimal `json:"paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// Budget is the spend overview for one NGMR project code.
type Budget struct {
	Code           string          `json:"ngmrCode"`
	Units          int             `json:"units"`
	ActualCost     decimal.Decimal `json:"actualCost"`
	PlannedCost    decimal.Decimal `json:"plannedCost"`
	Alerts         []BudgetAlert   `json:"alerts"`
	PurchaseOrders []PurchaseOrder `json:"purchaseOrders"`
	VendorSummary  []VendorSummary `json:"vendorSummary"`
}
