package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChangeOrderStatus is the review state of a change order.
type ChangeOrderStatus string

const (
	ChangeOrderSubmitted ChangeOrderStatus = "submitted"
	ChangeOrderPending   ChangeOrderStatus = "pending"
	ChangeOrderApproved  ChangeOrderStatus = "approved"
	ChangeOrderRejected  ChangeOrderStatus = "rejected"
)

// ChangeOrder is a request to amend an approved quote.
type ChangeOrder struct {
	ID          string            `json:"id"`
	Number      string            `json:"coNumber"`
	ProjectCode string            `json:"projectCode"`
	Vendor      string            `json:"vendor"`
	Location    string            `json:"location"`
	TotalCost   decimal.Decimal   `json:"totalCost"`
	Status      ChangeOrderStatus `json:"status"`
	SubmittedAt time.Time         `json:"submittedAt"`
	Items       []ChangeOrderItem `json:"items,omitempty"`
	ProjectName string            `json:"projectName,omitempty"`
	Description string            `json:"description,omitempty"`
}

// ChangeOrderItem is one line of a change order.
type ChangeOrderItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Type      ItemType        `json:"type"`
	UnitCost  decimal.Decimal `json:"unitCost"`
	TotalCost decimal.Decimal `json:"totalCost"`
}

// ChangeOrderProject is the budget context shown beside a change order.
type ChangeOrderProject struct {
	Code              string          `json:"code"`
	Location          string          `json:"location"`
	UsedBudget        decimal.Decimal `json:"usedBudget"`
	RemainingBudget   decimal.Decimal `json:"remainingBudget"`
	InitialQuoteTotal decimal.Decimal `json:"initialQuoteTotal"`
	Approved          int             `json:"approvedCount"`
	Rejected          int             `json:"rejectedCount"`
}
