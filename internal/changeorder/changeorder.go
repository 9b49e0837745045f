// Package changeorder serves the change order list, its filters and the
// detail record of the project under review.
package changeorder

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/fieldquote/backend/internal/models"
)

//go:embed data.json
var seed []byte

// Sort keys accepted by Filter.SortBy.
const (
	SortSubmittedAt = "submittedAt"
	SortTotalCost   = "totalCost"
	SortVendor      = "vendor"
)

// Filter narrows and orders List results. Empty or "all" Status and Vendor
// match everything.
type Filter struct {
	Status string
	Vendor string
	Search string
	SortBy string
	// Order is "asc" or "desc" (default).
	Order string
}

// Book is a read-only set of change orders.
type Book struct {
	orders  []models.ChangeOrder
	detail  models.ChangeOrder
	project models.ChangeOrderProject
}

type dataset struct {
	ChangeOrders []models.ChangeOrder     `json:"changeOrders"`
	Detail       models.ChangeOrder       `json:"detail"`
	Project      models.ChangeOrderProject `json:"project"`
}

// Default returns the built-in change order book.
func Default() *Book {
	var ds dataset
	if err := json.Unmarshal(seed, &ds); err != nil {
		panic(fmt.Sprintf("changeorder: decoding seed data: %v", err))
	}
	for i := range ds.ChangeOrders {
		withItemTotals(&ds.ChangeOrders[i])
	}
	withItemTotals(&ds.Detail)

	return &Book{orders: ds.ChangeOrders, detail: ds.Detail, project: ds.Project}
}

func withItemTotals(co *models.ChangeOrder) {
	for i, it := range co.Items {
		co.Items[i].TotalCost = models.LineTotal(it.Quantity, it.UnitCost)
	}
}

// List returns the change orders matching f.
func (b *Book) List(f Filter) ([]models.ChangeOrder, error) {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]models.ChangeOrder, 0, len(b.orders))
	for _, co := range b.orders {
		if !isAll(f.Status) && string(co.Status) != f.Status {
			continue
		}
		if !isAll(f.Vendor) && co.Vendor != f.Vendor {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(co.ProjectCode), search) &&
			!strings.Contains(strings.ToLower(co.Vendor), search) &&
			!strings.Contains(strings.ToLower(co.Location), search) {
			continue
		}
		out = append(out, clone(co))
	}

	var less func(a, b models.ChangeOrder) bool
	switch f.SortBy {
	case "", SortSubmittedAt:
		less = func(a, b models.ChangeOrder) bool { return a.SubmittedAt.Before(b.SubmittedAt) }
	case SortTotalCost:
		less = func(a, b models.ChangeOrder) bool { return a.TotalCost.LessThan(b.TotalCost) }
	case SortVendor:
		less = func(a, b models.ChangeOrder) bool { return a.Vendor < b.Vendor }
	default:
		return nil, fmt.Errorf("unknown sort key %q: %w", f.SortBy, models.ErrNotValid)
	}

	desc := true
	switch strings.ToLower(f.Order) {
	case "", "desc":
	case "asc":
		desc = false
	default:
		return nil, fmt.Errorf("unknown sort order %q: %w", f.Order, models.ErrNotValid)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out, nil
}

// Vendors returns the distinct vendors, sorted.
func (b *Book) Vendors() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, co := range b.orders {
		if _, ok := seen[co.Vendor]; ok {
			continue
		}
		seen[co.Vendor] = struct{}{}
		out = append(out, co.Vendor)
	}
	sort.Strings(out)
	return out
}

// Get returns a change order by id. "co-5" is an alias of the detail record.
func (b *Book) Get(id string) (models.ChangeOrder, error) {
	if id == "co-5" || id == b.detail.ID {
		return clone(b.detail), nil
	}
	for _, co := range b.orders {
		if co.ID == id {
			return clone(co), nil
		}
	}
	return models.ChangeOrder{}, fmt.Errorf("change order %s: %w", id, models.ErrNotFound)
}

// Project returns the budget context of the project under review.
func (b *Book) Project() models.ChangeOrderProject {
	return b.project
}

// FilterItems returns the items of co whose name contains search.
func FilterItems(co models.ChangeOrder, search string) []models.ChangeOrderItem {
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]models.ChangeOrderItem, 0, len(co.Items))
	for _, it := range co.Items {
		if search == "" || strings.Contains(strings.ToLower(it.Name), search) {
			out = append(out, it)
		}
	}
	return out
}

func isAll(v string) bool {
	return v == "" || strings.EqualFold(v, "all")
}

func clone(co models.ChangeOrder) models.ChangeOrder {
	co.Items = append([]models.ChangeOrderItem(nil), co.Items...)
	return co
}
