// Package budget serves per-project spend overviews keyed by NGMR code.
package budget

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fieldquote/backend/internal/models"
)

//go:embed data.json
var seed []byte

var codeRe = regexp.MustCompile(`^\d{4,6}$`)

// Validation messages shown to users.
const (
	MsgCodeRequired = "Please enter an NGMR code"
	MsgCodeInvalid  = "Invalid NGMR format. Please enter 4-6 digits."
)

// CodeError is a user-facing code validation error.
type CodeError struct {
	Code    string
	Message string
}

func (e *CodeError) Error() string { return e.Message }

// Unwrap makes CodeError match models.ErrNotValid.
func (e *CodeError) Unwrap() error { return models.ErrNotValid }

// NormalizeCode trims the code and drops an optional "NGMR-" prefix.
func NormalizeCode(code string) string {
	code = strings.TrimSpace(code)
	if len(code) >= 5 && strings.EqualFold(code[:5], "NGMR-") {
		code = code[5:]
	}
	return code
}

// ValidateCode checks a normalized code is 4 to 6 digits.
func ValidateCode(code string) error {
	switch {
	case code == "":
		return &CodeError{Code: code, Message: MsgCodeRequired}
	case !codeRe.MatchString(code):
		return &CodeError{Code: code, Message: MsgCodeInvalid}
	}
	return nil
}

// Overview is a budget with its derived variance.
type Overview struct {
	models.Budget
	// Variance is actual minus planned; positive means over budget.
	Variance   decimal.Decimal `json:"variance"`
	OverBudget bool            `json:"overBudget"`
}

// Book holds the known project budgets.
type Book struct {
	budgets map[string]models.Budget
}

// Default returns the built-in budgets.
func Default() *Book {
	var list []models.Budget
	if err := json.Unmarshal(seed, &list); err != nil {
		panic(fmt.Sprintf("budget: decoding seed data: %v", err))
	}
	return NewBook(list)
}

// NewBook indexes budgets by code and fills PO line totals.
func NewBook(list []models.Budget) *Book {
	b := &Book{budgets: make(map[string]models.Budget, len(list))}
	for _, bud := range list {
		for i := range bud.PurchaseOrders {
			po := &bud.PurchaseOrders[i]
			for j, it := range po.Items {
				po.Items[j].TotalCost = it.UnitCost.Mul(decimal.NewFromInt(int64(it.Units)))
			}
		}
		b.budgets[bud.Code] = bud
	}
	return b
}

// Codes returns the known codes, sorted.
func (b *Book) Codes() []string {
	out := make([]string, 0, len(b.budgets))
	for c := range b.budgets {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the budget for code. The code is normalized and validated.
func (b *Book) Lookup(code string) (models.Budget, error) {
	code = NormalizeCode(code)
	if err := ValidateCode(code); err != nil {
		return models.Budget{}, err
	}

	bud, ok := b.budgets[code]
	if !ok {
		return models.Budget{}, fmt.Errorf("budget for NGMR-%s: %w", code, models.ErrNotFound)
	}
	return cloneBudget(bud), nil
}

// Overview returns the budget for code with variance figures.
func (b *Book) Overview(code string) (Overview, error) {
	bud, err := b.Lookup(code)
	if err != nil {
		return Overview{}, err
	}

	variance := bud.ActualCost.Sub(bud.PlannedCost)
	return Overview{
		Budget:     bud,
		Variance:   variance,
		OverBudget: variance.IsPositive(),
	}, nil
}

// All returns every budget.
func (b *Book) All() []models.Budget {
	out := make([]models.Budget, 0, len(b.budgets))
	for _, c := range b.Codes() {
		out = append(out, cloneBudget(b.budgets[c]))
	}
	return out
}

func cloneBudget(b models.Budget) models.Budget {
	b.Alerts = append(make([]models.BudgetAlert, 0, len(b.Alerts)), b.Alerts...)
	b.VendorSummary = append(make([]models.VendorSummary, 0, len(b.VendorSummary)), b.VendorSummary...)
	pos := make([]models.PurchaseOrder, len(b.PurchaseOrders))
	for i, po := range b.PurchaseOrders {
		po.Items = append(make([]models.POItem, 0, len(po.Items)), po.Items...)
		pos[i] = po
	}
	b.PurchaseOrders = pos
	return b
}
