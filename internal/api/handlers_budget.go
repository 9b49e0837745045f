// handlers_budget.go - NGMR budget handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fieldquote/backend/internal/budget"
)

// BudgetHandlerImpl implements the BudgetHandler interface
type BudgetHandlerImpl struct {
	book   *budget.Book
	ledger Ledger
}

// NewBudgetHandler creates a new budget handler instance. ledger may be nil,
// in which case ledger queries answer 503.
func NewBudgetHandler(book *budget.Book, ledger Ledger) BudgetHandler {
	return &BudgetHandlerImpl{book: book, ledger: ledger}
}

// HandleGetBudget returns the budget overview for an NGMR code.
func (h *BudgetHandlerImpl) HandleGetBudget(c echo.Context) error {
	code := c.Param("code")
	ov, err := h.book.Overview(code)
	if err != nil {
		return FromError(err, "budget", code)
	}
	return c.JSON(http.StatusOK, ov)
}

// HandleGetBudgetLedger returns purchase order totals by status and vendor.
func (h *BudgetHandlerImpl) HandleGetBudgetLedger(c echo.Context) error {
	if h.ledger == nil {
		return NewServiceUnavailableError("budget ledger is not available")
	}

	code := c.Param("code")
	ctx := c.Request().Context()

	status, err := h.ledger.StatusTotals(ctx, code)
	if err != nil {
		return FromError(err, "budget", code)
	}
	vendors, err := h.ledger.VendorTotals(ctx, code)
	if err != nil {
		return FromError(err, "budget", code)
	}

	return c.JSON(http.StatusOK, ledgerResponse{
		Code:         budget.NormalizeCode(code),
		StatusTotals: status,
		VendorTotals: vendors,
	})
}

type ledgerResponse struct {
	Code         string               `json:"ngmrCode"`
	StatusTotals budget.StatusTotals  `json:"statusTotals"`
	VendorTotals []budget.VendorTotal `json:"vendorTotals"`
}
