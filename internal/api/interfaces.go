// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/fieldquote/backend/internal/budget"
	"github.com/fieldquote/backend/internal/models"
	"github.com/fieldquote/backend/internal/upload"
)

// UploadHandler handles the upload session and its quote items.
type UploadHandler interface {
	HandleGetUpload(c echo.Context) error
	HandleSelectFile(c echo.Context) error
	HandleResetUpload(c echo.Context) error
	HandleUploadProgressStream(c echo.Context) error
	HandleGetItems(c echo.Context) error
	HandleGetItemsMsgpack(c echo.Context) error
	HandleAddItem(c echo.Context) error
	HandleUpdateItem(c echo.Context) error
	HandleRemoveItem(c echo.Context) error
	HandleGetSummary(c echo.Context) error
}

// FileHandler handles the selected-file registry.
type FileHandler interface {
	HandleGetRecentFiles(c echo.Context) error
	HandleGetFile(c echo.Context) error
	HandleDeleteFile(c echo.Context) error
}

// QuoteHandler handles submitted quotes.
type QuoteHandler interface {
	HandleSubmitQuote(c echo.Context) error
	HandleListQuotes(c echo.Context) error
	HandleGetQuote(c echo.Context) error
	HandleSetQuoteStatus(c echo.Context) error
}

// ChangeOrderHandler handles change order browsing.
type ChangeOrderHandler interface {
	HandleListChangeOrders(c echo.Context) error
	HandleGetChangeOrderVendors(c echo.Context) error
	HandleGetChangeOrderProject(c echo.Context) error
	HandleGetChangeOrder(c echo.Context) error
}

// BudgetHandler handles NGMR budget lookups.
type BudgetHandler interface {
	HandleGetBudget(c echo.Context) error
	HandleGetBudgetLedger(c echo.Context) error
}

// DesignHandler handles the design viewer.
type DesignHandler interface {
	HandleListDesigns(c echo.Context) error
	HandleRecentDesigns(c echo.Context) error
	HandleGetDesign(c echo.Context) error
	HandleAddAnnotation(c echo.Context) error
}

// NotificationHandler handles the notification center.
type NotificationHandler interface {
	HandleListNotifications(c echo.Context) error
	HandleNotificationCounts(c echo.Context) error
	HandleMarkRead(c echo.Context) error
	HandleMarkAllRead(c echo.Context) error
}

// DashboardHandler handles the landing page and analytics.
type DashboardHandler interface {
	HandleGetDashboard(c echo.Context) error
	HandleGetCharts(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// Pipeline is the upload session the handlers drive.
// *upload.Pipeline implements it.
type Pipeline interface {
	SelectFile(f upload.FileHandle) (upload.State, error)
	Reset()
	State() upload.State
	UpdateItem(id string, u models.ItemUpdate) (models.QuoteItem, error)
	RemoveItem(id string) error
	AddItem(n models.NewItem) (models.QuoteItem, error)
	Subscribe() (<-chan upload.State, func())
}

// Ledger answers aggregate purchase order queries.
// *budget.Ledger implements it.
type Ledger interface {
	StatusTotals(ctx context.Context, code string) (budget.StatusTotals, error)
	VendorTotals(ctx context.Context, code string) ([]budget.VendorTotal, error)
}
