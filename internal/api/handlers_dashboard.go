// handlers_dashboard.go - Dashboard handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fieldquote/backend/internal/dashboard"
)

// DashboardHandlerImpl implements the DashboardHandler interface
type DashboardHandlerImpl struct {
	board *dashboard.Board
}

// NewDashboardHandler creates a new dashboard handler instance
func NewDashboardHandler(board *dashboard.Board) DashboardHandler {
	return &DashboardHandlerImpl{board: board}
}

func (h *DashboardHandlerImpl) HandleGetDashboard(c echo.Context) error {
	return c.JSON(http.StatusOK, h.board.Summary())
}

// HandleGetCharts returns the analytics charts for ?period=daily|weekly|monthly.
func (h *DashboardHandlerImpl) HandleGetCharts(c echo.Context) error {
	charts, err := h.board.Charts(c.QueryParam("period"))
	if err != nil {
		return FromError(err, "period", c.QueryParam("period"))
	}
	return c.JSON(http.StatusOK, charts)
}
