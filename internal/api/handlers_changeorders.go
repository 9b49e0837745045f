// handlers_changeorders.go - Change order handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fieldquote/backend/internal/changeorder"
)

// ChangeOrderHandlerImpl implements the ChangeOrderHandler interface
type ChangeOrderHandlerImpl struct {
	book *changeorder.Book
}

// NewChangeOrderHandler creates a new change order handler instance
func NewChangeOrderHandler(book *changeorder.Book) ChangeOrderHandler {
	return &ChangeOrderHandlerImpl{book: book}
}

// HandleListChangeOrders filters and sorts change orders from query params.
func (h *ChangeOrderHandlerImpl) HandleListChangeOrders(c echo.Context) error {
	list, err := h.book.List(changeorder.Filter{
		Status: c.QueryParam("status"),
		Vendor: c.QueryParam("vendor"),
		Search: c.QueryParam("search"),
		SortBy: c.QueryParam("sortBy"),
		Order:  c.QueryParam("order"),
	})
	if err != nil {
		return FromError(err, "change order", "")
	}
	return c.JSON(http.StatusOK, list)
}

func (h *ChangeOrderHandlerImpl) HandleGetChangeOrderVendors(c echo.Context) error {
	return c.JSON(http.StatusOK, h.book.Vendors())
}

func (h *ChangeOrderHandlerImpl) HandleGetChangeOrderProject(c echo.Context) error {
	return c.JSON(http.StatusOK, h.book.Project())
}

// HandleGetChangeOrder returns one change order; ?search= narrows its items.
func (h *ChangeOrderHandlerImpl) HandleGetChangeOrder(c echo.Context) error {
	id := c.Param("id")
	co, err := h.book.Get(id)
	if err != nil {
		return FromError(err, "change order", id)
	}
	if search := c.QueryParam("search"); search != "" {
		co.Items = changeorder.FilterItems(co, search)
	}
	return c.JSON(http.StatusOK, co)
}
