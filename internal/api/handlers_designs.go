// handlers_designs.go - Design viewer handlers
package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fieldquote/backend/internal/design"
	"github.com/fieldquote/backend/internal/models"
)

// DesignHandlerImpl implements the DesignHandler interface
type DesignHandlerImpl struct {
	gallery *design.Gallery
}

// NewDesignHandler creates a new design handler instance
func NewDesignHandler(gallery *design.Gallery) DesignHandler {
	return &DesignHandlerImpl{gallery: gallery}
}

// HandleListDesigns returns designs matching ?search= on filename or title.
func (h *DesignHandlerImpl) HandleListDesigns(c echo.Context) error {
	return c.JSON(http.StatusOK, h.gallery.List(c.QueryParam("search")))
}

// HandleRecentDesigns returns the last modified designs.
func (h *DesignHandlerImpl) HandleRecentDesigns(c echo.Context) error {
	limit := design.DefaultRecent
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return NewValidationError("limit")
		}
		limit = n
	}
	return c.JSON(http.StatusOK, h.gallery.Recent(limit))
}

func (h *DesignHandlerImpl) HandleGetDesign(c echo.Context) error {
	id := c.Param("id")
	f, err := h.gallery.Get(id)
	if err != nil {
		return FromError(err, "design", id)
	}
	return c.JSON(http.StatusOK, f)
}

// HandleAddAnnotation pins a comment, measurement or markup to a design.
func (h *DesignHandlerImpl) HandleAddAnnotation(c echo.Context) error {
	id := c.Param("id")

	var req models.Annotation
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	a, err := h.gallery.AddAnnotation(id, req)
	if err != nil {
		return FromError(err, "design", id)
	}
	return c.JSON(http.StatusCreated, a)
}
