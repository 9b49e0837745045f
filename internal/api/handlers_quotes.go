// handlers_quotes.go - Quote registry handlers
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fieldquote/backend/internal/models"
	"github.com/fieldquote/backend/internal/quote"
	"github.com/fieldquote/backend/internal/storage"
)

// ProjectDefaults fill in a quote submission that names no project.
type ProjectDefaults struct {
	Code     string
	Location string
	Units    int
}

// QuoteHandlerImpl implements the QuoteHandler interface
type QuoteHandlerImpl struct {
	pipeline Pipeline
	registry *quote.Registry
	store    storage.Store
	project  ProjectDefaults
}

// NewQuoteHandler creates a new quote handler instance
func NewQuoteHandler(pipeline Pipeline, registry *quote.Registry, store storage.Store, project ProjectDefaults) QuoteHandler {
	return &QuoteHandlerImpl{
		pipeline: pipeline,
		registry: registry,
		store:    store,
		project:  project,
	}
}

// HandleSubmitQuote assembles the current items into a quote and stores it.
func (h *QuoteHandlerImpl) HandleSubmitQuote(c echo.Context) error {
	var req submitQuoteRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	req.applyDefaults(h.project)

	st := h.pipeline.State()
	if len(st.Items) == 0 {
		return NewValidationError("items")
	}

	var file *models.FileInfo
	if st.Session.ID != "" {
		info, err := h.store.Get(st.Session.ID)
		switch {
		case err == nil:
			file = info
		case !errors.Is(err, models.ErrNotFound):
			return NewInternalError("failed to load file", err)
		}
	}

	q, err := quote.Build(req.ProjectCode, req.ProjectLocation, *req.Units, st.Items, file)
	if err != nil {
		return FromError(err, "quote", "")
	}
	if req.Status != "" {
		q.Status = req.Status
	}

	stored, err := h.registry.Submit(q)
	if err != nil {
		return FromError(err, "quote", "")
	}
	return c.JSON(http.StatusCreated, stored)
}

// HandleListQuotes returns every stored quote, newest first.
func (h *QuoteHandlerImpl) HandleListQuotes(c echo.Context) error {
	return c.JSON(http.StatusOK, h.registry.List())
}

// HandleGetQuote returns one quote.
func (h *QuoteHandlerImpl) HandleGetQuote(c echo.Context) error {
	id := c.Param("id")
	q, err := h.registry.Get(id)
	if err != nil {
		return FromError(err, "quote", id)
	}
	return c.JSON(http.StatusOK, q)
}

// HandleSetQuoteStatus moves a quote forward in its review.
func (h *QuoteHandlerImpl) HandleSetQuoteStatus(c echo.Context) error {
	id := c.Param("id")

	var req setStatusRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if req.Status == "" {
		return NewValidationError("status")
	}

	q, err := h.registry.SetStatus(id, req.Status)
	if err != nil {
		return FromError(err, "quote", id)
	}
	return c.JSON(http.StatusOK, q)
}

type submitQuoteRequest struct {
	ProjectCode     string             `json:"projectCode"`
	ProjectLocation string             `json:"projectLocation"`
	Units           *int               `json:"units"`
	Status          models.QuoteStatus `json:"status"`
}

func (r *submitQuoteRequest) applyDefaults(d ProjectDefaults) {
	if r.ProjectCode == "" {
		r.ProjectCode = d.Code
	}
	if r.ProjectLocation == "" {
		r.ProjectLocation = d.Location
	}
	if r.Units == nil {
		units := d.Units
		r.Units = &units
	}
}

type setStatusRequest struct {
	Status models.QuoteStatus `json:"status"`
}
