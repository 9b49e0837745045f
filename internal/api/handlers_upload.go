// handlers_upload.go - Upload session and quote item handlers
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/fieldquote/backend/internal/models"
	"github.com/fieldquote/backend/internal/quote"
	"github.com/fieldquote/backend/internal/upload"
)

// MIMEMsgpack is the content type of msgpack responses.
const MIMEMsgpack = "application/msgpack"

// UploadHandlerImpl implements the UploadHandler interface
type UploadHandlerImpl struct {
	pipeline Pipeline
	tracker  *FileTracker
}

// NewUploadHandler creates a new upload handler instance
func NewUploadHandler(pipeline Pipeline, tracker *FileTracker) UploadHandler {
	return &UploadHandlerImpl{
		pipeline: pipeline,
		tracker:  tracker,
	}
}

// HandleGetUpload returns the current session and items.
func (h *UploadHandlerImpl) HandleGetUpload(c echo.Context) error {
	return c.JSON(http.StatusOK, h.pipeline.State())
}

// HandleSelectFile starts a session for a multipart "file" field or a JSON
// file description. File content is never read.
func (h *UploadHandlerImpl) HandleSelectFile(c echo.Context) error {
	var f upload.FileHandle

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return NewBadRequestError("no file provided", err)
		}
		f = upload.FileHandle{
			Name:        fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Size:        fh.Size,
		}
	} else {
		var req selectFileRequest
		if err := c.Bind(&req); err != nil {
			return NewBadRequestError("invalid JSON body", err)
		}
		if err := req.validate(); err != nil {
			return err
		}
		f = upload.FileHandle{Name: req.Name, ContentType: req.ContentType, Size: req.Size}
	}

	st, info, err := h.tracker.Select(f)
	if err != nil {
		return FromError(err, "file", f.Name)
	}

	return c.JSON(http.StatusAccepted, selectFileResponse{State: st, File: info})
}

// HandleResetUpload cancels the session and clears the items.
func (h *UploadHandlerImpl) HandleResetUpload(c echo.Context) error {
	h.tracker.Reset()
	return c.JSON(http.StatusOK, h.pipeline.State())
}

// HandleUploadProgressStream streams session snapshots via SSE until the
// session settles or the client goes away.
func (h *UploadHandlerImpl) HandleUploadProgressStream(c echo.Context) error {
	states, unsubscribe := h.pipeline.Subscribe()
	defer unsubscribe()

	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().Header().Set("X-Accel-Buffering", "no")
	c.Response().WriteHeader(http.StatusOK)

	for {
		select {
		case <-c.Request().Context().Done():
			return nil
		case st, ok := <-states:
			if !ok {
				return nil
			}
			data, err := json.Marshal(st)
			if err != nil {
				continue
			}
			fmt.Fprintf(c.Response(), "data: %s\n\n", data)
			c.Response().Flush()

			if st.Session.Status.Settled() {
				return nil
			}
		}
	}
}

// HandleGetItems returns the quote items as JSON, or msgpack with ?format=msgpack.
func (h *UploadHandlerImpl) HandleGetItems(c echo.Context) error {
	if c.QueryParam("format") == "msgpack" {
		return h.HandleGetItemsMsgpack(c)
	}
	return c.JSON(http.StatusOK, h.pipeline.State().Items)
}

// HandleGetItemsMsgpack returns the quote items in MessagePack format.
// Amounts are encoded as decimal strings.
func (h *UploadHandlerImpl) HandleGetItemsMsgpack(c echo.Context) error {
	items := h.pipeline.State().Items

	out := itemsDTO{Items: make([]itemDTO, len(items)), Count: len(items)}
	for i, it := range items {
		out.Items[i] = newItemDTO(it)
	}
	out.Total = quote.Summarize(items).Total.StringFixed(2)

	data, err := msgpack.Marshal(out)
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}
	return c.Blob(http.StatusOK, MIMEMsgpack, data)
}

// HandleAddItem appends a manual item.
func (h *UploadHandlerImpl) HandleAddItem(c echo.Context) error {
	var req models.NewItem
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	item, err := h.pipeline.AddItem(req)
	if err != nil {
		return FromError(err, "item", "")
	}
	return c.JSON(http.StatusCreated, item)
}

// HandleUpdateItem applies a partial update to one item.
func (h *UploadHandlerImpl) HandleUpdateItem(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	var req models.ItemUpdate
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	item, err := h.pipeline.UpdateItem(id, req)
	if err != nil {
		return FromError(err, "item", id)
	}
	return c.JSON(http.StatusOK, item)
}

// HandleRemoveItem deletes an item. Unknown ids are not an error.
func (h *UploadHandlerImpl) HandleRemoveItem(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	if err := h.pipeline.RemoveItem(id); err != nil {
		return FromError(err, "item", id)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleGetSummary returns the category subtotals of the current items.
func (h *UploadHandlerImpl) HandleGetSummary(c echo.Context) error {
	st := h.pipeline.State()
	return c.JSON(http.StatusOK, summaryResponse{
		Status:    st.Session.Status,
		ItemCount: len(st.Items),
		Subtotals: quote.Summarize(st.Items),
	})
}

// Request/Response types

type selectFileRequest struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

func (r *selectFileRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return NewValidationError("name")
	}
	if r.Size < 0 {
		return NewValidationError("size")
	}
	return nil
}

type selectFileResponse struct {
	State upload.State     `json:"state"`
	File  *models.FileInfo `json:"file"`
}

type summaryResponse struct {
	Status    models.UploadStatus `json:"status"`
	ItemCount int                 `json:"itemCount"`
	Subtotals models.Subtotals    `json:"subtotals"`
}

type itemDTO struct {
	ID               string `msgpack:"id"`
	Name             string `msgpack:"name"`
	Quantity         int    `msgpack:"quantity"`
	Type             string `msgpack:"type"`
	UnitCost         string `msgpack:"unitCost"`
	TotalCost        string `msgpack:"totalCost"`
	Category         string `msgpack:"category,omitempty"`
	ExtractedFromPDF bool   `msgpack:"extractedFromPdf"`
}

func newItemDTO(it models.QuoteItem) itemDTO {
	return itemDTO{
		ID:               it.ID,
		Name:             it.Name,
		Quantity:         it.Quantity,
		Type:             string(it.Type),
		UnitCost:         it.UnitCost.StringFixed(2),
		TotalCost:        it.TotalCost.StringFixed(2),
		Category:         string(it.Category),
		ExtractedFromPDF: it.ExtractedFromPDF,
	}
}

type itemsDTO struct {
	Items []itemDTO `msgpack:"items"`
	Count int       `msgpack:"count"`
	Total string    `msgpack:"total"`
}
