package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fieldquote/backend/internal/models"
)

type HealthHandlerImpl struct {
	version  string
	pipeline Pipeline
	started  time.Time
}

func NewHealthHandler(version string, pipeline Pipeline) HealthHandler {
	return &HealthHandlerImpl{
		version:  version,
		pipeline: pipeline,
		started:  time.Now(),
	}
}

// HandleHealth reports the build version and the current upload status.
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:        "ok",
		Version:       h.version,
		UploadStatus:  h.pipeline.State().Session.Status,
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
	})
}

type healthResponse struct {
	Status        string              `json:"status"`
	Version       string              `json:"version"`
	UploadStatus  models.UploadStatus `json:"uploadStatus"`
	UptimeSeconds int64               `json:"uptimeSeconds"`
}
