// handlers_notifications.go - Notification center handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fieldquote/backend/internal/notify"
)

// NotificationHandlerImpl implements the NotificationHandler interface
type NotificationHandlerImpl struct {
	inbox *notify.Inbox
}

// NewNotificationHandler creates a new notification handler instance
func NewNotificationHandler(inbox *notify.Inbox) NotificationHandler {
	return &NotificationHandlerImpl{inbox: inbox}
}

// HandleListNotifications returns notifications filtered by ?type=, or only
// unread ones with ?unread=true.
func (h *NotificationHandlerImpl) HandleListNotifications(c echo.Context) error {
	if c.QueryParam("unread") == "true" {
		return c.JSON(http.StatusOK, h.inbox.Unread())
	}

	t, err := notify.ParseType(c.QueryParam("type"))
	if err != nil {
		return FromError(err, "notification", "")
	}
	return c.JSON(http.StatusOK, h.inbox.ByType(t))
}

func (h *NotificationHandlerImpl) HandleNotificationCounts(c echo.Context) error {
	return c.JSON(http.StatusOK, h.inbox.Counts())
}

func (h *NotificationHandlerImpl) HandleMarkRead(c echo.Context) error {
	id := c.Param("id")
	n, err := h.inbox.MarkRead(id)
	if err != nil {
		return FromError(err, "notification", id)
	}
	return c.JSON(http.StatusOK, n)
}

func (h *NotificationHandlerImpl) HandleMarkAllRead(c echo.Context) error {
	changed := h.inbox.MarkAllRead()
	return c.JSON(http.StatusOK, map[string]int{"updated": changed})
}
