package models

import "time"

// NotificationType is the area a notification comes from.
type NotificationType string

const (
	NotificationQuote       NotificationType = "quote"
	NotificationChangeOrder NotificationType = "change_order"
	NotificationBudget      NotificationType = "budget"
	NotificationSystem      NotificationType = "system"
)

// Notification is an inbox entry.
type Notification struct {
	ID          string           `json:"id"`
	Type        NotificationType `json:"type"`
	Severity    AlertSeverity    `json:"severity"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Timestamp   time.Time        `json:"timestamp"`
	Read        bool             `json:"read"`
	ActionURL   string           `json:"actionUrl,omitempty"`
	ActionLabel string           `json:"actionLabel,omitempty"`
	Author      string           `json:"author,omitempty"`
}

// NotificationCounts summarizes the inbox.
type NotificationCounts struct {
	Total  int                      `json:"total"`
	Unread int                      `json:"unread"`
	ByType map[NotificationType]int `json:"byType"`
}
