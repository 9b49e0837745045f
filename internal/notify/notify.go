// Package notify keeps the user's notification inbox.
package notify

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fieldquote/backend/internal/models"
)

type seedEntry struct {
	n   models.Notification
	age time.Duration
}

var seed = []seedEntry{
	{age: 2 * time.Hour, n: models.Notification{
		ID: "notif-1", Type: models.NotificationQuote, Severity: models.SeverityInfo,
		Title: "Quote Q-456 requires review", Description: "NGMR-12345 quote submitted for approval",
		ActionURL: "/quote/q-456", ActionLabel: "Review Quote", Author: "John Smith",
	}},
	{age: 4 * time.Hour, n: models.Notification{
		ID: "notif-2", Type: models.NotificationChangeOrder, Severity: models.SeverityWarning,
		Title: "Change Order CO #7 pending approval", Description: "Awaiting manager approval for $2,450 change order",
		ActionURL: "/change-orders/co-7", ActionLabel: "Approve CO", Author: "Sarah Johnson",
	}},
	{age: 6 * time.Hour, n: models.Notification{
		ID: "notif-3", Type: models.NotificationBudget, Severity: models.SeverityCritical,
		Title: "Budget Alert: NGMR-4847 exceeds planned cost", Description: "Project budget exceeded by $2,500 - immediate attention required",
		ActionURL: "/ngmr-budget/4847", ActionLabel: "View Budget",
	}},
	{age: 8 * time.Hour, n: models.Notification{
		ID: "notif-4", Type: models.NotificationSystem, Severity: models.SeveritySuccess, Read: true,
		Title: "File processing complete", Description: "NGMR-12345_A2.pdf processed successfully - 15 items extracted",
		ActionURL: "/quote/generate", ActionLabel: "View Quote",
	}},
	{age: 24 * time.Hour, n: models.Notification{
		ID: "notif-5", Type: models.NotificationChangeOrder, Severity: models.SeveritySuccess, Read: true,
		Title: "Change Order CO #6 approved", Description: "CO approved and ready for implementation",
		ActionURL: "/change-orders/co-6", ActionLabel: "View Details",
	}},
	{age: 48 * time.Hour, n: models.Notification{
		ID: "notif-6", Type: models.NotificationBudget, Severity: models.SeverityWarning, Read: true,
		Title: "PO missing for Handholes", Description: "Purchase order required for $150 handhole installation",
		ActionURL: "/ngmr-budget/4847", ActionLabel: "Request PO",
	}},
	{age: 72 * time.Hour, n: models.Notification{
		ID: "notif-7", Type: models.NotificationQuote, Severity: models.SeverityInfo, Read: true,
		Title: "Quote Q-455 submitted", Description: "New quote submitted for NGMR-11234",
		ActionURL: "/quote/q-455", ActionLabel: "View Quote", Author: "Mike Davis",
	}},
	{age: 7 * 24 * time.Hour, n: models.Notification{
		ID: "notif-8", Type: models.NotificationSystem, Severity: models.SeverityInfo, Read: true,
		Title: "System maintenance completed", Description: "Scheduled maintenance window completed successfully",
	}},
}

// Inbox holds notifications newest first. It is safe for concurrent use.
type Inbox struct {
	mu    sync.RWMutex
	items []models.Notification
}

// New returns the built-in inbox with timestamps relative to now.
func New(now time.Time) *Inbox {
	items := make([]models.Notification, len(seed))
	for i, s := range seed {
		items[i] = s.n
		items[i].Timestamp = now.Add(-s.age)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	return &Inbox{items: items}
}

// ParseType validates a type filter. Empty and "all" return "".
func ParseType(s string) (models.NotificationType, error) {
	switch t := models.NotificationType(s); t {
	case "", "all":
		return "", nil
	case models.NotificationQuote, models.NotificationChangeOrder, models.NotificationBudget, models.NotificationSystem:
		return t, nil
	}
	return "", fmt.Errorf("unknown notification type %q: %w", s, models.ErrNotValid)
}

// ByType returns the notifications of type t, or all of them when t is empty.
func (in *Inbox) ByType(t models.NotificationType) []models.Notification {
	return in.filter(func(n models.Notification) bool { return t == "" || n.Type == t })
}

// Unread returns the unread notifications.
func (in *Inbox) Unread() []models.Notification {
	return in.filter(func(n models.Notification) bool { return !n.Read })
}

// Counts summarizes the inbox.
func (in *Inbox) Counts() models.NotificationCounts {
	in.mu.RLock()
	defer in.mu.RUnlock()

	c := models.NotificationCounts{
		Total:  len(in.items),
		ByType: make(map[models.NotificationType]int),
	}
	for _, n := range in.items {
		if !n.Read {
			c.Unread++
		}
		c.ByType[n.Type]++
	}
	return c
}

// MarkRead marks one notification read. Marking twice is not an error.
func (in *Inbox) MarkRead(id string) (models.Notification, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	for i := range in.items {
		if in.items[i].ID == id {
			in.items[i].Read = true
			return in.items[i], nil
		}
	}
	return models.Notification{}, fmt.Errorf("notification %s: %w", id, models.ErrNotFound)
}

// MarkAllRead marks everything read and returns how many changed.
func (in *Inbox) MarkAllRead() int {
	in.mu.Lock()
	defer in.mu.Unlock()

	changed := 0
	for i := range in.items {
		if !in.items[i].Read {
			in.items[i].Read = true
			changed++
		}
	}
	return changed
}

func (in *Inbox) filter(keep func(models.Notification) bool) []models.Notification {
	in.mu.RLock()
	defer in.mu.RUnlock()

	out := make([]models.Notification, 0, len(in.items))
	for _, n := range in.items {
		if keep(n) {
			out = append(out, n)
		}
	}
	return out
}
