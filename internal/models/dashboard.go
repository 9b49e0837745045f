package models

import "time"

// DashboardMetrics are the headline numbers on the dashboard.
type DashboardMetrics struct {
	ActiveProjects   int   `json:"activeProjects"`
	PendingApprovals int   `json:"pendingApprovals"`
	MonthlyQuotes    int   `json:"monthlyQuotes"`
	AvgQuoteValue    int64 `json:"avgQuoteValue"`
}

// QuickAction is a shortcut card.
type QuickAction struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ActionURL   string `json:"actionUrl"`
	IconName    string `json:"iconName"`
	Variant     string `json:"variant"`
}

// ActivityItem is one entry of the recent activity feed.
type ActivityItem struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	URL         string    `json:"url,omitempty"`
}

// DashboardAlert is an alert card on the dashboard.
type DashboardAlert struct {
	ID          string        `json:"id"`
	Severity    AlertSeverity `json:"severity"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	ActionURL   string        `json:"actionUrl,omitempty"`
	ActionLabel string        `json:"actionLabel,omitempty"`
}

// ChartPoint is one slice of a distribution chart.
type ChartPoint struct {
	Label string `json:"label"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// PeriodStats is one bucket of the site release / quote series.
type PeriodStats struct {
	Label           string `json:"label"`
	SitesToRelease  int    `json:"sitesToRelease"`
	SitesQuoted     int    `json:"sitesQuoted"`
	QuotesSubmitted int    `json:"quotesSubmitted"`
	PendingQuotes   int    `json:"pendingQuotes"`
}
