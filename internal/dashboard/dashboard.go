// Package dashboard serves the landing page metrics and analytics charts.
package dashboard

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fieldquote/backend/internal/models"
)

//go:embed data.json
var seed []byte

// Chart periods accepted by Series.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// BudgetVsActual compares monthly budgeted and actual spend in dollars.
type BudgetVsActual struct {
	Labels   []string `json:"labels"`
	Budgeted []int64  `json:"budgeted"`
	Actual   []int64  `json:"actual"`
	Variance []int64  `json:"variance"`
}

// ProcessingTime is the weekly average hours from upload to submitted quote.
type ProcessingTime struct {
	Labels       []string  `json:"labels"`
	AverageHours []float64 `json:"averageHours"`
	Mean         float64   `json:"mean"`
}

// Summary is the landing page payload.
type Summary struct {
	Metrics      models.DashboardMetrics `json:"metrics"`
	QuickActions []models.QuickAction    `json:"quickActions"`
	Activity     []models.ActivityItem   `json:"recentActivity"`
	Alerts       []models.DashboardAlert `json:"alerts"`
}

// Charts is the analytics payload for one period.
type Charts struct {
	Period         string               `json:"period"`
	Series         []models.PeriodStats `json:"series"`
	QuoteStatus    []models.ChartPoint  `json:"quoteStatus"`
	ProjectTypes   []models.ChartPoint  `json:"projectTypes"`
	BudgetVsActual BudgetVsActual       `json:"budgetVsActual"`
	ProcessingTime ProcessingTime       `json:"processingTime"`
}

type dataset struct {
	Metrics        models.DashboardMetrics         `json:"metrics"`
	QuickActions   []models.QuickAction            `json:"quickActions"`
	Alerts         []models.DashboardAlert         `json:"alerts"`
	Series         map[string][]models.PeriodStats `json:"series"`
	QuoteStatus    []models.ChartPoint             `json:"quoteStatus"`
	ProjectTypes   []models.ChartPoint             `json:"projectTypes"`
	BudgetVsActual BudgetVsActual                  `json:"budgetVsActual"`
	ProcessingTime ProcessingTime                  `json:"processingTime"`
}

var activitySeed = []struct {
	item models.ActivityItem
	age  time.Duration
}{
	{age: 2 * time.Hour, item: models.ActivityItem{ID: "activity-1", Type: "quote", Title: "Quote Q-456 submitted for review", Description: "NGMR-12345 submitted by John Smith", URL: "/quote/q-456"}},
	{age: 4 * time.Hour, item: models.ActivityItem{ID: "activity-2", Type: "change_order", Title: "Change Order CO #7 approved", Description: "Approved by Sarah Johnson for $2,450", URL: "/change-orders/co-7"}},
	{age: 24 * time.Hour, item: models.ActivityItem{ID: "activity-3", Type: "budget", Title: "Budget updated for NGMR-4847", Description: "New PO added for $1,200", URL: "/ngmr-budget/4847"}},
	{age: 48 * time.Hour, item: models.ActivityItem{ID: "activity-4", Type: "file", Title: "File processing complete", Description: "NGMR-12345_A2.pdf - 15 items extracted", URL: "/quote/upload"}},
}

// Board is a read-only dashboard snapshot.
type Board struct {
	data     dataset
	activity []models.ActivityItem
}

// New returns the built-in dashboard with activity timestamps relative to now.
func New(now time.Time) *Board {
	var ds dataset
	if err := json.Unmarshal(seed, &ds); err != nil {
		panic(fmt.Sprintf("dashboard: decoding seed data: %v", err))
	}

	bva := &ds.BudgetVsActual
	bva.Variance = make([]int64, len(bva.Budgeted))
	for i := range bva.Budgeted {
		if i < len(bva.Actual) {
			bva.Variance[i] = bva.Actual[i] - bva.Budgeted[i]
		}
	}

	pt := &ds.ProcessingTime
	if n := len(pt.AverageHours); n > 0 {
		var sum float64
		for _, h := range pt.AverageHours {
			sum += h
		}
		pt.Mean = sum / float64(n)
	}

	activity := make([]models.ActivityItem, len(activitySeed))
	for i, s := range activitySeed {
		activity[i] = s.item
		activity[i].Timestamp = now.Add(-s.age)
	}

	return &Board{data: ds, activity: activity}
}

// Summary returns the metrics, quick actions, recent activity and alerts.
func (b *Board) Summary() Summary {
	return Summary{
		Metrics:      b.data.Metrics,
		QuickActions: append([]models.QuickAction(nil), b.data.QuickActions...),
		Activity:     append([]models.ActivityItem(nil), b.activity...),
		Alerts:       append([]models.DashboardAlert(nil), b.data.Alerts...),
	}
}

// Series returns the site release series for period. Empty means monthly.
func (b *Board) Series(period string) ([]models.PeriodStats, error) {
	if period == "" {
		period = PeriodMonthly
	}
	s, ok := b.data.Series[period]
	if !ok {
		return nil, fmt.Errorf("unknown period %q: %w", period, models.ErrNotValid)
	}
	return append([]models.PeriodStats(nil), s...), nil
}

// Charts returns every analytics chart, with the series for period.
func (b *Board) Charts(period string) (Charts, error) {
	if period == "" {
		period = PeriodMonthly
	}
	series, err := b.Series(period)
	if err != nil {
		return Charts{}, err
	}

	return Charts{
		Period:         period,
		Series:         series,
		QuoteStatus:    append([]models.ChartPoint(nil), b.data.QuoteStatus...),
		ProjectTypes:   append([]models.ChartPoint(nil), b.data.ProjectTypes...),
		BudgetVsActual: b.data.BudgetVsActual,
		ProcessingTime: b.data.ProcessingTime,
	}, nil
}
