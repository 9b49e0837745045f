package quote

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fieldquote/backend/internal/log"
	"github.com/fieldquote/backend/internal/models"
)

// DefaultMaxQuotes limits how many quotes are kept in memory.
const DefaultMaxQuotes = 500

var statusRank = map[models.QuoteStatus]int{
	models.QuoteStatusDraft:     0,
	models.QuoteStatusReview:    1,
	models.QuoteStatusSubmitted: 2,
	models.QuoteStatusApproved:  3,
}

// RegistryConfig is the configuration of the quote registry.
type RegistryConfig struct {
	MaxQuotes int
	Logger    log.Logger
}

func (c *RegistryConfig) defaults() error {
	if c.MaxQuotes < 0 {
		return fmt.Errorf("max quotes can't be negative")
	}
	if c.MaxQuotes == 0 {
		c.MaxQuotes = DefaultMaxQuotes
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "quote.Registry"})
	return nil
}

// Registry keeps submitted quotes in memory.
type Registry struct {
	mu     sync.RWMutex
	quotes map[string]*models.Quote
	max    int
	logger log.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg RegistryConfig) (*Registry, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Registry{
		quotes: make(map[string]*models.Quote),
		max:    cfg.MaxQuotes,
		logger: cfg.Logger,
	}, nil
}

// Submit stores q under a fresh id and returns the stored copy.
func (r *Registry) Submit(q models.Quote) (models.Quote, error) {
	if q.Status == "" {
		q.Status = models.QuoteStatusDraft
	}
	if _, ok := statusRank[q.Status]; !ok {
		return models.Quote{}, fmt.Errorf("unknown status %q: %w", q.Status, models.ErrNotValid)
	}

	now := time.Now()
	q.ID = uuid.New().String()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = now
	}
	q.UpdatedAt = now
	q.Subtotals = Summarize(q.Items)

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.quotes) >= r.max {
		return models.Quote{}, fmt.Errorf("quote limit of %d reached: %w", r.max, models.ErrNotValid)
	}

	stored := cloneQuote(q)
	r.quotes[q.ID] = &stored
	r.logger.Infof("quote %s submitted for %s (%s)", q.ID, q.ProjectCode, q.Subtotals.Total.StringFixed(2))

	return cloneQuote(stored), nil
}

// Get returns the quote with id.
func (r *Registry) Get(id string) (models.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q, ok := r.quotes[id]
	if !ok {
		return models.Quote{}, fmt.Errorf("quote %s: %w", id, models.ErrNotFound)
	}
	return cloneQuote(*q), nil
}

// List returns all quotes, newest first.
func (r *Registry) List() []models.Quote {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Quote, 0, len(r.quotes))
	for _, q := range r.quotes {
		out = append(out, cloneQuote(*q))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// SetStatus moves a quote forward through draft, review, submitted and
// approved. Moving backwards is rejected.
func (r *Registry) SetStatus(id string, status models.QuoteStatus) (models.Quote, error) {
	next, ok := statusRank[status]
	if !ok {
		return models.Quote{}, fmt.Errorf("unknown status %q: %w", status, models.ErrNotValid)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.quotes[id]
	if !ok {
		return models.Quote{}, fmt.Errorf("quote %s: %w", id, models.ErrNotFound)
	}
	if next < statusRank[q.Status] {
		return models.Quote{}, fmt.Errorf("can't move quote from %s to %s: %w", q.Status, status, models.ErrNotValid)
	}

	q.Status = status
	q.UpdatedAt = time.Now()
	return cloneQuote(*q), nil
}

// CleanupOld removes submitted and approved quotes not updated within maxAge
// and returns how many were removed.
func (r *Registry) CleanupOld(maxAge time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for id, q := range r.quotes {
		if q.Status != models.QuoteStatusSubmitted && q.Status != models.QuoteStatusApproved {
			continue
		}
		if q.UpdatedAt.Before(cutoff) {
			delete(r.quotes, id)
			removed++
		}
	}
	if removed > 0 {
		r.logger.Debugf("cleaned up %d aged quotes", removed)
	}
	return removed
}

func cloneQuote(q models.Quote) models.Quote {
	q.Items = append([]models.QuoteItem(nil), q.Items...)
	if q.UploadedFile != nil {
		f := *q.UploadedFile
		q.UploadedFile = &f
	}
	return q
}
