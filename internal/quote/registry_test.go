package quote

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldquote/backend/internal/catalog"
	"github.com/fieldquote/backend/internal/models"
)

func newRegistry(t *testing.T, limit int) *Registry {
	t.Helper()
	r, err := NewRegistry(RegistryConfig{MaxQuotes: limit})
	require.NoError(t, err)
	return r
}

func draft(t *testing.T, code string) models.Quote {
	t.Helper()
	q, err := Build(code, "New York City, NY", 4, catalog.Default().Fallback(), nil)
	require.NoError(t, err)
	return q
}

func TestRegistrySubmitAndGet(t *testing.T) {
	r := newRegistry(t, 0)

	stored, err := r.Submit(draft(t, "NGMR-4847"))
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, models.QuoteStatusDraft, stored.Status)
	assert.True(t, d("3000").Equal(stored.Subtotals.Total))

	got, err := r.Get(stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.ProjectCode, got.ProjectCode)

	got.Items[0].Name = "mutated"
	again, err := r.Get(stored.ID)
	require.NoError(t, err)
	assert.Equal(t, "GPON design", again.Items[0].Name)

	_, err = r.Get("missing")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestRegistrySubmitRejectsUnknownStatus(t *testing.T) {
	r := newRegistry(t, 0)

	q := draft(t, "NGMR-1")
	q.Status = "archived"
	_, err := r.Submit(q)
	assert.True(t, errors.Is(err, models.ErrNotValid))
}

func TestRegistryLimit(t *testing.T) {
	r := newRegistry(t, 2)

	for i := 0; i < 2; i++ {
		_, err := r.Submit(draft(t, "NGMR-1"))
		require.NoError(t, err)
	}
	_, err := r.Submit(draft(t, "NGMR-1"))
	assert.True(t, errors.Is(err, models.ErrNotValid))
	assert.Len(t, r.List(), 2)
}

func TestRegistryListNewestFirst(t *testing.T) {
	r := newRegistry(t, 0)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, code := range []string{"NGMR-1", "NGMR-2", "NGMR-3"} {
		q := draft(t, code)
		q.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		_, err := r.Submit(q)
		require.NoError(t, err)
	}

	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, "NGMR-3", list[0].ProjectCode)
	assert.Equal(t, "NGMR-1", list[2].ProjectCode)
}

func TestRegistrySetStatus(t *testing.T) {
	r := newRegistry(t, 0)
	q, err := r.Submit(draft(t, "NGMR-1"))
	require.NoError(t, err)

	for _, s := range []models.QuoteStatus{models.QuoteStatusReview, models.QuoteStatusSubmitted, models.QuoteStatusApproved} {
		got, err := r.SetStatus(q.ID, s)
		require.NoError(t, err)
		assert.Equal(t, s, got.Status)
	}

	_, err = r.SetStatus(q.ID, models.QuoteStatusDraft)
	assert.True(t, errors.Is(err, models.ErrNotValid))

	_, err = r.SetStatus(q.ID, "archived")
	assert.True(t, errors.Is(err, models.ErrNotValid))

	_, err = r.SetStatus("missing", models.QuoteStatusReview)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestRegistryCleanupOld(t *testing.T) {
	r := newRegistry(t, 0)

	keep, err := r.Submit(draft(t, "NGMR-1"))
	require.NoError(t, err)
	done, err := r.Submit(draft(t, "NGMR-2"))
	require.NoError(t, err)
	_, err = r.SetStatus(done.ID, models.QuoteStatusApproved)
	require.NoError(t, err)

	assert.Equal(t, 0, r.CleanupOld(time.Hour))
	assert.Equal(t, 1, r.CleanupOld(-time.Minute))

	_, err = r.Get(keep.ID)
	assert.NoError(t, err)
	_, err = r.Get(done.ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}
