// store_test.go - Tests for the selected-file registry
package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldquote/backend/internal/models"
)

func TestMemoryStore_Register(t *testing.T) {
	t.Run("fills defaults", func(t *testing.T) {
		s := NewMemoryStore()

		info, err := s.Register(&models.FileInfo{Name: "NGMR-12345.pdf", Size: 2048})
		require.NoError(t, err)

		assert.NotEmpty(t, info.ID)
		assert.Equal(t, StatusSelected, info.Status)
		assert.False(t, info.UploadedAt.IsZero())
	})

	t.Run("keeps caller id", func(t *testing.T) {
		s := NewMemoryStore()

		info, err := s.Register(&models.FileInfo{ID: "sess-1", Name: "a.pdf"})
		require.NoError(t, err)
		assert.Equal(t, "sess-1", info.ID)

		_, err = s.Register(&models.FileInfo{ID: "sess-1", Name: "b.pdf"})
		assert.True(t, errors.Is(err, models.ErrAlreadyExists))
	})

	t.Run("rejects missing name", func(t *testing.T) {
		s := NewMemoryStore()

		_, err := s.Register(&models.FileInfo{})
		assert.True(t, errors.Is(err, models.ErrNotValid))

		_, err = s.Register(nil)
		assert.True(t, errors.Is(err, models.ErrNotValid))
	})

	t.Run("returned copy is detached", func(t *testing.T) {
		s := NewMemoryStore()

		info, err := s.Register(&models.FileInfo{ID: "x", Name: "a.pdf"})
		require.NoError(t, err)
		info.Name = "changed.pdf"

		got, err := s.Get("x")
		require.NoError(t, err)
		assert.Equal(t, "a.pdf", got.Name)
	})
}

func TestMemoryStore_List(t *testing.T) {
	s := NewMemoryStore()
	base := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

	for i, name := range []string{"old.pdf", "mid.pdf", "new.pdf"} {
		_, err := s.Register(&models.FileInfo{Name: name, UploadedAt: base.Add(time.Duration(i) * time.Hour)})
		require.NoError(t, err)
	}

	all, err := s.List(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "new.pdf", all[0].Name)
	assert.Equal(t, "old.pdf", all[2].Name)

	two, err := s.List(2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestMemoryStore_SetStatusAndDelete(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Register(&models.FileInfo{ID: "f1", Name: "a.pdf"})
	require.NoError(t, err)

	require.NoError(t, s.SetStatus("f1", StatusExtracted))
	got, err := s.Get("f1")
	require.NoError(t, err)
	assert.Equal(t, StatusExtracted, got.Status)

	assert.True(t, errors.Is(s.SetStatus("missing", StatusError), models.ErrNotFound))

	require.NoError(t, s.Delete("f1"))
	_, err = s.Get("f1")
	assert.True(t, errors.Is(err, models.ErrNotFound))
	assert.True(t, errors.Is(s.Delete("f1"), models.ErrNotFound))
}
