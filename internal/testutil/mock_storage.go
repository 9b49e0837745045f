// Package testutil holds fakes and helpers shared by package tests.
package testutil

import (
	"fmt"
	"sync"
	"time"

	"github.com/fieldquote/backend/internal/models"
	"github.com/fieldquote/backend/internal/storage"
)

var _ storage.Store = (*MockStorage)(nil)

// MockStorage is a storage.Store that keeps registration order and can be
// told to fail.
type MockStorage struct {
	mu     sync.RWMutex
	files  map[string]*models.FileInfo
	order  []string
	nextID int

	// RegisterErr, when set, is returned by Register.
	RegisterErr error
}

func NewMockStorage() *MockStorage {
	return &MockStorage{files: make(map[string]*models.FileInfo)}
}

func (m *MockStorage) Register(info *models.FileInfo) (*models.FileInfo, error) {
	if m.RegisterErr != nil {
		return nil, m.RegisterErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	f := *info
	if f.ID == "" {
		m.nextID++
		f.ID = fmt.Sprintf("mock-file-%d", m.nextID)
	}
	if f.Status == "" {
		f.Status = storage.StatusSelected
	}
	if f.UploadedAt.IsZero() {
		f.UploadedAt = time.Now()
	}
	m.files[f.ID] = &f
	m.order = append(m.order, f.ID)

	out := f
	return &out, nil
}

func (m *MockStorage) Get(id string) (*models.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[id]
	if !ok {
		return nil, fmt.Errorf("file %s: %w", id, models.ErrNotFound)
	}
	out := *f
	return &out, nil
}

// List returns files newest registration first.
func (m *MockStorage) List(limit int) ([]*models.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*models.FileInfo
	for i := len(m.order) - 1; i >= 0; i-- {
		f, ok := m.files[m.order[i]]
		if !ok {
			continue
		}
		cp := *f
		out = append(out, &cp)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *MockStorage) SetStatus(id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.files[id]
	if !ok {
		return fmt.Errorf("file %s: %w", id, models.ErrNotFound)
	}
	f.Status = status
	return nil
}

func (m *MockStorage) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[id]; !ok {
		return fmt.Errorf("file %s: %w", id, models.ErrNotFound)
	}
	delete(m.files, id)
	return nil
}

// Len returns how many files are registered.
func (m *MockStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}
