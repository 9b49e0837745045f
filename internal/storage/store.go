package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fieldquote/backend/internal/models"
)

// File statuses tracked by the registry.
const (
	StatusSelected  = "selected"
	StatusExtracted = "extracted"
	StatusError     = "error"
)

// Store defines the interface for the selected-file registry.
type Store interface {
	Register(info *models.FileInfo) (*models.FileInfo, error)
	Get(id string) (*models.FileInfo, error)
	List(limit int) ([]*models.FileInfo, error)
	SetStatus(id, status string) error
	Delete(id string) error
}

// MemoryStore keeps file metadata in memory. File content is never stored.
type MemoryStore struct {
	mu    sync.RWMutex
	files map[string]*models.FileInfo
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[string]*models.FileInfo)}
}

// Register records a selected file. An empty ID gets a fresh one, an empty
// status becomes "selected" and a zero UploadedAt becomes now.
func (s *MemoryStore) Register(info *models.FileInfo) (*models.FileInfo, error) {
	if info == nil || info.Name == "" {
		return nil, fmt.Errorf("file name is required: %w", models.ErrNotValid)
	}

	stored := *info
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if stored.Status == "" {
		stored.Status = StatusSelected
	}
	if stored.UploadedAt.IsZero() {
		stored.UploadedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[stored.ID]; ok {
		return nil, fmt.Errorf("file %s: %w", stored.ID, models.ErrAlreadyExists)
	}
	s.files[stored.ID] = &stored

	out := stored
	return &out, nil
}

// Get retrieves file metadata by ID.
func (s *MemoryStore) Get(id string) (*models.FileInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.files[id]
	if !ok {
		return nil, fmt.Errorf("file %s: %w", id, models.ErrNotFound)
	}

	out := *info
	return &out, nil
}

// List returns the most recent files. A limit <= 0 returns everything.
func (s *MemoryStore) List(limit int) ([]*models.FileInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*models.FileInfo, 0, len(s.files))
	for _, info := range s.files {
		out := *info
		list = append(list, &out)
	}

	// Sort by UploadedAt desc
	sort.Slice(list, func(i, j int) bool {
		if list[i].UploadedAt.Equal(list[j].UploadedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].UploadedAt.After(list[j].UploadedAt)
	})

	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}

	return list, nil
}

// SetStatus updates the status of a registered file.
func (s *MemoryStore) SetStatus(id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, ok := s.files[id]
	if !ok {
		return fmt.Errorf("file %s: %w", id, models.ErrNotFound)
	}
	info.Status = status
	return nil
}

// Delete removes a file from the registry.
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[id]; !ok {
		return fmt.Errorf("file %s: %w", id, models.ErrNotFound)
	}
	delete(s.files, id)
	return nil
}
