package api

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fieldquote/backend/internal/log"
	"github.com/fieldquote/backend/internal/models"
	"github.com/fieldquote/backend/internal/storage"
	"github.com/fieldquote/backend/internal/upload"
)

// FileTracker registers every selected file under its session id and moves
// it to "extracted" or "error" once the session settles.
type FileTracker struct {
	pipeline Pipeline
	store    storage.Store
	logger   log.Logger

	mu      sync.Mutex
	pending map[string]bool
}

// NewFileTracker returns a tracker over pipeline and store.
func NewFileTracker(pipeline Pipeline, store storage.Store, logger log.Logger) *FileTracker {
	if logger == nil {
		logger = log.Noop
	}
	return &FileTracker{
		pipeline: pipeline,
		store:    store,
		logger:   logger.WithValues(log.Kv{"svc": "api.FileTracker"}),
		pending:  make(map[string]bool),
	}
}

// Select starts a session for f and records the file.
func (t *FileTracker) Select(f upload.FileHandle) (upload.State, *models.FileInfo, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.observeLocked(t.pipeline.State())

	st, err := t.pipeline.SelectFile(f)
	if err != nil {
		return st, nil, err
	}

	// The previous session, if any, was abandoned by the new selection.
	t.pending = map[string]bool{st.Session.ID: true}

	info, err := t.store.Register(&models.FileInfo{
		ID:          st.Session.ID,
		Name:        st.Session.FileName,
		Size:        f.Size,
		ContentType: f.ContentType,
		Status:      storage.StatusSelected,
	})
	if err != nil {
		return st, nil, fmt.Errorf("registering %s: %w", st.Session.FileName, err)
	}

	t.observeLocked(t.pipeline.State())
	return st, info, nil
}

// Reset abandons the current session.
func (t *FileTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.observeLocked(t.pipeline.State())
	t.pipeline.Reset()
	t.pending = make(map[string]bool)
}

// Run follows pipeline snapshots until ctx is done.
func (t *FileTracker) Run(ctx context.Context) error {
	states, unsubscribe := t.pipeline.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case st, ok := <-states:
			if !ok {
				return nil
			}
			t.mu.Lock()
			t.observeLocked(st)
			t.mu.Unlock()
		}
	}
}

func (t *FileTracker) observeLocked(st upload.State) {
	id := st.Session.ID
	if !t.pending[id] {
		return
	}

	var status string
	switch st.Session.Status {
	case models.UploadStatusSuccess:
		status = storage.StatusExtracted
	case models.UploadStatusError:
		status = storage.StatusError
	default:
		return
	}

	delete(t.pending, id)
	if err := t.store.SetStatus(id, status); err != nil && !errors.Is(err, models.ErrNotFound) {
		t.logger.Warningf("could not mark file %s %s: %v", id, status, err)
		return
	}
	t.logger.Debugf("file %s marked %s", id, status)
}
