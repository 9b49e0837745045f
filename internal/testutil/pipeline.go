package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fieldquote/backend/internal/catalog"
	"github.com/fieldquote/backend/internal/models"
	"github.com/fieldquote/backend/internal/upload"
)

// FastPipelineConfig returns a pipeline config that settles within a few
// milliseconds. ext may be nil to use the built-in catalog.
func FastPipelineConfig(ext catalog.Extractor) upload.Config {
	return upload.Config{
		TickInterval:     time.Millisecond,
		ProgressStep:     25,
		ProcessingDelay:  time.Millisecond,
		Extractor:        ext,
		SubscriberBuffer: 64,
	}
}

// NewPipeline builds a pipeline from cfg and closes it when the test ends.
func NewPipeline(t testing.TB, cfg upload.Config) *upload.Pipeline {
	t.Helper()

	p, err := upload.New(cfg)
	if err != nil {
		t.Fatalf("creating pipeline: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	return p
}

// WaitSettled waits up to two seconds for the pipeline to settle.
func WaitSettled(t testing.TB, p *upload.Pipeline) upload.State {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	st, err := p.Wait(ctx)
	if err != nil {
		t.Fatalf("pipeline did not settle: %v (status %s)", err, st.Session.Status)
	}
	return st
}

// StubExtractor is a scripted catalog.Extractor. Calls are recorded.
type StubExtractor struct {
	mu    sync.Mutex
	calls []string

	Items []models.QuoteItem
	Err   error
	Panic any
	// Block, when set, holds each call until it is closed or ctx ends.
	Block chan struct{}
	// Entered receives the file name on every call, when set.
	Entered chan string
}

// Extract implements catalog.Extractor.
func (s *StubExtractor) Extract(ctx context.Context, fileName string) ([]models.QuoteItem, error) {
	s.mu.Lock()
	s.calls = append(s.calls, fileName)
	s.mu.Unlock()

	if s.Entered != nil {
		s.Entered <- fileName
	}
	if s.Block != nil {
		select {
		case <-s.Block:
		case <-ctx.Done():
		}
	}
	if s.Panic != nil {
		panic(s.Panic)
	}
	if s.Err != nil {
		return nil, s.Err
	}

	out := make([]models.QuoteItem, len(s.Items))
	copy(out, s.Items)
	return out, nil
}

// Calls returns the file names seen so far.
func (s *StubExtractor) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}
