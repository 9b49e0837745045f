// Package upload drives a selected design file through the simulated upload
// and extraction lifecycle and owns the resulting quote line items.
package upload

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/fieldquote/backend/internal/catalog"
	"github.com/fieldquote/backend/internal/log"
	"github.com/fieldquote/backend/internal/models"
)

var (
	// ErrUnsupportedFileType is returned when the selected file is not a PDF.
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrItemNotFound is returned when an update targets an unknown item id.
	ErrItemNotFound = errors.New("item not found")
	// ErrInvalidItem is returned for negative quantities or unit costs.
	ErrInvalidItem = errors.New("invalid item")
	// ErrSessionBusy is returned when items are added while a file is still
	// uploading or processing.
	ErrSessionBusy = errors.New("session in progress")
	// ErrClosed is returned once the pipeline has been closed.
	ErrClosed = errors.New("pipeline closed")
	// ErrNoItems is recorded when extraction yields nothing.
	ErrNoItems = errors.New("extraction produced no items")
)

const (
	DefaultTickInterval    = 100 * time.Millisecond
	DefaultProgressStep    = 5
	DefaultProcessingDelay = 1500 * time.Millisecond
)

// Config is the pipeline configuration.
type Config struct {
	// TickInterval is the simulated time between progress steps.
	TickInterval time.Duration
	// ProgressStep is the percentage added per tick (1-100).
	ProgressStep int
	// ProcessingDelay is how long extraction takes once upload reaches 100%.
	ProcessingDelay time.Duration
	Extractor       catalog.Extractor
	Logger          log.Logger
	// SubscriberBuffer is the channel size handed to each subscriber.
	SubscriberBuffer int
}

func (c *Config) defaults() error {
	if c.TickInterval < 0 {
		return fmt.Errorf("tick interval can't be negative")
	}
	if c.TickInterval == 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.ProgressStep == 0 {
		c.ProgressStep = DefaultProgressStep
	}
	if c.ProgressStep < 1 || c.ProgressStep > 100 {
		return fmt.Errorf("progress step must be between 1 and 100, got %d", c.ProgressStep)
	}
	if c.ProcessingDelay < 0 {
		return fmt.Errorf("processing delay can't be negative")
	}
	if c.ProcessingDelay == 0 {
		c.ProcessingDelay = DefaultProcessingDelay
	}
	if c.Extractor == nil {
		c.Extractor = catalog.Default()
	}
	if c.SubscriberBuffer < 0 {
		return fmt.Errorf("subscriber buffer can't be negative")
	}
	if c.SubscriberBuffer == 0 {
		c.SubscriberBuffer = 1
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "upload.Pipeline"})
	return nil
}

// FileHandle describes the file a user selected. Content is never read.
type FileHandle struct {
	Name        string
	ContentType string
	Size        int64
}

// State is a point-in-time copy of the session and its items.
type State struct {
	Session models.UploadSession `json:"session"`
	Items   []models.QuoteItem   `json:"items"`
}

// Pipeline owns the single upload session. All methods are safe for
// concurrent use.
type Pipeline struct {
	cfg    Config
	logger log.Logger

	mu      sync.Mutex
	session models.UploadSession
	items   []models.QuoteItem
	gen     uint64
	cancel  context.CancelFunc
	settled chan struct{}
	closed  bool
	subs    map[int]chan State
	nextSub int
	wg      sync.WaitGroup
}

// New creates an idle pipeline.
func New(cfg Config) (*Pipeline, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	settled := make(chan struct{})
	close(settled)

	return &Pipeline{
		cfg:     cfg,
		logger:  cfg.Logger,
		session: models.NewIdleSession(),
		settled: settled,
		subs:    make(map[int]chan State),
	}, nil
}

// SelectFile starts a new session for f, abandoning any session in flight.
// Non-PDF names fail with ErrUnsupportedFileType and leave the state as is.
func (p *Pipeline) SelectFile(f FileHandle) (State, error) {
	name, ok := baseName(f.Name)
	if !ok {
		return p.State(), fmt.Errorf("%w: %q is not a .pdf file", ErrUnsupportedFileType, f.Name)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return State{}, ErrClosed
	}

	p.abortLocked()
	p.gen++

	now := time.Now()
	p.session = models.UploadSession{
		ID:          uuid.NewString(),
		Status:      models.UploadStatusUploading,
		FileName:    name,
		ContentType: f.ContentType,
		StartedAt:   &now,
	}
	p.items = nil
	p.settled = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	ctx = log.CtxWithValues(ctx, log.Kv{"session": p.session.ID, "file": name})
	p.cancel = cancel

	p.wg.Add(1)
	go p.run(ctx, p.gen, name)

	p.logger.WithCtxValues(ctx).Infof("file selected (%d bytes)", f.Size)
	p.publishLocked()
	return p.snapshotLocked(), nil
}

// Reset returns the pipeline to Idle and cancels any session in flight.
func (p *Pipeline) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	if p.session.Status != models.UploadStatusIdle {
		p.logger.Debugf("resetting session %s from %s", p.session.ID, p.session.Status)
	}

	p.abortLocked()
	p.gen++
	p.session = models.NewIdleSession()
	p.items = nil
	p.publishLocked()
}

// State returns a copy of the current session and items.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// Items returns a copy of the current item list.
func (p *Pipeline) Items() []models.QuoteItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cloneItems(p.items)
}

// UpdateItem applies a partial update to the item with id and recomputes its
// total. Unset fields keep their current value.
func (p *Pipeline) UpdateItem(id string, u models.ItemUpdate) (models.QuoteItem, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return models.QuoteItem{}, ErrClosed
	}

	idx := p.indexLocked(id)
	if idx < 0 {
		return models.QuoteItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}

	item := p.items[idx]
	if u.Quantity != nil {
		item.Quantity = *u.Quantity
	}
	if u.UnitCost != nil {
		item.UnitCost = *u.UnitCost
	}
	if u.Category != nil {
		item.Category = *u.Category
	}
	if err := validateItem(item); err != nil {
		return models.QuoteItem{}, err
	}

	item = item.WithTotal()
	p.items[idx] = item
	p.publishLocked()
	return item, nil
}

// RemoveItem deletes the item with id. Unknown ids are ignored.
func (p *Pipeline) RemoveItem(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	idx := p.indexLocked(id)
	if idx < 0 {
		return nil
	}
	p.items = append(p.items[:idx:idx], p.items[idx+1:]...)
	p.publishLocked()
	return nil
}

// AddItem appends a new item with a fresh id and returns it.
func (p *Pipeline) AddItem(n models.NewItem) (models.QuoteItem, error) {
	typ := n.Type
	if typ == "" {
		typ = models.ItemTypeA32
	}
	item := models.QuoteItem{
		ID:       "item-" + ulid.Make().String(),
		Name:     strings.TrimSpace(n.Name),
		Quantity: n.Quantity,
		Type:     typ,
		UnitCost: n.UnitCost,
		Category: n.Category,
	}.WithTotal()
	if item.Name == "" {
		return models.QuoteItem{}, fmt.Errorf("%w: name is required", ErrInvalidItem)
	}
	if err := validateItem(item); err != nil {
		return models.QuoteItem{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return models.QuoteItem{}, ErrClosed
	}
	// Extraction replaces the list on success.
	if !p.session.Status.Settled() {
		return models.QuoteItem{}, fmt.Errorf("%w: %s is %s", ErrSessionBusy, p.session.FileName, p.session.Status)
	}
	p.items = append(p.items, item)
	p.publishLocked()
	return item, nil
}

// Subscribe returns a channel that receives the current state and every
// later change. A slow reader may skip intermediate states but is always
// left holding the latest one. The returned func unsubscribes.
func (p *Pipeline) Subscribe() (<-chan State, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := make(chan State, p.cfg.SubscriberBuffer)
	if p.closed {
		close(ch)
		return ch, func() {}
	}

	id := p.nextSub
	p.nextSub++
	p.subs[id] = ch
	ch <- p.snapshotLocked()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			if c, ok := p.subs[id]; ok {
				delete(p.subs, id)
				close(c)
			}
		})
	}
}

// Wait blocks until the current session settles in Idle, Success or Error.
func (p *Pipeline) Wait(ctx context.Context) (State, error) {
	p.mu.Lock()
	settled := p.settled
	p.mu.Unlock()

	select {
	case <-settled:
		return p.State(), nil
	case <-ctx.Done():
		return p.State(), ctx.Err()
	}
}

// Close cancels any session in flight, closes all subscriber channels and
// waits for background work to stop.
func (p *Pipeline) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.abortLocked()
	p.gen++
	for id, ch := range p.subs {
		delete(p.subs, id)
		close(ch)
	}
	p.mu.Unlock()

	p.wg.Wait()
	return nil
}

// run is the single control flow of one session: ticks, then the processing
// delay, then extraction. Every effect goes through a generation check.
func (p *Pipeline) run(ctx context.Context, gen uint64, fileName string) {
	defer p.wg.Done()
	logger := p.logger.WithCtxValues(ctx)

	ticker := time.NewTicker(p.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		done, ok := p.advance(gen)
		if !ok {
			return
		}
		if done {
			break
		}
	}
	ticker.Stop()
	logger.Debugf("upload complete, processing")

	timer := time.NewTimer(p.cfg.ProcessingDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	items, err := p.extract(ctx, fileName)
	if err == nil && len(items) == 0 {
		err = ErrNoItems
	}
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Errorf("extraction failed: %v", err)
		p.fail(gen, fmt.Sprintf("extraction failed: %v", err))
		return
	}

	if p.complete(gen, items) {
		logger.Infof("extracted %d items", len(items))
	}
}

func (p *Pipeline) extract(ctx context.Context, fileName string) (items []models.QuoteItem, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return p.cfg.Extractor.Extract(ctx, fileName)
}

// advance applies one tick. ok is false when the session is stale.
func (p *Pipeline) advance(gen uint64) (done, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen || p.session.Status != models.UploadStatusUploading {
		return false, false
	}

	p.session.Progress += p.cfg.ProgressStep
	if p.session.Progress >= 100 {
		p.session.Progress = 100
		p.session.Status = models.UploadStatusProcessing
		done = true
	}
	p.publishLocked()
	return done, true
}

func (p *Pipeline) complete(gen uint64, items []models.QuoteItem) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen || p.session.Status != models.UploadStatusProcessing {
		return false
	}

	out := make([]models.QuoteItem, len(items))
	for i, it := range items {
		out[i] = it.WithTotal()
	}
	p.items = out

	now := time.Now()
	p.session.Status = models.UploadStatusSuccess
	p.session.CompletedAt = &now
	p.settleLocked()
	p.publishLocked()
	return true
}

func (p *Pipeline) fail(gen uint64, msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen || p.session.Status.Settled() {
		return
	}

	now := time.Now()
	p.session.Status = models.UploadStatusError
	p.session.Error = msg
	p.session.CompletedAt = &now
	p.settleLocked()
	p.publishLocked()
}

// abortLocked cancels the running session, if any, and marks it settled.
func (p *Pipeline) abortLocked() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.settleLocked()
}

func (p *Pipeline) settleLocked() {
	select {
	case <-p.settled:
	default:
		close(p.settled)
	}
}

func (p *Pipeline) publishLocked() {
	if len(p.subs) == 0 {
		return
	}

	s := p.snapshotLocked()
	for _, ch := range p.subs {
		select {
		case ch <- s:
			continue
		default:
		}
		// Full: drop the oldest pending state so the newest one fits.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
	}
}

func (p *Pipeline) snapshotLocked() State {
	s := p.session
	if s.StartedAt != nil {
		t := *s.StartedAt
		s.StartedAt = &t
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		s.CompletedAt = &t
	}
	return State{Session: s, Items: cloneItems(p.items)}
}

func (p *Pipeline) indexLocked(id string) int {
	for i, it := range p.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// baseName strips any directory part, with either separator, and reports
// whether what is left is a .pdf file with a non-empty stem.
func baseName(raw string) (string, bool) {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(raw), `\`, "/"))
	ext := path.Ext(name)
	if !strings.EqualFold(ext, ".pdf") || len(name) == len(ext) {
		return name, false
	}
	return name, true
}

func validateItem(it models.QuoteItem) error {
	switch {
	case it.Quantity < 0:
		return fmt.Errorf("%w: quantity can't be negative", ErrInvalidItem)
	case it.UnitCost.IsNegative():
		return fmt.Errorf("%w: unit cost can't be negative", ErrInvalidItem)
	case !it.Category.Valid():
		return fmt.Errorf("%w: unknown category %q", ErrInvalidItem, it.Category)
	}
	return nil
}

func cloneItems(items []models.QuoteItem) []models.QuoteItem {
	out := make([]models.QuoteItem, len(items))
	copy(out, items)
	return out
}
