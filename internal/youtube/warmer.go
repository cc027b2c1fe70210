package youtube

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ThumbnailUpdater records the outcome of a thumbnail warm-up on a media item.
type ThumbnailUpdater interface {
	MarkThumbnailReady(ctx context.Context, itemID, uri string) error
	MarkThumbnailFailed(ctx context.Context, itemID string) error
}

// WarmerConfig controls the concurrency characteristics of the warmer.
type WarmerConfig struct {
	QueueSize int
	Workers   int
	Timeout   time.Duration
}

// ThumbnailWarmer copies thumbnails of newly saved media items in the background.
type ThumbnailWarmer struct {
	resolver *Resolver
	updater  ThumbnailUpdater
	logger   *slog.Logger
	timeout  time.Duration

	jobs   chan warmJob
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
	// mu guards sends on jobs against the close in Shutdown.
	mu     sync.RWMutex
	closed bool
}

type warmJob struct {
	itemID    string
	reference string
}

var errWarmerClosed = errors.New("thumbnail warmer closed")

// NewThumbnailWarmer starts cfg.Workers goroutines draining the queue.
func NewThumbnailWarmer(resolver *Resolver, updater ThumbnailUpdater, cfg WarmerConfig, logger *slog.Logger) *ThumbnailWarmer {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := &ThumbnailWarmer{
		resolver: resolver,
		updater:  updater,
		logger:   logger,
		timeout:  cfg.Timeout,
		jobs:     make(chan warmJob, cfg.QueueSize),
		ctx:      ctx,
		cancel:   cancel,
	}

	w.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go w.worker()
	}

	return w
}

// Enqueue schedules a thumbnail copy for the media item.
func (w *ThumbnailWarmer) Enqueue(ctx context.Context, itemID, reference string) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		return errWarmerClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-w.ctx.Done():
		return errWarmerClosed
	case w.jobs <- warmJob{itemID: itemID, reference: reference}:
		return nil
	}
}

// Shutdown stops accepting jobs and waits for the workers to finish the
// queued ones. When ctx expires first, in-flight jobs are canceled.
func (w *ThumbnailWarmer) Shutdown(ctx context.Context) error {
	w.once.Do(func() {
		w.mu.Lock()
		w.closed = true
		close(w.jobs)
		w.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		w.cancel()
		return ctx.Err()
	case <-done:
		w.cancel()
		return nil
	}
}

func (w *ThumbnailWarmer) worker() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case job, ok := <-w.jobs:
			if !ok {
				return
			}
			w.handleJob(job)
		}
	}
}

func (w *ThumbnailWarmer) handleJob(job warmJob) {
	if w.resolver == nil || w.updater == nil {
		w.logger.Error("thumbnail warmer missing dependencies", "hasResolver", w.resolver != nil, "hasUpdater", w.updater != nil)
		return
	}

	ctx, cancel := context.WithTimeout(w.ctx, w.timeout)
	defer cancel()

	uri, err := w.resolver.ResolveField(ctx, job.reference, FieldLocalThumbnail)
	if errors.Is(err, ErrThumbnailStored) {
		id, _ := ExtractVideoID(job.reference)
		uri, err = w.resolver.StoredThumbnailLocation(id), nil
	}
	if err != nil {
		w.logger.Warn("thumbnail warm-up failed", "itemId", job.itemID, "error", err)
		w.recordFailure(job.itemID)
		return
	}

	updateCtx, updateCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer updateCancel()
	if err := w.updater.MarkThumbnailReady(updateCtx, job.itemID, uri); err != nil {
		w.logger.Error("mark thumbnail ready", "itemId", job.itemID, "error", err)
		w.recordFailure(job.itemID)
	}
}

func (w *ThumbnailWarmer) recordFailure(itemID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := w.updater.MarkThumbnailFailed(ctx, itemID); err != nil {
		w.logger.Error("record thumbnail failure", "itemId", itemID, "error", err)
	}
}
