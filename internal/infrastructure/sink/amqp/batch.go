package amqp

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// batchBuffer accumulates items and flushes them once a size or timeout
// threshold is reached.
type batchBuffer[T any] struct {
	cfg     BatchConfig
	mu      sync.Mutex
	items   []T
	timer   *time.Timer
	flushFn func(context.Context, []T) error
	logger  *logrus.Entry
	ctx     context.Context
}

func newBatchBuffer[T any](cfg BatchConfig, flushFn func(context.Context, []T) error, logger *logrus.Entry) *batchBuffer[T] {
	return &batchBuffer[T]{cfg: cfg, flushFn: flushFn, logger: logger}
}

func (b *batchBuffer[T]) setContext(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	b.ctx = ctx
}

func (b *batchBuffer[T]) enqueue(item T) error {
	b.mu.Lock()
	ctx := b.ctx
	if ctx == nil {
		b.mu.Unlock()
		return errors.New("batch buffer is not running")
	}
	if err := ctx.Err(); err != nil {
		b.mu.Unlock()
		return err
	}
	b.items = append(b.items, item)
	var batch []T
	limit := b.cfg.Size
	if limit <= 0 {
		limit = 1
	}
	if len(b.items) >= limit {
		batch = b.takeLocked()
	} else if b.timer == nil && b.cfg.Timeout > 0 {
		b.startTimerLocked()
	}
	b.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}
	return b.flushWith(ctx, batch)
}

func (b *batchBuffer[T]) startTimerLocked() {
	if b.cfg.Timeout <= 0 {
		return
	}
	b.timer = time.AfterFunc(b.cfg.Timeout, func() {
		batch := b.take()
		if len(batch) == 0 {
			return
		}
		b.mu.Lock()
		ctx := b.ctx
		b.mu.Unlock()
		if err := b.flushWith(ctx, batch); err != nil && b.logger != nil {
			b.logger.WithError(err).Warn("batch flush failed")
		}
	})
}

func (b *batchBuffer[T]) take() []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.takeLocked()
}

func (b *batchBuffer[T]) takeLocked() []T {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	if len(b.items) == 0 {
		return nil
	}
	batch := make([]T, len(b.items))
	copy(batch, b.items)
	b.items = b.items[:0]
	return batch
}

func (b *batchBuffer[T]) flushWith(ctx context.Context, batch []T) error {
	if len(batch) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	if err := b.flushFn(ctx, batch); err != nil {
		return err
	}
	if b.logger != nil {
		b.logger.WithFields(logrus.Fields{
			"size":    len(batch),
			"took_ms": time.Since(start).Milliseconds(),
		}).Debug("flushed batch")
	}
	return nil
}

func (b *batchBuffer[T]) drain(ctx context.Context) error {
	return b.flushWith(ctx, b.take())
}
