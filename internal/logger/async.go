package logger

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Closer allows flushing and stopping the async handler.
type Closer interface {
	Close()
}

// nopCloser is a no-op Closer for synchronous mode.
type nopCloser struct{}

func (nopCloser) Close() {}

// entry pairs a record with the handler it was logged through, so attrs and
// groups added via With survive the trip across the queue.
type entry struct {
	h   slog.Handler
	rec slog.Record
}

// AsyncHandler decouples log emission from log encoding: Handle enqueues and
// returns, a worker pool drains into the wrapped handler. When the queue is
// full, records are dropped rather than blocking the caller.
type AsyncHandler struct {
	inner   slog.Handler
	queue   chan entry
	wg      *sync.WaitGroup
	dropped *atomic.Int64
}

// NewAsyncHandler creates an AsyncHandler with the given queue capacity and
// worker count. Non-positive values fall back to a 256-record buffer and a
// single worker.
func NewAsyncHandler(inner slog.Handler, queueSize, workers int) *AsyncHandler {
	if queueSize < 1 {
		queueSize = 256
	}
	if workers < 1 {
		workers = 1
	}
	h := &AsyncHandler{
		inner:   inner,
		queue:   make(chan entry, queueSize),
		wg:      &sync.WaitGroup{},
		dropped: &atomic.Int64{},
	}
	for range workers {
		h.wg.Add(1)
		go h.drain()
	}
	return h
}

func (h *AsyncHandler) drain() {
	defer h.wg.Done()
	for e := range h.queue {
		_ = e.h.Handle(context.Background(), e.rec)
	}
}

// Enabled delegates to the wrapped handler.
func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle enqueues the record, dropping it when the queue is full. The record
// is cloned because it outlives this call.
func (h *AsyncHandler) Handle(_ context.Context, rec slog.Record) error { //nolint:gocritic // slog.Handler takes the record by value
	select {
	case h.queue <- entry{h.inner, rec.Clone()}:
	default:
		h.dropped.Add(1)
	}
	return nil
}

// WithAttrs wraps the inner handler; the queue and workers are shared.
func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{inner: h.inner.WithAttrs(attrs), queue: h.queue, wg: h.wg, dropped: h.dropped}
}

// WithGroup wraps the inner handler; the queue and workers are shared.
func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{inner: h.inner.WithGroup(name), queue: h.queue, wg: h.wg, dropped: h.dropped}
}

// DroppedCount returns the number of records dropped on a full queue.
func (h *AsyncHandler) DroppedCount() int64 {
	return h.dropped.Load()
}

// Close stops intake and waits for the workers to flush the queue. Only the
// handler returned by NewAsyncHandler owns the queue; call Close on that one,
// after all logging has stopped.
func (h *AsyncHandler) Close() {
	close(h.queue)
	h.wg.Wait()
}
