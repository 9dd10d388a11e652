package event

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/brindes/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DedupCounters counts deliveries seen by one or more DedupHandlers
type DedupCounters struct {
	Processed atomic.Int64
	Duplicate atomic.Int64
	Failed    atomic.Int64
}

// DedupSnapshot is a point-in-time copy of DedupCounters
type DedupSnapshot struct {
	Processed int64 `json:"processed"`
	Duplicate int64 `json:"duplicate"`
	Failed    int64 `json:"failed"`
}

func (c *DedupCounters) Snapshot() DedupSnapshot {
	return DedupSnapshot{
		Processed: c.Processed.Load(),
		Duplicate: c.Duplicate.Load(),
		Failed:    c.Failed.Load(),
	}
}

// DedupOptions tunes a DedupHandler. The zero value deduplicates for
// shared.DefaultKeyTTL under the wrapped handler's type name.
type DedupOptions struct {
	Name     string
	TTL      time.Duration
	Disabled bool
	Counters *DedupCounters
}

// DedupHandler delivers each event to the wrapped handler at most once per
// TTL. Keys carry the handler name so handlers sharing a store do not mask
// each other.
type DedupHandler struct {
	next     shared.EventHandler
	store    shared.IdempotencyStore
	opts     DedupOptions
	counters *DedupCounters
	logger   *zap.Logger
}

func NewDedupHandler(next shared.EventHandler, store shared.IdempotencyStore, logger *zap.Logger, opts DedupOptions) *DedupHandler {
	if opts.Name == "" {
		opts.Name = fmt.Sprintf("%T", next)
	}
	if opts.TTL <= 0 {
		opts.TTL = shared.DefaultKeyTTL
	}
	counters := opts.Counters
	if counters == nil {
		counters = &DedupCounters{}
	}
	return &DedupHandler{next: next, store: store, opts: opts, counters: counters, logger: logger}
}

// Dedup wraps each handler with its own DedupHandler over one store
func Dedup(handlers []shared.EventHandler, store shared.IdempotencyStore, logger *zap.Logger, opts DedupOptions) []shared.EventHandler {
	out := make([]shared.EventHandler, 0, len(handlers))
	for _, h := range handlers {
		o := opts
		o.Name = ""
		out = append(out, NewDedupHandler(h, store, logger, o))
	}
	return out
}

func (h *DedupHandler) EventTypes() []string {
	return h.next.EventTypes()
}

// Key is the store key recording that this handler saw event
func (h *DedupHandler) Key(event shared.DomainEvent) string {
	return fmt.Sprintf("event:%s:%s", h.opts.Name, event.EventID())
}

// Handle forwards the event unless its key is already marked. When the
// store is unreachable the event is forwarded anyway. A failing handler
// releases the key so a redelivery runs again.
func (h *DedupHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.opts.Disabled {
		return h.next.Handle(ctx, event)
	}

	key := h.Key(event)
	first, err := h.store.MarkProcessed(ctx, key, h.opts.TTL)
	if err != nil {
		h.logger.Warn("Dedup store unavailable, delivering event",
			zap.String("key", key), zap.String("event_type", event.EventType()), zap.Error(err))
	} else if !first {
		h.counters.Duplicate.Add(1)
		h.logger.Debug("Duplicate event dropped", zap.String("key", key))
		return nil
	}

	if err := h.next.Handle(ctx, event); err != nil {
		h.counters.Failed.Add(1)
		if rerr := h.store.Release(ctx, key); rerr != nil {
			h.logger.Warn("Dedup key not released", zap.String("key", key), zap.Error(rerr))
		}
		return err
	}
	h.counters.Processed.Add(1)
	return nil
}

func (h *DedupHandler) Counters() *DedupCounters {
	return h.counters
}

// Unwrap returns the wrapped handler
func (h *DedupHandler) Unwrap() shared.EventHandler {
	return h.next
}

var _ shared.EventHandler = (*DedupHandler)(nil)
