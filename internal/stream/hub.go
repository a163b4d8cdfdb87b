// Package stream provides the in-process change hub behind the live list
// subscriptions: repositories publish a scope key after every mutation, and
// subscribers re-load and re-emit the full current snapshot for that scope.
package stream

import (
	"context"
	"sync"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
)

// Hub fans out change notifications per scope key. Notifications carry no
// payload; a subscriber re-reads its scope on every tick, so the emitted
// snapshot is always the current result set regardless of how many writes
// coalesced into one tick.
type Hub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[int]chan struct{}),
	}
}

// Publish notifies every subscriber of scope. Slow subscribers coalesce:
// the channel holds at most one pending tick.
func (h *Hub) Publish(scope string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs[scope] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribe registers for change ticks on scope until ctx is cancelled or
// the returned cancel func is called. Cancellation is idempotent.
func (h *Hub) Subscribe(ctx context.Context, scope string) (<-chan struct{}, context.CancelFunc) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	h.nextID++
	id := h.nextID
	if h.subs[scope] == nil {
		h.subs[scope] = make(map[int]chan struct{})
	}
	h.subs[scope][id] = ch
	h.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs[scope], id)
		if len(h.subs[scope]) == 0 {
			delete(h.subs, scope)
		}
		h.mu.Unlock()
	}()

	return ch, cancel
}

// Snapshots turns a scope subscription into a live snapshot stream: it emits
// the result of load immediately, then again after every published change,
// until cancelled. The snapshot channel is closed on cancellation so callers
// can range over it.
func Snapshots[T any](ctx context.Context, h *Hub, scope string, load func(context.Context) (T, error)) (<-chan T, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	ticks, cancelSub := h.Subscribe(ctx, scope)
	out := make(chan T, 1)

	emit := func() {
		snapshot, err := load(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.Warnw(ctx, "snapshot load failed", "scope", scope, "error", err)
			}
			return
		}
		// latest-wins: drop a stale pending snapshot instead of blocking
		select {
		case out <- snapshot:
		default:
			select {
			case <-out:
			default:
			}
			select {
			case out <- snapshot:
			default:
			}
		}
	}

	go func() {
		defer close(out)
		defer cancelSub()
		emit()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticks:
				emit()
			}
		}
	}()

	return out, cancel
}
