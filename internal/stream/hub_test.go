package stream

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitTick(t *testing.T, ticks <-chan struct{}) {
	t.Helper()
	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for tick")
	}
}

func TestHubPublishSubscribe(t *testing.T) {
	t.Parallel()
	hub := NewHub()
	ctx := context.Background()

	ticks, cancel := hub.Subscribe(ctx, "users/a/businesses")
	defer cancel()
	other, cancelOther := hub.Subscribe(ctx, "users/b/businesses")
	defer cancelOther()

	hub.Publish("users/a/businesses")
	waitTick(t, ticks)

	select {
	case <-other:
		t.Fatal("tick leaked across scopes")
	default:
	}
}

func TestHubCoalescesPendingTicks(t *testing.T) {
	t.Parallel()
	hub := NewHub()
	ticks, cancel := hub.Subscribe(context.Background(), "scope")
	defer cancel()

	for i := 0; i < 10; i++ {
		hub.Publish("scope")
	}

	waitTick(t, ticks)
	select {
	case <-ticks:
		t.Fatal("expected pending ticks to coalesce into one")
	default:
	}
}

func TestHubUnsubscribeOnCancel(t *testing.T) {
	t.Parallel()
	hub := NewHub()
	_, cancel := hub.Subscribe(context.Background(), "scope")
	cancel()

	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.subs["scope"]) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestSnapshots(t *testing.T) {
	t.Parallel()
	hub := NewHub()

	var version atomic.Int64
	version.Store(1)
	load := func(ctx context.Context) (int64, error) {
		return version.Load(), nil
	}

	snapshots, cancel := Snapshots(context.Background(), hub, "scope", load)
	defer cancel()

	next := func() int64 {
		select {
		case v, ok := <-snapshots:
			require.True(t, ok)
			return v
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for snapshot")
			return 0
		}
	}

	assert.Equal(t, int64(1), next(), "initial snapshot emitted without a publish")

	version.Store(2)
	hub.Publish("scope")
	assert.Equal(t, int64(2), next())

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-snapshots:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}
