// Package remoteflags fetches and caches a small set of named configuration
// values from a remote flag document, once per process lifetime.
package remoteflags

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/carousell/ct-go/pkg/logger"
	"github.com/goccy/go-json"
	"github.com/spf13/cast"

	"github.com/complyhq/complybot/internal/config"
)

// Reader exposes the activated flag values. Getters return documented zero
// values (empty string / false / 0) with a logged warning when called before
// Initialize completes or for absent keys.
type Reader interface {
	Initialize(ctx context.Context) error
	GetString(key string) string
	GetBool(key string) bool
	GetNumber(key string) float64
}

type reader struct {
	cfg    config.RemoteFlagsConfig
	client *http.Client
	log    *logger.Logger

	mu           sync.Mutex
	activated    bool
	lastFetch    time.Time
	values       map[string]any
	inFlight     bool
	inFlightWait *sync.Cond
}

func NewReader(cfg *config.Config) Reader {
	r := &reader{
		cfg:    cfg.RemoteFlags,
		client: &http.Client{Timeout: cfg.RemoteFlags.FetchTimeout},
		log:    logger.MustNamed("remoteflags"),
		values: map[string]any{},
	}
	r.inFlightWait = sync.NewCond(&r.mu)
	return r
}

// Initialize fetches and activates the latest flag set. Calls made while a
// fetch is outstanding wait for it; calls made within the minimum fetch
// interval of a completed activation are no-ops.
func (r *reader) Initialize(ctx context.Context) error {
	r.mu.Lock()
	for r.inFlight {
		r.inFlightWait.Wait()
	}
	if r.activated && time.Since(r.lastFetch) < r.cfg.MinFetchInterval {
		r.mu.Unlock()
		return nil
	}
	if r.cfg.URL == "" {
		// nothing to fetch; activate empty so getters stop warning
		r.activated = true
		r.lastFetch = time.Now()
		r.mu.Unlock()
		r.log.Warnw("no remote flag URL configured, activating empty flag set")
		return nil
	}
	r.inFlight = true
	r.mu.Unlock()

	values, err := r.fetch(ctx)

	r.mu.Lock()
	r.inFlight = false
	r.inFlightWait.Broadcast()
	if err == nil {
		r.values = values
		r.activated = true
		r.lastFetch = time.Now()
	}
	r.mu.Unlock()

	if err != nil {
		return fmt.Errorf("fetch remote flags: %w", err)
	}
	r.log.Infow("remote flags activated", "count", len(values))
	return nil
}

func (r *reader) fetch(ctx context.Context) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var values map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&values); err != nil {
		return nil, fmt.Errorf("decode flag document: %w", err)
	}
	return values, nil
}

func (r *reader) value(key string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.activated {
		r.log.Warnw("remote flags not activated yet", "key", key)
		return nil, false
	}
	v, ok := r.values[key]
	if !ok {
		r.log.Warnw("remote flag not found", "key", key)
	}
	return v, ok
}

func (r *reader) GetString(key string) string {
	v, ok := r.value(key)
	if !ok {
		return ""
	}
	return cast.ToString(v)
}

func (r *reader) GetBool(key string) bool {
	v, ok := r.value(key)
	if !ok {
		return false
	}
	return cast.ToBool(v)
}

func (r *reader) GetNumber(key string) float64 {
	v, ok := r.value(key)
	if !ok {
		return 0
	}
	return cast.ToFloat64(v)
}
