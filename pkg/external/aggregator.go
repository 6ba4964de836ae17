package external

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/ricehub/ricehub/pkg/domain"
)

// ErrAllSourcesFailed is returned when every upstream source failed and no
// fresh result set could be assembled
var ErrAllSourcesFailed = errors.New("all external sources failed")

// Source is a single upstream content provider
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.ExternalItem, error)
}

// Aggregator merges items from the configured sources behind a single-slot
// time-expiring cache. The slot is process-wide; request parameters do not
// key it. Concurrent refreshes are coalesced into one in-flight fetch.
type Aggregator struct {
	sources []Source
	ttl     time.Duration

	mu        sync.Mutex
	items     []domain.ExternalItem
	fetchedAt time.Time

	group singleflight.Group
}

// NewAggregator creates an aggregator over the given sources
func NewAggregator(ttl time.Duration, sources ...Source) *Aggregator {
	return &Aggregator{sources: sources, ttl: ttl}
}

// Items returns the cached item list while it is fresh, in the exact order
// it was cached, and refreshes it otherwise. On total upstream failure the
// cache slot is left untouched and the caller gets ErrAllSourcesFailed;
// stale data is never served in place of the error.
func (a *Aggregator) Items(ctx context.Context) ([]domain.ExternalItem, error) {
	a.mu.Lock()
	if a.fresh() {
		items := a.items
		a.mu.Unlock()
		return items, nil
	}
	a.mu.Unlock()

	// the flight is shared between callers, so it must not die with the
	// first caller's request context; source clients carry their own
	// timeouts, which keeps a hung upstream bounded
	refreshCtx := context.WithoutCancel(ctx)
	result, err, shared := a.group.Do("refresh", func() (interface{}, error) {
		return a.refresh(refreshCtx)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		lgr.Printf("[DEBUG] external refresh coalesced with concurrent request")
	}
	return result.([]domain.ExternalItem), nil
}

// fresh reports whether the slot can be served, caller must hold the lock.
// Freshness follows the fetch time, not the item count, so an upstream
// answering with zero items is still honored for the full TTL.
func (a *Aggregator) fresh() bool {
	return !a.fetchedAt.IsZero() && time.Since(a.fetchedAt) < a.ttl
}

// refresh fetches all sources concurrently, tolerating per-source failures,
// then shuffles the merged results and updates the slot
func (a *Aggregator) refresh(ctx context.Context) ([]domain.ExternalItem, error) {
	// another flight may have refreshed while we waited on singleflight
	a.mu.Lock()
	if a.fresh() {
		items := a.items
		a.mu.Unlock()
		return items, nil
	}
	a.mu.Unlock()

	lgr.Printf("[INFO] refreshing external content from %d sources", len(a.sources))

	results := make([][]domain.ExternalItem, len(a.sources))
	errs := make([]error, len(a.sources))

	g, ctx := errgroup.WithContext(ctx)
	for i, source := range a.sources {
		g.Go(func() error {
			items, err := source.Fetch(ctx)
			if err != nil {
				// a failing source degrades the result set, not the request
				lgr.Printf("[WARN] external source %s failed: %v", source.Name(), err)
				errs[i] = err
				return nil
			}
			results[i] = items
			return nil
		})
	}
	_ = g.Wait() // fetch errors are collected per-source, never propagated here

	var merged []domain.ExternalItem
	failed := 0
	for i := range a.sources {
		if errs[i] != nil {
			failed++
			continue
		}
		merged = append(merged, results[i]...)
	}

	if failed == len(a.sources) {
		return nil, fmt.Errorf("%w: %s", ErrAllSourcesFailed, errors.Join(errs...))
	}

	// one permutation per refresh; cache hits keep the order
	rand.Shuffle(len(merged), func(i, j int) { merged[i], merged[j] = merged[j], merged[i] })

	a.mu.Lock()
	a.items = merged
	a.fetchedAt = time.Now()
	a.mu.Unlock()

	return merged, nil
}
