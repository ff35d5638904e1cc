// Package aggregator fans out to every registered source concurrently,
// merges the normalized results, removes duplicates and serves the ordered
// list through the cache layer.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"newspulse/app/cache"
	"newspulse/app/dedup"
	"newspulse/app/feed"
	"newspulse/app/fetch"
	"newspulse/app/sources"
)

// ErrAllSourcesFailed signals a total outage. It is a soft warning: the
// caller still receives a renderable (possibly stale or empty) item list.
var ErrAllSourcesFailed = errors.New("all sources failed")

type FetcherInterface interface {
	Fetch(ctx context.Context, src sources.Source) (*fetch.Result, error)
}

var _ FetcherInterface = (*fetch.Fetcher)(nil)

type NormalizerInterface interface {
	Run(res *fetch.Result, src sources.Source) ([]feed.Item, error)
}

var _ NormalizerInterface = (*feed.Normalizer)(nil)

// Options control result size and the TTL assigned per priority tier.
type Options struct {
	MaxItemsTotal int
	TTLHigh       time.Duration
	TTLMedium     time.Duration
	TTLLow        time.Duration
}

func DefaultOptions() Options {
	return Options{
		MaxItemsTotal: 50,
		TTLHigh:       5 * time.Minute,
		TTLMedium:     15 * time.Minute,
		TTLLow:        60 * time.Minute,
	}
}

type Aggregator struct {
	fetcher    FetcherInterface
	normalizer NormalizerInterface
	dedup      *dedup.Deduplicator
	cache      cache.Cache
	opts       Options
}

func New(fetcher FetcherInterface, normalizer NormalizerInterface,
	deduplicator *dedup.Deduplicator, store cache.Cache, opts Options) *Aggregator {
	defaults := DefaultOptions()
	if opts.MaxItemsTotal <= 0 {
		opts.MaxItemsTotal = defaults.MaxItemsTotal
	}
	if opts.TTLHigh <= 0 {
		opts.TTLHigh = defaults.TTLHigh
	}
	if opts.TTLMedium <= 0 {
		opts.TTLMedium = defaults.TTLMedium
	}
	if opts.TTLLow <= 0 {
		opts.TTLLow = defaults.TTLLow
	}
	return &Aggregator{
		fetcher:    fetcher,
		normalizer: normalizer,
		dedup:      deduplicator,
		cache:      store,
		opts:       opts,
	}
}

// CacheKey derives the logical feed key for a registry filter.
func CacheKey(filter sources.Filter) string {
	parts := []string{"feeds"}
	if filter.Category != "" {
		parts = append(parts, "category:"+strings.ToLower(filter.Category))
	}
	if filter.Kind != "" {
		parts = append(parts, "kind:"+string(filter.Kind))
	}
	if len(parts) == 1 {
		return "feeds:all"
	}
	return strings.Join(parts, ":")
}

type outcome struct {
	items []feed.Item
	err   error
}

// Run executes one aggregation cycle for the given sources and cache key.
//
// A fresh cache entry short-circuits the cycle with zero network calls.
// Otherwise all sources are fetched concurrently with independent timeouts;
// a failing source contributes nothing and never aborts its siblings. When
// every source fails, a stale cache entry is preferred over an empty
// response, and ErrAllSourcesFailed is returned alongside whatever items
// are available.
func (a *Aggregator) Run(ctx context.Context, srcs []sources.Source, cacheKey string) ([]feed.Item, error) {
	now := time.Now().UTC()
	if entry := a.cache.Get(cacheKey); entry != nil && entry.IsFresh(now) {
		slog.Debug("Cache hit", "key", cacheKey, "items", len(entry.Items))
		return entry.Items, nil
	}

	if len(srcs) == 0 {
		return []feed.Item{}, nil
	}

	started := time.Now()
	outcomes := make([]outcome, len(srcs))

	var wg sync.WaitGroup
	for i, src := range srcs {
		wg.Add(1)
		go func(i int, src sources.Source) {
			defer wg.Done()
			outcomes[i] = a.fetchOne(ctx, src)
		}(i, src)
	}
	wg.Wait()

	var merged []feed.Item
	succeeded := 0
	for i, out := range outcomes {
		if out.err != nil {
			slog.Warn("Source contributed no items", "source", srcs[i].ID, "error", out.err)
			continue
		}
		succeeded++
		merged = append(merged, out.items...)
	}

	if succeeded == 0 {
		if entry := a.cache.Get(cacheKey); entry != nil && len(entry.Items) > 0 {
			slog.Warn("All sources failed, serving stale cache", "key", cacheKey, "items", len(entry.Items))
			return entry.Items, ErrAllSourcesFailed
		}
		slog.Error("All sources failed with no cache fallback", "key", cacheKey, "sources", len(srcs))
		return []feed.Item{}, ErrAllSourcesFailed
	}

	// Newest first before dedup, so first-seen-wins keeps the most
	// recent of two duplicate stories. Stable sort keeps same-timestamp
	// ordering deterministic.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PublishedAt.After(merged[j].PublishedAt)
	})

	deduped := a.dedup.Run(merged)
	if len(deduped) > a.opts.MaxItemsTotal {
		deduped = deduped[:a.opts.MaxItemsTotal]
	}

	ttl := a.ttlFor(srcs)
	a.cache.Put(cacheKey, deduped, ttl)

	slog.Info("Aggregation cycle completed",
		"key", cacheKey,
		"sources", len(srcs),
		"succeeded", succeeded,
		"merged", len(merged),
		"kept", len(deduped),
		"ttl", ttl.String(),
		"duration", time.Since(started).Round(time.Millisecond).String())

	return deduped, nil
}

func (a *Aggregator) fetchOne(ctx context.Context, src sources.Source) outcome {
	res, err := a.fetcher.Fetch(ctx, src)
	if err != nil {
		return outcome{err: err}
	}

	items, err := a.normalizer.Run(res, src)
	if err != nil {
		return outcome{err: fmt.Errorf("normalize %s: %w", src.ID, err)}
	}

	return outcome{items: items}
}

// ttlFor picks the TTL of the highest-priority tier among the contributing
// sources: hot sources keep the whole key fresh.
func (a *Aggregator) ttlFor(srcs []sources.Source) time.Duration {
	ttl := a.opts.TTLLow
	for _, src := range srcs {
		switch src.Priority {
		case sources.PriorityHigh:
			return a.opts.TTLHigh
		case sources.PriorityMedium:
			if ttl > a.opts.TTLMedium {
				ttl = a.opts.TTLMedium
			}
		}
	}
	return ttl
}
