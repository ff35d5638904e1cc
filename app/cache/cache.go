// Package cache stores aggregated, deduplicated results per logical feed
// key. It is the only component allowed to hold mutable state across calls;
// entries are replaced wholesale, never partially mutated.
package cache

import (
	"time"

	"newspulse/app/feed"
)

// Entry is one cached aggregation result. Stale entries are kept around so
// a total source outage can fall back to them.
type Entry struct {
	Key        string      `json:"key"`
	Items      []feed.Item `json:"items"`
	WrittenAt  time.Time   `json:"written_at"`
	TTLSeconds int         `json:"ttl_seconds"`
}

// IsFresh reports whether the entry is still within its TTL window at the
// given instant.
func (e *Entry) IsFresh(now time.Time) bool {
	return now.Sub(e.WrittenAt) < time.Duration(e.TTLSeconds)*time.Second
}

// Cache is the store contract shared by the in-process and Redis backends.
// Backend failures are fail-open: implementations report a miss instead of
// an error, and aggregation proceeds as if the cache were empty.
type Cache interface {
	// Get returns the entry for a key, fresh or stale, or nil on a miss.
	Get(key string) *Entry

	// Put replaces the entry for a key atomically. Last write wins.
	Put(key string, items []feed.Item, ttl time.Duration)

	// Clear removes one key, or everything when key is empty.
	Clear(key string)

	// Health describes the backend for the health endpoint.
	Health() map[string]interface{}
}
