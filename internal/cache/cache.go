// Package cache provides the process-local caches used by the
// retrieval pipeline: embeddings by text, chunk lists by text, and
// ranked search results by query.
//
// Every store is a bounded LRU with a per-entry TTL. The cache is an
// optimisation only: a miss must always be recomputable, so nothing is
// persisted across restarts.
package cache

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/lessonworks/kbsearch/internal/core/domain"
)

// DefaultCapacity is the default maximum entry count per store.
const DefaultCapacity = 256

// DefaultTTL is the default time-to-live per entry.
const DefaultTTL = 15 * time.Minute

// Normalize produces the canonical cache key for a text: lower-cased
// and trimmed. Every caller must key through Normalize so that two
// logically-identical texts hit the same entry.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Cache holds the three independent keyed stores. Construct one per
// process and inject it; entries are independent, so the stores are
// safe for concurrent use without cross-entry locking.
type Cache struct {
	vectors *expirable.LRU[string, []float32]
	chunks  *expirable.LRU[string, []string]
	results *expirable.LRU[string, []domain.SearchResult]
}

// New creates a cache where each store holds up to capacity entries
// with the given TTL. Non-positive arguments fall back to defaults.
func New(capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Cache{
		vectors: expirable.NewLRU[string, []float32](capacity, nil, ttl),
		chunks:  expirable.NewLRU[string, []string](capacity, nil, ttl),
		results: expirable.NewLRU[string, []domain.SearchResult](capacity, nil, ttl),
	}
}

// Vector returns the cached embedding for text, if present.
func (c *Cache) Vector(text string) ([]float32, bool) {
	return c.vectors.Get(Normalize(text))
}

// SetVector stores the embedding for text.
func (c *Cache) SetVector(text string, vector []float32) {
	c.vectors.Add(Normalize(text), vector)
}

// Chunks returns the cached chunk list for text, if present.
func (c *Cache) Chunks(text string) ([]string, bool) {
	return c.chunks.Get(Normalize(text))
}

// SetChunks stores the chunk list for text.
func (c *Cache) SetChunks(text string, chunks []string) {
	c.chunks.Add(Normalize(text), chunks)
}

// Results returns the cached ranked results for a query key, if present.
func (c *Cache) Results(key string) ([]domain.SearchResult, bool) {
	return c.results.Get(Normalize(key))
}

// SetResults stores ranked results under a query key.
func (c *Cache) SetResults(key string, results []domain.SearchResult) {
	c.results.Add(Normalize(key), results)
}

// InvalidateResults drops all cached search results. Called whenever
// the underlying store changes, since any ranked list may be stale.
func (c *Cache) InvalidateResults() {
	c.results.Purge()
}

// Clear empties every store.
func (c *Cache) Clear() {
	c.vectors.Purge()
	c.chunks.Purge()
	c.results.Purge()
}
