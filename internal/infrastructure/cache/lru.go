package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/shoplens/backend/internal/domain"
)

// Defaults used when the constructor receives zero values.
const (
	DefaultTTL        = 60 * time.Second
	DefaultMaxEntries = 1000
)

// entry is one cached recommendation list.
type entry struct {
	items      []domain.SimilarItem
	insertedAt time.Time
}

// Recommendations is a TTL plus capacity bounded cache of
// recommendation lists, keyed by (store, product, intent). TTL expiry
// and LRU eviction are both active at the same time; either can remove
// an entry first. Safe for concurrent use.
type Recommendations struct {
	lru        *expirable.LRU[string, entry]
	maxEntries int
	ttl        time.Duration
}

// NewRecommendations creates a cache with the given TTL and capacity.
// Zero or negative arguments fall back to the defaults.
func NewRecommendations(ttl time.Duration, maxEntries int) *Recommendations {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Recommendations{
		lru:        expirable.NewLRU[string, entry](maxEntries, nil, ttl),
		maxEntries: maxEntries,
		ttl:        ttl,
	}
}

// Get returns the cached items for key, or nil on a miss or an expired
// entry.
func (c *Recommendations) Get(key domain.CacheKey) []domain.SimilarItem {
	e, ok := c.lru.Get(key.String())
	if !ok {
		return nil
	}
	return e.items
}

// Set inserts or overwrites the entry for key, resetting its age.
func (c *Recommendations) Set(key domain.CacheKey, items []domain.SimilarItem) {
	c.lru.Add(key.String(), entry{items: items, insertedAt: time.Now()})
}

// Clear removes every entry.
func (c *Recommendations) Clear() {
	c.lru.Purge()
}

// Stats returns a snapshot of the cache.
func (c *Recommendations) Stats() domain.CacheStats {
	return domain.CacheStats{
		Size:       c.lru.Len(),
		MaxSize:    c.maxEntries,
		TTLSeconds: int(c.ttl / time.Second),
	}
}
