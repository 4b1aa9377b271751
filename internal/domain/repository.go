package domain

import "context"

// TokenResolver looks up a storefront access token by its credential
// reference (an environment variable name in the default setup). It
// returns an empty string when the credential is not configured.
type TokenResolver func(ref string) string

// ProductSource fetches product data for a single store. Two
// implementations exist: the live Storefront API client and an offline
// fixture source used when no credentials are configured. The
// orchestrator picks one at construction time.
type ProductSource interface {
	// ResolveHandle resolves a product handle to a product GID on this
	// specific store. It returns ErrHandleNotFound when the handle does
	// not exist there.
	ResolveHandle(ctx context.Context, store StoreEntry, handle string) (string, error)

	// Recommendations fetches recommended items for a product.
	Recommendations(ctx context.Context, store StoreEntry, productID string, intent Intent) ([]SimilarItem, error)

	// ListProducts fetches up to limit items from the store's catalog.
	ListProducts(ctx context.Context, store StoreEntry, limit int) ([]SimilarItem, error)
}

// CacheKey identifies one cached recommendation list. Two keys are
// equal iff all three fields are equal.
type CacheKey struct {
	StoreDomain string
	ProductID   string
	Intent      Intent
}

// String normalizes the key to a single string so that structurally
// equal keys always collide regardless of how they were built.
func (k CacheKey) String() string {
	return k.StoreDomain + ":" + k.ProductID + ":" + string(k.Intent)
}

// CacheStats is a snapshot of the recommendation cache.
type CacheStats struct {
	Size       int `json:"size"`
	MaxSize    int `json:"maxSize"`
	TTLSeconds int `json:"ttlSeconds"`
}

// RecommendationCache stores previously fetched recommendation lists.
// Entries age out by TTL and are evicted least-recently-used once the
// cache is full; either can remove an entry first.
type RecommendationCache interface {
	// Get returns the cached items for key, or nil on a miss or an
	// expired entry.
	Get(key CacheKey) []SimilarItem

	// Set inserts or overwrites the entry for key, resetting its age.
	Set(key CacheKey, items []SimilarItem)

	// Clear removes every entry.
	Clear()

	Stats() CacheStats
}
