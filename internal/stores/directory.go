// Package stores holds the static category to partner-store table and
// resolves search keywords to candidate stores.
package stores

import (
	"os"
	"strings"

	"github.com/shoplens/backend/internal/domain"
)

// tokenPlaceholder is the value shipped in the sample .env file; it
// counts as "not configured".
const tokenPlaceholder = "your_storefront_token_here"

// Category pairs a category name with the stores that carry it. The
// table is an ordered slice, not a map: keyword matching and store
// dedup both follow table order.
type Category struct {
	Name   string
	Stores []domain.StoreEntry
}

// Directory is the process-wide store configuration, loaded once and
// immutable afterwards. Tokens are resolved through an injected
// resolver so tests can run without touching the environment.
type Directory struct {
	categories []Category
	tokens     domain.TokenResolver
}

// NewDirectory builds a directory over the given table. A nil resolver
// defaults to os.Getenv.
func NewDirectory(categories []Category, tokens domain.TokenResolver) *Directory {
	if tokens == nil {
		tokens = os.Getenv
	}
	return &Directory{categories: categories, tokens: tokens}
}

// DefaultCategories returns the built-in category table.
// In production this would be loaded from a database.
func DefaultCategories() []Category {
	return []Category{
		{Name: "mens jackets", Stores: []domain.StoreEntry{
			{StoreDomain: "urban-threads.myshopify.com", TokenEnvVar: "SF_TOKEN_A"},
			{StoreDomain: "peak-outfitters.myshopify.com", TokenEnvVar: "SF_TOKEN_B"},
		}},
		{Name: "outerwear", Stores: []domain.StoreEntry{
			{StoreDomain: "peak-outfitters.myshopify.com", TokenEnvVar: "SF_TOKEN_B"},
			{StoreDomain: "summit-supply.myshopify.com", TokenEnvVar: "SF_TOKEN_C"},
		}},
		{Name: "sweaters", Stores: []domain.StoreEntry{
			{StoreDomain: "urban-threads.myshopify.com", TokenEnvVar: "SF_TOKEN_A"},
			{StoreDomain: "knitworks.myshopify.com", TokenEnvVar: "SF_TOKEN_D"},
		}},
		{Name: "womens clothing", Stores: []domain.StoreEntry{
			{StoreDomain: "maison-vogue.myshopify.com", TokenEnvVar: "SF_TOKEN_E"},
			{StoreDomain: "velvet-lane.myshopify.com", TokenEnvVar: "SF_TOKEN_F"},
		}},
		{Name: "accessories", Stores: []domain.StoreEntry{
			{StoreDomain: "brass-and-bone.myshopify.com", TokenEnvVar: "SF_TOKEN_G"},
			{StoreDomain: "velvet-lane.myshopify.com", TokenEnvVar: "SF_TOKEN_F"},
		}},
		{Name: "shoes", Stores: []domain.StoreEntry{
			{StoreDomain: "stride-lab.myshopify.com", TokenEnvVar: "SF_TOKEN_H"},
			{StoreDomain: "cobbler-and-co.myshopify.com", TokenEnvVar: "SF_TOKEN_I"},
		}},
		{Name: "electronics", Stores: []domain.StoreEntry{
			{StoreDomain: "voltcart.myshopify.com", TokenEnvVar: "SF_TOKEN_J"},
			{StoreDomain: "gadget-grove.myshopify.com", TokenEnvVar: "SF_TOKEN_K"},
		}},
		{Name: "home decor", Stores: []domain.StoreEntry{
			{StoreDomain: "hearthline.myshopify.com", TokenEnvVar: "SF_TOKEN_L"},
			{StoreDomain: "urban-threads.myshopify.com", TokenEnvVar: "SF_TOKEN_A"},
		}},
	}
}

// ResolveStores returns the stores whose category name contains the
// keyword (case-insensitive substring match), deduplicated by domain
// with the first occurrence winning, capped at maxStores distinct
// domains. MatchedCategories lists every matching category in table
// order, even after the store cap is reached. Zero matches is not an
// error; both slices come back empty.
func (d *Directory) ResolveStores(keyword string, maxStores int) (stores []domain.StoreEntry, matchedCategories []string) {
	stores = []domain.StoreEntry{}
	matchedCategories = []string{}

	keywordLower := strings.ToLower(keyword)
	seen := make(map[string]bool)

	for _, category := range d.categories {
		if !strings.Contains(strings.ToLower(category.Name), keywordLower) {
			continue
		}
		matchedCategories = append(matchedCategories, category.Name)

		for _, store := range category.Stores {
			if seen[store.StoreDomain] || len(stores) >= maxStores {
				continue
			}
			seen[store.StoreDomain] = true
			stores = append(stores, store)
		}
	}

	return stores, matchedCategories
}

// TokenFor resolves a store's access token, or returns an empty string
// when it is not configured. Callers surface the absence themselves; a
// missing credential is a per-store condition, not a directory error.
func (d *Directory) TokenFor(store domain.StoreEntry) string {
	token := d.tokens(store.TokenEnvVar)
	if token == tokenPlaceholder {
		return ""
	}
	return token
}

// Resolver exposes the directory's token lookup as a plain
// TokenResolver, with the same placeholder filtering as TokenFor.
func (d *Directory) Resolver() domain.TokenResolver {
	return func(ref string) string {
		return d.TokenFor(domain.StoreEntry{TokenEnvVar: ref})
	}
}

// FindByDomain looks up a store entry by its domain.
func (d *Directory) FindByDomain(storeDomain string) (domain.StoreEntry, bool) {
	for _, category := range d.categories {
		for _, store := range category.Stores {
			if store.StoreDomain == storeDomain {
				return store, true
			}
		}
	}
	return domain.StoreEntry{}, false
}

// First returns the first store in the table, used as the default for
// the catalog listing endpoint.
func (d *Directory) First() (domain.StoreEntry, bool) {
	for _, category := range d.categories {
		if len(category.Stores) > 0 {
			return category.Stores[0], true
		}
	}
	return domain.StoreEntry{}, false
}

// AnyTokenConfigured reports whether at least one store has a real
// token. When none do, the service falls back to the offline fixture
// catalog.
func (d *Directory) AnyTokenConfigured() bool {
	for _, category := range d.categories {
		for _, store := range category.Stores {
			if d.TokenFor(store) != "" {
				return true
			}
		}
	}
	return false
}
