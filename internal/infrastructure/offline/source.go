// Package offline provides a fixture-backed ProductSource used when no
// storefront tokens are configured, keeping the service usable and
// demoable without live partner credentials.
package offline

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/shoplens/backend/internal/domain"
)

func strptr(s string) *string { return &s }

// fixtureItems is the canned catalog served by the fixture source.
var fixtureItems = []domain.SimilarItem{
	{
		ID:       "gid://shopify/Product/1234567890",
		Title:    "Blue Denim Jacket",
		ImageURL: strptr("https://cdn.shopify.com/s/files/1/0000/0000/products/blue-jacket.jpg"),
	},
	{
		ID:       "gid://shopify/Product/1234567891",
		Title:    "Black Leather Jacket",
		ImageURL: strptr("https://cdn.shopify.com/s/files/1/0000/0000/products/black-jacket.jpg"),
	},
	{
		ID:       "gid://shopify/Product/1234567892",
		Title:    "Brown Suede Jacket",
		ImageURL: strptr("https://cdn.shopify.com/s/files/1/0000/0000/products/brown-jacket.jpg"),
	},
	{
		ID:       "gid://shopify/Product/1234567893",
		Title:    "Red Bomber Jacket",
		ImageURL: strptr("https://cdn.shopify.com/s/files/1/0000/0000/products/red-jacket.jpg"),
	},
	{
		ID:       "gid://shopify/Product/1234567894",
		Title:    "Green Military Jacket",
		ImageURL: strptr("https://cdn.shopify.com/s/files/1/0000/0000/products/green-jacket.jpg"),
	},
	{
		ID:       "gid://shopify/Product/1234567895",
		Title:    "Gray Hooded Jacket",
		ImageURL: strptr("https://cdn.shopify.com/s/files/1/0000/0000/products/gray-jacket.jpg"),
	},
}

// FixtureSource serves recommendations from a fixed dataset and never
// touches the network. It satisfies the same interface as the live
// storefront source.
type FixtureSource struct{}

// NewFixtureSource creates the offline source.
func NewFixtureSource() *FixtureSource {
	return &FixtureSource{}
}

// ResolveHandle synthesizes a deterministic product GID from the
// handle so that repeated requests hit the same cache key.
func (s *FixtureSource) ResolveHandle(_ context.Context, _ domain.StoreEntry, handle string) (string, error) {
	h := fnv.New64a()
	h.Write([]byte(handle))
	return fmt.Sprintf("gid://shopify/Product/%d", h.Sum64()), nil
}

// Recommendations returns the fixture catalog.
func (s *FixtureSource) Recommendations(_ context.Context, _ domain.StoreEntry, _ string, _ domain.Intent) ([]domain.SimilarItem, error) {
	return s.items(len(fixtureItems)), nil
}

// ListProducts returns up to limit fixture items.
func (s *FixtureSource) ListProducts(_ context.Context, _ domain.StoreEntry, limit int) ([]domain.SimilarItem, error) {
	return s.items(limit), nil
}

func (s *FixtureSource) items(limit int) []domain.SimilarItem {
	if limit > len(fixtureItems) {
		limit = len(fixtureItems)
	}
	if limit < 0 {
		limit = 0
	}
	items := make([]domain.SimilarItem, limit)
	copy(items, fixtureItems)
	return items
}
