package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shoplens/backend/internal/domain"
	"github.com/shoplens/backend/internal/stores"
)

// mockCache is an in-memory domain.RecommendationCache for tests.
type mockCache struct {
	mu   sync.Mutex
	data map[string][]domain.SimilarItem
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]domain.SimilarItem)}
}

func (m *mockCache) Get(key domain.CacheKey) []domain.SimilarItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key.String()]
}

func (m *mockCache) Set(key domain.CacheKey, items []domain.SimilarItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key.String()] = items
}

func (m *mockCache) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]domain.SimilarItem)
}

func (m *mockCache) Stats() domain.CacheStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.CacheStats{Size: len(m.data), MaxSize: 100, TTLSeconds: 60}
}

// mockSource is a configurable domain.ProductSource. Behavior is keyed
// by store domain so one test can make stores succeed and fail
// independently.
type mockSource struct {
	mu         sync.Mutex
	fetchCalls map[string]int

	errByStore    map[string]error
	itemsByStore  map[string][]domain.SimilarItem
	handleByStore map[string]string
}

func newMockSource() *mockSource {
	return &mockSource{
		fetchCalls:    make(map[string]int),
		errByStore:    make(map[string]error),
		itemsByStore:  make(map[string][]domain.SimilarItem),
		handleByStore: make(map[string]string),
	}
}

func (m *mockSource) ResolveHandle(_ context.Context, store domain.StoreEntry, handle string) (string, error) {
	if err := m.errByStore[store.StoreDomain]; err != nil {
		return "", err
	}
	id, ok := m.handleByStore[store.StoreDomain]
	if !ok {
		return "", domain.ErrHandleNotFound
	}
	return id, nil
}

func (m *mockSource) Recommendations(_ context.Context, store domain.StoreEntry, _ string, _ domain.Intent) ([]domain.SimilarItem, error) {
	m.mu.Lock()
	m.fetchCalls[store.StoreDomain]++
	m.mu.Unlock()

	if err := m.errByStore[store.StoreDomain]; err != nil {
		return nil, err
	}
	return m.itemsByStore[store.StoreDomain], nil
}

func (m *mockSource) ListProducts(_ context.Context, store domain.StoreEntry, limit int) ([]domain.SimilarItem, error) {
	if err := m.errByStore[store.StoreDomain]; err != nil {
		return nil, err
	}
	items := m.itemsByStore[store.StoreDomain]
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (m *mockSource) calls(storeDomain string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchCalls[storeDomain]
}

func makeItems(n int) []domain.SimilarItem {
	items := make([]domain.SimilarItem, n)
	for i := range items {
		items[i] = domain.SimilarItem{ID: "gid://shopify/Product/1", Title: "Jacket"}
	}
	return items
}

// twoStoreTable has one category matching "jacket" with two distinct
// stores, mirroring the demo directory shape.
func twoStoreTable() []stores.Category {
	return []stores.Category{
		{Name: "mens jackets", Stores: []domain.StoreEntry{
			{StoreDomain: "alpha.myshopify.com", TokenEnvVar: "SF_TOKEN_A"},
			{StoreDomain: "beta.myshopify.com", TokenEnvVar: "SF_TOKEN_B"},
		}},
	}
}

func newTestService(source domain.ProductSource, table []stores.Category) (*SimilarService, *mockCache) {
	cache := newMockCache()
	directory := stores.NewDirectory(table, func(string) string { return "shpat_token" })
	svc := NewSimilarService(cache, source, directory, nil, SimilarServiceConfig{MaxConcurrent: 3})
	return svc, cache
}

func TestGetSimilarProductsPartialFailure(t *testing.T) {
	source := newMockSource()
	source.itemsByStore["alpha.myshopify.com"] = makeItems(6)
	source.errByStore["beta.myshopify.com"] = domain.TimeoutError{Store: "beta.myshopify.com", Timeout: 7 * time.Second}

	svc, _ := newTestService(source, twoStoreTable())

	resp, err := svc.GetSimilarProducts(context.Background(), &domain.SimilarRequest{
		Keyword:   "jacket",
		ProductID: "gid://shopify/Product/123",
		PerStore:  3,
		MaxStores: 2,
	})
	if err != nil {
		t.Fatalf("GetSimilarProducts() error = %v", err)
	}

	if len(resp.Candidates) != 2 {
		t.Fatalf("candidates = %d, want 2", len(resp.Candidates))
	}

	succeeded := resp.Candidates[0]
	if succeeded.Store != "alpha.myshopify.com" {
		t.Errorf("candidates[0].Store = %s, want alpha.myshopify.com (directory order)", succeeded.Store)
	}
	if len(succeeded.Items) > 3 {
		t.Errorf("items = %d, want at most perStore (3)", len(succeeded.Items))
	}
	if len(succeeded.Warnings) != 0 {
		t.Errorf("unexpected warnings on the succeeding store: %v", succeeded.Warnings)
	}

	failed := resp.Candidates[1]
	if len(failed.Items) != 0 {
		t.Errorf("failed store items = %d, want 0", len(failed.Items))
	}
	if len(failed.Warnings) != 1 || !strings.Contains(failed.Warnings[0], "timeout") {
		t.Errorf("failed store warnings = %v, want a timeout warning", failed.Warnings)
	}
}

func TestGetSimilarProductsWarningClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"timeout", domain.TimeoutError{Timeout: time.Second}, "timeout"},
		{"query error", domain.QueryError{Messages: []string{"bad intent"}}, "query error"},
		{"network error", domain.NetworkError{Err: errors.New("connection refused")}, "network error"},
		{"missing token", domain.MissingTokenError{EnvVar: "SF_TOKEN_A"}, "missing storefront token for SF_TOKEN_A"},
		{"unexpected", errors.New("boom"), "unexpected error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newMockSource()
			source.errByStore["alpha.myshopify.com"] = tt.err
			source.errByStore["beta.myshopify.com"] = tt.err
			svc, _ := newTestService(source, twoStoreTable())

			resp, err := svc.GetSimilarProducts(context.Background(), &domain.SimilarRequest{
				Keyword:   "jacket",
				ProductID: "gid://shopify/Product/123",
			})
			if err != nil {
				t.Fatalf("GetSimilarProducts() error = %v", err)
			}

			for _, c := range resp.Candidates {
				if len(c.Warnings) != 1 || !strings.Contains(c.Warnings[0], tt.want) {
					t.Errorf("warnings = %v, want to contain %q", c.Warnings, tt.want)
				}
			}
		})
	}
}

func TestGetSimilarProductsHandleResolution(t *testing.T) {
	source := newMockSource()
	// The same handle resolves on alpha but not on beta.
	source.handleByStore["alpha.myshopify.com"] = "gid://shopify/Product/900"
	source.itemsByStore["alpha.myshopify.com"] = makeItems(2)

	svc, _ := newTestService(source, twoStoreTable())

	resp, err := svc.GetSimilarProducts(context.Background(), &domain.SimilarRequest{
		Keyword: "jacket",
		Handle:  "blue-denim-jacket",
	})
	if err != nil {
		t.Fatalf("GetSimilarProducts() error = %v", err)
	}

	if len(resp.Candidates[0].Items) != 2 {
		t.Errorf("alpha items = %d, want 2", len(resp.Candidates[0].Items))
	}
	warnings := resp.Candidates[1].Warnings
	if len(warnings) != 1 || !strings.Contains(warnings[0], "not found on this store") {
		t.Errorf("beta warnings = %v, want a handle-not-found warning", warnings)
	}
}

func TestGetSimilarProductsCacheHitSkipsFetch(t *testing.T) {
	source := newMockSource()
	source.itemsByStore["alpha.myshopify.com"] = makeItems(6)
	source.itemsByStore["beta.myshopify.com"] = makeItems(6)

	svc, cache := newTestService(source, twoStoreTable())
	req := &domain.SimilarRequest{Keyword: "jacket", ProductID: "gid://shopify/Product/123", PerStore: 4}

	if _, err := svc.GetSimilarProducts(context.Background(), req); err != nil {
		t.Fatalf("first call error = %v", err)
	}
	if got := source.calls("alpha.myshopify.com"); got != 1 {
		t.Fatalf("fetches after first call = %d, want 1", got)
	}
	if cache.Stats().Size != 2 {
		t.Errorf("cache size = %d, want 2", cache.Stats().Size)
	}

	if _, err := svc.GetSimilarProducts(context.Background(), req); err != nil {
		t.Fatalf("second call error = %v", err)
	}
	if got := source.calls("alpha.myshopify.com"); got != 1 {
		t.Errorf("fetches after second call = %d, want 1 (cache hit)", got)
	}
}

func TestGetSimilarProductsNoMatchingStores(t *testing.T) {
	svc, _ := newTestService(newMockSource(), twoStoreTable())

	resp, err := svc.GetSimilarProducts(context.Background(), &domain.SimilarRequest{
		Keyword:   "nonexistentcategory",
		ProductID: "gid://shopify/Product/123",
	})
	if err != nil {
		t.Fatalf("GetSimilarProducts() error = %v", err)
	}

	if len(resp.Candidates) != 0 {
		t.Errorf("candidates = %d, want 0", len(resp.Candidates))
	}
	if len(resp.MatchedCategories) != 0 {
		t.Errorf("matchedCategories = %v, want empty", resp.MatchedCategories)
	}
}

func TestGetSimilarProductsBusinessRules(t *testing.T) {
	svc, _ := newTestService(newMockSource(), twoStoreTable())

	tests := []struct {
		name string
		req  *domain.SimilarRequest
	}{
		{"nil request", nil},
		{"neither reference", &domain.SimilarRequest{Keyword: "jacket"}},
		{"both references", &domain.SimilarRequest{Keyword: "jacket", ProductID: "gid://shopify/Product/1", Handle: "h"}},
		{"perStore above limit", &domain.SimilarRequest{Keyword: "jacket", ProductID: "gid://shopify/Product/1", PerStore: 25}},
		{"maxStores above limit", &domain.SimilarRequest{Keyword: "jacket", ProductID: "gid://shopify/Product/1", MaxStores: 26}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetSimilarProducts(context.Background(), tt.req)
			if !errors.Is(err, domain.ErrInvalidRequest) {
				t.Errorf("error = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestGetSimilarProductsPreservesOrderUnderConcurrency(t *testing.T) {
	table := []stores.Category{{Name: "shoes", Stores: []domain.StoreEntry{
		{StoreDomain: "s1.myshopify.com", TokenEnvVar: "T1"},
		{StoreDomain: "s2.myshopify.com", TokenEnvVar: "T2"},
		{StoreDomain: "s3.myshopify.com", TokenEnvVar: "T3"},
		{StoreDomain: "s4.myshopify.com", TokenEnvVar: "T4"},
		{StoreDomain: "s5.myshopify.com", TokenEnvVar: "T5"},
	}}}

	source := newMockSource()
	for _, d := range []string{"s1", "s2", "s3", "s4", "s5"} {
		source.itemsByStore[d+".myshopify.com"] = makeItems(1)
	}

	svc, _ := newTestService(source, table)

	resp, err := svc.GetSimilarProducts(context.Background(), &domain.SimilarRequest{
		Keyword:   "shoes",
		ProductID: "gid://shopify/Product/1",
		MaxStores: 5,
	})
	if err != nil {
		t.Fatalf("GetSimilarProducts() error = %v", err)
	}

	want := []string{"s1.myshopify.com", "s2.myshopify.com", "s3.myshopify.com", "s4.myshopify.com", "s5.myshopify.com"}
	for i, c := range resp.Candidates {
		if c.Store != want[i] {
			t.Errorf("candidates[%d].Store = %s, want %s", i, c.Store, want[i])
		}
	}
}
