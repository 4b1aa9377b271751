package usecase

import (
	"context"
	"fmt"

	"github.com/shoplens/backend/internal/domain"
	"github.com/shoplens/backend/internal/stores"
)

// Catalog listing limits.
const (
	DefaultCatalogLimit = 20
	MaxCatalogLimit     = 100
)

// CatalogService lists a single store's full catalog. Unlike the
// similar-products fan-out it has no multi-store fallback, so a
// missing token is a hard failure here.
type CatalogService struct {
	source    domain.ProductSource
	directory *stores.Directory
}

// NewCatalogService creates the catalog listing service.
func NewCatalogService(source domain.ProductSource, directory *stores.Directory) *CatalogService {
	return &CatalogService{source: source, directory: directory}
}

// ListProducts returns up to limit products from one store. An empty
// storeDomain selects the directory's first store; a zero limit uses
// the default.
func (s *CatalogService) ListProducts(ctx context.Context, storeDomain string, limit int) (string, []domain.SimilarItem, error) {
	if limit <= 0 {
		limit = DefaultCatalogLimit
	}
	if limit > MaxCatalogLimit {
		limit = MaxCatalogLimit
	}

	var store domain.StoreEntry
	var ok bool
	if storeDomain == "" {
		store, ok = s.directory.First()
		if !ok {
			return "", nil, fmt.Errorf("%w: no stores configured", domain.ErrInvalidRequest)
		}
	} else {
		store, ok = s.directory.FindByDomain(storeDomain)
		if !ok {
			return "", nil, fmt.Errorf("%w: unknown store domain %q", domain.ErrInvalidRequest, storeDomain)
		}
	}

	items, err := s.source.ListProducts(ctx, store, limit)
	if err != nil {
		return "", nil, err
	}
	return store.StoreDomain, items, nil
}
