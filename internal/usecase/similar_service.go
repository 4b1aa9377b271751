package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/shoplens/backend/internal/domain"
	"github.com/shoplens/backend/internal/fanout"
	"github.com/shoplens/backend/internal/stores"
)

// DefaultMaxConcurrent bounds how many stores are queried at once. It
// is a deliberate throttle against partner APIs and stays fixed no
// matter how many stores a request selects.
const DefaultMaxConcurrent = 3

// SimilarServiceConfig holds configuration for the similar-products
// orchestrator.
type SimilarServiceConfig struct {
	MaxConcurrent int
}

// SimilarService aggregates recommendations across partner stores.
// All dependencies are injected so tests can construct it in isolation.
type SimilarService struct {
	cache         domain.RecommendationCache
	source        domain.ProductSource
	directory     *stores.Directory
	metrics       *Metrics
	maxConcurrent int
}

// NewSimilarService creates the orchestrator with its dependencies.
func NewSimilarService(
	cache domain.RecommendationCache,
	source domain.ProductSource,
	directory *stores.Directory,
	metrics *Metrics,
	config SimilarServiceConfig,
) *SimilarService {
	maxConcurrent := config.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}

	return &SimilarService{
		cache:         cache,
		source:        source,
		directory:     directory,
		metrics:       metrics,
		maxConcurrent: maxConcurrent,
	}
}

// GetSimilarProducts fans one request out to every candidate store and
// assembles the aggregated response. Input is assumed validated; the
// business rules are re-checked defensively. A store failing never
// fails the call: its candidate comes back with empty items and a
// warning, and the response is a success even when every store failed.
func (s *SimilarService) GetSimilarProducts(ctx context.Context, req *domain.SimilarRequest) (*domain.SimilarResponse, error) {
	if req == nil {
		return nil, domain.ErrInvalidRequest
	}
	if req.ProductID == "" && req.Handle == "" {
		return nil, fmt.Errorf("%w: either productId or handle must be provided", domain.ErrInvalidRequest)
	}
	if req.ProductID != "" && req.Handle != "" {
		return nil, fmt.Errorf("%w: cannot provide both productId and handle", domain.ErrInvalidRequest)
	}
	if req.PerStore > domain.MaxPerStore {
		return nil, fmt.Errorf("%w: perStore cannot exceed %d", domain.ErrInvalidRequest, domain.MaxPerStore)
	}
	if req.MaxStores > domain.MaxStoresLimit {
		return nil, fmt.Errorf("%w: maxStores cannot exceed %d", domain.ErrInvalidRequest, domain.MaxStoresLimit)
	}

	intent := req.Intent
	if intent == "" {
		intent = domain.IntentRelated
	}
	perStore := req.PerStore
	if perStore <= 0 {
		perStore = domain.DefaultPerStore
	}
	maxStores := req.MaxStores
	if maxStores <= 0 {
		maxStores = domain.DefaultMaxStores
	}

	candidates, matchedCategories := s.directory.ResolveStores(req.Keyword, maxStores)

	response := &domain.SimilarResponse{
		Keyword:           req.Keyword,
		MatchedCategories: matchedCategories,
		Candidates:        make([]domain.StoreCandidate, len(candidates)),
	}
	if len(candidates) == 0 {
		response.Candidates = []domain.StoreCandidate{}
		return response, nil
	}

	// Tasks may complete out of order; indexing by slot restores the
	// directory's store order in the response.
	limiter := fanout.NewLimiter(s.maxConcurrent)
	reference := req.Reference()
	for i, store := range candidates {
		i, store := i, store
		limiter.Execute(func() {
			response.Candidates[i] = s.candidateForStore(ctx, store, reference, intent, perStore)
		})
	}
	limiter.Wait()

	return response, nil
}

// candidateForStore produces one store's contribution. Every failure
// is contained here and converted to a warning on the candidate.
func (s *SimilarService) candidateForStore(
	ctx context.Context,
	store domain.StoreEntry,
	reference string,
	intent domain.Intent,
	perStore int,
) domain.StoreCandidate {
	items, err := s.itemsForStore(ctx, store, reference, intent, perStore)
	if err != nil {
		log.WithFields(log.Fields{"store": store.StoreDomain}).Debugf("store lookup failed: %v", err)
		return domain.StoreCandidate{
			Store:    store.StoreDomain,
			Items:    []domain.SimilarItem{},
			Warnings: []string{warningFor(store, reference, err)},
		}
	}
	if items == nil {
		items = []domain.SimilarItem{}
	}
	return domain.StoreCandidate{Store: store.StoreDomain, Items: items}
}

func (s *SimilarService) itemsForStore(
	ctx context.Context,
	store domain.StoreEntry,
	reference string,
	intent domain.Intent,
	perStore int,
) ([]domain.SimilarItem, error) {
	// A canonical id is trusted as-is; anything else is a handle that
	// must be resolved against this specific store, because the same
	// handle may map to different ids on different stores.
	productID := reference
	if !domain.IsValidProductID(reference) {
		resolved, err := s.source.ResolveHandle(ctx, store, reference)
		if err != nil {
			return nil, err
		}
		productID = resolved
	}

	key := domain.CacheKey{StoreDomain: store.StoreDomain, ProductID: productID, Intent: intent}
	if cached := s.cache.Get(key); cached != nil {
		s.metrics.IncCacheHit()
		return limitItems(cached, perStore), nil
	}
	s.metrics.IncCacheMiss()

	start := time.Now()
	items, err := s.source.Recommendations(ctx, store, productID, intent)
	s.metrics.ObservePartnerDuration(time.Since(start))
	if err != nil {
		s.metrics.IncPartnerRequest(store.StoreDomain, "error")
		return nil, err
	}
	s.metrics.IncPartnerRequest(store.StoreDomain, "ok")

	items = limitItems(items, perStore)
	s.cache.Set(key, items)
	return items, nil
}

// warningFor classifies a per-store failure into its warning string.
func warningFor(store domain.StoreEntry, reference string, err error) string {
	var timeoutErr domain.TimeoutError
	if errors.As(err, &timeoutErr) {
		return fmt.Sprintf("request timeout for %s", store.StoreDomain)
	}
	var queryErr domain.QueryError
	if errors.As(err, &queryErr) {
		return fmt.Sprintf("query error for %s: %s", store.StoreDomain, queryErr.Error())
	}
	var netErr domain.NetworkError
	if errors.As(err, &netErr) {
		return fmt.Sprintf("network error for %s: %v", store.StoreDomain, netErr.Err)
	}
	var missingToken domain.MissingTokenError
	if errors.As(err, &missingToken) {
		return fmt.Sprintf("missing storefront token for %s", missingToken.EnvVar)
	}
	if errors.Is(err, domain.ErrHandleNotFound) {
		return fmt.Sprintf("handle %q not found on this store", reference)
	}
	return fmt.Sprintf("unexpected error for %s: %v", store.StoreDomain, err)
}

func limitItems(items []domain.SimilarItem, max int) []domain.SimilarItem {
	if len(items) <= max {
		return items
	}
	return items[:max]
}
