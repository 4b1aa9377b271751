package shopify

import (
	"context"

	"github.com/shoplens/backend/internal/domain"
)

const resolveHandleQuery = `
query ResolveProductId($handle: String!) {
  productByHandle(handle: $handle) {
    id
  }
}`

const recommendationsQuery = `
query Recommendations($id: ID!, $intent: ProductRecommendationIntent) {
  productRecommendations(productId: $id, intent: $intent) {
    id
    title
    images(first: 1) {
      edges {
        node {
          url
        }
      }
    }
    variants(first: 1) {
      edges {
        node {
          price {
            amount
            currencyCode
          }
        }
      }
    }
  }
}`

const listProductsQuery = `
query GetAllProducts($first: Int!) {
  products(first: $first) {
    edges {
      node {
        id
        title
        images(first: 1) {
          edges {
            node {
              url
            }
          }
        }
        variants(first: 1) {
          edges {
            node {
              price {
                amount
                currencyCode
              }
            }
          }
        }
      }
    }
  }
}`

// LiveSource is the production ProductSource, backed by the Storefront
// API. Tokens are resolved lazily per call through the injected
// resolver; an unconfigured token surfaces as domain.MissingTokenError.
type LiveSource struct {
	client *Client
	tokens domain.TokenResolver
}

// NewLiveSource creates a live source over the given client.
func NewLiveSource(client *Client, tokens domain.TokenResolver) *LiveSource {
	return &LiveSource{client: client, tokens: tokens}
}

// ResolveHandle resolves a product handle on one specific store. The
// same handle may map to different ids, or to nothing, on other stores.
func (s *LiveSource) ResolveHandle(ctx context.Context, store domain.StoreEntry, handle string) (string, error) {
	token, err := s.token(store)
	if err != nil {
		return "", err
	}

	var out productByHandleResponse
	err = s.client.Query(ctx, store.StoreDomain, token, resolveHandleQuery, map[string]any{"handle": handle}, &out)
	if err != nil {
		return "", err
	}

	if out.ProductByHandle == nil || out.ProductByHandle.ID == "" {
		return "", domain.ErrHandleNotFound
	}
	return out.ProductByHandle.ID, nil
}

// Recommendations fetches recommended items for a product.
func (s *LiveSource) Recommendations(ctx context.Context, store domain.StoreEntry, productID string, intent domain.Intent) ([]domain.SimilarItem, error) {
	token, err := s.token(store)
	if err != nil {
		return nil, err
	}

	var out recommendationsResponse
	err = s.client.Query(ctx, store.StoreDomain, token, recommendationsQuery,
		map[string]any{"id": productID, "intent": string(intent)}, &out)
	if err != nil {
		return nil, err
	}

	return mapProducts(out.ProductRecommendations), nil
}

// ListProducts fetches up to limit items from the store's catalog.
func (s *LiveSource) ListProducts(ctx context.Context, store domain.StoreEntry, limit int) ([]domain.SimilarItem, error) {
	token, err := s.token(store)
	if err != nil {
		return nil, err
	}

	var out productsResponse
	err = s.client.Query(ctx, store.StoreDomain, token, listProductsQuery, map[string]any{"first": limit}, &out)
	if err != nil {
		return nil, err
	}

	items := make([]domain.SimilarItem, 0, len(out.Products.Edges))
	for _, edge := range out.Products.Edges {
		items = append(items, mapProduct(edge.Node))
	}
	return items, nil
}

func (s *LiveSource) token(store domain.StoreEntry) (string, error) {
	if token := s.tokens(store.TokenEnvVar); token != "" {
		return token, nil
	}
	return "", domain.MissingTokenError{EnvVar: store.TokenEnvVar}
}
