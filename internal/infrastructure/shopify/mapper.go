package shopify

import "github.com/shoplens/backend/internal/domain"

// productNode mirrors the product shape selected by the queries in
// source.go: first image and first variant price only.
type productNode struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Images struct {
		Edges []struct {
			Node struct {
				URL string `json:"url"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"images"`
	Variants struct {
		Edges []struct {
			Node struct {
				Price struct {
					Amount       string `json:"amount"`
					CurrencyCode string `json:"currencyCode"`
				} `json:"price"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

type productByHandleResponse struct {
	ProductByHandle *struct {
		ID string `json:"id"`
	} `json:"productByHandle"`
}

type recommendationsResponse struct {
	ProductRecommendations []productNode `json:"productRecommendations"`
}

type productsResponse struct {
	Products struct {
		Edges []struct {
			Node productNode `json:"node"`
		} `json:"edges"`
	} `json:"products"`
}

// mapProduct converts a raw storefront product to a SimilarItem: image
// URL is the first of the returned image list or null, price is the
// first variant's price if present, else omitted.
func mapProduct(p productNode) domain.SimilarItem {
	item := domain.SimilarItem{
		ID:    p.ID,
		Title: p.Title,
	}

	if len(p.Images.Edges) > 0 && p.Images.Edges[0].Node.URL != "" {
		url := p.Images.Edges[0].Node.URL
		item.ImageURL = &url
	}

	if len(p.Variants.Edges) > 0 {
		price := p.Variants.Edges[0].Node.Price
		item.Price = &domain.Price{Amount: price.Amount, CurrencyCode: price.CurrencyCode}
	}

	return item
}

func mapProducts(products []productNode) []domain.SimilarItem {
	items := make([]domain.SimilarItem, 0, len(products))
	for _, p := range products {
		items = append(items, mapProduct(p))
	}
	return items
}
