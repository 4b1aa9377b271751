package domain

import "regexp"

// Intent is the semantic relationship requested between the reference
// product and the returned recommendations.
type Intent string

const (
	IntentRelated       Intent = "RELATED"
	IntentComplementary Intent = "COMPLEMENTARY"
	IntentAlternate     Intent = "ALTERNATE"
	IntentNone          Intent = "NONE"
)

// Valid reports whether the intent is one of the supported values.
func (i Intent) Valid() bool {
	switch i {
	case IntentRelated, IntentComplementary, IntentAlternate, IntentNone:
		return true
	}
	return false
}

// StoreEntry identifies one partner storefront. TokenEnvVar names the
// environment variable carrying its access token; the token itself is
// never stored here.
type StoreEntry struct {
	StoreDomain string `json:"storeDomain"`
	TokenEnvVar string `json:"tokenEnvVar"`
}

// Price is a product price as returned by the storefront API. Amount
// stays a string to avoid rounding decimal currency values.
type Price struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// SimilarItem is one recommended product in the aggregated response.
type SimilarItem struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	ImageURL *string `json:"imageUrl"`
	Price    *Price  `json:"price,omitempty"`
}

// StoreCandidate holds one store's contribution to the response. An
// empty Items list together with a warning marks a handled per-store
// failure, not a global error.
type StoreCandidate struct {
	Store    string        `json:"store"`
	Items    []SimilarItem `json:"items"`
	Warnings []string      `json:"warnings,omitempty"`
}

// SimilarResponse is the aggregated result across all selected stores.
// Candidates preserve the store order produced by the directory.
type SimilarResponse struct {
	Keyword           string           `json:"keyword"`
	MatchedCategories []string         `json:"matchedCategories"`
	Candidates        []StoreCandidate `json:"candidates"`
}

var productGIDPattern = regexp.MustCompile(`^gid://shopify/Product/(\d+)$`)

// IsValidProductID reports whether id is a canonical Shopify product
// GID (gid://shopify/Product/<digits>).
func IsValidProductID(id string) bool {
	return productGIDPattern.MatchString(id)
}

// ExtractProductID returns the numeric part of a product GID, or an
// empty string when id is not a valid GID.
func ExtractProductID(id string) string {
	m := productGIDPattern.FindStringSubmatch(id)
	if m == nil {
		return ""
	}
	return m[1]
}
