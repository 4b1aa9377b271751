package domain

import (
	"fmt"
	"regexp"
)

// Limits and defaults for the similar-products request.
const (
	MaxKeywordLength = 100
	MaxHandleLength  = 255

	DefaultPerStore = 6
	MaxPerStore     = 24

	DefaultMaxStores = 5
	MaxStoresLimit   = 25
)

var handlePattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// SimilarRequest is the body of POST /v1/similar. Exactly one of
// ProductID and Handle must be present.
type SimilarRequest struct {
	Keyword   string `json:"keyword"`
	ProductID string `json:"productId,omitempty"`
	Handle    string `json:"handle,omitempty"`
	Intent    Intent `json:"intent,omitempty"`
	PerStore  int    `json:"perStore,omitempty"`
	MaxStores int    `json:"maxStores,omitempty"`
}

// ApplyDefaults fills in the documented defaults for omitted fields.
// A zero PerStore/MaxStores counts as omitted.
func (r *SimilarRequest) ApplyDefaults() {
	if r.Intent == "" {
		r.Intent = IntentRelated
	}
	if r.PerStore == 0 {
		r.PerStore = DefaultPerStore
	}
	if r.MaxStores == 0 {
		r.MaxStores = DefaultMaxStores
	}
}

// Validate checks every schema constraint and returns a
// *ValidationError listing all violations, or nil when the request is
// well formed. Call ApplyDefaults first.
func (r *SimilarRequest) Validate() *ValidationError {
	var issues []FieldIssue

	if r.Keyword == "" {
		issues = append(issues, FieldIssue{Field: "keyword", Message: "keyword is required"})
	} else if len(r.Keyword) > MaxKeywordLength {
		issues = append(issues, FieldIssue{
			Field:   "keyword",
			Message: fmt.Sprintf("keyword cannot exceed %d characters", MaxKeywordLength),
		})
	}

	switch {
	case r.ProductID == "" && r.Handle == "":
		issues = append(issues, FieldIssue{
			Field:   "productId",
			Message: "either productId or handle must be provided",
		})
	case r.ProductID != "" && r.Handle != "":
		issues = append(issues, FieldIssue{
			Field:   "productId",
			Message: "cannot provide both productId and handle",
		})
	case r.ProductID != "":
		if !IsValidProductID(r.ProductID) {
			issues = append(issues, FieldIssue{
				Field:   "productId",
				Message: "invalid Shopify product ID format",
			})
		}
	default:
		if len(r.Handle) > MaxHandleLength {
			issues = append(issues, FieldIssue{
				Field:   "handle",
				Message: fmt.Sprintf("handle cannot exceed %d characters", MaxHandleLength),
			})
		} else if !handlePattern.MatchString(r.Handle) {
			issues = append(issues, FieldIssue{
				Field:   "handle",
				Message: "handle must contain only lowercase letters, numbers, and hyphens",
			})
		}
	}

	if !r.Intent.Valid() {
		issues = append(issues, FieldIssue{
			Field:   "intent",
			Message: "intent must be one of RELATED, COMPLEMENTARY, ALTERNATE, NONE",
		})
	}

	if r.PerStore < 1 || r.PerStore > MaxPerStore {
		issues = append(issues, FieldIssue{
			Field:   "perStore",
			Message: fmt.Sprintf("perStore must be between 1 and %d", MaxPerStore),
		})
	}

	if r.MaxStores < 1 || r.MaxStores > MaxStoresLimit {
		issues = append(issues, FieldIssue{
			Field:   "maxStores",
			Message: fmt.Sprintf("maxStores must be between 1 and %d", MaxStoresLimit),
		})
	}

	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: issues}
}

// Reference returns whichever product reference the request carries.
func (r *SimilarRequest) Reference() string {
	if r.ProductID != "" {
		return r.ProductID
	}
	return r.Handle
}
