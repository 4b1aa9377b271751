package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidRequest is returned when request parameters violate a
	// business rule (re-checked inside the orchestrator even though the
	// validator should already have blocked them).
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrHandleNotFound is returned when a product handle does not
	// resolve to a product on a given store.
	ErrHandleNotFound = errors.New("handle not found on this store")
)

// MissingTokenError indicates that a store's access token is not
// configured. Per-store lookups surface it as a warning; the catalog
// endpoint treats it as a hard configuration failure.
type MissingTokenError struct {
	EnvVar string
}

func (e MissingTokenError) Error() string {
	return fmt.Sprintf("missing storefront token for %s", e.EnvVar)
}

// TimeoutError indicates that a partner call exceeded its deadline
// before a response arrived.
type TimeoutError struct {
	Store   string
	Timeout time.Duration
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("request timeout after %s", e.Timeout)
}

// NetworkError indicates a transport failure or a non-2xx HTTP status
// from a partner storefront.
type NetworkError struct {
	Store string
	Err   error
}

func (e NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e NetworkError) Unwrap() error {
	return e.Err
}

// QueryError indicates that a well-formed response was received but it
// carries a server-side error list, or no data at all. These are
// treated as non-transient and are never retried.
type QueryError struct {
	Store    string
	Messages []string
}

func (e QueryError) Error() string {
	if len(e.Messages) == 0 {
		return "graphql query failed"
	}
	return strings.Join(e.Messages, "; ")
}

// FieldIssue describes one validation failure on a request field.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every schema violation found in a request.
// It always maps to a 400 response before orchestration begins.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		msgs = append(msgs, issue.Message)
	}
	return strings.Join(msgs, "; ")
}
