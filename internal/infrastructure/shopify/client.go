package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/shoplens/backend/internal/domain"
)

// Defaults for the remote query client.
const (
	DefaultAPIVersion = "2025-07"
	DefaultTimeout    = 7 * time.Second
	DefaultRetries    = 1
)

// ClientConfig holds tunables for the Storefront API client.
type ClientConfig struct {
	APIVersion string
	Timeout    time.Duration
	Retries    int
}

// Client executes GraphQL queries against partner Storefront API
// endpoints. Each call carries its own deadline; transport failures
// are retried, timeouts and structured query errors are not.
type Client struct {
	httpClient  *http.Client
	apiVersion  string
	timeout     time.Duration
	retries     int
	rateLimiter *rate.Limiter
}

// NewClient creates a Storefront API client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Retries < 0 {
		cfg.Retries = DefaultRetries
	}

	// Storefront API allows a couple of requests per second per store;
	// one shared limiter keeps the whole fan-out polite.
	limiter := rate.NewLimiter(rate.Limit(4), 8)

	return &Client{
		// No client-level timeout; the per-attempt context controls it.
		httpClient:  &http.Client{},
		apiVersion:  cfg.APIVersion,
		timeout:     cfg.Timeout,
		retries:     cfg.Retries,
		rateLimiter: limiter,
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// Query runs one GraphQL query against storeDomain and unmarshals the
// data payload into out. Failures come back as domain.TimeoutError,
// domain.NetworkError or domain.QueryError.
//
// Only transport-level failures are retried (up to the configured
// retry count). A response carrying a GraphQL error list is assumed
// non-transient and raised immediately, and a timeout aborts the call
// outright.
func (c *Client) Query(ctx context.Context, storeDomain, token, query string, variables map[string]any, out any) error {
	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("encode query: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s/api/%s/graphql.json", storeDomain, c.apiVersion)

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return domain.NetworkError{Store: storeDomain, Err: fmt.Errorf("rate limiter: %w", err)}
		}

		body, err := c.post(ctx, storeDomain, endpoint, token, payload)
		if err != nil {
			var timeout domain.TimeoutError
			if errors.As(err, &timeout) {
				return err
			}
			log.WithFields(log.Fields{"store": storeDomain, "attempt": attempt + 1}).
				Debugf("storefront request failed: %v", err)
			lastErr = err
			continue
		}

		var resp graphQLResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			lastErr = domain.NetworkError{Store: storeDomain, Err: fmt.Errorf("decode response: %w", err)}
			continue
		}

		if len(resp.Errors) > 0 {
			msgs := make([]string, 0, len(resp.Errors))
			for _, e := range resp.Errors {
				msgs = append(msgs, e.Message)
			}
			return domain.QueryError{Store: storeDomain, Messages: msgs}
		}

		if len(resp.Data) == 0 || string(resp.Data) == "null" {
			return domain.QueryError{Store: storeDomain, Messages: []string{"no data returned"}}
		}

		if out != nil {
			if err := json.Unmarshal(resp.Data, out); err != nil {
				return domain.QueryError{Store: storeDomain, Messages: []string{fmt.Sprintf("decode data: %v", err)}}
			}
		}
		return nil
	}

	return lastErr
}

// post issues one attempt with its own deadline.
func (c *Client) post(ctx context.Context, storeDomain, endpoint, token string, payload []byte) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, domain.NetworkError{Store: storeDomain, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", token)
	req.Header.Set("User-Agent", "ShopLens/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if reqCtx.Err() == context.DeadlineExceeded {
			return nil, domain.TimeoutError{Store: storeDomain, Timeout: c.timeout}
		}
		return nil, domain.NetworkError{Store: storeDomain, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if reqCtx.Err() == context.DeadlineExceeded {
			return nil, domain.TimeoutError{Store: storeDomain, Timeout: c.timeout}
		}
		return nil, domain.NetworkError{Store: storeDomain, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, domain.NetworkError{
			Store: storeDomain,
			Err:   fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		}
	}

	return body, nil
}
