package shopify

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplens/backend/internal/domain"
)

const testEndpoint = "https://urban-threads.myshopify.com/api/2025-07/graphql.json"

func newTestClient(t *testing.T, cfg ClientConfig) (*Client, *httpmock.MockTransport) {
	t.Helper()
	client := NewClient(cfg)
	transport := httpmock.NewMockTransport()
	client.httpClient = &http.Client{Transport: transport}
	return client, transport
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(ClientConfig{})

	assert.Equal(t, DefaultAPIVersion, client.apiVersion)
	assert.Equal(t, DefaultTimeout, client.timeout)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
}

func TestQuerySuccess(t *testing.T) {
	client, transport := newTestClient(t, ClientConfig{})

	transport.RegisterResponder("POST", testEndpoint, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "shpat_token", req.Header.Get("X-Shopify-Storefront-Access-Token"))
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
		return httpmock.NewStringResponse(200, `{"data":{"productByHandle":{"id":"gid://shopify/Product/42"}}}`), nil
	})

	var out productByHandleResponse
	err := client.Query(context.Background(), "urban-threads.myshopify.com", "shpat_token",
		resolveHandleQuery, map[string]any{"handle": "blue-jacket"}, &out)

	require.NoError(t, err)
	require.NotNil(t, out.ProductByHandle)
	assert.Equal(t, "gid://shopify/Product/42", out.ProductByHandle.ID)
}

func TestQueryGraphQLErrorsNotRetried(t *testing.T) {
	client, transport := newTestClient(t, ClientConfig{Retries: 3})

	transport.RegisterResponder("POST", testEndpoint,
		httpmock.NewStringResponder(200, `{"errors":[{"message":"Field 'productRecommendations' doesn't exist"}]}`))

	err := client.Query(context.Background(), "urban-threads.myshopify.com", "shpat_token",
		recommendationsQuery, nil, nil)

	var queryErr domain.QueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Contains(t, queryErr.Messages[0], "doesn't exist")
	assert.Equal(t, 1, transport.GetTotalCallCount(), "query errors must not be retried")
}

func TestQueryNoDataIsQueryError(t *testing.T) {
	client, transport := newTestClient(t, ClientConfig{})

	transport.RegisterResponder("POST", testEndpoint,
		httpmock.NewStringResponder(200, `{"data":null}`))

	err := client.Query(context.Background(), "urban-threads.myshopify.com", "shpat_token",
		recommendationsQuery, nil, nil)

	var queryErr domain.QueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Equal(t, []string{"no data returned"}, queryErr.Messages)
}

func TestQueryRetriesTransportFailures(t *testing.T) {
	client, transport := newTestClient(t, ClientConfig{Retries: 1})

	calls := 0
	transport.RegisterResponder("POST", testEndpoint, func(*http.Request) (*http.Response, error) {
		calls++
		if calls == 1 {
			return httpmock.NewStringResponse(502, "bad gateway"), nil
		}
		return httpmock.NewStringResponse(200, `{"data":{"productRecommendations":[]}}`), nil
	})

	var out recommendationsResponse
	err := client.Query(context.Background(), "urban-threads.myshopify.com", "shpat_token",
		recommendationsQuery, nil, &out)

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestQueryExhaustedRetriesReturnLastNetworkError(t *testing.T) {
	client, transport := newTestClient(t, ClientConfig{Retries: 2})

	transport.RegisterResponder("POST", testEndpoint,
		httpmock.NewStringResponder(500, "internal error"))

	err := client.Query(context.Background(), "urban-threads.myshopify.com", "shpat_token",
		recommendationsQuery, nil, nil)

	var netErr domain.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Contains(t, netErr.Error(), "HTTP 500")
	assert.Equal(t, 3, transport.GetTotalCallCount())
}

func TestQueryTimeoutNotRetried(t *testing.T) {
	client, transport := newTestClient(t, ClientConfig{Timeout: 50 * time.Millisecond, Retries: 3})

	calls := 0
	transport.RegisterResponder("POST", testEndpoint, func(req *http.Request) (*http.Response, error) {
		calls++
		<-req.Context().Done()
		return nil, req.Context().Err()
	})

	start := time.Now()
	err := client.Query(context.Background(), "urban-threads.myshopify.com", "shpat_token",
		recommendationsQuery, nil, nil)

	var timeoutErr domain.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 1, calls, "timeouts must not be retried")
	assert.Less(t, time.Since(start), time.Second)
}
