package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"shopify-orders-gateway/internal/infrastructure/metrics"
)

// AdminClient performs Admin API calls against per-shop endpoints. It holds
// no per-shop state: callers pass the shop domain and access token on every
// call. Responses are never cached and requests are never retried.
type AdminClient struct {
	apiVersion string
	httpClient *http.Client
	baseURL    string
	logger     zerolog.Logger
}

// AdminClientOption configures an AdminClient.
type AdminClientOption func(*AdminClient)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) AdminClientOption {
	return func(c *AdminClient) { c.httpClient = hc }
}

// WithBaseURL routes every request to one base URL instead of the shop's own
// domain. Used by tests and mock upstreams.
func WithBaseURL(base string) AdminClientOption {
	return func(c *AdminClient) { c.baseURL = strings.TrimRight(base, "/") }
}

// NewAdminClient creates an Admin API client for the given API version.
func NewAdminClient(apiVersion string, timeout time.Duration, logger zerolog.Logger, opts ...AdminClientOption) *AdminClient {
	c := &AdminClient{
		apiVersion: apiVersion,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *AdminClient) endpoint(shopDomain, path string) string {
	if c.baseURL != "" {
		return fmt.Sprintf("%s/admin/api/%s/%s", c.baseURL, c.apiVersion, path)
	}
	return fmt.Sprintf("https://%s/admin/api/%s/%s", shopDomain, c.apiVersion, path)
}

// Rest performs a REST Admin API request. The path is relative to
// /admin/api/<version>/, e.g. "orders.json".
func (c *AdminClient) Rest(ctx context.Context, shopDomain, accessToken, method, path string, body any, query url.Values) (json.RawMessage, error) {
	if accessToken == "" {
		return nil, ErrMissingAccessToken
	}

	endpoint := c.endpoint(shopDomain, path)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", accessToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveShopifyCall("admin_api", "connection_error")
		return nil, &ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveShopifyCall("admin_api", "connection_error")
		return nil, &ConnectionError{Err: err}
	}

	c.logger.Debug().
		Str("shop", shopDomain).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Shopify REST call completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ObserveShopifyCall("admin_api", "http_error")
		return nil, &HTTPError{Status: resp.StatusCode, Body: payload}
	}

	metrics.ObserveShopifyCall("admin_api", "success")
	return payload, nil
}

// GraphQL posts a query to the shop's graphql.json endpoint and returns the
// data object. A populated errors array is a failure even on HTTP 200.
func (c *AdminClient) GraphQL(ctx context.Context, shopDomain, accessToken, query string, variables map[string]any) (json.RawMessage, error) {
	if accessToken == "" {
		return nil, ErrMissingAccessToken
	}

	reqBody := map[string]any{"query": query}
	if len(variables) > 0 {
		reqBody["variables"] = variables
	}

	payload, err := c.Rest(ctx, shopDomain, accessToken, http.MethodPost, "graphql.json", reqBody, nil)
	if err != nil {
		return nil, err
	}

	var decoded struct {
		Data   json.RawMessage `json:"data"`
		Errors []GraphQLError  `json:"errors"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode graphql response: %w", err)
	}
	if len(decoded.Errors) > 0 {
		return nil, &GraphQLErrors{Errors: decoded.Errors}
	}

	return decoded.Data, nil
}
