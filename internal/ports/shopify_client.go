package ports

import (
	"context"
	"encoding/json"
	"net/url"

	"shopify-orders-gateway/internal/domain"
)

// AdminAPI defines the interface for authenticated Shopify Admin API calls.
// Callers resolve the access token before invoking; implementations never
// cache and never retry.
type AdminAPI interface {
	// Rest performs a REST Admin API request against a shop. The path is
	// relative to /admin/api/<version>/, e.g. "orders.json".
	Rest(ctx context.Context, shopDomain, accessToken, method, path string, body any, query url.Values) (json.RawMessage, error)

	// GraphQL posts a GraphQL document to a shop's Admin API and returns
	// the data object. GraphQL-level errors surface as typed errors even
	// when the transport status is 200.
	GraphQL(ctx context.Context, shopDomain, accessToken, query string, variables map[string]any) (json.RawMessage, error)
}

// OAuthClient defines the interface for the OAuth handshake with Shopify.
type OAuthClient interface {
	// AuthorizeURL builds the merchant-facing authorization URL.
	AuthorizeURL(shop string, scopes []string, redirectURI string, state string) string

	// VerifyCallback checks the hmac signature over callback query
	// parameters.
	VerifyCallback(params url.Values) (bool, error)

	// Exchange trades an authorization code for an access grant.
	Exchange(ctx context.Context, shop string, code string) (*domain.AccessGrant, error)
}
