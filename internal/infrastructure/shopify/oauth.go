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

	"shopify-orders-gateway/internal/domain"
	"shopify-orders-gateway/internal/infrastructure/metrics"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// OAuth drives the authorization-code handshake: building authorize URLs,
// verifying callback signatures and exchanging codes for tokens. Signature
// verification delegates to go-shopify, which sorts the query parameters and
// compares digests in constant time.
type OAuth struct {
	apiKey     string
	apiSecret  string
	app        goshopify.App
	httpClient *http.Client
	baseURL    string
	logger     zerolog.Logger
}

// OAuthOption configures the OAuth helper.
type OAuthOption func(*OAuth)

// WithOAuthHTTPClient replaces the default HTTP client.
func WithOAuthHTTPClient(hc *http.Client) OAuthOption {
	return func(o *OAuth) { o.httpClient = hc }
}

// WithOAuthBaseURL routes the token exchange to one base URL instead of the
// shop's own domain. Used by tests and mock upstreams.
func WithOAuthBaseURL(base string) OAuthOption {
	return func(o *OAuth) { o.baseURL = strings.TrimRight(base, "/") }
}

// NewOAuth creates an OAuth helper for the given app credentials.
func NewOAuth(apiKey, apiSecret string, timeout time.Duration, logger zerolog.Logger, opts ...OAuthOption) *OAuth {
	o := &OAuth{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		app: goshopify.App{
			ApiKey:    apiKey,
			ApiSecret: apiSecret,
		},
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// AuthorizeURL builds the merchant-facing authorization URL. The go-shopify
// AuthorizeUrl helper does not carry redirect_uri and state together, so the
// URL is built directly. Shopify expects scopes comma-separated, no spaces.
func (o *OAuth) AuthorizeURL(shop string, scopes []string, redirectURI string, state string) string {
	scopesStr := strings.Join(scopes, ",")

	o.logger.Debug().
		Str("shop", shop).
		Strs("scopes", scopes).
		Msg("Generating OAuth authorization URL")

	return fmt.Sprintf(
		"https://%s/admin/oauth/authorize?client_id=%s&scope=%s&redirect_uri=%s&state=%s",
		shop,
		o.apiKey,
		url.QueryEscape(scopesStr),
		url.QueryEscape(redirectURI),
		url.QueryEscape(state),
	)
}

// VerifyCallback checks the hmac parameter over the full callback query.
func (o *OAuth) VerifyCallback(params url.Values) (bool, error) {
	u := &url.URL{RawQuery: params.Encode()}
	return o.app.VerifyAuthorizationURL(u)
}

// Exchange trades an authorization code for an access token with a direct
// call to the shop's token endpoint.
func (o *OAuth) Exchange(ctx context.Context, shop string, code string) (*domain.AccessGrant, error) {
	endpoint := fmt.Sprintf("https://%s/admin/oauth/access_token", shop)
	if o.baseURL != "" {
		endpoint = o.baseURL + "/admin/oauth/access_token"
	}

	reqBody, err := json.Marshal(map[string]string{
		"client_id":     o.apiKey,
		"client_secret": o.apiSecret,
		"code":          code,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		metrics.ObserveShopifyCall("oauth", "connection_error")
		return nil, &ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveShopifyCall("oauth", "connection_error")
		return nil, &ConnectionError{Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		metrics.ObserveShopifyCall("oauth", "http_error")
		return nil, &HTTPError{Status: resp.StatusCode, Body: payload}
	}
	metrics.ObserveShopifyCall("oauth", "success")

	var grant domain.AccessGrant
	if err := json.Unmarshal(payload, &grant); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if grant.AccessToken == "" {
		return nil, ErrEmptyAccessToken
	}

	o.logger.Info().
		Str("shop", shop).
		Str("scope", grant.Scope).
		Msg("Exchanged authorization code for access token")

	return &grant, nil
}
