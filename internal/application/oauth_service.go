package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"time"

	"shopify-orders-gateway/internal/domain"
	"shopify-orders-gateway/internal/ports"

	"github.com/rs/zerolog"
)

// NonceTTL bounds how long an issued OAuth state stays valid.
const NonceTTL = 10 * time.Minute

// OAuthConfig carries the app credentials the flow needs.
type OAuthConfig struct {
	APIKey    string
	APISecret string
	Scopes    []string
	AppURL    string
}

// Ready reports whether every field required for the handshake is set.
func (c OAuthConfig) Ready() bool {
	return c.APIKey != "" && c.APISecret != "" && len(c.Scopes) > 0 && c.AppURL != ""
}

// OAuthService runs the authorization-code flow end to end: nonce issuance,
// callback verification, token exchange and persistence.
type OAuthService struct {
	cfg    OAuthConfig
	oauth  ports.OAuthClient
	nonces ports.NonceStore
	tokens ports.TokenStore
	logger zerolog.Logger
	now    func() time.Time
}

// NewOAuthService creates the OAuth flow service.
func NewOAuthService(
	cfg OAuthConfig,
	oauth ports.OAuthClient,
	nonces ports.NonceStore,
	tokens ports.TokenStore,
	logger zerolog.Logger,
) *OAuthService {
	return &OAuthService{
		cfg:    cfg,
		oauth:  oauth,
		nonces: nonces,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

// Begin validates the shop, issues a single-use nonce and returns the
// authorization URL to redirect the merchant to.
func (s *OAuthService) Begin(ctx context.Context, rawShop string) (string, error) {
	shop, err := domain.NormalizeShopDomain(rawShop)
	if err != nil {
		return "", err
	}

	if !s.cfg.Ready() {
		s.logger.Error().Str("shop", shop).Msg("OAuth requested but server configuration is incomplete")
		return "", ErrNotConfigured
	}

	state, err := generateNonceValue()
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}

	now := s.now()
	nonce := &domain.OAuthNonce{
		Value:     state,
		Shop:      shop,
		CreatedAt: now,
		ExpiresAt: now.Add(NonceTTL),
	}
	if err := s.nonces.Put(ctx, nonce); err != nil {
		return "", fmt.Errorf("failed to store state: %w", err)
	}

	authURL := s.oauth.AuthorizeURL(shop, s.cfg.Scopes, s.cfg.AppURL+"/auth/callback", state)

	s.logger.Info().
		Str("shop", shop).
		Strs("scopes", s.cfg.Scopes).
		Msg("OAuth flow initiated")

	return authURL, nil
}

// Complete verifies the callback and persists the exchanged token. Every
// outcome consumes the nonce for the presented state, so a state value never
// survives its first use.
func (s *OAuthService) Complete(ctx context.Context, params url.Values) (*domain.ShopRecord, error) {
	shop, err := domain.NormalizeShopDomain(params.Get("shop"))
	if err != nil {
		return nil, err
	}

	if !s.cfg.Ready() {
		s.logger.Error().Str("shop", shop).Msg("OAuth callback received but server configuration is incomplete")
		return nil, ErrNotConfigured
	}

	state := params.Get("state")

	if params.Get("hmac") != "" {
		ok, verr := s.oauth.VerifyCallback(params)
		if verr != nil || !ok {
			// The nonce is burned even though the signature failed.
			_, _ = s.nonces.Consume(ctx, state)
			s.logger.Warn().Err(verr).Str("shop", shop).Msg("OAuth callback hmac verification failed")
			return nil, ErrHMACInvalid
		}
	}

	nonce, err := s.nonces.Consume(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("failed to consume state: %w", err)
	}
	if nonce == nil {
		s.logger.Warn().Str("shop", shop).Msg("OAuth callback with unknown or expired state")
		return nil, ErrStateNotFound
	}
	if nonce.Shop != shop {
		s.logger.Warn().Str("shop", shop).Str("expected", nonce.Shop).Msg("OAuth callback shop mismatch")
		return nil, ErrShopMismatch
	}

	grant, err := s.oauth.Exchange(ctx, shop, params.Get("code"))
	if err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to exchange authorization code")
		return nil, err
	}

	record := &domain.ShopRecord{
		Domain:      shop,
		AccessToken: grant.AccessToken,
		InstalledAt: s.now(),
	}
	if err := s.tokens.Save(ctx, record); err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to persist access token")
		return nil, fmt.Errorf("failed to persist access token: %w", err)
	}

	s.logger.Info().Str("shop", shop).Msg("Shop connected")
	return record, nil
}

// generateNonceValue returns 128 bits from crypto/rand, hex-encoded.
func generateNonceValue() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
