package ports

import (
	"context"

	"shopify-orders-gateway/internal/domain"
)

// TokenStore defines the interface for per-shop access token persistence.
// Implementations hold at most one record per normalized shop domain.
type TokenStore interface {
	// Save stores or overwrites the record for record.Domain.
	Save(ctx context.Context, record *domain.ShopRecord) error

	// Get returns the record for a shop domain, or nil when none is stored.
	Get(ctx context.Context, shopDomain string) (*domain.ShopRecord, error)

	// Remove deletes the record for a shop domain. Removing an absent
	// domain is not an error.
	Remove(ctx context.Context, shopDomain string) error

	// List returns every stored record.
	List(ctx context.Context) ([]*domain.ShopRecord, error)
}

// NonceStore defines the interface for single-use OAuth state persistence.
type NonceStore interface {
	// Put stores a nonce until it is consumed or expires.
	Put(ctx context.Context, nonce *domain.OAuthNonce) error

	// Consume removes and returns the nonce for a state value. Unknown and
	// expired values yield nil; either way the value is unusable afterwards.
	Consume(ctx context.Context, value string) (*domain.OAuthNonce, error)
}
