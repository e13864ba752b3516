package domain

import "time"

// OAuthNonce is the single-use state value issued when an install starts and
// consumed exactly once by the OAuth callback.
type OAuthNonce struct {
	Value     string    `json:"value"`
	Shop      string    `json:"shop"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the nonce is past its TTL at the given instant.
func (n *OAuthNonce) Expired(at time.Time) bool {
	return at.After(n.ExpiresAt)
}

// AccessGrant is the payload returned by the OAuth code exchange.
type AccessGrant struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
}
