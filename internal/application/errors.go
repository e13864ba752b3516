package application

import "errors"

// Sentinel errors the HTTP layer maps to response statuses.
var (
	// ErrNotConfigured means required server configuration is absent. The
	// affected surface fails closed.
	ErrNotConfigured = errors.New("server configuration incomplete")

	// ErrStateNotFound means the callback state has no live nonce: unknown,
	// already used, or expired.
	ErrStateNotFound = errors.New("state not found or expired")

	// ErrShopMismatch means the callback shop differs from the shop the
	// nonce was issued for.
	ErrShopMismatch = errors.New("shop does not match pending authorization")

	// ErrHMACInvalid means the callback signature check failed.
	ErrHMACInvalid = errors.New("hmac verification failed")

	// ErrShopNotConnected means no token is stored for the shop.
	ErrShopNotConnected = errors.New("shop not connected")
)
