package shopify

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingAccessToken is returned when a call is attempted with no token.
var ErrMissingAccessToken = errors.New("missing access token for shop")

// ErrEmptyAccessToken is returned when the token exchange succeeds at the
// HTTP level but the response carries no access_token.
var ErrEmptyAccessToken = errors.New("token response missing access_token")

// HTTPError is a non-2xx response from Shopify. Status and body are preserved
// so callers can pass them through.
type HTTPError struct {
	Status int
	Body   []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("shopify returned status %d: %s", e.Status, truncate(e.Body, 256))
}

// GraphQLError is one entry of a GraphQL errors array.
type GraphQLError struct {
	Message    string `json:"message"`
	Path       []any  `json:"path,omitempty"`
	Extensions struct {
		Code string `json:"code,omitempty"`
	} `json:"extensions,omitempty"`
}

// GraphQLErrors is a GraphQL-level failure, carried even on HTTP 200.
type GraphQLErrors struct {
	Errors []GraphQLError
}

func (e *GraphQLErrors) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, g := range e.Errors {
		msgs = append(msgs, g.Message)
	}
	return "shopify graphql errors: " + strings.Join(msgs, "; ")
}

// ConnectionError wraps a transport-level failure reaching Shopify.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return "shopify connection error: " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
