package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"shopify-orders-gateway/internal/application"
	"shopify-orders-gateway/internal/domain"
	"shopify-orders-gateway/internal/infrastructure/shopify"

	"github.com/rs/zerolog"
)

// AuthHandler serves the OAuth install endpoints.
type AuthHandler struct {
	oauth  *application.OAuthService
	logger zerolog.Logger
}

// NewAuthHandler creates the OAuth HTTP handler.
func NewAuthHandler(oauth *application.OAuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{oauth: oauth, logger: logger}
}

// Begin handles GET /auth. It validates the shop parameter and redirects
// the merchant to Shopify's authorization page.
func (h *AuthHandler) Begin(w http.ResponseWriter, r *http.Request) {
	authURL, err := h.oauth.Begin(r.Context(), r.URL.Query().Get("shop"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrShopDomainEmpty), errors.Is(err, domain.ErrShopDomainInvalid):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, application.ErrNotConfigured):
			writeError(w, http.StatusInternalServerError, "server configuration error")
		default:
			h.logger.Error().Err(err).Msg("Failed to start OAuth flow")
			writeError(w, http.StatusInternalServerError, "failed to start authorization")
		}
		return
	}

	http.Redirect(w, r, authURL, http.StatusFound)
}

// Callback handles GET /auth/callback. It verifies the signature and state,
// exchanges the code and persists the shop's token.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Get("shop") == "" || query.Get("code") == "" || query.Get("state") == "" {
		writeError(w, http.StatusBadRequest, "shop, code and state parameters are required")
		return
	}

	record, err := h.oauth.Complete(r.Context(), query)
	if err != nil {
		h.writeCallbackError(w, query.Get("shop"), err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, callbackSuccessPage, record.Domain)
}

func (h *AuthHandler) writeCallbackError(w http.ResponseWriter, shop string, err error) {
	restartURL := "/auth?shop=" + url.QueryEscape(shop)

	var httpErr *shopify.HTTPError
	switch {
	case errors.Is(err, domain.ErrShopDomainEmpty), errors.Is(err, domain.ErrShopDomainInvalid):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, application.ErrHMACInvalid),
		errors.Is(err, application.ErrStateNotFound),
		errors.Is(err, application.ErrShopMismatch):
		writeAuthRequired(w, http.StatusForbidden, err.Error(), restartURL)
	case errors.Is(err, application.ErrNotConfigured):
		writeError(w, http.StatusInternalServerError, "server configuration error")
	case errors.As(err, &httpErr):
		h.logger.Error().Int("status", httpErr.Status).Str("shop", shop).Msg("Token exchange rejected upstream")
		writeError(w, httpErr.Status, "token exchange failed")
	default:
		h.logger.Error().Err(err).Str("shop", shop).Msg("OAuth callback failed")
		writeError(w, http.StatusInternalServerError, "authorization could not be completed")
	}
}

const callbackSuccessPage = `<!DOCTYPE html>
<html>
<head><title>App installed</title></head>
<body>
  <h1>App installed</h1>
  <p>Store <strong>%s</strong> is now connected. You can close this window.</p>
</body>
</html>
`
