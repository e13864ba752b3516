package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// BearerAuthMiddleware guards a route group with a static bearer token.
// When no token is configured the gate fails closed and every request is
// rejected, so a missing API_BEARER_TOKEN can never expose store data.
func BearerAuthMiddleware(token string, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				logger.Error().Str("path", r.URL.Path).Msg("API bearer token not configured, rejecting request")
				writeAuthError(w, http.StatusInternalServerError, "server configuration error")
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				writeAuthError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			presented, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "authorization header must use the Bearer scheme")
				return
			}

			if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				logger.Warn().Str("path", r.URL.Path).Msg("Rejected request with invalid bearer token")
				writeAuthError(w, http.StatusUnauthorized, "invalid bearer token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
