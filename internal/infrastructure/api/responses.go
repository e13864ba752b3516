package api

import (
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the canonical error body. Error payloads are not
// localized; clients match on them programmatically.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeAuthRequired emits an error body carrying the URL that restarts the
// install flow for the shop.
func writeAuthRequired(w http.ResponseWriter, status int, message, authURL string) {
	writeJSON(w, status, map[string]any{"error": message, "auth_url": authURL})
}

// upstreamErrorBody passes a Shopify error payload through unchanged when it
// is valid JSON, and wraps it otherwise.
func upstreamErrorBody(body []byte) any {
	if len(body) == 0 {
		return map[string]string{"error": "upstream error"}
	}
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return map[string]string{"error": string(body)}
	}
	return decoded
}
