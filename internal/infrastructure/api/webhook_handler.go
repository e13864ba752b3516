package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"shopify-orders-gateway/internal/application"
	"shopify-orders-gateway/internal/domain"
	"shopify-orders-gateway/internal/infrastructure/shopify"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WebhookHandler receives signed webhook deliveries from Shopify.
type WebhookHandler struct {
	verifier   *shopify.WebhookVerifier
	dispatcher *application.WebhookDispatcher
	logger     zerolog.Logger
}

// NewWebhookHandler creates the webhook HTTP handler.
func NewWebhookHandler(verifier *shopify.WebhookVerifier, dispatcher *application.WebhookDispatcher, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, dispatcher: dispatcher, logger: logger}
}

// Receive handles POST /webhooks/shopify. Signature verification runs over
// the raw body before anything is decoded; a 5xx response makes Shopify
// redeliver later.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	topic := r.Header.Get("X-Shopify-Topic")
	if topic == "" {
		h.logger.Warn().Msg("Missing X-Shopify-Topic header")
		writeError(w, http.StatusBadRequest, "missing X-Shopify-Topic header")
		return
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to read webhook payload")
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	defer r.Body.Close()

	signature := r.Header.Get("X-Shopify-Hmac-SHA256")
	if err := h.verifier.Verify(payload, signature); err != nil {
		h.logger.Warn().Err(err).Str("topic", topic).Msg("Webhook signature verification failed")
		writeError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	event := &domain.WebhookEvent{
		ID:         uuid.NewString(),
		Topic:      topic,
		Shop:       h.shopFrom(r, payload),
		Payload:    payload,
		Verified:   true,
		ReceivedAt: time.Now().UTC(),
	}

	if err := h.dispatcher.Dispatch(r.Context(), event); err != nil {
		h.logger.Error().Err(err).Str("topic", topic).Str("eventId", event.ID).Msg("Failed to dispatch webhook event")
		writeError(w, http.StatusInternalServerError, "failed to process webhook event")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"received": "true"})
}

// shopFrom extracts the shop domain from the payload, falling back to the
// X-Shopify-Shop-Domain header. Topics like app/uninstalled carry the domain
// in the body; order topics only carry the header.
func (h *WebhookHandler) shopFrom(r *http.Request, payload []byte) string {
	shop := ""
	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err == nil {
		if v, ok := decoded["myshopify_domain"].(string); ok {
			shop = v
		} else if v, ok := decoded["domain"].(string); ok {
			shop = v
		}
	}
	if shop == "" {
		shop = r.Header.Get("X-Shopify-Shop-Domain")
	}
	if normalized, err := domain.NormalizeShopDomain(shop); err == nil {
		return normalized
	}
	return shop
}
