package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"shopify-orders-gateway/internal/domain"
	"shopify-orders-gateway/internal/ports"

	"github.com/rs/zerolog"
)

// AppUninstalledHandler removes a shop's stored token when the app is
// uninstalled.
type AppUninstalledHandler struct {
	logger zerolog.Logger
	tokens ports.TokenStore
}

// NewAppUninstalledHandler creates a new app uninstalled webhook handler
func NewAppUninstalledHandler(logger zerolog.Logger, tokens ports.TokenStore) *AppUninstalledHandler {
	return &AppUninstalledHandler{
		logger: logger,
		tokens: tokens,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *AppUninstalledHandler) CanHandle(topic string) bool {
	return topic == "app/uninstalled"
}

// Handle drops the shop's access token so the install cannot be used again.
func (h *AppUninstalledHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	shopDomain := event.Shop
	if shopDomain == "" {
		// Fall back to the payload when the header was absent.
		var shopData map[string]interface{}
		if err := json.Unmarshal(event.Payload, &shopData); err == nil {
			if d, ok := shopData["myshopify_domain"].(string); ok && d != "" {
				shopDomain = d
			} else if d, ok := shopData["domain"].(string); ok {
				shopDomain = d
			}
		}
	}
	if normalized, err := domain.NormalizeShopDomain(shopDomain); err == nil {
		shopDomain = normalized
	}
	if shopDomain == "" {
		return fmt.Errorf("app uninstalled webhook carried no shop domain")
	}

	if err := h.tokens.Remove(ctx, shopDomain); err != nil {
		return fmt.Errorf("failed to remove shop after uninstall: %w", err)
	}

	h.logger.Info().
		Str("eventId", event.ID).
		Str("shop", shopDomain).
		Msg("Shop token removed after app uninstall")

	return nil
}
