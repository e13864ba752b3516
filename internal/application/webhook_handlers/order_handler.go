package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"shopify-orders-gateway/internal/domain"

	"github.com/rs/zerolog"
)

// OrderHandler logs order lifecycle webhook events.
type OrderHandler struct {
	logger zerolog.Logger
}

// NewOrderHandler creates a new order webhook handler
func NewOrderHandler(logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		logger: logger,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *OrderHandler) CanHandle(topic string) bool {
	return strings.HasPrefix(topic, "orders/")
}

// Handle logs a summary of the order event.
func (h *OrderHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	var orderData map[string]interface{}
	if err := json.Unmarshal(event.Payload, &orderData); err != nil {
		return fmt.Errorf("failed to parse order webhook payload: %w", err)
	}

	orderID, _ := orderData["id"].(float64)
	orderNumber, _ := orderData["order_number"].(float64)
	totalPrice, _ := orderData["total_price"].(string)
	financialStatus, _ := orderData["financial_status"].(string)

	h.logger.Info().
		Str("eventId", event.ID).
		Str("topic", event.Topic).
		Str("shop", event.Shop).
		Float64("orderId", orderID).
		Float64("orderNumber", orderNumber).
		Str("totalPrice", totalPrice).
		Str("financialStatus", financialStatus).
		Msg("Order webhook received")

	return nil
}
