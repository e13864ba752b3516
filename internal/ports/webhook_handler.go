package ports

import (
	"context"

	"shopify-orders-gateway/internal/domain"
)

// WebhookHandler processes webhook deliveries for the topics it accepts.
type WebhookHandler interface {
	// CanHandle returns true if this handler can process the given topic.
	CanHandle(topic string) bool

	// Handle processes a verified webhook event.
	Handle(ctx context.Context, event *domain.WebhookEvent) error
}
