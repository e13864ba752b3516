package application

import (
	"context"
	"fmt"

	"shopify-orders-gateway/internal/domain"
	"shopify-orders-gateway/internal/ports"

	"github.com/rs/zerolog"
)

// WebhookDispatcher routes verified webhook events to registered topic
// handlers.
type WebhookDispatcher struct {
	handlers []ports.WebhookHandler
	logger   zerolog.Logger
}

// NewWebhookDispatcher creates an empty dispatcher.
func NewWebhookDispatcher(logger zerolog.Logger) *WebhookDispatcher {
	return &WebhookDispatcher{logger: logger}
}

// RegisterHandler adds a handler to the dispatch chain.
func (d *WebhookDispatcher) RegisterHandler(handler ports.WebhookHandler) {
	d.handlers = append(d.handlers, handler)
}

// Dispatch hands the event to every handler accepting its topic. A handler
// failure stops dispatch so the delivery can be retried upstream. Events with
// no matching handler are acknowledged and logged.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, event *domain.WebhookEvent) error {
	handled := false
	for _, h := range d.handlers {
		if !h.CanHandle(event.Topic) {
			continue
		}
		handled = true
		if err := h.Handle(ctx, event); err != nil {
			d.logger.Error().
				Err(err).
				Str("eventId", event.ID).
				Str("topic", event.Topic).
				Str("shop", event.Shop).
				Msg("Webhook handler failed")
			return fmt.Errorf("failed to handle %s webhook: %w", event.Topic, err)
		}
	}
	if !handled {
		d.logger.Info().
			Str("topic", event.Topic).
			Str("shop", event.Shop).
			Msg("No handler registered for webhook topic")
	}
	return nil
}
