package application

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"shopify-orders-gateway/internal/domain"
	"shopify-orders-gateway/internal/ports"

	"github.com/rs/zerolog"
)

// Bounds the Admin API accepts for order listing.
const (
	MinOrdersLimit = 1
	MaxOrdersLimit = 250
)

// OrdersService reads orders from connected shops through the Admin API.
type OrdersService struct {
	tokens ports.TokenStore
	api    ports.AdminAPI
	appURL string
	logger zerolog.Logger
}

// NewOrdersService creates the orders read service.
func NewOrdersService(tokens ports.TokenStore, api ports.AdminAPI, appURL string, logger zerolog.Logger) *OrdersService {
	return &OrdersService{
		tokens: tokens,
		api:    api,
		appURL: appURL,
		logger: logger,
	}
}

// AuthURLFor returns the gateway URL that restarts OAuth for a shop.
func (s *OrdersService) AuthURLFor(shop string) string {
	return s.appURL + "/auth?shop=" + url.QueryEscape(shop)
}

// List fetches up to limit orders for a shop. The limit is clamped to the
// upstream's accepted range before the call goes out.
func (s *OrdersService) List(ctx context.Context, shop string, limit int, status string) ([]domain.OrderView, error) {
	token, err := s.resolveToken(ctx, shop)
	if err != nil {
		return nil, err
	}

	if limit < MinOrdersLimit {
		limit = MinOrdersLimit
	}
	if limit > MaxOrdersLimit {
		limit = MaxOrdersLimit
	}
	if status == "" {
		status = "any"
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("status", status)

	payload, err := s.api.Rest(ctx, shop, token, http.MethodGet, "orders.json", nil, query)
	if err != nil {
		return nil, err
	}

	views, err := domain.OrderViewsFromListPayload(payload)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("shop", shop).Int("count", len(views)).Msg("Fetched orders")
	return views, nil
}

// GetByID fetches a single order.
func (s *OrdersService) GetByID(ctx context.Context, shop string, orderID int64) (*domain.OrderView, error) {
	token, err := s.resolveToken(ctx, shop)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("orders/%d.json", orderID)
	payload, err := s.api.Rest(ctx, shop, token, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	return domain.OrderViewFromPayload(payload)
}

// ListShops returns every connected shop record.
func (s *OrdersService) ListShops(ctx context.Context) ([]*domain.ShopRecord, error) {
	records, err := s.tokens.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}
	return records, nil
}

// Disconnect removes the stored token for a shop. Returns ErrShopNotConnected
// when nothing was stored.
func (s *OrdersService) Disconnect(ctx context.Context, shop string) error {
	record, err := s.tokens.Get(ctx, shop)
	if err != nil {
		return fmt.Errorf("failed to read token store: %w", err)
	}
	if record == nil {
		return ErrShopNotConnected
	}
	if err := s.tokens.Remove(ctx, shop); err != nil {
		return fmt.Errorf("failed to remove shop: %w", err)
	}

	s.logger.Info().Str("shop", shop).Msg("Shop disconnected")
	return nil
}

func (s *OrdersService) resolveToken(ctx context.Context, shop string) (string, error) {
	record, err := s.tokens.Get(ctx, shop)
	if err != nil {
		return "", fmt.Errorf("failed to read token store: %w", err)
	}
	if record == nil || record.AccessToken == "" {
		return "", ErrShopNotConnected
	}
	return record.AccessToken, nil
}
