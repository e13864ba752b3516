package webhook_handlers

import (
	"context"
	"sync"
	"testing"

	"shopify-orders-gateway/internal/domain"
	"shopify-orders-gateway/internal/ports"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokenStore struct {
	mu      sync.Mutex
	removed []string
}

func (s *stubTokenStore) Save(ctx context.Context, record *domain.ShopRecord) error { return nil }

func (s *stubTokenStore) Get(ctx context.Context, shopDomain string) (*domain.ShopRecord, error) {
	return nil, nil
}

func (s *stubTokenStore) Remove(ctx context.Context, shopDomain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, shopDomain)
	return nil
}

func (s *stubTokenStore) List(ctx context.Context) ([]*domain.ShopRecord, error) { return nil, nil }

var _ ports.TokenStore = (*stubTokenStore)(nil)

func TestAppUninstalledCanHandle(t *testing.T) {
	h := NewAppUninstalledHandler(zerolog.Nop(), &stubTokenStore{})
	assert.True(t, h.CanHandle("app/uninstalled"))
	assert.False(t, h.CanHandle("orders/create"))
}

func TestAppUninstalledRemovesToken(t *testing.T) {
	store := &stubTokenStore{}
	h := NewAppUninstalledHandler(zerolog.Nop(), store)

	err := h.Handle(context.Background(), &domain.WebhookEvent{
		ID:    "evt-1",
		Topic: "app/uninstalled",
		Shop:  "example.myshopify.com",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"example.myshopify.com"}, store.removed)
}

// When the shop header was absent the handler falls back to the payload.
func TestAppUninstalledShopFromPayload(t *testing.T) {
	store := &stubTokenStore{}
	h := NewAppUninstalledHandler(zerolog.Nop(), store)

	err := h.Handle(context.Background(), &domain.WebhookEvent{
		ID:      "evt-2",
		Topic:   "app/uninstalled",
		Payload: []byte(`{"myshopify_domain": "Example.MyShopify.Com", "domain": "shop.example.com"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"example.myshopify.com"}, store.removed, "payload domain should be normalized")
}

func TestAppUninstalledNoShop(t *testing.T) {
	store := &stubTokenStore{}
	h := NewAppUninstalledHandler(zerolog.Nop(), store)

	err := h.Handle(context.Background(), &domain.WebhookEvent{
		ID:      "evt-3",
		Topic:   "app/uninstalled",
		Payload: []byte(`{}`),
	})
	assert.Error(t, err)
	assert.Empty(t, store.removed)
}

func TestOrderHandlerCanHandle(t *testing.T) {
	h := NewOrderHandler(zerolog.Nop())
	assert.True(t, h.CanHandle("orders/create"))
	assert.True(t, h.CanHandle("orders/fulfilled"))
	assert.False(t, h.CanHandle("app/uninstalled"))
	assert.False(t, h.CanHandle("products/create"))
}

func TestOrderHandlerAcceptsPayload(t *testing.T) {
	h := NewOrderHandler(zerolog.Nop())

	err := h.Handle(context.Background(), &domain.WebhookEvent{
		ID:      "evt-4",
		Topic:   "orders/create",
		Shop:    "example.myshopify.com",
		Payload: []byte(`{"id": 450789469, "order_number": 1001, "total_price": "48.97", "financial_status": "paid"}`),
	})
	assert.NoError(t, err)
}

func TestOrderHandlerRejectsMalformedPayload(t *testing.T) {
	h := NewOrderHandler(zerolog.Nop())

	err := h.Handle(context.Background(), &domain.WebhookEvent{
		ID:      "evt-5",
		Topic:   "orders/create",
		Payload: []byte(`not json`),
	})
	assert.Error(t, err)
}
