package application

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"shopify-orders-gateway/internal/domain"
	"shopify-orders-gateway/internal/infrastructure/repository"
	"shopify-orders-gateway/internal/ports"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOAuthClient struct {
	verifyResult  bool
	verifyErr     error
	verifyCalls   int
	exchangeCalls int
	exchangeGrant *domain.AccessGrant
	exchangeErr   error
	lastState     string
	lastShop      string
	lastCode      string
}

func (f *fakeOAuthClient) AuthorizeURL(shop string, scopes []string, redirectURI string, state string) string {
	f.lastState = state
	return "https://" + shop + "/admin/oauth/authorize?client_id=test&state=" + state
}

func (f *fakeOAuthClient) VerifyCallback(params url.Values) (bool, error) {
	f.verifyCalls++
	return f.verifyResult, f.verifyErr
}

func (f *fakeOAuthClient) Exchange(ctx context.Context, shop string, code string) (*domain.AccessGrant, error) {
	f.exchangeCalls++
	f.lastShop = shop
	f.lastCode = code
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return f.exchangeGrant, nil
}

type memTokenStore struct {
	mu      sync.Mutex
	records map[string]*domain.ShopRecord
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{records: map[string]*domain.ShopRecord{}}
}

func (s *memTokenStore) Save(ctx context.Context, record *domain.ShopRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *record
	s.records[record.Domain] = &copied
	return nil
}

func (s *memTokenStore) Get(ctx context.Context, shopDomain string) (*domain.ShopRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[shopDomain]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

func (s *memTokenStore) Remove(ctx context.Context, shopDomain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, shopDomain)
	return nil
}

func (s *memTokenStore) List(ctx context.Context) ([]*domain.ShopRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]*domain.ShopRecord, 0, len(s.records))
	for _, record := range s.records {
		copied := *record
		records = append(records, &copied)
	}
	return records, nil
}

var _ ports.TokenStore = (*memTokenStore)(nil)
var _ ports.OAuthClient = (*fakeOAuthClient)(nil)

func newTestOAuthService(oauthClient ports.OAuthClient, tokens ports.TokenStore) (*OAuthService, *repository.MemoryNonceStore) {
	nonces := repository.NewMemoryNonceStore()
	svc := NewOAuthService(OAuthConfig{
		APIKey:    "test-api-key",
		APISecret: "test-api-secret",
		Scopes:    []string{"read_orders"},
		AppURL:    "https://gateway.example.com",
	}, oauthClient, nonces, tokens, zerolog.Nop())
	return svc, nonces
}

func TestBeginIssuesSingleUseState(t *testing.T) {
	oauthClient := &fakeOAuthClient{}
	svc, nonces := newTestOAuthService(oauthClient, newMemTokenStore())

	authURL, err := svc.Begin(context.Background(), "HTTPS://Example.MyShopify.Com/admin")
	require.NoError(t, err)
	assert.Contains(t, authURL, "example.myshopify.com")

	require.Len(t, oauthClient.lastState, 32, "state should be 128 bits hex-encoded")

	nonce, err := nonces.Consume(context.Background(), oauthClient.lastState)
	require.NoError(t, err)
	require.NotNil(t, nonce)
	assert.Equal(t, "example.myshopify.com", nonce.Shop)
	assert.Equal(t, NonceTTL, nonce.ExpiresAt.Sub(nonce.CreatedAt))
}

func TestBeginStatesAreUnique(t *testing.T) {
	oauthClient := &fakeOAuthClient{}
	svc, _ := newTestOAuthService(oauthClient, newMemTokenStore())

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		_, err := svc.Begin(context.Background(), "example.myshopify.com")
		require.NoError(t, err)
		assert.False(t, seen[oauthClient.lastState], "states must not repeat")
		seen[oauthClient.lastState] = true
	}
}

func TestBeginRejectsBadShop(t *testing.T) {
	svc, _ := newTestOAuthService(&fakeOAuthClient{}, newMemTokenStore())

	_, err := svc.Begin(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrShopDomainEmpty)

	_, err = svc.Begin(context.Background(), "example.com")
	assert.ErrorIs(t, err, domain.ErrShopDomainInvalid)
}

func TestBeginNotConfigured(t *testing.T) {
	svc := NewOAuthService(OAuthConfig{}, &fakeOAuthClient{}, repository.NewMemoryNonceStore(), newMemTokenStore(), zerolog.Nop())

	_, err := svc.Begin(context.Background(), "example.myshopify.com")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func completeParams(shop, state string) url.Values {
	params := url.Values{}
	params.Set("shop", shop)
	params.Set("code", "authcode123")
	params.Set("state", state)
	return params
}

func TestCompletePersistsToken(t *testing.T) {
	oauthClient := &fakeOAuthClient{
		verifyResult:  true,
		exchangeGrant: &domain.AccessGrant{AccessToken: "shpat_granted", Scope: "read_orders"},
	}
	tokens := newMemTokenStore()
	svc, _ := newTestOAuthService(oauthClient, tokens)
	ctx := context.Background()

	_, err := svc.Begin(ctx, "example.myshopify.com")
	require.NoError(t, err)

	params := completeParams("example.myshopify.com", oauthClient.lastState)
	params.Set("hmac", "deadbeef")

	record, err := svc.Complete(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, "example.myshopify.com", record.Domain)
	assert.Equal(t, "shpat_granted", record.AccessToken)
	assert.False(t, record.InstalledAt.IsZero())

	assert.Equal(t, 1, oauthClient.verifyCalls)
	assert.Equal(t, "authcode123", oauthClient.lastCode)

	stored, err := tokens.Get(ctx, "example.myshopify.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "shpat_granted", stored.AccessToken)
}

// A failed signature check burns the nonce and never reaches the exchange.
func TestCompleteRejectsBadHMAC(t *testing.T) {
	oauthClient := &fakeOAuthClient{
		verifyResult:  false,
		exchangeGrant: &domain.AccessGrant{AccessToken: "shpat_granted"},
	}
	tokens := newMemTokenStore()
	svc, _ := newTestOAuthService(oauthClient, tokens)
	ctx := context.Background()

	_, err := svc.Begin(ctx, "example.myshopify.com")
	require.NoError(t, err)
	state := oauthClient.lastState

	params := completeParams("example.myshopify.com", state)
	params.Set("hmac", "forged")

	_, err = svc.Complete(ctx, params)
	assert.ErrorIs(t, err, ErrHMACInvalid)
	assert.Zero(t, oauthClient.exchangeCalls, "exchange must not run after a failed signature check")

	// The state is unusable afterwards even with a valid signature.
	oauthClient.verifyResult = true
	_, err = svc.Complete(ctx, completeParams("example.myshopify.com", state))
	assert.ErrorIs(t, err, ErrStateNotFound)

	record, err := tokens.Get(ctx, "example.myshopify.com")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestCompleteUnknownState(t *testing.T) {
	oauthClient := &fakeOAuthClient{exchangeGrant: &domain.AccessGrant{AccessToken: "shpat_granted"}}
	svc, _ := newTestOAuthService(oauthClient, newMemTokenStore())

	_, err := svc.Complete(context.Background(), completeParams("example.myshopify.com", "never-issued"))
	assert.ErrorIs(t, err, ErrStateNotFound)
	assert.Zero(t, oauthClient.exchangeCalls)
}

func TestCompleteStateReplay(t *testing.T) {
	oauthClient := &fakeOAuthClient{
		exchangeGrant: &domain.AccessGrant{AccessToken: "shpat_granted"},
	}
	svc, _ := newTestOAuthService(oauthClient, newMemTokenStore())
	ctx := context.Background()

	_, err := svc.Begin(ctx, "example.myshopify.com")
	require.NoError(t, err)
	params := completeParams("example.myshopify.com", oauthClient.lastState)

	_, err = svc.Complete(ctx, params)
	require.NoError(t, err)

	_, err = svc.Complete(ctx, params)
	assert.ErrorIs(t, err, ErrStateNotFound, "a state value works exactly once")
	assert.Equal(t, 1, oauthClient.exchangeCalls)
}

func TestCompleteExpiredState(t *testing.T) {
	oauthClient := &fakeOAuthClient{exchangeGrant: &domain.AccessGrant{AccessToken: "shpat_granted"}}
	svc, nonces := newTestOAuthService(oauthClient, newMemTokenStore())
	ctx := context.Background()

	issued := time.Now().Add(-time.Hour)
	require.NoError(t, nonces.Put(ctx, &domain.OAuthNonce{
		Value:     "stale-state",
		Shop:      "example.myshopify.com",
		CreatedAt: issued,
		ExpiresAt: issued.Add(NonceTTL),
	}))

	_, err := svc.Complete(ctx, completeParams("example.myshopify.com", "stale-state"))
	assert.ErrorIs(t, err, ErrStateNotFound)
	assert.Zero(t, oauthClient.exchangeCalls)
}

// A state issued for one shop must not complete an install for another.
func TestCompleteShopMismatch(t *testing.T) {
	oauthClient := &fakeOAuthClient{exchangeGrant: &domain.AccessGrant{AccessToken: "shpat_granted"}}
	svc, _ := newTestOAuthService(oauthClient, newMemTokenStore())
	ctx := context.Background()

	_, err := svc.Begin(ctx, "legit.myshopify.com")
	require.NoError(t, err)
	state := oauthClient.lastState

	_, err = svc.Complete(ctx, completeParams("attacker.myshopify.com", state))
	assert.ErrorIs(t, err, ErrShopMismatch)
	assert.Zero(t, oauthClient.exchangeCalls)

	// The mismatch consumed the nonce.
	_, err = svc.Complete(ctx, completeParams("legit.myshopify.com", state))
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestCompleteExchangeFailureLeavesNoRecord(t *testing.T) {
	oauthClient := &fakeOAuthClient{exchangeErr: errors.New("empty access token in exchange response")}
	tokens := newMemTokenStore()
	svc, _ := newTestOAuthService(oauthClient, tokens)
	ctx := context.Background()

	_, err := svc.Begin(ctx, "example.myshopify.com")
	require.NoError(t, err)

	_, err = svc.Complete(ctx, completeParams("example.myshopify.com", oauthClient.lastState))
	require.Error(t, err)

	record, err := tokens.Get(ctx, "example.myshopify.com")
	require.NoError(t, err)
	assert.Nil(t, record, "no record may be persisted when the exchange fails")
}

func TestCompleteNotConfigured(t *testing.T) {
	svc := NewOAuthService(OAuthConfig{}, &fakeOAuthClient{}, repository.NewMemoryNonceStore(), newMemTokenStore(), zerolog.Nop())

	_, err := svc.Complete(context.Background(), completeParams("example.myshopify.com", "any"))
	assert.ErrorIs(t, err, ErrNotConfigured)
}
