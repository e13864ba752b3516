package repository

import (
	"context"
	"sync"
	"time"

	"shopify-orders-gateway/internal/domain"

	"github.com/rs/zerolog"
)

// MemoryNonceStore implements NonceStore with a mutex-guarded in-process map.
// Expired entries are dropped when read and by periodic Sweep calls; there
// are no per-entry timers.
type MemoryNonceStore struct {
	mu      sync.Mutex
	entries map[string]*domain.OAuthNonce
	now     func() time.Time
}

// NewMemoryNonceStore creates an empty in-memory nonce store.
func NewMemoryNonceStore() *MemoryNonceStore {
	return &MemoryNonceStore{
		entries: make(map[string]*domain.OAuthNonce),
		now:     time.Now,
	}
}

// Put stores a nonce until it is consumed or expires.
func (s *MemoryNonceStore) Put(ctx context.Context, nonce *domain.OAuthNonce) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[nonce.Value] = nonce
	return nil
}

// Consume removes and returns the nonce for a state value. Unknown and
// expired values yield nil; the value is deleted either way.
func (s *MemoryNonceStore) Consume(ctx context.Context, value string) (*domain.OAuthNonce, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nonce, ok := s.entries[value]
	if !ok {
		return nil, nil
	}
	delete(s.entries, value)
	if nonce.Expired(s.now()) {
		return nil, nil
	}
	return nonce, nil
}

// Sweep drops expired entries and returns how many were removed.
func (s *MemoryNonceStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for value, nonce := range s.entries {
		if nonce.Expired(now) {
			delete(s.entries, value)
			removed++
		}
	}
	return removed
}

// StartSweeper sweeps on the given interval until ctx is cancelled.
func (s *MemoryNonceStore) StartSweeper(ctx context.Context, interval time.Duration, logger zerolog.Logger) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					logger.Debug().Int("expired", n).Msg("Swept expired OAuth nonces")
				}
			}
		}
	}()
}
