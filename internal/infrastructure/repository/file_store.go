package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"shopify-orders-gateway/internal/domain"

	"github.com/rs/zerolog"
)

// FileTokenStore implements TokenStore on a single JSON file keyed by shop
// domain. The whole table is read on every operation and rewritten on every
// mutation; a missing or unreadable file behaves as an empty table. Writers
// are serialized within the process only, so two processes sharing one file
// race with last-writer-wins.
type FileTokenStore struct {
	path   string
	logger zerolog.Logger
	mu     sync.Mutex
}

type fileShopRecord struct {
	AccessToken string    `json:"accessToken"`
	InstalledAt time.Time `json:"installedAt"`
}

// NewFileTokenStore creates a file-backed token store at the given path.
func NewFileTokenStore(path string, logger zerolog.Logger) *FileTokenStore {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Warn().Err(err).Str("dir", dir).Msg("Failed to create token store directory")
		}
	}
	return &FileTokenStore{path: path, logger: logger}
}

// Save stores or overwrites the record for record.Domain.
func (s *FileTokenStore) Save(ctx context.Context, record *domain.ShopRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	table := s.load()
	table[record.Domain] = fileShopRecord{
		AccessToken: record.AccessToken,
		InstalledAt: record.InstalledAt,
	}
	return s.persist(table)
}

// Get returns the record for a shop domain, or nil when none is stored.
func (s *FileTokenStore) Get(ctx context.Context, shopDomain string) (*domain.ShopRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.load()[shopDomain]
	if !ok {
		return nil, nil
	}
	return &domain.ShopRecord{
		Domain:      shopDomain,
		AccessToken: rec.AccessToken,
		InstalledAt: rec.InstalledAt,
	}, nil
}

// Remove deletes the record for a shop domain. Removing an absent domain is
// a no-op.
func (s *FileTokenStore) Remove(ctx context.Context, shopDomain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	table := s.load()
	if _, ok := table[shopDomain]; !ok {
		return nil
	}
	delete(table, shopDomain)
	return s.persist(table)
}

// List returns every stored record, ordered by domain.
func (s *FileTokenStore) List(ctx context.Context) ([]*domain.ShopRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table := s.load()
	records := make([]*domain.ShopRecord, 0, len(table))
	for shopDomain, rec := range table {
		records = append(records, &domain.ShopRecord{
			Domain:      shopDomain,
			AccessToken: rec.AccessToken,
			InstalledAt: rec.InstalledAt,
		})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Domain < records[j].Domain })
	return records, nil
}

func (s *FileTokenStore) load() map[string]fileShopRecord {
	table := map[string]fileShopRecord{}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("Failed to read token file, treating as empty")
		}
		return table
	}
	if err := json.Unmarshal(data, &table); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("Malformed token file, treating as empty")
		return map[string]fileShopRecord{}
	}
	return table
}

func (s *FileTokenStore) persist(table map[string]fileShopRecord) error {
	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token table: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}
