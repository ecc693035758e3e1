package store

import (
	"context"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"

	"github.com/patrickmn/go-cache"
)

// MemoryStore is a process-local DecimalsStore. Entries never expire.
type MemoryStore struct {
	entries *cache.Cache
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: cache.New(cache.NoExpiration, 0)}
}

func memoryKey(chain, token string) string {
	return chain + "|" + token
}

// Lookup returns the entry stored for (chain, token).
func (s *MemoryStore) Lookup(_ context.Context, chain, token string) (entity.DecimalsEntry, bool, error) {
	v, ok := s.entries.Get(memoryKey(chain, token))
	if !ok {
		return entity.DecimalsEntry{}, false, nil
	}
	return v.(entity.DecimalsEntry), true, nil
}

// Insert adds the entry unless the key is already present.
func (s *MemoryStore) Insert(_ context.Context, entry entity.DecimalsEntry) (bool, error) {
	if err := s.entries.Add(memoryKey(entry.Chain, entry.Token), entry, cache.NoExpiration); err != nil {
		return false, nil
	}
	return true, nil
}

// Len returns the number of stored entries.
func (s *MemoryStore) Len() int {
	return s.entries.ItemCount()
}

func (s *MemoryStore) Close() error {
	s.entries.Flush()
	return nil
}

var _ port.DecimalsStore = (*MemoryStore)(nil)
