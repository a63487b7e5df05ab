package store

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/factseeker/factseeker/internal/model"
)

// Store keeps raw content items for the duration of a session so that audit
// consumers can look up the full item behind a decision.
type Store interface {
	Save(item model.ContentItem)
	Get(identity string) (model.ContentItem, bool)
	Reset()
}

// MemoryStore is a TTL-bounded in-memory store
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates a memory store. Items expire after ttl; expired
// entries are swept every ttl/2.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &MemoryStore{
		cache: gocache.New(ttl, ttl/2),
	}
}

// Save stores an item keyed by its identity
func (s *MemoryStore) Save(item model.ContentItem) {
	s.cache.Set(item.Identity(), item, gocache.DefaultExpiration)
}

// Get retrieves an item by identity
func (s *MemoryStore) Get(identity string) (model.ContentItem, bool) {
	if val, found := s.cache.Get(identity); found {
		return val.(model.ContentItem), true
	}
	return model.ContentItem{}, false
}

// Reset removes all stored items
func (s *MemoryStore) Reset() {
	s.cache.Flush()
}
