// Package memory is the in-process session response store.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bobmcallan/toolbridge/internal/interfaces"
)

// DefaultMaxEntries bounds the store when no limit is given.
const DefaultMaxEntries = 10000

// entry wraps a stored value with expiry and insertion order tracking.
type entry struct {
	value     []byte
	expiry    time.Time
	insertIdx int64
}

// Store keeps at most one value per key in memory. A zero TTL keeps values
// until they are overwritten, deleted, or evicted for capacity.
// Thread-safe with sync.RWMutex.
type Store struct {
	mu         sync.RWMutex
	items      map[string]entry
	ttl        time.Duration
	maxEntries int
	nextIdx    int64
	now        func() time.Time
}

// New creates a Store with the given TTL and max entry count.
func New(ttl time.Duration, maxEntries int) *Store {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Store{
		items:      make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (s *Store) expired(e entry) bool {
	return !e.expiry.IsZero() && s.now().After(e.expiry)
}

// Get returns the value for key if present and not expired.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.items[key]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrNotFound, key)
	}

	if s.expired(e) {
		// Expired: remove lazily
		s.mu.Lock()
		if e2, ok2 := s.items[key]; ok2 && s.expired(e2) {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", interfaces.ErrNotFound, key)
	}

	return e.value, nil
}

// Set stores value under key, replacing any earlier value. Evicts the oldest
// entry if at capacity.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{
		value:     append([]byte(nil), value...),
		insertIdx: s.nextIdx,
	}
	if s.ttl > 0 {
		e.expiry = s.now().Add(s.ttl)
	}
	s.nextIdx++

	if _, exists := s.items[key]; exists {
		s.items[key] = e
		return nil
	}

	if len(s.items) >= s.maxEntries {
		s.evictOldest()
	}

	s.items[key] = e
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}

// Len returns the number of entries, including expired ones not yet reaped.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// evictOldest removes the entry with the lowest insertIdx. Must be called with mu held.
func (s *Store) evictOldest() {
	var oldestKey string
	var oldestIdx int64 = -1

	for key, e := range s.items {
		if oldestIdx == -1 || e.insertIdx < oldestIdx {
			oldestIdx = e.insertIdx
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(s.items, oldestKey)
	}
}

// Manager implements interfaces.StorageManager over a Store.
type Manager struct {
	store *Store
}

// NewManager creates a memory storage manager.
func NewManager(ttl time.Duration, maxEntries int) *Manager {
	return &Manager{store: New(ttl, maxEntries)}
}

// KeyValueStorage returns the KeyValue storage interface.
func (m *Manager) KeyValueStorage() interfaces.KeyValueStorage {
	return m.store
}

// Close is a no-op.
func (m *Manager) Close() error {
	return nil
}
