package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/toolbridge/internal/common"
	"github.com/bobmcallan/toolbridge/internal/interfaces"
	"github.com/timshannon/badgerhold/v4"
)

// SessionEntry is one pending response persisted in BadgerDB.
type SessionEntry struct {
	Key       string `badgerhold:"key"`
	Value     []byte
	ExpiresAt time.Time
}

// KVStorage implements interfaces.KeyValueStorage using BadgerDB. Expired
// entries are treated as missing and removed when read.
type KVStorage struct {
	db     *BadgerDB
	ttl    time.Duration
	logger *common.Logger
	now    func() time.Time
}

// NewKVStorage creates a new key-value storage backed by BadgerDB.
func NewKVStorage(db *BadgerDB, ttl time.Duration, logger *common.Logger) *KVStorage {
	return &KVStorage{
		db:     db,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Get retrieves a value by key.
func (s *KVStorage) Get(ctx context.Context, key string) ([]byte, error) {
	var entry SessionEntry
	err := s.db.Store().Get(key, &entry)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("%w: %s", interfaces.ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	if !entry.ExpiresAt.IsZero() && s.now().After(entry.ExpiresAt) {
		if err := s.Delete(ctx, key); err != nil {
			s.logger.Warn().Str("key", key).Err(err).Msg("failed to remove expired session entry")
		}
		return nil, fmt.Errorf("%w: %s", interfaces.ErrNotFound, key)
	}
	return entry.Value, nil
}

// Set stores value under key, replacing any earlier value.
func (s *KVStorage) Set(_ context.Context, key string, value []byte) error {
	entry := SessionEntry{
		Key:   key,
		Value: value,
	}
	if s.ttl > 0 {
		entry.ExpiresAt = s.now().Add(s.ttl)
	}
	err := s.db.Store().Upsert(key, &entry)
	if err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Delete removes a key-value pair.
func (s *KVStorage) Delete(_ context.Context, key string) error {
	err := s.db.Store().Delete(key, SessionEntry{})
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// Keys lists every stored key, expired or not.
func (s *KVStorage) Keys(_ context.Context) ([]string, error) {
	var entries []SessionEntry
	err := s.db.Store().Find(&entries, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		keys = append(keys, entry.Key)
	}
	return keys, nil
}
