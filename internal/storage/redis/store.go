// Package redis stores pending session responses in Redis so several
// bridge instances can share one delivery channel.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bobmcallan/toolbridge/internal/common"
	"github.com/bobmcallan/toolbridge/internal/config"
	"github.com/bobmcallan/toolbridge/internal/interfaces"
	goredis "github.com/redis/go-redis/v9"
)

// pingTimeout bounds the connection check at startup.
const pingTimeout = 5 * time.Second

// KVStorage implements interfaces.KeyValueStorage on Redis. Expiry is
// delegated to Redis key TTLs.
type KVStorage struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewKVStorage wraps an existing client.
func NewKVStorage(client *goredis.Client, prefix string, ttl time.Duration) *KVStorage {
	return &KVStorage{client: client, prefix: prefix, ttl: ttl}
}

func (s *KVStorage) key(k string) string {
	return s.prefix + k
}

// Get retrieves a value by key.
func (s *KVStorage) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, fmt.Errorf("%w: %s", interfaces.ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return data, nil
}

// Set stores value under key with the configured TTL, replacing any earlier value.
func (s *KVStorage) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Delete removes a key. Missing keys are not an error.
func (s *KVStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// Manager implements interfaces.StorageManager for Redis.
type Manager struct {
	client *goredis.Client
	kv     *KVStorage
	logger *common.Logger
}

// NewManager connects to Redis and verifies the connection.
func NewManager(logger *common.Logger, cfg *config.RedisConfig, ttl time.Duration) (*Manager, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr, err)
	}

	logger.Debug().Str("addr", cfg.Addr).Int("db", cfg.DB).Msg("Redis storage manager initialized")

	return &Manager{
		client: client,
		kv:     NewKVStorage(client, cfg.KeyPrefix, ttl),
		logger: logger,
	}, nil
}

// KeyValueStorage returns the KeyValue storage interface.
func (m *Manager) KeyValueStorage() interfaces.KeyValueStorage {
	return m.kv
}

// Close closes the client connection pool.
func (m *Manager) Close() error {
	return m.client.Close()
}
