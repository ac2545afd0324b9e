package storage

import (
	"fmt"

	"github.com/bobmcallan/toolbridge/internal/common"
	"github.com/bobmcallan/toolbridge/internal/config"
	"github.com/bobmcallan/toolbridge/internal/interfaces"
	"github.com/bobmcallan/toolbridge/internal/storage/badger"
	"github.com/bobmcallan/toolbridge/internal/storage/memory"
	"github.com/bobmcallan/toolbridge/internal/storage/redis"
)

// NewStorageManager creates the session store selected by cfg.Storage.Backend.
func NewStorageManager(logger *common.Logger, cfg *config.Config) (interfaces.StorageManager, error) {
	ttl := cfg.Storage.GetTTL()

	switch cfg.Storage.Backend {
	case "", "memory":
		return memory.NewManager(ttl, memory.DefaultMaxEntries), nil
	case "badger":
		m, err := badger.NewManager(logger, &cfg.Storage.Badger, ttl)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "redis":
		m, err := redis.NewManager(logger, &cfg.Storage.Redis, ttl)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
