package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/bobmcallan/toolbridge/internal/common"
	"github.com/bobmcallan/toolbridge/internal/config"
)

func TestNewStorageManager_Backends(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"memory", func(c *config.Config) { c.Storage.Backend = "memory" }},
		{"badger", func(c *config.Config) {
			c.Storage.Backend = "badger"
			c.Storage.Badger.Path = t.TempDir()
		}},
		{"redis", func(c *config.Config) {
			c.Storage.Backend = "redis"
			c.Storage.Redis.Addr = mr.Addr()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewDefaultConfig()
			tt.mutate(cfg)

			m, err := NewStorageManager(common.NewSilentLogger(), cfg)
			if err != nil {
				t.Fatalf("NewStorageManager failed: %v", err)
			}
			defer m.Close()

			kv := m.KeyValueStorage()
			ctx := context.Background()
			if err := kv.Set(ctx, "session", []byte("payload")); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			got, err := kv.Get(ctx, "session")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if string(got) != "payload" {
				t.Errorf("expected payload, got %s", got)
			}
		})
	}
}

func TestNewStorageManager_UnknownBackend(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Storage.Backend = "etcd"

	if _, err := NewStorageManager(common.NewSilentLogger(), cfg); err == nil {
		t.Error("expected error for unknown backend")
	}
}
