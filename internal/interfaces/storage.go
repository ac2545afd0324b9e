package interfaces

import (
	"context"
	"errors"
)

// StorageManager provides access to domain-specific storage interfaces.
// Implementations can be swapped (memory, BadgerDB, Redis).
type StorageManager interface {
	KeyValueStorage() KeyValueStorage
	Close() error
}

// ResponseStore is the only capability the MCP dispatcher needs from storage:
// park a serialized JSON-RPC response under a session id. A later write to the
// same key replaces the earlier one.
type ResponseStore interface {
	Set(ctx context.Context, key string, value []byte) error
}

// KeyValueStorage provides basic key-value operations.
type KeyValueStorage interface {
	ResponseStore
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// ErrNotFound is returned by KeyValueStorage.Get for a missing key.
var ErrNotFound = errors.New("key not found")
