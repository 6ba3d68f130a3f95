// Package cache defines the port for short-lived key-value caching.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads under string keys with per-entry TTLs.
// Implementations decide eviction; callers must tolerate any entry vanishing
// between Set and Get.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
