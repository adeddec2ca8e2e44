package types

import (
	"context"
	"time"
)

// Cache is the minimal cache contract used by the dedup fast path.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	SetEx(ctx context.Context, key, value string, expiresAt time.Duration) error
	Expire(ctx context.Context, key string, expiration time.Duration) error
}
