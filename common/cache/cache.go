package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("key not found in cache")
	ErrInvalidValue = errors.New("invalid value for cache")
)

// Cache is a typed key/value store with per-entry TTL. Values are stored
// via encoding.BinaryMarshaler and read back via BinaryUnmarshaler.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Get(ctx context.Context, key string, value interface{}) error

	Delete(ctx context.Context, key string) error

	Close() error
}

type Options struct {
	DefaultTTL time.Duration

	Addr string

	Password string

	DB int
}

func DefaultOptions() Options {
	return Options{
		DefaultTTL: time.Hour,
	}
}
