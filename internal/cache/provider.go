// Package cache provides short-lived caching used for webhook deduplication.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrNotFound = errors.New("key not found")

// Provider stores webhook delivery IDs so duplicate deliveries from the ERP
// can be acknowledged without reapplying them.
type Provider interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type Config struct {
	Provider              string
	RedisConnectionString string
}

func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "memory", "":
		return NewMemoryProvider()
	case "redis":
		return NewRedisProvider(cfg.RedisConnectionString)
	default:
		return nil, fmt.Errorf("unsupported cache provider: %s", cfg.Provider)
	}
}

// DeliveryKey builds the dedup key for one webhook delivery.
func DeliveryKey(source string, parts ...string) string {
	return "webhook:" + source + ":" + strings.Join(parts, ":")
}
