package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

var Client *redis.Client

// InitRedis initializes Redis connection
func InitRedis(addr, password string, db int) error {
	Client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if err := Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Println("✓ Redis connected successfully")
	return nil
}

// Close closes the Redis connection
func Close() error {
	if Client != nil {
		return Client.Close()
	}
	return nil
}

// GetJSON loads a cached value into out. Returns false on miss, on a
// decode failure, or when Redis is not initialized, and callers fall
// back to recomputing.
func GetJSON(ctx context.Context, key string, out interface{}) bool {
	if Client == nil {
		return false
	}
	raw, err := Client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false
	}
	return true
}

// Invalidate drops cached keys after a write that changes what they
// aggregate. A miss or a Redis failure is fine, entries also expire.
func Invalidate(ctx context.Context, keys ...string) {
	if Client == nil || len(keys) == 0 {
		return
	}
	if err := Client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[Cache] Failed to invalidate %v: %v", keys, err)
	}
}

// SetJSON stores a value with a TTL. Failures are logged and swallowed:
// the cache is an optimization, never a dependency.
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if Client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("[Cache] Failed to marshal %s: %v", key, err)
		return
	}
	if err := Client.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Printf("[Cache] Failed to set %s: %v", key, err)
	}
}
