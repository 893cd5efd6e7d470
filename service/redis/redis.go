package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/vivemedellin/go-vivemedellin/env"
	"github.com/vivemedellin/go-vivemedellin/service/logger"
)

func init() {
	env.RegisterValidation("REDIS_URL", "localhost:6379")
	env.RegisterValidation("REDIS_PASS", "")
}

// Logical database assignments, one concern per DB.
const (
	NotificationsDB = iota
	SessionsDB
	RateLimitersDB
	LocksDB
)

// ErrKeyNotFound wraps a redis cache miss for a specific key.
type ErrKeyNotFound struct {
	Key string
}

func (e ErrKeyNotFound) Error() string {
	return fmt.Sprintf("key %s not found", e.Key)
}

// NewClient returns a go-redis client bound to one of the logical DBs above.
func NewClient(db int) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     env.GetString("REDIS_URL"),
		Password: env.GetString("REDIS_PASS"),
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		panic(err)
	}

	return client
}

// Cache is a thin namespace over a redis DB.
type Cache struct {
	client *redis.Client
	db     int
}

// NewCache creates a Cache over the given logical DB.
func NewCache(db int) *Cache {
	return &Cache{client: NewClient(db), db: db}
}

// ClearCache flushes the cache's entire DB.
func ClearCache(db int) error {
	return NewClient(db).FlushDB(context.Background()).Err()
}

// Set stores value under key with the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	return c.client.Set(ctx, key, value, expiration).Err()
}

// Get retrieves the value under key, returning ErrKeyNotFound on a miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	bs, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrKeyNotFound{Key: key}
		}
		return nil, err
	}
	return bs, nil
}

// Delete removes key from the cache.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Exists reports whether key is present.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, key).Result()
	return n > 0, err
}

// Client exposes the underlying go-redis client for packages that need more
// than get/set (locks, rate limiters).
func (c *Cache) Client() *redis.Client {
	return c.client
}

// Close releases the underlying connection pool.
func (c *Cache) Close() {
	if err := c.client.Close(); err != nil {
		logger.For(nil).Errorf("error closing redis client: %s", err)
	}
}
