package refcache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"scholarfeed/internal/config"
)

// Redis backs the cache with a shared redis instance so several
// processes can reuse the same reference data.
type Redis struct {
	rdb *redis.Client
}

// NewRedis creates a redis-backed cache from configuration.
func NewRedis(cfg config.RedisConfig) *Redis {
	return &Redis{rdb: NewRedisClient(cfg)}
}

// NewRedisClient creates a raw redis client from configuration.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func cacheKey(key string) string {
	return "refcache:" + key
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := r.rdb.Get(ctx, cacheKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Debug("refcache: redis get failed, treating as miss", "key", key, "error", err)
		return nil, false
	}
	return b, true
}

func (r *Redis) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := r.rdb.Set(ctx, cacheKey(key), val, ttl).Err(); err != nil {
		slog.Debug("refcache: redis set failed", "key", key, "error", err)
	}
}

// Close releases the underlying redis connection.
func (r *Redis) Close() error {
	return r.rdb.Close()
}
