package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func NewRedisClient(cfg *RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// VerdictCache stores address validation verdicts as "1" or "0".
type VerdictCache struct {
	client redis.Cmdable
}

func NewVerdictCache(client redis.Cmdable) *VerdictCache {
	if client == nil {
		panic("redis client is required")
	}
	return &VerdictCache{client: client}
}

func (c *VerdictCache) GetVerdict(ctx context.Context, key string) (bool, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, false, nil
		}
		return false, false, fmt.Errorf("failed to get cache value: %w", err)
	}
	return val == "1", true, nil
}

func (c *VerdictCache) SetVerdict(ctx context.Context, key string, valid bool, ttl time.Duration) error {
	val := "0"
	if valid {
		val = "1"
	}
	return c.client.Set(ctx, key, val, ttl).Err()
}

// HealthCheck pings the server.
func (c *VerdictCache) HealthCheck(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}
