package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestNewVerdictCache_NilClient(t *testing.T) {
	assert.Panics(t, func() { NewVerdictCache(nil) })
}

func TestVerdictCache_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	c := NewVerdictCache(client)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, found, err := c.GetVerdict(ctx, "address:verdict:x")
	assert.Error(t, err)
	assert.False(t, found)
	assert.Error(t, c.SetVerdict(ctx, "address:verdict:x", true, time.Minute))
	assert.Error(t, c.HealthCheck(ctx))
}

func TestNewRedisClient(t *testing.T) {
	client := NewRedisClient(&RedisConfig{Host: "cache", Port: "6380", DB: 2})
	defer client.Close()
	assert.Equal(t, "cache:6380", client.Options().Addr)
	assert.Equal(t, 2, client.Options().DB)
}
