package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/weareasocialyazilim/travelmatch/internal/config"
)

// NewClient creates a Redis client and verifies connectivity. The cache,
// embedding store and hash index all share one client.
func NewClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		PoolSize: 10,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
