package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/weareasocialyazilim/travelmatch/internal/domain"
)

// ResultCache memoizes verification results keyed by a hash of the image
// reference. A miss or a cache failure simply means recomputation.
type ResultCache struct {
	client *redis.Client
}

func NewResultCache(client *redis.Client) *ResultCache {
	return &ResultCache{client: client}
}

// GetResult returns the cached result for key, or (nil, nil) on a miss.
func (c *ResultCache) GetResult(ctx context.Context, key string) (*domain.VerificationResult, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}
	var result domain.VerificationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return &result, nil
}

// SetResult stores the result under key with the given TTL.
func (c *ResultCache) SetResult(ctx context.Context, key string, result *domain.VerificationResult, ttl time.Duration) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}
