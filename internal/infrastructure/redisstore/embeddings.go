package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const embeddingKeyPrefix = "face_embedding:"

// EmbeddingStore persists face embeddings for later reference matching.
// Entries expire; embeddings are re-captured on the next selfie proof.
type EmbeddingStore struct {
	client *redis.Client
}

func NewEmbeddingStore(client *redis.Client) *EmbeddingStore {
	return &EmbeddingStore{client: client}
}

// Get returns the stored embedding for id, or (nil, nil) when none exists.
func (s *EmbeddingStore) Get(ctx context.Context, id string) ([]float64, error) {
	raw, err := s.client.Get(ctx, embeddingKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("embedding get %s: %w", id, err)
	}
	var embedding []float64
	if err := json.Unmarshal(raw, &embedding); err != nil {
		return nil, fmt.Errorf("embedding decode %s: %w", id, err)
	}
	return embedding, nil
}

// Set stores the embedding for userID with the given TTL.
func (s *EmbeddingStore) Set(ctx context.Context, userID string, embedding []float64, ttl time.Duration) error {
	raw, err := json.Marshal(embedding)
	if err != nil {
		return fmt.Errorf("embedding encode %s: %w", userID, err)
	}
	if err := s.client.Set(ctx, embeddingKeyPrefix+userID, raw, ttl).Err(); err != nil {
		return fmt.Errorf("embedding set %s: %w", userID, err)
	}
	return nil
}
