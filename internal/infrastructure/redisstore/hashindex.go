package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/weareasocialyazilim/travelmatch/internal/domain"
)

const hashSetKey = "proof_hashes"

// HashIndex is the shared, append-only set of perceptual hashes used for
// cross-user duplicate scanning. Entries are JSON-encoded set members.
type HashIndex struct {
	client *redis.Client
}

func NewHashIndex(client *redis.Client) *HashIndex {
	return &HashIndex{client: client}
}

// Add appends one hash entry to the shared set.
func (i *HashIndex) Add(ctx context.Context, entry domain.ProofHashEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("hash entry encode: %w", err)
	}
	if err := i.client.SAdd(ctx, hashSetKey, raw).Err(); err != nil {
		return fmt.Errorf("hash entry add: %w", err)
	}
	return nil
}

// All returns every stored hash entry. Malformed members are skipped; the
// index is a fraud-deterrence signal, not a system of record.
func (i *HashIndex) All(ctx context.Context) ([]domain.ProofHashEntry, error) {
	members, err := i.client.SMembers(ctx, hashSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("hash index scan: %w", err)
	}
	entries := make([]domain.ProofHashEntry, 0, len(members))
	for _, m := range members {
		var entry domain.ProofHashEntry
		if err := json.Unmarshal([]byte(m), &entry); err != nil {
			slog.Warn("skipping malformed proof hash entry", "err", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
