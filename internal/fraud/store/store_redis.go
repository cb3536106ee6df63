package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	issuanceKeyPrefix = "certseal:fraud:issued:"
	perfectScoresKey  = "certseal:fraud:perfect_scores"
)

// RedisHistoryStore keeps issuance history in Redis so duplicate detection
// holds across restarts and across concurrent instances. SETNX provides the
// atomic check-and-insert; INCR provides the atomic counter.
type RedisHistoryStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisHistoryStore constructs a Redis-backed history store. A zero TTL
// keeps issuance keys forever; a positive TTL bounds memory at the cost of
// forgetting old issuances.
func NewRedisHistoryStore(client *redis.Client, ttl time.Duration) *RedisHistoryStore {
	return &RedisHistoryStore{client: client, ttl: ttl}
}

func (s *RedisHistoryStore) RecordIssuance(ctx context.Context, key string) (bool, error) {
	inserted, err := s.client.SetNX(ctx, issuanceKeyPrefix+key, time.Now().UTC().Format(time.RFC3339), s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("record issuance: %w", err)
	}
	return !inserted, nil
}

func (s *RedisHistoryStore) IncrementPerfectScores(ctx context.Context) (int64, error) {
	count, err := s.client.Incr(ctx, perfectScoresKey).Result()
	if err != nil {
		return 0, fmt.Errorf("increment perfect scores: %w", err)
	}
	return count, nil
}
