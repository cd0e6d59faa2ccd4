// internal/assessment/store_redis.go
package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "wellness-assessment/internal/common/errors"
)

// DefaultSharedPrefix namespaces shared results in Redis.
const DefaultSharedPrefix = "assessment:result:"

// SharedResultStore is an optional cache tier shared between processes.
// Load reports a miss with (nil, false, nil).
type SharedResultStore interface {
	Load(ctx context.Context, key string) (*AssessmentScoringResult, bool, error)
	Save(ctx context.Context, key string, result *AssessmentScoringResult, ttl time.Duration) error
	Purge(ctx context.Context) error
}

// RedisResultStore keeps JSON-encoded results under prefix+key.
type RedisResultStore struct {
	client *redis.Client
	prefix string
}

func NewRedisResultStore(client *redis.Client, prefix string) *RedisResultStore {
	if prefix == "" {
		prefix = DefaultSharedPrefix
	}
	return &RedisResultStore{client: client, prefix: prefix}
}

func (s *RedisResultStore) Load(ctx context.Context, key string) (*AssessmentScoringResult, bool, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.NewCacheUnavailableError("redis get", err)
	}
	var result AssessmentScoringResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false, fmt.Errorf("decode shared result: %w", err)
	}
	return &result, true, nil
}

func (s *RedisResultStore) Save(ctx context.Context, key string, result *AssessmentScoringResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode shared result: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+key, data, ttl).Err(); err != nil {
		return apperrors.NewCacheUnavailableError("redis set", err)
	}
	return nil
}

// Purge deletes every key under the store's prefix.
func (s *RedisResultStore) Purge(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", 100).Result()
		if err != nil {
			return apperrors.NewCacheUnavailableError("redis scan", err)
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return apperrors.NewCacheUnavailableError("redis del", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
