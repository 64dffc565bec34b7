package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	ownErrors "sgf_service/internal/errors"
)

const sourceKeyPrefix = "sgf:source:"

// SourceCache keeps the raw SGF text of stored records in Redis.
type SourceCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewSourceCache(redis *redis.Client, ttl time.Duration) *SourceCache {
	return &SourceCache{
		redis: redis,
		ttl:   ttl,
	}
}

func sourceKey(id string) string {
	return sourceKeyPrefix + id
}

func (s *SourceCache) SaveSource(ctx context.Context, id string, text string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.redis.Set(ctx, sourceKey(id), text, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache source %s: %w", id, err)
	}
	return nil
}

func (s *SourceCache) LoadSource(ctx context.Context, id string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	text, err := s.redis.Get(ctx, sourceKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ownErrors.ErrRecordNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load source %s: %w", id, err)
	}
	return text, nil
}

func (s *SourceCache) DeleteSource(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.redis.Del(ctx, sourceKey(id)).Err()
}
