package objectstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/soujanyavullam/epic-web-app/internal/apperror"
)

const redisKeyPrefix = "book:raw:"

// RedisStore keeps raw book text in Redis. Entries never expire; a book's
// source text stays retrievable for re-ingestion.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, redisKeyPrefix+key, data, 0).Err(); err != nil {
		return apperror.Wrap(apperror.KindTransientUpstream, "objectstore.redis", "failed to store object", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperror.New(apperror.KindNotFound, "objectstore.redis",
				fmt.Sprintf("object not found: %s", key))
		}
		return nil, apperror.Wrap(apperror.KindTransientUpstream, "objectstore.redis", "failed to fetch object", err)
	}
	return data, nil
}
