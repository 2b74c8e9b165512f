package storage

import (
	"context"
	"errors"

	"github.com/visionapps/darkshop-core/pkg/redis"
)

// RedisStore is the volatile store backed by Redis. Values carry no TTL;
// session lifecycle is owned by the session manager, not the store.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore returns a volatile store bound to the provided client.
func NewRedisStore(client *redis.Client) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.client.Key(key))
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value string) error {
	return s.client.Set(ctx, s.client.Key(key), value, 0)
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.client.Key(key))
}
