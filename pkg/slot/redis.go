package slot

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
)

type RedisSlot struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisSlot {
	return &RedisSlot{client: client}
}

func (s *RedisSlot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Put stores value without expiry.
func (s *RedisSlot) Put(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *RedisSlot) Close() error {
	return s.client.Close()
}
