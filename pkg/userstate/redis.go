package userstate

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/net/context"
)

const redisKeyPrefix = "banktransferd:userstate:"

// RedisStore keeps the state of each visitor in a redis hash which expires
// after ttl without writes
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to the redis server at the given URL
func NewRedisStore(url string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Get(ctx context.Context, visitor, key string) (string, error) {
	v, err := s.client.HGet(ctx, redisKeyPrefix+visitor, key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	return v, err
}

func (s *RedisStore) Set(ctx context.Context, visitor, key, value string) error {
	k := redisKeyPrefix + visitor
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, k, key, value)
	if s.ttl > 0 {
		pipe.Expire(ctx, k, s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Delete(ctx context.Context, visitor, key string) error {
	return s.client.HDel(ctx, redisKeyPrefix+visitor, key).Err()
}
