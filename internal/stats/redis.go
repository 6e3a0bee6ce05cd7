package stats

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisMirror keeps the counter in a single Redis key.
type RedisMirror struct {
	client *redis.Client
	key    string
}

var _ Mirror = (*RedisMirror)(nil)

// NewRedisMirror parses redisURL and verifies connectivity.
func NewRedisMirror(ctx context.Context, redisURL, key string) (*RedisMirror, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisMirror{client: client, key: key}, nil
}

func (m *RedisMirror) Get(ctx context.Context) (int64, error) {
	n, err := m.client.Get(ctx, m.key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading %s: %w", m.key, err)
	}
	return n, nil
}

func (m *RedisMirror) Set(ctx context.Context, count int64) error {
	if err := m.client.Set(ctx, m.key, count, 0).Err(); err != nil {
		return fmt.Errorf("writing %s: %w", m.key, err)
	}
	return nil
}

func (m *RedisMirror) Add(ctx context.Context, delta int64) (int64, error) {
	n, err := m.client.IncrBy(ctx, m.key, delta).Result()
	if err != nil {
		return 0, fmt.Errorf("incrementing %s: %w", m.key, err)
	}
	return n, nil
}

func (m *RedisMirror) Close() error {
	return m.client.Close()
}
