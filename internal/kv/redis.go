package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// DefaultNamespace prefixes every key the Redis backend writes.
const DefaultNamespace = "Todo_KV:"

const scanBatch = 100

// Redis stores entries in a Redis keyspace under a fixed prefix, so several
// namespaces can share one database. The prefix must not contain glob
// metacharacters.
type Redis struct {
	client    redis.Cmdable
	namespace string
}

func NewRedis(client redis.Cmdable, namespace string) *Redis {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Redis{client: client, namespace: namespace}
}

func (s *Redis) key(k string) string {
	return s.namespace + k
}

func (s *Redis) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoSuchKey
	}
	if err != nil {
		return "", fmt.Errorf("redis get %q: %w", key, err)
	}
	return value, nil
}

func (s *Redis) Put(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

func (s *Redis) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

// List walks the namespace with SCAN. Like any SCAN, keys written or removed
// during the walk may or may not be reported.
func (s *Redis) List(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.namespace+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), s.namespace))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	return keys, nil
}

func (s *Redis) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
