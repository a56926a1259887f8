package blobstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultNamespace = "dosewise"

// RedisStore keeps values as plain redis strings.
// Keys are namespaced: {namespace}:blob:{key}
type RedisStore struct {
	client    *redis.Client
	namespace string
}

// NewRedisStore connects to the redis server at url.
func NewRedisStore(ctx context.Context, url, namespace string) (*RedisStore, error) {
	if url == "" {
		return nil, fmt.Errorf("redis URL is required for the redis driver")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return NewRedisStoreWithClient(client, namespace), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, namespace string) *RedisStore {
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &RedisStore{client: client, namespace: namespace}
}

func (s *RedisStore) namespaceKey(key string) string {
	return fmt.Sprintf("%s:blob:%s", s.namespace, key)
}

// Get returns the stored value, or nil when absent.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.namespaceKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get blob %q: %w", key, err)
	}
	return val, nil
}

// Set stores the value without expiration.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.namespaceKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("set blob %q: %w", key, err)
	}
	return nil
}

// Ping verifies the server is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
