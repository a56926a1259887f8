package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/felixgeelhaar/dosewise/internal/shared/infrastructure/blobstore"
)

// Blob keys of the collections kept by this package.
const (
	KeySchedules = "schedules"
	KeyMedicines = "medicines"
	KeyIntakes   = "intakes"
)

// collection is a JSON object stored under one blob key. Every mutation
// reads, modifies and writes back the whole object under the lock.
type collection[T any] struct {
	mu    sync.Mutex
	store blobstore.Store
	key   string
}

func newCollection[T any](store blobstore.Store, key string) *collection[T] {
	return &collection[T]{store: store, key: key}
}

func (c *collection[T]) load(ctx context.Context) (map[string]T, error) {
	data, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, err
	}
	items := make(map[string]T)
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.key, err)
	}
	return items, nil
}

func (c *collection[T]) read(ctx context.Context) (map[string]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

func (c *collection[T]) update(ctx context.Context, fn func(items map[string]T) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(items); err != nil {
		return err
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	return c.store.Set(ctx, c.key, data)
}
