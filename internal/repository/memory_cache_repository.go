package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	appErrors "github.com/slutstation/slutstation-web/pkg/errors"
)

// MemoryCacheRepository is the in-process cache store. Values are kept as
// JSON so reads behave exactly like the Redis store. Nothing survives a restart.
type MemoryCacheRepository struct {
	mu      sync.Mutex
	entries map[string][]byte
}

// NewMemoryCacheRepository constructs an empty in-process store.
func NewMemoryCacheRepository() *MemoryCacheRepository {
	return &MemoryCacheRepository{entries: make(map[string][]byte)}
}

// Get unmarshals the stored value into dest or returns ErrCacheMiss.
func (r *MemoryCacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	r.mu.Lock()
	raw, ok := r.entries[key]
	r.mu.Unlock()
	if !ok {
		return appErrors.ErrCacheMiss
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal cache value for %s: %w", key, err)
	}
	return nil
}

// Set overwrites the stored value. The ttl is ignored; freshness is decided by the reader.
func (r *MemoryCacheRepository) Set(ctx context.Context, key string, value interface{}, _ time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value for %s: %w", key, err)
	}
	r.mu.Lock()
	r.entries[key] = payload
	r.mu.Unlock()
	return nil
}

// Delete removes the stored value.
func (r *MemoryCacheRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	delete(r.entries, key)
	r.mu.Unlock()
	return nil
}
