package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/slutstation/slutstation-web/internal/models"
	appErrors "github.com/slutstation/slutstation-web/pkg/errors"
)

const (
	completedEventsKey = "events:completed"
	defaultEventTTL    = 5 * time.Minute
)

// CacheStore is the backing store of the event cache.
type CacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// EventCache holds the most recent completed-events payload for a fixed
// validity window. Freshness is judged against the injected clock, never the
// store's own expiry, so both stores behave the same.
type EventCache struct {
	store    CacheStore
	ttl      time.Duration
	now      func() time.Time
	observer CacheObserver
	logger   *zap.Logger
}

// NewEventCache constructs the cache. A nil clock uses time.Now.
func NewEventCache(store CacheStore, ttl time.Duration, observer CacheObserver, now func() time.Time, logger *zap.Logger) *EventCache {
	if ttl <= 0 {
		ttl = defaultEventTTL
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = NewMemoryCacheRepository()
	}
	return &EventCache{store: store, ttl: ttl, now: now, observer: observer, logger: logger}
}

// TTL returns the validity window.
func (c *EventCache) TTL() time.Duration {
	return c.ttl
}

// ReadIfFresh returns the cached events when an entry younger than the TTL exists.
func (c *EventCache) ReadIfFresh(ctx context.Context) ([]models.RemoteEvent, bool) {
	start := time.Now()
	var entry models.CacheEntry
	err := c.store.Get(ctx, completedEventsKey, &entry)
	hit := err == nil && c.now().Sub(entry.CapturedAt) < c.ttl
	if err != nil && !errors.Is(err, appErrors.ErrCacheMiss) {
		c.logger.Warn("event cache read failed", zap.Error(err))
	}
	if c.observer != nil {
		c.observer.RecordCacheOperation(hit, time.Since(start))
	}
	if !hit {
		return nil, false
	}
	if entry.Events == nil {
		entry.Events = []models.RemoteEvent{}
	}
	return entry.Events, true
}

// Store overwrites the cached payload and capture time.
func (c *EventCache) Store(ctx context.Context, events []models.RemoteEvent) {
	if events == nil {
		events = []models.RemoteEvent{}
	}
	entry := models.CacheEntry{Events: events, CapturedAt: c.now()}
	if err := c.store.Set(ctx, completedEventsKey, entry, c.ttl); err != nil {
		c.logger.Warn("event cache write failed", zap.Error(err))
	}
}

// Clear drops the cached payload.
func (c *EventCache) Clear(ctx context.Context) error {
	if err := c.store.Delete(ctx, completedEventsKey); err != nil {
		c.logger.Warn("event cache clear failed", zap.Error(err))
		return err
	}
	return nil
}
