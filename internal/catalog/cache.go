package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"collegeevents/internal/domain"

	"github.com/robfig/cron/v3"
)

// DefaultLoadTimeout bounds a single load of the collection.
const DefaultLoadTimeout = 15 * time.Second

// Loader fetches the full event collection. ok is false when the fetch failed; the
// loader has then already reported the failure and events is empty.
type Loader interface {
	Fetch(ctx context.Context) (events []*domain.Event, ok bool)
}

// Cache keeps the last successfully fetched collection until it is invalidated.
// A failed fetch is never cached: the cache stays stale and the next read retries.
type Cache struct {
	loader      Loader
	LoadTimeout time.Duration

	mu     sync.Mutex
	events []*domain.Event
	stale  bool
}

// NewCache returns an empty, stale cache backed by loader.
func NewCache(loader Loader) *Cache {
	return &Cache{loader: loader, LoadTimeout: DefaultLoadTimeout, stale: true}
}

// Events returns the cached collection, loading it first when stale. When that load
// fails it returns an empty list and leaves the cache stale.
func (c *Cache) Events(ctx context.Context) []*domain.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.stale {
		return c.events
	}
	events, ok := c.load(ctx)
	if !ok {
		return []*domain.Event{}
	}
	return events
}

// Invalidate marks the collection stale so the next read refetches it.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.stale = true
	c.mu.Unlock()
}

// Refresh reloads the collection now and reports whether it succeeded. On failure the
// cache is marked stale so the next read retries.
func (c *Cache) Refresh(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.load(ctx)
	if !ok {
		c.stale = true
	}
	return ok
}

// load runs detached from ctx's cancellation so one departing caller cannot fail the
// load for everyone waiting on the lock. Values such as the notice collector are kept.
func (c *Cache) load(ctx context.Context) ([]*domain.Event, bool) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.LoadTimeout)
	defer cancel()

	events, ok := c.loader.Fetch(ctx)
	if !ok {
		return nil, false
	}
	if events == nil {
		events = []*domain.Event{}
	}
	c.events = events
	c.stale = false
	return events, true
}

// ScheduleRefresh registers a cron job that refreshes the cache on schedule (e.g. "@every 5m").
// The caller starts and stops the returned scheduler.
func ScheduleRefresh(cache *Cache, schedule string, logger *slog.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if !cache.Refresh(context.Background()) {
			logger.Warn("event cache refresh failed")
			return
		}
		logger.Debug("event cache refreshed")
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
