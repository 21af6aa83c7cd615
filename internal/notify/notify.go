// Package notify collects user-visible notices raised while serving a request.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"collegeevents/internal/domain"
)

type contextKey struct{}

// Collector accumulates notices for one request.
type Collector struct {
	mu      sync.Mutex
	notices []domain.Notice
}

// WithCollector returns a context carrying a fresh collector, and the collector.
func WithCollector(ctx context.Context) (context.Context, *Collector) {
	c := &Collector{}
	return context.WithValue(ctx, contextKey{}, c), c
}

// FromContext returns the collector attached to ctx, if any.
func FromContext(ctx context.Context) (*Collector, bool) {
	c, ok := ctx.Value(contextKey{}).(*Collector)
	return c, ok
}

// Add appends a notice.
func (c *Collector) Add(n domain.Notice) {
	c.mu.Lock()
	c.notices = append(c.notices, n)
	c.mu.Unlock()
}

// Notices returns a copy of the collected notices.
func (c *Collector) Notices() []domain.Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Notice(nil), c.notices...)
}

// Drain returns the notices collected under ctx. It returns nil when ctx has no collector.
func Drain(ctx context.Context) []domain.Notice {
	c, ok := FromContext(ctx)
	if !ok {
		return nil
	}
	return c.Notices()
}

type notifier struct {
	logger *slog.Logger
}

// NewNotifier returns a Notifier that records notices on the request's collector and logs them.
func NewNotifier(logger *slog.Logger) domain.Notifier {
	return &notifier{logger: logger}
}

func (n *notifier) Notify(ctx context.Context, notice domain.Notice) {
	if c, ok := FromContext(ctx); ok {
		c.Add(notice)
	}
	level := slog.LevelInfo
	if notice.Level == domain.NoticeError {
		level = slog.LevelWarn
	}
	n.logger.Log(ctx, level, "notice", "level", string(notice.Level), "message", notice.Message)
}
