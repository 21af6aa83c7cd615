package catalog

import (
	"context"
	"sync"
	"time"

	"collegeevents/internal/domain"
	"collegeevents/internal/eventtime"
)

// DefaultRotationPeriod is how long each featured event stays in front.
const DefaultRotationPeriod = 5 * time.Second

// Rotator cycles through featured events.
type Rotator struct {
	mu     sync.Mutex
	events []*domain.Event
	index  int
}

// NewRotator returns a rotator over the featured subset of events.
func NewRotator(events []*domain.Event) *Rotator {
	return &Rotator{events: Featured(events)}
}

// Len returns the number of featured events.
func (r *Rotator) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Current returns the event in front, or nil when nothing is featured.
func (r *Rotator) Current() *domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return nil
	}
	return r.events[r.index]
}

// Next advances to the following event, wrapping around, and returns it.
func (r *Rotator) Next() *domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return nil
	}
	r.index = (r.index + 1) % len(r.events)
	return r.events[r.index]
}

// Run reports the current event and then advances every period until ctx is done.
// It returns immediately when nothing is featured.
func (r *Rotator) Run(ctx context.Context, clock eventtime.Clock, period time.Duration, onAdvance func(*domain.Event)) {
	current := r.Current()
	if current == nil {
		return
	}
	onAdvance(current)
	_ = eventtime.Every(ctx, clock, period, func(time.Time) bool {
		onAdvance(r.Next())
		return true
	})
}
