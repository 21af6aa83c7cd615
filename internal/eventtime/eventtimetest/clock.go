// Package eventtimetest provides a scripted clock for tests of periodic tasks.
package eventtimetest

import (
	"sync"
	"time"
)

// Clock returns a fixed Now and delivers a scripted sequence of ticks, then closes the channel.
type Clock struct {
	mu      sync.Mutex
	now     time.Time
	ticks   []time.Time
	periods []time.Duration
	stopped int
}

// NewClock returns a Clock whose Now is now and whose Tick channel delivers ticks in order.
func NewClock(now time.Time, ticks ...time.Time) *Clock {
	return &Clock{now: now, ticks: ticks}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Tick(d time.Duration) (<-chan time.Time, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.periods = append(c.periods, d)
	ch := make(chan time.Time, len(c.ticks))
	for _, t := range c.ticks {
		ch <- t
	}
	close(ch)
	return ch, func() {
		c.mu.Lock()
		c.stopped++
		c.mu.Unlock()
	}
}

// Periods returns the durations passed to Tick.
func (c *Clock) Periods() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.periods...)
}

// Stopped returns how many tickers were stopped.
func (c *Clock) Stopped() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}
