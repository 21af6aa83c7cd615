package eventtime

import (
	"context"
	"time"
)

// Clock is the time source for periodic tasks.
type Clock interface {
	Now() time.Time
	// Tick returns a channel that delivers the time every d, and a stop function.
	Tick(d time.Duration) (<-chan time.Time, func())
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) Tick(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Every calls fn on each tick until fn returns false or ctx is done.
// It returns ctx.Err() when cancelled and nil when fn stopped the loop.
func Every(ctx context.Context, clock Clock, period time.Duration, fn func(now time.Time) bool) error {
	ticks, stop := clock.Tick(period)
	defer stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now, ok := <-ticks:
			if !ok {
				return nil
			}
			if !fn(now) {
				return nil
			}
		}
	}
}
