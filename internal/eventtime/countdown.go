package eventtime

import (
	"context"
	"time"
)

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
)

// Countdown is the time left until an event, truncated at each unit.
type Countdown struct {
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
}

// ComputeCountdown returns nil once target is not after now.
func ComputeCountdown(target, now time.Time) *Countdown {
	ms := target.Sub(now).Milliseconds()
	if ms <= 0 {
		return nil
	}
	return &Countdown{
		Days:    ms / msPerDay,
		Hours:   (ms % msPerDay) / msPerHour,
		Minutes: (ms % msPerHour) / msPerMinute,
		Seconds: (ms % msPerMinute) / msPerSecond,
	}
}

// WatchCountdown emits the countdown immediately and then once per second until it
// reaches nil (which is emitted) or ctx is done.
func WatchCountdown(ctx context.Context, clock Clock, target time.Time, emit func(*Countdown)) {
	cd := ComputeCountdown(target, clock.Now())
	emit(cd)
	if cd == nil {
		return
	}
	_ = Every(ctx, clock, time.Second, func(now time.Time) bool {
		cd := ComputeCountdown(target, now)
		emit(cd)
		return cd != nil
	})
}
