package eventtime

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"collegeevents/internal/eventtime/eventtimetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeCountdown_TwoDays(t *testing.T) {
	target := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	now := time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)

	got := ComputeCountdown(target, now)
	require.NotNil(t, got)
	assert.Equal(t, Countdown{Days: 2}, *got)
}

func TestComputeCountdown_PastOrNow(t *testing.T) {
	target := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)

	assert.Nil(t, ComputeCountdown(target, target), "exactly now has passed")
	assert.Nil(t, ComputeCountdown(target, target.Add(time.Millisecond)))
	assert.Nil(t, ComputeCountdown(target, target.Add(72*time.Hour)))
}

func TestComputeCountdown_TruncatesEachUnit(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	target := now.Add(3*24*time.Hour + 4*time.Hour + 5*time.Minute + 6*time.Second + 999*time.Millisecond)

	got := ComputeCountdown(target, now)
	require.NotNil(t, got)
	assert.Equal(t, Countdown{Days: 3, Hours: 4, Minutes: 5, Seconds: 6}, *got)

	got = ComputeCountdown(now.Add(500*time.Millisecond), now)
	require.NotNil(t, got, "sub-second remainder is still upcoming")
	assert.Equal(t, Countdown{}, *got)
}

func TestComputeCountdown_BreakdownInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 500; i++ {
		delta := time.Duration(rng.Int63n(int64(400*24*time.Hour))) + time.Millisecond
		got := ComputeCountdown(now.Add(delta), now)
		require.NotNil(t, got)
		assert.GreaterOrEqual(t, got.Days, int64(0))
		assert.True(t, got.Hours >= 0 && got.Hours < 24)
		assert.True(t, got.Minutes >= 0 && got.Minutes < 60)
		assert.True(t, got.Seconds >= 0 && got.Seconds < 60)
		total := got.Days*86400 + got.Hours*3600 + got.Minutes*60 + got.Seconds
		assert.Equal(t, delta.Milliseconds()/1000, total)
	}
}

func TestWatchCountdown_StopsWhenReached(t *testing.T) {
	now := time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)
	target := now.Add(2 * time.Second)
	clock := eventtimetest.NewClock(now,
		now.Add(time.Second),
		now.Add(2*time.Second),
		now.Add(3*time.Second),
	)

	var got []*Countdown
	WatchCountdown(context.Background(), clock, target, func(cd *Countdown) {
		got = append(got, cd)
	})

	require.Len(t, got, 3, "initial, one second left, then ended; the third tick is never consumed")
	assert.Equal(t, Countdown{Seconds: 2}, *got[0])
	assert.Equal(t, Countdown{Seconds: 1}, *got[1])
	assert.Nil(t, got[2])
	assert.Equal(t, []time.Duration{time.Second}, clock.Periods())
	assert.Equal(t, 1, clock.Stopped())
}

func TestWatchCountdown_AlreadyPassed(t *testing.T) {
	now := time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)
	clock := eventtimetest.NewClock(now, now.Add(time.Second))

	var calls int
	WatchCountdown(context.Background(), clock, now.Add(-time.Hour), func(cd *Countdown) {
		calls++
		assert.Nil(t, cd)
	})
	assert.Equal(t, 1, calls)
	assert.Empty(t, clock.Periods(), "no timer is started for a past event")
}

func TestWatchCountdown_Cancelled(t *testing.T) {
	now := time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)
	clock := eventtimetest.NewClock(now, now.Add(time.Second), now.Add(2*time.Second))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int
	WatchCountdown(ctx, clock, now.Add(time.Hour), func(cd *Countdown) { calls++ })
	assert.GreaterOrEqual(t, calls, 1)
	assert.LessOrEqual(t, calls, 3)
	assert.Equal(t, 1, clock.Stopped())
}

func TestEvery_StopsWhenCallbackDeclines(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := eventtimetest.NewClock(now, now, now, now, now)

	calls := 0
	err := Every(context.Background(), clock, 5*time.Second, func(time.Time) bool {
		calls++
		return calls < 2
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []time.Duration{5 * time.Second}, clock.Periods())
}

func TestEvery_ReturnsContextError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ticks := make(chan time.Time)
	err := Every(ctx, blockingClock{ticks: ticks}, time.Second, func(time.Time) bool { return true })
	require.ErrorIs(t, err, context.Canceled)
}

type blockingClock struct{ ticks chan time.Time }

func (c blockingClock) Now() time.Time { return time.Time{} }

func (c blockingClock) Tick(time.Duration) (<-chan time.Time, func()) { return c.ticks, func() {} }
