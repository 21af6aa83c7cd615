package catalog

import (
	"context"
	"testing"
	"time"

	"collegeevents/internal/domain"
	"collegeevents/internal/eventtime/eventtimetest"

	"github.com/stretchr/testify/assert"
)

func TestRotator_NextWraps(t *testing.T) {
	r := NewRotator(sampleEvents())
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, "1", r.Current().ID)
	assert.Equal(t, "3", r.Next().ID)
	assert.Equal(t, "1", r.Next().ID)
	assert.Equal(t, "1", r.Current().ID)
}

func TestRotator_Empty(t *testing.T) {
	r := NewRotator([]*domain.Event{{ID: "x"}})
	assert.Nil(t, r.Current())
	assert.Nil(t, r.Next())

	clock := eventtimetest.NewClock(time.Now(), time.Now())
	called := false
	r.Run(context.Background(), clock, DefaultRotationPeriod, func(*domain.Event) { called = true })
	assert.False(t, called)
	assert.Empty(t, clock.Periods())
}

func TestRotator_Run(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := eventtimetest.NewClock(now, now.Add(5*time.Second), now.Add(10*time.Second), now.Add(15*time.Second))
	r := NewRotator(sampleEvents())

	var seen []string
	r.Run(context.Background(), clock, DefaultRotationPeriod, func(e *domain.Event) {
		seen = append(seen, e.ID)
	})

	assert.Equal(t, []string{"1", "3", "1", "3"}, seen)
	assert.Equal(t, []time.Duration{5 * time.Second}, clock.Periods())
	assert.Equal(t, 1, clock.Stopped())
}
