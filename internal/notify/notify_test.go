package notify

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"collegeevents/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_RecordsOnCollector(t *testing.T) {
	var buf bytes.Buffer
	n := NewNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

	ctx, c := WithCollector(context.Background())
	n.Notify(ctx, domain.Notice{Level: domain.NoticeError, Message: "Failed to fetch events"})
	n.Notify(ctx, domain.Notice{Level: domain.NoticeSuccess, Message: "Event created"})

	got := Drain(ctx)
	require.Len(t, got, 2)
	assert.Equal(t, "Failed to fetch events", got[0].Message)
	assert.Equal(t, domain.NoticeSuccess, got[1].Level)
	assert.Equal(t, got, c.Notices())
	assert.Contains(t, buf.String(), "Failed to fetch events")
}

func TestNotifier_WithoutCollector(t *testing.T) {
	var buf bytes.Buffer
	n := NewNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

	n.Notify(context.Background(), domain.Notice{Level: domain.NoticeError, Message: "boom"})
	assert.Nil(t, Drain(context.Background()))
	assert.Contains(t, buf.String(), "boom")
}
