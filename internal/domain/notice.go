package domain

import "context"

// NoticeLevel classifies a user-visible notice.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeInfo    NoticeLevel = "info"
	NoticeError   NoticeLevel = "error"
)

// Notice is a short message meant for the person who triggered the operation.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// Notifier reports user-visible notices for the operation running under ctx.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}
