package middleware

import (
	"net/http"

	"collegeevents/internal/notify"
)

// Notices attaches a notice collector to every request so services can report user-facing messages.
func Notices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, _ := notify.WithCollector(r.Context())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
