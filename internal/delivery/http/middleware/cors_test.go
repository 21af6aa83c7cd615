package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := CORS([]string{"https://events.college.edu/", " "}, next)

	tests := []struct {
		name          string
		method        string
		origin        string
		requestMethod string
		wantCode      int
		wantOrigin    string
		wantMethods   bool
	}{
		{
			name:          "preflight from allowed origin",
			method:        http.MethodOptions,
			origin:        "https://events.college.edu",
			requestMethod: http.MethodPost,
			wantCode:      http.StatusNoContent,
			wantOrigin:    "https://events.college.edu",
			wantMethods:   true,
		},
		{
			name:          "preflight for a method no route serves",
			method:        http.MethodOptions,
			origin:        "https://events.college.edu",
			requestMethod: http.MethodDelete,
			wantCode:      http.StatusNoContent,
		},
		{
			name:          "preflight from unknown origin",
			method:        http.MethodOptions,
			origin:        "https://evil.example",
			requestMethod: http.MethodGet,
			wantCode:      http.StatusNoContent,
		},
		{
			name:       "simple request from allowed origin",
			method:     http.MethodGet,
			origin:     "https://events.college.edu",
			wantCode:   http.StatusOK,
			wantOrigin: "https://events.college.edu",
		},
		{
			name:       "origin matches regardless of case",
			method:     http.MethodGet,
			origin:     "https://Events.College.edu",
			wantCode:   http.StatusOK,
			wantOrigin: "https://Events.College.edu",
		},
		{
			name:     "unknown origin gets no headers",
			method:   http.MethodGet,
			origin:   "https://evil.example",
			wantCode: http.StatusOK,
		},
		{
			name:     "same-origin request",
			method:   http.MethodGet,
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/events", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.requestMethod != "" {
				req.Header.Set("Access-Control-Request-Method", tt.requestMethod)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Equal(t, tt.wantOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "Origin", rr.Header().Get("Vary"))
			if tt.wantOrigin != "" {
				assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
			}
			if tt.wantMethods {
				assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
				assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), "Authorization")
			} else {
				assert.Empty(t, rr.Header().Get("Access-Control-Allow-Methods"))
			}
		})
	}
}

func TestCORS_StreamingHandlerKeepsHeaders(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		require.True(t, ok, "writer must still flush")
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte("event: tick\n\n"))
		flusher.Flush()
	})
	handler := CORS([]string{"https://events.college.edu"}, next)

	req := httptest.NewRequest(http.MethodGet, "/events/featured/stream", nil)
	req.Header.Set("Origin", "https://events.college.edu")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.True(t, rr.Flushed)
	assert.Equal(t, "https://events.college.edu", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "event: tick\n\n", rr.Body.String())
}
