package middleware

import (
	"net/http"
	"slices"
	"strings"
)

// corsPolicy answers cross-origin requests from a fixed set of browser origins.
type corsPolicy struct {
	origins map[string]struct{}
	methods []string
	headers string
	maxAge  string
}

func newCORSPolicy(allowedOrigins []string) *corsPolicy {
	p := &corsPolicy{
		origins: make(map[string]struct{}, len(allowedOrigins)),
		methods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		headers: "Authorization, Content-Type, Accept",
		maxAge:  "86400",
	}
	for _, o := range allowedOrigins {
		if o = normalizeOrigin(o); o != "" {
			p.origins[o] = struct{}{}
		}
	}
	return p
}

// Origins are compared without a trailing slash and case-insensitively.
func normalizeOrigin(o string) string {
	return strings.ToLower(strings.TrimSuffix(strings.TrimSpace(o), "/"))
}

func (p *corsPolicy) allows(origin string) bool {
	if origin == "" {
		return false
	}
	_, ok := p.origins[normalizeOrigin(origin)]
	return ok
}

func (p *corsPolicy) allowsMethod(method string) bool {
	return method == "" || slices.Contains(p.methods, strings.ToUpper(method))
}

// CORS returns a handler that adds CORS headers for allowed origins and
// responds to OPTIONS preflight requests with 204.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	policy := newCORSPolicy(allowedOrigins)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Add("Vary", "Origin")
		origin := r.Header.Get("Origin")
		allowed := policy.allows(origin)

		if r.Method == http.MethodOptions {
			if allowed && policy.allowsMethod(r.Header.Get("Access-Control-Request-Method")) {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Allow-Methods", strings.Join(policy.methods, ", "))
				h.Set("Access-Control-Allow-Headers", policy.headers)
				h.Set("Access-Control-Max-Age", policy.maxAge)
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		// Set before next runs so streaming handlers that flush early carry them.
		if allowed {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
		}
		next.ServeHTTP(w, r)
	})
}
