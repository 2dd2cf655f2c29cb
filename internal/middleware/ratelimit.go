package middleware

import (
	"fmt"
	"net/http"

	"studynotes/internal/httputil"
	"studynotes/internal/ratelimit"
)

// RateLimit consults the sliding-window gate before each request. Reads
// and writes count against independent per-user budgets; denials answer
// 429 with a Retry-After hint.
func RateLimit(limiter *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := httputil.GetUser(r)
			if user == nil {
				next.ServeHTTP(w, r)
				return
			}

			class := ratelimit.ClassWrite
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				class = ratelimit.ClassRead
			}

			allowed, retryAfter := limiter.Allow(user.ID, class)
			if !allowed {
				seconds := int(retryAfter.Seconds()) + 1
				w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
				httputil.RespondError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
