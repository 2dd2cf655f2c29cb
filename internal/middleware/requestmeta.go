package middleware

import (
	"net"
	"net/http"
	"strings"

	"studynotes/internal/requestctx"
)

// CorrelationHeader carries the caller's correlation id. Retried requests
// resend the same value, which is what makes deletion resolution replays
// recognizable downstream.
const CorrelationHeader = "X-Correlation-ID"

// RequestMeta captures the correlation id and best-effort client info into
// the request context, echoing the correlation id back on the response.
func RequestMeta() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			correlationID := r.Header.Get(CorrelationHeader)
			if correlationID == "" {
				correlationID, _ = requestctx.CorrelationID(ctx)
			}
			ctx = requestctx.WithCorrelationID(ctx, correlationID)
			w.Header().Set(CorrelationHeader, correlationID)

			ctx = requestctx.WithClientInfo(ctx, requestctx.ClientInfo{
				IPAddress: clientIP(r),
				UserAgent: r.UserAgent(),
			})

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// The header accumulates one hop per proxy; the first entry is the
		// original client.
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
