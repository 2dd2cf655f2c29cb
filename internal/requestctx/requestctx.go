// Package requestctx propagates request-scoped metadata - correlation id
// and client info - through explicit context values rather than any
// thread-local mechanism, so the core stays callable from any concurrency
// model.
package requestctx

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	correlationIDKey contextKey = "correlation_id"
	clientInfoKey    contextKey = "client_info"
)

// ClientInfo is the best-effort client context captured for audit records.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// WithCorrelationID stores the correlation id in the context.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationID returns the ambient correlation id, generating a fresh one
// when the context carries none. The second return reports whether the id
// was already present.
func CorrelationID(ctx context.Context) (string, bool) {
	if id, ok := ctx.Value(correlationIDKey).(string); ok && id != "" {
		return id, true
	}
	return uuid.NewString(), false
}

// WithClientInfo stores the client info in the context.
func WithClientInfo(ctx context.Context, info ClientInfo) context.Context {
	return context.WithValue(ctx, clientInfoKey, info)
}

// Client returns the ambient client info. Missing values default to
// "unknown" for the address and empty for the user agent.
func Client(ctx context.Context) ClientInfo {
	if info, ok := ctx.Value(clientInfoKey).(ClientInfo); ok {
		if info.IPAddress == "" {
			info.IPAddress = "unknown"
		}
		return info
	}
	return ClientInfo{IPAddress: "unknown"}
}
