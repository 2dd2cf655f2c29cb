package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"studynotes/internal/httputil"
)

// Recovery converts a handler panic into a problem+json 500 so one broken
// request cannot kill the server. It sits outside RequestMeta in the chain,
// so the correlation id is read back from the response header RequestMeta
// already echoed.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					// Deliberate connection abort; the server handles it.
					panic(rec)
				}

				logger.Error("panic recovered",
					"panic", rec,
					"correlation_id", w.Header().Get(CorrelationHeader),
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
