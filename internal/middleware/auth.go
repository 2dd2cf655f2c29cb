package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"studynotes/internal/auth"
	"studynotes/internal/domain/repositories"
	"studynotes/internal/httputil"
)

// Auth validates the bearer token and resolves the authenticated user from
// the store. Identity details (role, departments, enabled flag) are always
// read fresh rather than trusted from token claims.
func Auth(verifier auth.Verifier, userRepo repositories.UserRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			user, err := userRepo.GetByPublicID(r.Context(), claims.Subject)
			if err != nil {
				logger.Warn("token subject has no account", "subject", claims.Subject)
				httputil.RespondError(w, http.StatusUnauthorized, "unknown account")
				return
			}
			if !user.Enabled {
				httputil.RespondError(w, http.StatusForbidden, "account disabled")
				return
			}

			next.ServeHTTP(w, httputil.WithUser(r, user))
		})
	}
}
