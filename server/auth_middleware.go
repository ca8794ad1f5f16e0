package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/carterisland/portal-auth/auth"
	"github.com/carterisland/portal-auth/users"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyUser stores the resolved identity
const ContextKeyUser ContextKey = "auth_user"

// RequireAuth is middleware that validates a Bearer token and injects the
// resolved identity into the request context. Missing and invalid tokens
// get distinct messages for observability; both are 401 to the caller.
// Fail-closed: anything unexpected while authorizing or handling, panics
// included, is reported as an authentication failure rather than a 500.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("panic during authorized request")
					writeJSON(w, http.StatusUnauthorized, failure(msgInvalidToken))
				}
			}()

			rawToken := bearerToken(r)
			if rawToken == "" {
				writeJSON(w, http.StatusUnauthorized, failure(msgNoToken))
				return
			}

			user, err := s.auth.Resolve(r.Context(), rawToken)
			if err != nil {
				if !errors.Is(err, auth.ErrUnauthorized) {
					log.Err(err).Msg("identity resolution failed")
				}
				writeJSON(w, http.StatusUnauthorized, failure(msgInvalidToken))
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next(w, r.WithContext(ctx))
		}
	}
}

// UserFromContext returns the identity attached by RequireAuth.
func UserFromContext(ctx context.Context) (*users.User, bool) {
	user, ok := ctx.Value(ContextKeyUser).(*users.User)
	return user, ok
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
