package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"usersvc/internal/auth"
	"usersvc/internal/core"
)

// SessionAuth validates the bearer token against the session store and
// attaches the principal. Not-found, expired and owner-inactive all map to
// the same 401 so the response does not leak which one it was.
func SessionAuth(sm *core.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			token := strings.TrimPrefix(h, "Bearer ")
			sc, err := sm.ValidateSession(r.Context(), token)
			if err != nil {
				if errors.Is(err, core.ErrSessionNotFound) ||
					errors.Is(err, core.ErrSessionExpired) ||
					errors.Is(err, core.ErrSessionOwnerInactive) {
					http.Error(w, "invalid session", http.StatusUnauthorized)
				} else {
					http.Error(w, "service unavailable", http.StatusServiceUnavailable)
				}
				return
			}
			p := auth.Principal{
				UserID:       sc.UserID,
				Username:     sc.Username,
				Roles:        sc.Roles,
				SessionToken: token,
			}
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireRole guards admin routes; authorization is decided from the roles
// resolved at session validation time.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.FromContext(r.Context()).HasRole(role) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
