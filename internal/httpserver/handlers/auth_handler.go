package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"usersvc/internal/auth"
	"usersvc/internal/core"
)

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates and mints a session. InvalidCredentials, AccountLocked
// and AccountInactive all answer the same generic 401 so lock state is not
// observable from the outside. The audit log keeps the distinction.
func Login(a *core.Authenticator, sm *core.SessionManager, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		req.Username = strings.TrimSpace(strings.ToLower(req.Username))
		if req.Username == "" || req.Password == "" {
			http.Error(w, "username and password required", http.StatusBadRequest)
			return
		}

		ip, ua := r.RemoteAddr, r.UserAgent()
		id, err := a.Authenticate(r.Context(), req.Username, req.Password, ip, ua)
		if err != nil {
			if core.IsAuthFailure(err) {
				http.Error(w, "invalid credentials", http.StatusUnauthorized)
				return
			}
			lg.Errorw("authenticate failed", "error", err)
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			return
		}

		sess, err := sm.CreateSession(r.Context(), id.UserID, ip, ua)
		if err != nil {
			lg.Errorw("session create failed", "error", err)
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			return
		}

		respondJSON(w, map[string]any{
			"session_token": sess.SessionToken,
			"refresh_token": sess.RefreshToken,
			"expires_at":    sess.ExpiresAt,
			"user": map[string]any{
				"id": id.UserID, "username": id.Username,
				"email": id.Email, "roles": id.Roles,
			},
		})
	}
}

// Logout revokes the current session. Idempotent: a second logout with the
// same token also answers 204.
func Logout(sm *core.SessionManager, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := auth.FromContext(r.Context()).SessionToken
		if err := sm.DeleteSession(r.Context(), token); err != nil {
			lg.Errorw("logout failed", "error", err)
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Me returns the identity behind the presented session token.
func Me(lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := auth.FromContext(r.Context())
		respondJSON(w, map[string]any{
			"id": p.UserID, "username": p.Username, "roles": p.Roles,
		})
	}
}
