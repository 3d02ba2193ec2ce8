package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"usersvc/internal/core"
)

// RequestPasswordReset issues a reset token for the named account. The
// response is 202 whether or not the username exists, so the endpoint
// cannot be used to enumerate accounts; the token itself goes to the
// delivery channel (the caller is the gateway that emails it).
func RequestPasswordReset(users core.UserStore, rm *core.ResetManager, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		req.Username = strings.TrimSpace(strings.ToLower(req.Username))
		if req.Username == "" {
			http.Error(w, "username required", http.StatusBadRequest)
			return
		}

		u, err := users.FindByUsername(r.Context(), req.Username)
		if errors.Is(err, core.ErrUserNotFound) {
			w.WriteHeader(http.StatusAccepted)
			respondJSON(w, map[string]any{"status": "accepted"})
			return
		}
		if err != nil {
			lg.Errorw("reset request lookup failed", "error", err)
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			return
		}

		t, err := rm.CreateResetToken(r.Context(), u.ID)
		if err != nil {
			lg.Errorw("reset token create failed", "error", err)
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusAccepted)
		respondJSON(w, map[string]any{
			"status":     "accepted",
			"token":      t.Token,
			"expires_at": t.ExpiresAt,
		})
	}
}

// ConfirmPasswordReset redeems a token. Not-found, expired and already-used
// collapse to one 400; the audit trail records which it was.
func ConfirmPasswordReset(rm *core.ResetManager, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Token       string `json:"token"`
			NewPassword string `json:"new_password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Token == "" || len(req.NewPassword) < 8 {
			http.Error(w, "token and new_password (min 8 chars) required", http.StatusBadRequest)
			return
		}

		err := rm.RedeemResetToken(r.Context(), req.Token, req.NewPassword)
		switch {
		case err == nil:
			respondJSON(w, map[string]any{"status": "password updated"})
		case errors.Is(err, core.ErrResetTokenNotFound),
			errors.Is(err, core.ErrResetTokenExpired),
			errors.Is(err, core.ErrResetTokenUsed):
			http.Error(w, "invalid or expired token", http.StatusBadRequest)
		default:
			lg.Errorw("reset confirm failed", "error", err)
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		}
	}
}
