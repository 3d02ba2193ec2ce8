package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"usersvc/internal/auth"
	"usersvc/internal/core"
	"usersvc/internal/store"
)

func ListRoles(st *store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roles, err := st.ListRoles(r.Context())
		if err != nil {
			lg.Errorw("list roles failed", "error", err)
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			return
		}
		respondJSON(w, roles)
	}
}

// AssignRole grants a role; granting a role the user already holds is a
// no-op and still answers 200.
func AssignRole(rs *core.RoleService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "id")
		var req struct {
			RoleID int `json:"role_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		assignedBy := auth.Subject(r.Context())
		err := rs.AssignRole(r.Context(), userID, req.RoleID, assignedBy)
		if writeRoleErr(w, lg, err) {
			return
		}
		respondJSON(w, map[string]any{"assigned": true})
	}
}

func RemoveRole(rs *core.RoleService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "id")
		roleID, err := strconv.Atoi(chi.URLParam(r, "roleID"))
		if err != nil {
			http.Error(w, "invalid role id", http.StatusBadRequest)
			return
		}
		if writeRoleErr(w, lg, rs.RemoveRole(r.Context(), userID, roleID)) {
			return
		}
		respondJSON(w, map[string]any{"removed": true})
	}
}

func writeRoleErr(w http.ResponseWriter, lg *zap.SugaredLogger, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, core.ErrUserNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	case errors.Is(err, core.ErrRoleNotFound):
		http.Error(w, "role not found", http.StatusNotFound)
	default:
		lg.Errorw("role mutation failed", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}
	return true
}
