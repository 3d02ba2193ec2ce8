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
	"usersvc/internal/models"
	"usersvc/internal/store"
)

func ListUsers(st *store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := store.UserFilter{Search: q.Get("search")}
		if v := q.Get("is_active"); v != "" {
			b := v == "true" || v == "1"
			f.IsActive = &b
		}
		if v := q.Get("is_sales_rep"); v != "" {
			b := v == "true" || v == "1"
			f.IsSalesRep = &b
		}
		f.Limit, _ = strconv.Atoi(q.Get("limit"))
		f.Offset, _ = strconv.Atoi(q.Get("offset"))

		users, err := st.ListUsers(r.Context(), f)
		if err != nil {
			lg.Errorw("list users failed", "error", err)
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			return
		}
		respondJSON(w, users)
	}
}

func GetUser(st *store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := st.GetByID(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, core.ErrUserNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err != nil {
			lg.Errorw("get user failed", "error", err)
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			return
		}
		respondJSON(w, u)
	}
}

func CreateUser(st *store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username   string `json:"username"`
			Email      string `json:"email"`
			Password   string `json:"password"`
			IsSalesRep bool   `json:"is_sales_rep"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Username == "" || req.Email == "" || len(req.Password) < 8 {
			http.Error(w, "username, email and password (min 8 chars) required", http.StatusBadRequest)
			return
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			http.Error(w, "hash error", http.StatusInternalServerError)
			return
		}
		u := models.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
			IsActive:     true,
			IsSalesRep:   req.IsSalesRep,
		}
		if err := st.CreateUser(r.Context(), &u); err != nil {
			lg.Errorw("create user failed", "error", err)
			http.Error(w, "could not create user", http.StatusBadRequest)
			return
		}
		respondJSON(w, map[string]any{"id": u.ID, "username": u.Username})
	}
}

func UpdateUser(st *store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email      *string `json:"email"`
			IsActive   *bool   `json:"is_active"`
			IsSalesRep *bool   `json:"is_sales_rep"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		u, err := st.UpdateUser(r.Context(), chi.URLParam(r, "id"), store.UserUpdate{
			Email: req.Email, IsActive: req.IsActive, IsSalesRep: req.IsSalesRep,
		})
		if errors.Is(err, core.ErrUserNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err != nil {
			lg.Errorw("update user failed", "error", err)
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			return
		}
		respondJSON(w, u)
	}
}

// DeleteUser deactivates rather than removes; live sessions of a
// deactivated user die on their next validation.
func DeleteUser(st *store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := st.DeactivateUser(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, core.ErrUserNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err != nil {
			lg.Errorw("deactivate user failed", "error", err)
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			return
		}
		respondJSON(w, map[string]any{"deactivated": true})
	}
}
