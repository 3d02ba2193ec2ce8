package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"usersvc/internal/auth"
	"usersvc/internal/store"
)

// MyLogs returns recent activity-log rows. Regular users see their own;
// administrators can pass ?all=1 to see recent rows for everyone.
func MyLogs(st *store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		userID := auth.Subject(r.Context())
		if r.URL.Query().Get("all") == "1" && auth.FromContext(r.Context()).HasRole("Administrator") {
			userID = ""
		}
		logs, err := st.ListActivity(r.Context(), userID, limit)
		if err != nil {
			lg.Errorw("list activity failed", "error", err)
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			return
		}
		respondJSON(w, logs)
	}
}
